package models

import (
	"net/http"
	"strings"

	"github.com/desertthunder/hawkins/internal/shared"
)

// TeamIDPlaceholder stands in for the team id before a session exists.
const TeamIDPlaceholder = "{team_id}"

// Endpoint is one documented route of the exercise API.
//
// ReadOnly endpoints take no body and do not change game state.
type Endpoint struct {
	Method      string `json:"method" yaml:"method"`
	Path        string `json:"path" yaml:"path"`
	Description string `json:"description" yaml:"description"`
	ReadOnly    bool   `json:"read_only" yaml:"read_only"`
}

// URL joins the endpoint path onto baseURL.
func (e Endpoint) URL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + e.Path
}

// SampleBody is a starting payload for endpoints that take a body, empty otherwise.
func (e Endpoint) SampleBody() string {
	switch e.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return `{"friend":"Character_Name"}`
	default:
		return ""
	}
}

// Curl renders a ready-to-paste cURL command for the endpoint against baseURL.
func (e Endpoint) Curl(baseURL string) string {
	return shared.BuildCurlCommand(shared.CurlRequest{Method: e.Method, URL: e.URL(baseURL), Body: e.SampleBody()})
}

type endpointTemplate struct {
	method, suffix, description string
	readOnly                    bool
}

var catalog = []endpointTemplate{
	{http.MethodGet, "eleven", "Eleven: Look around Hawkins Lab", true},
	{http.MethodGet, "mike", "Mike: Look around Upside Down", true},
	{http.MethodPost, "send_item", "Send item across dimensions", false},
	{http.MethodPut, "use_item", "Combine or use items", false},
	{http.MethodPatch, "fix", "Fix or adjust equipment", false},
	{http.MethodDelete, "remove", "Remove obstacle / activate panel", false},
	{http.MethodHead, "status", "Quick dimension sync check", true},
	{http.MethodOptions, "escape", "Discover escape requirements", true},
	{http.MethodPost, "escape", "Attempt to escape", false},
	{http.MethodGet, "key", "Retrieve escape key", true},
	{http.MethodGet, "hint", "Get context-aware hint", true},
}

// Catalog returns the documented endpoints for teamID, using [TeamIDPlaceholder] when teamID is empty.
func Catalog(teamID string) []Endpoint {
	if teamID == "" {
		teamID = TeamIDPlaceholder
	}

	endpoints := make([]Endpoint, len(catalog))
	for i, tmpl := range catalog {
		endpoints[i] = Endpoint{
			Method:      tmpl.method,
			Path:        "/" + teamID + "/" + tmpl.suffix,
			Description: tmpl.description,
			ReadOnly:    tmpl.readOnly,
		}
	}
	return endpoints
}

// StatusPath is the path polled for completion.
func StatusPath(teamID string) string {
	return "/team_status/" + teamID
}

// KeyPath is the path of the escape key.
func KeyPath(teamID string) string {
	return "/" + teamID + "/key"
}
