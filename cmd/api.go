package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/hawkins/internal/services"
	"github.com/desertthunder/hawkins/internal/shared"
	"github.com/urfave/cli/v3"
)

var apiMethods = []string{
	http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
	http.MethodDelete, http.MethodHead, http.MethodOptions,
}

// APIRequest sends a single request to the exercise API and prints the response.
//
// Either method and path arguments or a --curl-file is required.
func (r *Runner) APIRequest(ctx context.Context, cmd *cli.Command) error {
	method, path, body, err := r.apiRequestArgs(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("API request", "method", method, "path", path)

	ctx, cancel := context.WithTimeout(ctx, r.config.Remote.RequestTimeout.Duration)
	defer cancel()

	resp, err := r.api.Do(ctx, method, path, body)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.logger.Debug("API response", "status", resp.StatusCode, "request_id", resp.RequestID)

	if !resp.OK() {
		return &services.StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}

	if method == http.MethodHead {
		return r.writePlain("%d %s\n", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, cmd.Bool("pretty"))
	}
	return r.writeBytes(resp.Body)
}

func (r *Runner) apiRequestArgs(cmd *cli.Command) (method, path string, body []byte, err error) {
	if curlFile := cmd.String("curl-file"); curlFile != "" {
		req, err := shared.ParseCurlFile(curlFile)
		if err != nil {
			return "", "", nil, fmt.Errorf("failed to parse cURL file: %w", err)
		}
		path, err := r.relativePath(req.URL)
		if err != nil {
			return "", "", nil, err
		}
		if req.Body != "" {
			body = []byte(req.Body)
		}
		return req.Method, path, body, nil
	}

	method = strings.ToUpper(cmd.StringArg("method"))
	path = cmd.StringArg("path")
	if method == "" || path == "" {
		return "", "", nil, fmt.Errorf("%w: method and path are required", shared.ErrMissingArgument)
	}
	if !isAPIMethod(method) {
		return "", "", nil, fmt.Errorf("%w: unsupported method %q", shared.ErrInvalidArgument, method)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	if data := cmd.String("data"); data != "" {
		var jsonTest any
		if err := json.Unmarshal([]byte(data), &jsonTest); err != nil {
			return "", "", nil, fmt.Errorf("%w: data is not valid JSON: %v", shared.ErrInvalidInput, err)
		}
		body = []byte(data)
	}

	return method, path, body, nil
}

// relativePath strips the configured base URL from a full URL, keeping the query string.
func (r *Runner) relativePath(rawURL string) (string, error) {
	if rest, ok := strings.CutPrefix(rawURL, r.api.BaseURL()); ok {
		if rest == "" {
			return "/", nil
		}
		return rest, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: invalid URL %q: %v", shared.ErrInvalidInput, rawURL, err)
	}
	r.logger.Warn("cURL target is not the configured base URL, sending path only", "url", rawURL, "base_url", r.api.BaseURL())

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return path, nil
}

func isAPIMethod(method string) bool {
	for _, m := range apiMethods {
		if m == method {
			return true
		}
	}
	return false
}
