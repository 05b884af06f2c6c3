// Utilities for rendering and parsing cURL commands.
package shared

import (
	"fmt"
	"net/http"
	"os"
	"regexp"
	"sort"
	"strings"
)

var (
	curlMethodRegex = regexp.MustCompile(`(?:-X|--request)\s+'?"?([A-Za-z]+)'?"?`)
	curlHeaderRegex = regexp.MustCompile(`(?:-H|--header)\s+'([^']+)'|(?:-H|--header)\s+"([^"]+)"`)
	curlDataRegex   = regexp.MustCompile(`(?:-d|--data|--data-raw)\s+'([^']*)'|(?:-d|--data|--data-raw)\s+"((?:[^"\\]|\\.)*)"`)
	curlURLRegex    = regexp.MustCompile(`'?"?(https?://[^\s'"]+)'?"?`)
	curlHeadRegex   = regexp.MustCompile(`(?:^|\s)(?:-I|--head)(?:\s|$)`)
)

// CurlRequest is an HTTP request described by (or rendered as) a cURL command.
type CurlRequest struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    string
}

// BuildCurlCommand renders req as a single-line cURL command suitable for a shell.
//
// Headers are emitted in sorted order so the output is stable.
func BuildCurlCommand(req CurlRequest) string {
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	parts := []string{"curl"}
	switch method {
	case http.MethodGet:
	case http.MethodHead:
		parts = append(parts, "-I")
	default:
		parts = append(parts, "-X", method)
	}
	parts = append(parts, shellQuote(req.URL))

	keys := make([]string, 0, len(req.Headers))
	for k := range req.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, "-H", shellQuote(fmt.Sprintf("%s: %s", k, req.Headers[k])))
	}

	if req.Body != "" {
		if _, ok := req.Headers["Content-Type"]; !ok {
			parts = append(parts, "-H", shellQuote("Content-Type: application/json"))
		}
		parts = append(parts, "-d", shellQuote(req.Body))
	}

	return strings.Join(parts, " ")
}

// ParseCurlFile reads a .sh file containing a cURL command and parses it.
func ParseCurlFile(filepath string) (*CurlRequest, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}

	return ParseCurlCommand(content)
}

// ParseCurlCommand parses a cURL command string into a [CurlRequest].
//
// The method defaults to GET, or POST when a body is present without -X.
func ParseCurlCommand(data []byte) (*CurlRequest, error) {
	curlCmd := string(data)
	curlCmd = strings.ReplaceAll(curlCmd, "\\\n", " ")
	curlCmd = strings.TrimSpace(curlCmd)

	if !strings.HasPrefix(curlCmd, "curl") {
		return nil, fmt.Errorf("%w: not a curl command", ErrInvalidInput)
	}

	req := &CurlRequest{Headers: make(map[string]string)}

	for _, match := range curlHeaderRegex.FindAllStringSubmatch(curlCmd, -1) {
		line := match[1]
		if line == "" {
			line = match[2]
		}
		if key, value, ok := strings.Cut(line, ":"); ok {
			req.Headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}
	}

	if m := curlDataRegex.FindStringSubmatch(curlCmd); m != nil {
		if m[1] != "" {
			req.Body = m[1]
		} else {
			req.Body = strings.ReplaceAll(m[2], `\"`, `"`)
		}
	}

	// strip header and body arguments so URLs inside them are not mistaken for the target
	stripped := curlHeaderRegex.ReplaceAllString(curlCmd, "")
	stripped = curlDataRegex.ReplaceAllString(stripped, "")

	if m := curlURLRegex.FindStringSubmatch(stripped); m != nil {
		req.URL = m[1]
	}
	if req.URL == "" {
		return nil, fmt.Errorf("%w: no URL found in curl command", ErrInvalidInput)
	}

	switch {
	case curlMethodRegex.MatchString(stripped):
		req.Method = strings.ToUpper(curlMethodRegex.FindStringSubmatch(stripped)[1])
	case curlHeadRegex.MatchString(stripped):
		req.Method = http.MethodHead
	case req.Body != "":
		req.Method = http.MethodPost
	default:
		req.Method = http.MethodGet
	}

	return req, nil
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
