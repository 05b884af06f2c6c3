// package formatter renders the endpoint catalog, probe results and mission history in the output formats the CLI offers
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/hawkins/internal/models"
	"github.com/desertthunder/hawkins/internal/shared"
	"github.com/desertthunder/hawkins/internal/tasks"
	"gopkg.in/yaml.v3"
)

// Format names an output encoding.
type Format string

const (
	Text     Format = "text"
	JSON     Format = "json"
	YAML     Format = "yaml"
	Markdown Format = "markdown"
	CSV      Format = "csv"
)

// Formats lists every supported [Format].
var Formats = []Format{Text, JSON, YAML, Markdown, CSV}

// ParseFormat resolves a --format value. Empty means [Text]; "md" and "yml" are accepted aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text", "txt":
		return Text, nil
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "markdown", "md":
		return Markdown, nil
	case "csv":
		return CSV, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, name)
	}
}

// CatalogView is the serializable form of the endpoint catalog.
type CatalogView struct {
	BaseURL   string            `json:"base_url" yaml:"base_url"`
	TeamID    string            `json:"team_id,omitempty" yaml:"team_id,omitempty"`
	Endpoints []models.Endpoint `json:"endpoints" yaml:"endpoints"`
}

// FormatCatalog renders the catalog for teamID against baseURL.
func FormatCatalog(baseURL, teamID string, format Format) ([]byte, error) {
	view := CatalogView{BaseURL: strings.TrimRight(baseURL, "/"), TeamID: teamID, Endpoints: models.Catalog(teamID)}

	switch format {
	case JSON:
		return shared.MarshalJSON(view, true)
	case YAML:
		return marshalYAML(view)
	case Markdown:
		return catalogToMarkdown(view), nil
	case CSV:
		rows := [][]string{{"Method", "Path", "URL", "Description"}}
		for _, ep := range view.Endpoints {
			rows = append(rows, []string{ep.Method, ep.Path, ep.URL(view.BaseURL), ep.Description})
		}
		return writeCSV(rows)
	default:
		return catalogToText(view), nil
	}
}

func catalogToText(view CatalogView) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Base URL: %s\n", view.BaseURL))
	if view.TeamID != "" {
		buf.WriteString(fmt.Sprintf("Team: %s\n", view.TeamID))
	}
	buf.WriteString("\n")

	for _, ep := range view.Endpoints {
		buf.WriteString(fmt.Sprintf("%-8s %-28s %s\n", ep.Method, ep.Path, ep.Description))
	}
	return buf.Bytes()
}

func catalogToMarkdown(view CatalogView) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Stranger APIs\n\n")
	buf.WriteString(fmt.Sprintf("**Base URL**: `%s`\n\n", view.BaseURL))
	if view.TeamID != "" {
		buf.WriteString(fmt.Sprintf("**Team**: `%s`\n\n", view.TeamID))
	}

	buf.WriteString("| Method | Path | Description |\n")
	buf.WriteString("| --- | --- | --- |\n")
	for _, ep := range view.Endpoints {
		buf.WriteString(fmt.Sprintf("| %s | `%s` | %s |\n", ep.Method, ep.Path, ep.Description))
	}
	return buf.Bytes()
}

// FormatProbe renders a probe sweep.
func FormatProbe(result *tasks.ProbeResult, format Format) ([]byte, error) {
	switch format {
	case JSON:
		return shared.MarshalJSON(probeView(result), true)
	case YAML:
		return marshalYAML(probeView(result))
	case CSV:
		rows := [][]string{{"Method", "Path", "Status", "Duration", "Error"}}
		for _, res := range result.Results {
			rows = append(rows, []string{
				res.Endpoint.Method,
				res.Endpoint.Path,
				strconv.Itoa(res.StatusCode),
				res.Duration.Round(time.Millisecond).String(),
				errorString(res.Error),
			})
		}
		return writeCSV(rows)
	case Markdown:
		var buf bytes.Buffer
		buf.WriteString(fmt.Sprintf("# Probe: %s\n\n", result.TeamID))
		buf.WriteString(fmt.Sprintf("**OK**: %d / %d\n\n", result.SuccessCount, result.Total))
		buf.WriteString("| Method | Path | Status | Result |\n")
		buf.WriteString("| --- | --- | --- | --- |\n")
		for _, res := range result.Results {
			buf.WriteString(fmt.Sprintf("| %s | `%s` | %d | %s |\n", res.Endpoint.Method, res.Endpoint.Path, res.StatusCode, resultLabel(res)))
		}
		return buf.Bytes(), nil
	default:
		var buf bytes.Buffer
		buf.WriteString(fmt.Sprintf("Team: %s\n", result.TeamID))
		buf.WriteString(fmt.Sprintf("OK: %d  Failed: %d  Total: %d\n\n", result.SuccessCount, result.FailedCount, result.Total))
		for _, res := range result.Results {
			buf.WriteString(fmt.Sprintf("%-8s %-24s %3d  %s\n", res.Endpoint.Method, res.Endpoint.Path, res.StatusCode, resultLabel(res)))
		}
		return buf.Bytes(), nil
	}
}

type probeResultView struct {
	tasks.EndpointResult `yaml:",inline"`
	Error                string `json:"error,omitempty" yaml:"error,omitempty"`
}

type probeSummaryView struct {
	TeamID       string            `json:"team_id" yaml:"team_id"`
	SuccessCount int               `json:"success_count" yaml:"success_count"`
	FailedCount  int               `json:"failed_count" yaml:"failed_count"`
	Total        int               `json:"total" yaml:"total"`
	Results      []probeResultView `json:"results" yaml:"results"`
}

func probeView(result *tasks.ProbeResult) probeSummaryView {
	view := probeSummaryView{
		TeamID:       result.TeamID,
		SuccessCount: result.SuccessCount,
		FailedCount:  result.FailedCount,
		Total:        result.Total,
		Results:      make([]probeResultView, len(result.Results)),
	}
	for i, res := range result.Results {
		view.Results[i] = probeResultView{EndpointResult: res, Error: errorString(res.Error)}
	}
	return view
}

func resultLabel(res tasks.EndpointResult) string {
	if res.OK() {
		return "ok"
	}
	return errorString(res.Error)
}

// MissionRecord is the serializable form of a [models.Mission].
type MissionRecord struct {
	Sequence  int        `json:"sequence" yaml:"sequence"`
	TeamID    string     `json:"team_id" yaml:"team_id"`
	TeamName  string     `json:"team_name" yaml:"team_name"`
	Status    string     `json:"status" yaml:"status"`
	EscapeKey string     `json:"escape_key,omitempty" yaml:"escape_key,omitempty"`
	CreatedAt time.Time  `json:"created_at" yaml:"created_at"`
	EscapedAt *time.Time `json:"escaped_at,omitempty" yaml:"escaped_at,omitempty"`
}

// NewMissionRecord copies the fields of m for output.
func NewMissionRecord(m *models.Mission) MissionRecord {
	return MissionRecord{
		Sequence:  m.Sequence(),
		TeamID:    m.TeamID(),
		TeamName:  m.TeamName(),
		Status:    m.Status(),
		EscapeKey: m.EscapeKey(),
		CreatedAt: m.CreatedAt(),
		EscapedAt: m.EscapedAt(),
	}
}

// FormatMissions renders mission history.
func FormatMissions(missions []*models.Mission, format Format) ([]byte, error) {
	records := make([]MissionRecord, len(missions))
	for i, m := range missions {
		records[i] = NewMissionRecord(m)
	}

	switch format {
	case JSON:
		return shared.MarshalJSON(records, true)
	case YAML:
		return marshalYAML(records)
	case CSV:
		rows := [][]string{{"Sequence", "TeamID", "TeamName", "Status", "EscapeKey", "CreatedAt", "EscapedAt"}}
		for _, r := range records {
			rows = append(rows, []string{
				strconv.Itoa(r.Sequence),
				r.TeamID,
				r.TeamName,
				r.Status,
				r.EscapeKey,
				r.CreatedAt.Format(time.RFC3339),
				timeString(r.EscapedAt),
			})
		}
		return writeCSV(rows)
	case Markdown:
		var buf bytes.Buffer
		buf.WriteString("# Missions\n\n")
		buf.WriteString("| # | Team | ID | Status | Escape Key |\n")
		buf.WriteString("| --- | --- | --- | --- | --- |\n")
		for _, r := range records {
			buf.WriteString(fmt.Sprintf("| %d | %s | `%s` | %s | %s |\n", r.Sequence, r.TeamName, r.TeamID, r.Status, r.EscapeKey))
		}
		return buf.Bytes(), nil
	default:
		if len(records) == 0 {
			return []byte("No missions recorded.\n"), nil
		}
		var buf bytes.Buffer
		for _, r := range records {
			line := fmt.Sprintf("#%d %s (%s) %s", r.Sequence, r.TeamName, r.TeamID, r.Status)
			if r.EscapeKey != "" {
				line += " key=" + r.EscapeKey
			}
			buf.WriteString(line + "\n")
		}
		return buf.Bytes(), nil
	}
}

// WriteExport writes data to path, creating parent directories as needed.
func WriteExport(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func marshalYAML(v any) ([]byte, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return data, nil
}

func writeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}
	return buf.Bytes(), nil
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func timeString(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
