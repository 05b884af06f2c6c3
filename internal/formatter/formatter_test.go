package formatter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/hawkins/internal/models"
	"github.com/desertthunder/hawkins/internal/shared"
	"github.com/desertthunder/hawkins/internal/tasks"
	th "github.com/desertthunder/hawkins/internal/testing"
	"gopkg.in/yaml.v3"
)

func sampleMissions() []*models.Mission {
	active := models.NewMission("T1", "Ops")
	active.SetSequence(1)

	escaped := models.NewMission("T2", "Party")
	escaped.SetSequence(2)
	escaped.MarkEscaped("K2", time.Date(1983, 11, 6, 20, 0, 0, 0, time.UTC))

	return []*models.Mission{active, escaped}
}

func sampleProbe() *tasks.ProbeResult {
	return &tasks.ProbeResult{
		TeamID: "T1",
		Results: []tasks.EndpointResult{
			{Endpoint: models.Endpoint{Method: http.MethodGet, Path: "/T1/eleven"}, StatusCode: 200, Duration: 12 * time.Millisecond},
			{Endpoint: models.Endpoint{Method: http.MethodGet, Path: "/T1/key"}, StatusCode: 403, Error: errors.New("forbidden")},
		},
		SuccessCount: 1,
		FailedCount:  1,
		Total:        2,
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", Text},
		{"txt", Text},
		{"JSON", JSON},
		{"yml", YAML},
		{"md", Markdown},
		{" csv ", CSV},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil {
			t.Errorf("ParseFormat(%q) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	if _, err := ParseFormat("xml"); !errors.Is(err, shared.ErrInvalidFlag) {
		t.Errorf("expected ErrInvalidFlag, got %v", err)
	}
}

func TestFormatCatalog(t *testing.T) {
	t.Run("Text", func(t *testing.T) {
		data, err := FormatCatalog("https://lab.example/", "T1", Text)
		if err != nil {
			t.Fatalf("FormatCatalog failed: %v", err)
		}
		output := string(data)

		if !strings.Contains(output, "Base URL: https://lab.example\n") {
			t.Errorf("missing base URL, got: %s", output)
		}
		if !strings.Contains(output, "/T1/eleven") || !strings.Contains(output, "Eleven: Look around Hawkins Lab") {
			t.Errorf("missing eleven endpoint, got: %s", output)
		}
		if strings.Count(output, "\n") != 14 {
			t.Errorf("expected 14 lines, got %d", strings.Count(output, "\n"))
		}
	})

	t.Run("Placeholder Without Team", func(t *testing.T) {
		data, err := FormatCatalog("https://lab.example", "", Text)
		if err != nil {
			t.Fatalf("FormatCatalog failed: %v", err)
		}
		if !strings.Contains(string(data), "/{team_id}/hint") {
			t.Errorf("expected placeholder paths, got: %s", data)
		}
		if strings.Contains(string(data), "Team:") {
			t.Error("unexpected team line")
		}
	})

	t.Run("JSON", func(t *testing.T) {
		data, err := FormatCatalog("https://lab.example", "T1", JSON)
		if err != nil {
			t.Fatalf("FormatCatalog failed: %v", err)
		}

		var view CatalogView
		if err := json.Unmarshal(data, &view); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if view.TeamID != "T1" || len(view.Endpoints) != 11 {
			t.Errorf("unexpected view %+v", view)
		}
	})

	t.Run("YAML", func(t *testing.T) {
		data, err := FormatCatalog("https://lab.example", "T1", YAML)
		if err != nil {
			t.Fatalf("FormatCatalog failed: %v", err)
		}

		var view CatalogView
		if err := yaml.Unmarshal(data, &view); err != nil {
			t.Fatalf("invalid YAML: %v", err)
		}
		if view.BaseURL != "https://lab.example" || view.Endpoints[6].Method != http.MethodHead {
			t.Errorf("unexpected view %+v", view)
		}
	})

	t.Run("Markdown", func(t *testing.T) {
		data, err := FormatCatalog("https://lab.example", "T1", Markdown)
		if err != nil {
			t.Fatalf("FormatCatalog failed: %v", err)
		}
		output := string(data)

		if !strings.HasPrefix(output, "# Stranger APIs\n") {
			t.Errorf("missing heading, got: %s", output)
		}
		if !strings.Contains(output, "| OPTIONS | `/T1/escape` | Discover escape requirements |") {
			t.Errorf("missing options row, got: %s", output)
		}
	})

	t.Run("CSV", func(t *testing.T) {
		data, err := FormatCatalog("https://lab.example", "T1", CSV)
		if err != nil {
			t.Fatalf("FormatCatalog failed: %v", err)
		}

		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("invalid CSV: %v", err)
		}
		if len(records) != 12 {
			t.Fatalf("expected header and 11 rows, got %d", len(records))
		}
		if records[1][2] != "https://lab.example/T1/eleven" {
			t.Errorf("expected full URL, got %s", records[1][2])
		}
	})
}

func TestFormatProbe(t *testing.T) {
	t.Run("Text", func(t *testing.T) {
		data, err := FormatProbe(sampleProbe(), Text)
		if err != nil {
			t.Fatalf("FormatProbe failed: %v", err)
		}
		output := string(data)
		if !strings.Contains(output, "OK: 1  Failed: 1  Total: 2") {
			t.Errorf("missing summary, got: %s", output)
		}
		if !strings.Contains(output, "forbidden") {
			t.Errorf("missing error, got: %s", output)
		}
	})

	t.Run("JSON Carries Error Text", func(t *testing.T) {
		data, err := FormatProbe(sampleProbe(), JSON)
		if err != nil {
			t.Fatalf("FormatProbe failed: %v", err)
		}
		if !strings.Contains(string(data), `"error": "forbidden"`) {
			t.Errorf("expected error text, got: %s", data)
		}
	})

	t.Run("YAML", func(t *testing.T) {
		data, err := FormatProbe(sampleProbe(), YAML)
		if err != nil {
			t.Fatalf("FormatProbe failed: %v", err)
		}
		if !strings.Contains(string(data), "team_id: T1") || !strings.Contains(string(data), "error: forbidden") {
			t.Errorf("unexpected YAML: %s", data)
		}
	})

	t.Run("CSV", func(t *testing.T) {
		data, err := FormatProbe(sampleProbe(), CSV)
		if err != nil {
			t.Fatalf("FormatProbe failed: %v", err)
		}
		if !strings.Contains(string(data), "GET,/T1/eleven,200,12ms,") {
			t.Errorf("unexpected CSV: %s", data)
		}
	})

	t.Run("Markdown", func(t *testing.T) {
		data, err := FormatProbe(sampleProbe(), Markdown)
		if err != nil {
			t.Fatalf("FormatProbe failed: %v", err)
		}
		if !strings.Contains(string(data), "| GET | `/T1/eleven` | 200 | ok |") {
			t.Errorf("unexpected Markdown: %s", data)
		}
	})
}

func TestFormatMissions(t *testing.T) {
	t.Run("Text", func(t *testing.T) {
		data, err := FormatMissions(sampleMissions(), Text)
		if err != nil {
			t.Fatalf("FormatMissions failed: %v", err)
		}
		want := "#1 Ops (T1) active\n#2 Party (T2) escaped key=K2\n"
		if string(data) != want {
			t.Errorf("expected %q, got %q", want, data)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		data, err := FormatMissions(nil, Text)
		if err != nil {
			t.Fatalf("FormatMissions failed: %v", err)
		}
		if string(data) != "No missions recorded.\n" {
			t.Errorf("unexpected output %q", data)
		}
	})

	t.Run("JSON", func(t *testing.T) {
		data, err := FormatMissions(sampleMissions(), JSON)
		if err != nil {
			t.Fatalf("FormatMissions failed: %v", err)
		}

		var records []MissionRecord
		if err := json.Unmarshal(data, &records); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(records) != 2 || records[1].EscapeKey != "K2" || records[0].EscapedAt != nil {
			t.Errorf("unexpected records %+v", records)
		}
	})

	t.Run("YAML", func(t *testing.T) {
		data, err := FormatMissions(sampleMissions(), YAML)
		if err != nil {
			t.Fatalf("FormatMissions failed: %v", err)
		}

		var records []MissionRecord
		if err := yaml.Unmarshal(data, &records); err != nil {
			t.Fatalf("invalid YAML: %v", err)
		}
		if len(records) != 2 || records[1].Status != "escaped" {
			t.Errorf("unexpected records %+v", records)
		}
	})

	t.Run("CSV", func(t *testing.T) {
		data, err := FormatMissions(sampleMissions(), CSV)
		if err != nil {
			t.Fatalf("FormatMissions failed: %v", err)
		}
		if !strings.Contains(string(data), "2,T2,Party,escaped,K2,") || !strings.Contains(string(data), "1983-11-06T20:00:00Z") {
			t.Errorf("unexpected CSV: %s", data)
		}
	})

	t.Run("Markdown", func(t *testing.T) {
		data, err := FormatMissions(sampleMissions(), Markdown)
		if err != nil {
			t.Fatalf("FormatMissions failed: %v", err)
		}
		if !strings.Contains(string(data), "| 2 | Party | `T2` | escaped | K2 |") {
			t.Errorf("unexpected Markdown: %s", data)
		}
	})
}

func TestWriteExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "missions.json")

	if err := WriteExport(path, []byte("[]")); err != nil {
		t.Fatalf("WriteExport failed: %v", err)
	}
	th.AssertFileExists(t, path)

	if got := th.MustReadFile(t, path); got != "[]" {
		t.Errorf("expected [], got %s", got)
	}
}
