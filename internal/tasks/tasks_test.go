package tasks

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/desertthunder/hawkins/internal/services"
	"github.com/desertthunder/hawkins/internal/shared"
	tu "github.com/desertthunder/hawkins/internal/testing"
)

func newTestProber(url string) *Prober {
	api := services.NewAPIService(url, nil)
	return NewProber(api, ProbeOpts{RateLimit: 1000, NumWorkers: 3, Timeout: time.Second}, shared.NewLogger(io.Discard))
}

func drain(progress chan ProgressUpdate) []ProgressUpdate {
	var updates []ProgressUpdate
	for {
		select {
		case u := <-progress:
			updates = append(updates, u)
		default:
			return updates
		}
	}
}

func TestProbeTargets(t *testing.T) {
	targets := ProbeTargets("T1")

	if len(targets) != 7 {
		t.Fatalf("expected 7 targets, got %d", len(targets))
	}
	for _, ep := range targets {
		if !ep.ReadOnly {
			t.Errorf("%s %s should not be probed", ep.Method, ep.Path)
		}
		switch ep.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			t.Errorf("unexpected mutating method %s", ep.Method)
		}
	}
	if last := targets[len(targets)-1]; last.Path != "/team_status/T1" {
		t.Errorf("expected team status last, got %s", last.Path)
	}
}

func TestProber(t *testing.T) {
	t.Run("All Endpoints Succeed", func(t *testing.T) {
		game := tu.NewGameServer(t)
		progress := make(chan ProgressUpdate, 32)

		result, err := newTestProber(game.URL).Run(context.Background(), "T1", progress)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.SuccessCount != 7 || result.FailedCount != 0 {
			t.Errorf("expected 7 ok, got %d ok / %d failed", result.SuccessCount, result.FailedCount)
		}

		targets := ProbeTargets("T1")
		for i, res := range result.Results {
			if res.Endpoint != targets[i] {
				t.Errorf("result %d out of order: %s", i, res.Endpoint.Path)
			}
		}

		if game.Calls("HEAD status") != 1 {
			t.Errorf("expected one HEAD status request, got %d", game.Calls("HEAD status"))
		}
		if game.Calls("POST send_item") != 0 {
			t.Error("probe must not send items")
		}

		updates := drain(progress)
		if len(updates) != 9 {
			t.Fatalf("expected 9 progress updates, got %d", len(updates))
		}
		if updates[0].Phase != ProbeStart || updates[len(updates)-1].Phase != ProbeDone {
			t.Errorf("unexpected phases %s .. %s", updates[0].Phase, updates[len(updates)-1].Phase)
		}
	})

	t.Run("Failures Are Collected", func(t *testing.T) {
		game := tu.NewGameServer(t)
		game.FailKey(http.StatusForbidden)
		game.FailStatus(http.StatusBadGateway)

		result, err := newTestProber(game.URL).Run(context.Background(), "T1", nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.FailedCount != 2 {
			t.Errorf("expected 2 failures, got %d", result.FailedCount)
		}

		for _, res := range result.Results {
			if res.OK() {
				continue
			}
			var statusErr *services.StatusError
			if !errors.As(res.Error, &statusErr) {
				t.Errorf("expected StatusError for %s, got %v", res.Endpoint.Path, res.Error)
			}
		}
	})

	t.Run("Unknown Team Fails Every Endpoint", func(t *testing.T) {
		game := tu.NewGameServer(t)

		result, err := newTestProber(game.URL).Run(context.Background(), "T404", nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.FailedCount != 5 {
			t.Errorf("expected the team routes to fail for an unknown team, got %d failed", result.FailedCount)
		}
	})

	t.Run("Unreachable Server", func(t *testing.T) {
		game := tu.NewGameServer(t)
		url := game.URL
		game.Close()

		result, err := newTestProber(url).Run(context.Background(), "T1", nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.FailedCount != result.Total {
			t.Errorf("expected every endpoint to fail, got %d/%d", result.FailedCount, result.Total)
		}
	})

	t.Run("Missing Team ID", func(t *testing.T) {
		if _, err := newTestProber("http://example.com").Run(context.Background(), "", nil); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Nil Client", func(t *testing.T) {
		p := NewProber(nil, ProbeOpts{}, shared.NewLogger(io.Discard))
		if _, err := p.Run(context.Background(), "T1", nil); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("Canceled Context", func(t *testing.T) {
		game := tu.NewGameServer(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := newTestProber(game.URL).Run(ctx, "T1", nil)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if result == nil || result.SuccessCount != 0 {
			t.Error("expected partial result with no successes")
		}
	})

	t.Run("Full Progress Channel Does Not Block", func(t *testing.T) {
		game := tu.NewGameServer(t)
		progress := make(chan ProgressUpdate)

		done := make(chan struct{})
		go func() {
			defer close(done)
			newTestProber(game.URL).Run(context.Background(), "T1", progress)
		}()

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("probe blocked on progress channel")
		}
	})
}

func TestNewProberDefaults(t *testing.T) {
	p := NewProber(nil, ProbeOpts{NumWorkers: 50}, nil)

	if p.workers != 5 {
		t.Errorf("expected workers capped at 5, got %d", p.workers)
	}
	if p.timeout != 10*time.Second {
		t.Errorf("expected 10s timeout, got %v", p.timeout)
	}
	if p.limiter.Limit() != 2 {
		t.Errorf("expected 2 rps, got %v", p.limiter.Limit())
	}
}

func TestPhaseString(t *testing.T) {
	for phase, want := range map[Phase]string{ProbeStart: "probe_start", ProbeEndpoint: "probe_endpoint", ProbeDone: "probe_done", Phase(99): ""} {
		if got := phase.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}
