package tasks

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hawkins/internal/models"
	"github.com/desertthunder/hawkins/internal/services"
	"github.com/desertthunder/hawkins/internal/shared"
	"golang.org/x/time/rate"
)

// APIClient defines the raw request surface the prober needs.
// This abstraction allows for easier testing and decoupling from concrete implementation.
type APIClient interface {
	Do(ctx context.Context, method, path string, body []byte) (*services.APIResponse, error)
}

// EndpointResult represents the outcome of requesting a single endpoint.
type EndpointResult struct {
	Endpoint   models.Endpoint `json:"endpoint" yaml:"endpoint"`
	StatusCode int             `json:"status_code" yaml:"status_code"`
	Duration   time.Duration   `json:"duration" yaml:"duration"`
	Data       any             `json:"data,omitempty" yaml:"data,omitempty"`
	Error      error           `json:"-" yaml:"-"`
}

// OK reports whether the endpoint answered with a 2xx status.
func (r EndpointResult) OK() bool {
	return r.Error == nil
}

// ProbeResult contains every endpoint result from a sweep, in catalog order.
type ProbeResult struct {
	TeamID       string           `json:"team_id" yaml:"team_id"`
	Results      []EndpointResult `json:"results" yaml:"results"`
	SuccessCount int              `json:"success_count" yaml:"success_count"` // Endpoints answering 2xx
	FailedCount  int              `json:"failed_count" yaml:"failed_count"`   // Transport failures and non-2xx
	Total        int              `json:"total" yaml:"total"`
}

// ProbeOpts configures a [Prober]. Zero values fall back to defaults.
type ProbeOpts struct {
	RateLimit  float64       // Requests per second (default: 2)
	NumWorkers int           // Concurrent workers (default: 2, max: 5)
	Timeout    time.Duration // Per-request timeout (default: 10s)
}

// Prober sweeps the read-only endpoints of a team's catalog.
type Prober struct {
	api     APIClient
	limiter *rate.Limiter
	workers int
	timeout time.Duration
	logger  *log.Logger
}

// NewProber creates a [Prober] that sends requests through api.
func NewProber(api APIClient, opts ProbeOpts, logger *log.Logger) *Prober {
	if opts.RateLimit <= 0 {
		opts.RateLimit = 2.0
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 2
	}
	if opts.NumWorkers > 5 {
		opts.NumWorkers = 5
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Prober{
		api:     api,
		limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		workers: opts.NumWorkers,
		timeout: opts.Timeout,
		logger:  logger,
	}
}

// ProbeTargets lists what a sweep requests for teamID: the read-only catalog entries plus team status.
func ProbeTargets(teamID string) []models.Endpoint {
	targets := []models.Endpoint{}
	for _, ep := range models.Catalog(teamID) {
		if ep.ReadOnly {
			targets = append(targets, ep)
		}
	}
	return append(targets, models.Endpoint{
		Method:      http.MethodGet,
		Path:        models.StatusPath(teamID),
		Description: "Team status",
		ReadOnly:    true,
	})
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (p *Prober) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

type probeJob struct {
	index    int
	endpoint models.Endpoint
}

type probeOutcome struct {
	index  int
	result EndpointResult
}

// Run requests every probe target for teamID.
//
// The returned error is reserved for invalid input and cancellation; failing endpoints are reported in the result.
func (p *Prober) Run(ctx context.Context, teamID string, progress chan<- ProgressUpdate) (*ProbeResult, error) {
	if p.api == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}
	if teamID == "" {
		return nil, fmt.Errorf("%w: team id", shared.ErrMissingArgument)
	}

	targets := ProbeTargets(teamID)
	result := &ProbeResult{
		TeamID:  teamID,
		Results: make([]EndpointResult, len(targets)),
		Total:   len(targets),
	}
	p.sendProgress(progress, probeStartUpdate(teamID, len(targets)))

	jobs := make(chan probeJob, len(targets))
	outcomes := make(chan probeOutcome, len(targets))

	var wg sync.WaitGroup
	for range p.workers {
		wg.Add(1)
		go p.worker(ctx, &wg, jobs, outcomes)
	}

	for i, ep := range targets {
		jobs <- probeJob{index: i, endpoint: ep}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	completed := 0
	for out := range outcomes {
		completed++
		result.Results[out.index] = out.result

		if out.result.OK() {
			result.SuccessCount++
			p.sendProgress(progress, endpointOKUpdate(completed, len(targets), out.result))
		} else {
			result.FailedCount++
			p.sendProgress(progress, endpointFailedUpdate(completed, len(targets), out.result))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("probe interrupted: %w", err)
	}

	p.logger.Info("probe finished", "team_id", teamID, "ok", result.SuccessCount, "failed", result.FailedCount)
	p.sendProgress(progress, probeDoneUpdate(result))
	return result, nil
}

func (p *Prober) worker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan probeJob, outcomes chan<- probeOutcome) {
	defer wg.Done()

	for job := range jobs {
		if err := p.limiter.Wait(ctx); err != nil {
			outcomes <- probeOutcome{index: job.index, result: EndpointResult{Endpoint: job.endpoint, Error: err}}
			continue
		}
		outcomes <- probeOutcome{index: job.index, result: p.probe(ctx, job.endpoint)}
	}
}

func (p *Prober) probe(ctx context.Context, ep models.Endpoint) EndpointResult {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	res := EndpointResult{Endpoint: ep}
	start := time.Now()
	resp, err := p.api.Do(ctx, ep.Method, ep.Path, nil)
	res.Duration = time.Since(start)

	if err != nil {
		p.logger.Debug("probe request failed", "method", ep.Method, "path", ep.Path, "err", err)
		res.Error = err
		return res
	}

	res.StatusCode = resp.StatusCode
	if resp.IsJSON {
		res.Data = resp.JSONData
	} else if len(resp.Body) > 0 {
		res.Data = string(resp.Body)
	}
	if !resp.OK() {
		res.Error = &services.StatusError{Method: ep.Method, Path: ep.Path, StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}
	return res
}
