// Package tasks runs operator-side sweeps over the exercise API with real-time progress reporting.
//
// # Probe
//
// [Prober.Run] requests every read-only endpoint in the team's catalog plus the team status route:
//   - Requests go through a small worker pool gated by a shared [rate.Limiter]
//   - Per-endpoint failures are collected in the result, never returned as the error
//   - Results come back in catalog order regardless of completion order
//
// # Progress Reporting
//
// The [ProgressUpdate] struct carries phase, step counters and a message for CLI/UI display.
// Updates use select with default so a slow or absent reader never blocks a sweep.
package tasks
