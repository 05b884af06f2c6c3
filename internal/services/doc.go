// Package services implements the HTTP clients for the remote exercise API.
//
// # Raw Client
//
// [APIService] issues requests against the configured base URL and returns an [APIResponse] holding the status, headers,
// body and (when the body parses) the decoded JSON. Every request carries a User-Agent and a fresh X-Request-ID.
// The `api` and `probe` commands use it directly to exercise the endpoint catalog.
//
// # Game Client
//
// [HawkinsService] implements [GameService], the three calls the session core depends on:
//   - POST /create_team            {team_name}            -> {team_id, team_name}
//   - GET  /team_status/{team_id}                         -> {escaped, ...}
//   - GET  /{team_id}/key                                 -> {escape_key}
//
// # Error Handling
//
// Transport failures are returned as wrapped errors from the http client ("request failed: ...").
// Non-2xx answers become a [*StatusError], which unwraps to [shared.ErrAPIRequest].
// Callers decide what each means: login maps both to [shared.ErrConnectionFailed]; the poller treats both as transient.
package services
