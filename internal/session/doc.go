// Package session owns the operator's team identity and the victory poller that watches it.
//
// # Lifecycle
//
// A [Controller] starts unauthenticated. [Controller.Login] validates the form locally, creates the
// team through [services.GameService] and starts a [Poller] for the new session. The poller checks
// the team status on every tick of its [clock.Clock]; once the team has escaped it fetches the escape
// key and commits the won state, after which nothing polls. [Controller.Reset] clears everything and
// returns to the login view.
//
// # Epochs
//
// Every login and reset increments the controller's epoch. The poller carries the epoch it was
// started with and the controller discards any result whose epoch no longer matches, so a response
// that lands after a reset cannot bring an old session back.
//
// # Events
//
// State changes are published on [Controller.Events]. Sends never block; a slow reader misses
// events but can always call [Controller.Snapshot].
package session
