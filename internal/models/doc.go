// Package models defines domain entities and persistence interfaces for the hawkins operator console.
//
// The package contains three categories of types:
//
// 1. Session state owned by the session controller
//   - [Session] : the authenticated team identity
//   - [VictoryState] : whether the team escaped, and its escape key
//   - [Snapshot] : a consistent copy of both, tagged with the session epoch
//
// 2. Data Transfer Objects for the remote exercise API
//   - [Team] : response of POST /create_team
//   - [TeamStatus] : response of GET /team_status/{team_id}
//   - [EscapeKey] : response of GET /{team_id}/key
//   - [Endpoint] : an entry in the documented endpoint catalog
//
// 3. Persistent Entities
//   - [Mission] : a team created through the console, with its eventual escape key
//
// Persistent entities implement the Model interface providing ID, timestamps, and validation.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
