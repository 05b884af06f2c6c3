// Package repositories implements SQLite persistence for missions.
//
// [MissionRepository] implements [models.Repository] for [models.Mission], adds lookups by team id,
// and satisfies the session package's mission recorder so created teams and their escape keys are
// kept after the console resets.
//
// Records are soft deleted via deleted_at and excluded from queries by default.
// Sequence numbers give missions a stable, human-readable order (mission #3) independent of UUIDs.
// The [NextSequence] function atomically increments per-table counters stored in dedicated sequence tables.
package repositories
