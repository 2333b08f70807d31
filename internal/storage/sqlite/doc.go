// Package sqlite contains the SQLite stores for benchmark runs and grid
// snapshots. The schema is owned by internal/db migrations.
package sqlite
