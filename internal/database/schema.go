package database

import (
	"database/sql"
	"fmt"
)

// schema statements, executed in order. Kept inline so a single binary can
// bootstrap an empty database without shipping migration files.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS location_events (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		subject_id   TEXT NOT NULL,
		latitude     REAL NOT NULL,
		longitude    REAL NOT NULL,
		accuracy_m   REAL,
		altitude_m   REAL,
		speed_mps    REAL,
		heading_deg  REAL,
		battery_pct  REAL,
		connectivity TEXT NOT NULL DEFAULT 'online',
		task_id      TEXT,
		recorded_at  INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_location_events_subject_time
		ON location_events(subject_id, recorded_at, id)`,

	`CREATE TABLE IF NOT EXISTS geofences (
		id               TEXT PRIMARY KEY,
		name             TEXT NOT NULL,
		center_latitude  REAL NOT NULL,
		center_longitude REAL NOT NULL,
		radius_meters    REAL NOT NULL,
		is_active        INTEGER NOT NULL DEFAULT 1,
		created_by       TEXT NOT NULL DEFAULT '',
		created_at       INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_geofences_active ON geofences(is_active)`,

	`CREATE TABLE IF NOT EXISTS task_location_requirements (
		id                 INTEGER PRIMARY KEY AUTOINCREMENT,
		task_id            TEXT NOT NULL,
		geofence_id        TEXT,
		latitude           REAL,
		longitude          REAL,
		radius_meters      REAL NOT NULL DEFAULT 0,
		arrival_required   INTEGER NOT NULL DEFAULT 1,
		departure_required INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_task_requirements_task
		ON task_location_requirements(task_id)`,

	`CREATE TABLE IF NOT EXISTS geofence_transitions (
		id          TEXT PRIMARY KEY,
		subject_id  TEXT NOT NULL,
		geofence_id TEXT NOT NULL,
		event_type  TEXT NOT NULL,
		latitude    REAL NOT NULL,
		longitude   REAL NOT NULL,
		recorded_at INTEGER NOT NULL,
		created_at  INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transitions_subject_time
		ON geofence_transitions(subject_id, recorded_at)`,
}

// CreateSchema creates all tables and indexes if they do not exist. The
// statements run in one transaction so a failed bootstrap leaves no
// partial schema behind.
func CreateSchema(db *sql.DB) error {
	return Transaction(db, func(tx *sql.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.Exec(stmt); err != nil {
				return fmt.Errorf("failed to apply schema statement: %w", err)
			}
		}
		return nil
	})
}
