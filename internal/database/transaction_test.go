package database

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func openSchemaDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := CreateSchema(db); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return db
}

func countGeofences(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM geofences").Scan(&n); err != nil {
		t.Fatalf("Failed to count geofences: %v", err)
	}
	return n
}

func TestCreateSchemaIsIdempotent(t *testing.T) {
	db := openSchemaDB(t)
	if err := CreateSchema(db); err != nil {
		t.Fatalf("Second CreateSchema failed: %v", err)
	}
}

func TestTransactionCommits(t *testing.T) {
	db := openSchemaDB(t)

	err := Transaction(db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO geofences
			(id, name, center_latitude, center_longitude, radius_meters, created_at)
			VALUES ('gf-1', 'Depot', 0, 0, 100, 0)`)
		return err
	})
	if err != nil {
		t.Fatalf("Transaction failed: %v", err)
	}
	if n := countGeofences(t, db); n != 1 {
		t.Errorf("geofence count after commit = %d, want 1", n)
	}
}

func TestTransactionRollsBackOnError(t *testing.T) {
	db := openSchemaDB(t)
	boom := errors.New("boom")

	err := Transaction(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO geofences
			(id, name, center_latitude, center_longitude, radius_meters, created_at)
			VALUES ('gf-1', 'Depot', 0, 0, 100, 0)`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Transaction error = %v, want the callback error", err)
	}
	if n := countGeofences(t, db); n != 0 {
		t.Errorf("geofence count after rollback = %d, want 0", n)
	}
}
