// Package snapshot persists periodic occupancy readings so they can be
// charted later. Room state itself is never persisted.
package snapshot

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const (
	StatusUp   = "Server Up"
	StatusDown = "Server Down"
)

type Snapshot struct {
	TakenAt  time.Time `json:"takenAt"`
	NumRooms int       `json:"numRooms"`
	NumUsers int       `json:"numUsers"`
	Status   string    `json:"status"`
}

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS occupancy_snapshots (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	taken_at TEXT NOT NULL,
	num_rooms INTEGER NOT NULL,
	num_users INTEGER NOT NULL,
	status TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_occupancy_snapshots_taken_at ON occupancy_snapshots(taken_at);
`

func (s *Store) Insert(snap Snapshot) error {
	_, err := s.db.Exec(
		"INSERT INTO occupancy_snapshots (taken_at, num_rooms, num_users, status) VALUES (?, ?, ?, ?)",
		snap.TakenAt.UTC().Format(time.RFC3339Nano), snap.NumRooms, snap.NumUsers, snap.Status,
	)
	return err
}

// Recent returns up to limit snapshots, newest first.
func (s *Store) Recent(limit int) ([]Snapshot, error) {
	rows, err := s.db.Query(
		"SELECT taken_at, num_rooms, num_users, status FROM occupancy_snapshots ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		var takenAt string
		if err := rows.Scan(&takenAt, &snap.NumRooms, &snap.NumUsers, &snap.Status); err != nil {
			return nil, err
		}
		snap.TakenAt, err = time.Parse(time.RFC3339Nano, takenAt)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
