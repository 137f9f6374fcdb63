package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Repository handles all database operations. Writes are serialized behind
// a single mutex so a cleanup or registration invoked mid-cycle cannot race
// with a cursor commit for the same player.
type Repository struct {
	db *sql.DB
	mu sync.Mutex
}

// NewRepository creates a new repository with SQLite.
func NewRepository(dbPath string) (*Repository, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	repo := &Repository{db: db}

	if err := repo.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repo, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate creates the database schema.
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS summoners (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			riot_id VARCHAR(50) NOT NULL UNIQUE COLLATE NOCASE,
			puuid VARCHAR(100) NOT NULL UNIQUE,
			notify_target VARCHAR(50) NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS match_cursors (
			puuid VARCHAR(100) PRIMARY KEY,
			last_match_id VARCHAR(50) NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS rank_snapshots (
			puuid VARCHAR(100) NOT NULL,
			queue_type VARCHAR(20) NOT NULL,
			tier VARCHAR(12) NOT NULL,
			division VARCHAR(4) NOT NULL,
			league_points INTEGER NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (puuid, queue_type)
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key VARCHAR(50) PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_summoners_puuid ON summoners(puuid)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// Summoner operations

// UpsertSummoner inserts a summoner, or updates notify_target when the
// riot_id is already tracked. Matching is case-insensitive. A player
// re-tracked under a new riot_id (name change) replaces their old row;
// the cursor and snapshots are keyed by puuid and survive the rename.
func (r *Repository) UpsertSummoner(s *Summoner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(
		`DELETE FROM summoners WHERE puuid = ? AND riot_id <> ?`,
		s.PUUID, s.RiotID,
	)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(
		`INSERT INTO summoners (riot_id, puuid, notify_target) VALUES (?, ?, ?)
		 ON CONFLICT(riot_id) DO UPDATE SET
			puuid = excluded.puuid,
			notify_target = excluded.notify_target,
			updated_at = CURRENT_TIMESTAMP`,
		s.RiotID, s.PUUID, s.NotifyTarget,
	)
	if err != nil {
		return err
	}

	return r.db.QueryRow(`SELECT id FROM summoners WHERE riot_id = ?`, s.RiotID).Scan(&s.ID)
}

// GetSummonerByRiotID finds a summoner by Riot ID, case-insensitively.
// Returns nil when not tracked.
func (r *Repository) GetSummonerByRiotID(riotID string) (*Summoner, error) {
	s := &Summoner{}
	err := r.db.QueryRow(
		`SELECT id, riot_id, puuid, notify_target, created_at, updated_at
		 FROM summoners WHERE riot_id = ?`,
		riotID,
	).Scan(&s.ID, &s.RiotID, &s.PUUID, &s.NotifyTarget, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListSummoners returns all tracked summoners in insertion order.
func (r *Repository) ListSummoners() ([]*Summoner, error) {
	rows, err := r.db.Query(
		`SELECT id, riot_id, puuid, notify_target, created_at, updated_at
		 FROM summoners ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summoners []*Summoner
	for rows.Next() {
		s := &Summoner{}
		if err := rows.Scan(&s.ID, &s.RiotID, &s.PUUID, &s.NotifyTarget, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		summoners = append(summoners, s)
	}

	return summoners, rows.Err()
}

// DeleteSummoner removes a summoner and its cursor and rank snapshots.
// Returns false when the riot_id was not tracked.
func (r *Repository) DeleteSummoner(riotID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var puuid string
	err := r.db.QueryRow(`SELECT puuid FROM summoners WHERE riot_id = ?`, riotID).Scan(&puuid)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if _, err := r.db.Exec(`DELETE FROM summoners WHERE riot_id = ?`, riotID); err != nil {
		return false, err
	}
	if _, err := r.db.Exec(`DELETE FROM match_cursors WHERE puuid = ?`, puuid); err != nil {
		return false, err
	}
	if _, err := r.db.Exec(`DELETE FROM rank_snapshots WHERE puuid = ?`, puuid); err != nil {
		return false, err
	}
	return true, nil
}

// Cursor operations

// GetCursor returns the last-seen match id for a player, or "" when the
// player has never been polled successfully.
func (r *Repository) GetCursor(puuid string) (string, error) {
	var matchID string
	err := r.db.QueryRow(
		`SELECT last_match_id FROM match_cursors WHERE puuid = ?`, puuid,
	).Scan(&matchID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return matchID, nil
}

// SetCursor records the last-seen match id for a player.
func (r *Repository) SetCursor(puuid, matchID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(
		`INSERT INTO match_cursors (puuid, last_match_id, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(puuid) DO UPDATE SET last_match_id = excluded.last_match_id, updated_at = excluded.updated_at`,
		puuid, matchID, time.Now(),
	)
	return err
}

// Settings operations

// GetSetting returns a configuration value, or "" when unset.
func (r *Repository) GetSetting(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// SetSetting stores a configuration value.
func (r *Repository) SetSetting(key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// Rank snapshot operations

// GetRankSnapshot returns the stored standing for a player and queue,
// or nil when none has been observed yet.
func (r *Repository) GetRankSnapshot(puuid, queueType string) (*RankSnapshot, error) {
	snap := &RankSnapshot{}
	err := r.db.QueryRow(
		`SELECT puuid, queue_type, tier, division, league_points, updated_at
		 FROM rank_snapshots WHERE puuid = ? AND queue_type = ?`,
		puuid, queueType,
	).Scan(&snap.PUUID, &snap.QueueType, &snap.Tier, &snap.Division, &snap.LeaguePoints, &snap.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// SetRankSnapshot records the current standing for a player and queue.
func (r *Repository) SetRankSnapshot(snap *RankSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(
		`INSERT INTO rank_snapshots (puuid, queue_type, tier, division, league_points, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(puuid, queue_type) DO UPDATE SET
			tier = excluded.tier,
			division = excluded.division,
			league_points = excluded.league_points,
			updated_at = excluded.updated_at`,
		snap.PUUID, snap.QueueType, snap.Tier, snap.Division, snap.LeaguePoints, time.Now(),
	)
	return err
}
