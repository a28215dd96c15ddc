// Package storage keeps finished runs in a local SQLite file through the
// cgo-free modernc.org/sqlite driver.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"
)

// migrations are applied in order; PRAGMA user_version records how many
// have run.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS scores (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		game_id    TEXT    NOT NULL,
		score      INTEGER NOT NULL,
		moves      INTEGER NOT NULL DEFAULT 0,
		scene      TEXT    NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_scores_rank ON scores(game_id, score DESC, moves ASC)`,
}

// sqliteTime is the layout SQLite uses for CURRENT_TIMESTAMP.
const sqliteTime = "2006-01-02 15:04:05"

// Store is a handle on the scores database.
type Store struct {
	db *sql.DB
}

// ScoreEntry is one finished run.
type ScoreEntry struct {
	ID        int64
	GameID    string
	Score     int
	Moves     int    // fewer wins a tie
	Scene     string // empty for games without scenes
	CreatedAt time.Time
}

// GameStats summarizes every run of one game.
type GameStats struct {
	GameID     string
	GamesCount int
	HighScore  int
	AvgScore   float64
	FewestMove int // among runs that reached HighScore
	LastPlayed time.Time
}

// Open opens the database at path, creating the file, its directory and
// the schema as needed. A leading ~ is the user's home directory.
func Open(path string) (*Store, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, wrap("create database directory", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, wrap("open "+path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, wrap("open "+path, err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	log.Debug("scores database ready", "path", path)
	return s, nil
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", wrap("resolve home directory", err)
	}
	return filepath.Join(home, path[1:]), nil
}

func wrap(op string, err error) error {
	return fmt.Errorf("storage: %s: %w", op, err)
}

func (s *Store) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return wrap("read schema version", err)
	}
	for i := version; i < len(migrations); i++ {
		if _, err := s.db.Exec(migrations[i]); err != nil {
			return wrap(fmt.Sprintf("migration %d", i+1), err)
		}
		if _, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			return wrap("write schema version", err)
		}
	}
	return nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveScore stores a finished run and returns its row ID.
func (s *Store) SaveScore(gameID string, score, moves int, scene string) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO scores (game_id, score, moves, scene) VALUES (?, ?, ?, ?)",
		gameID, score, moves, scene,
	)
	if err != nil {
		return 0, wrap("save score", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrap("save score", err)
	}
	return id, nil
}

// TopScores returns up to limit runs of gameID, best first: higher score,
// then fewer moves, then earlier. A limit of zero or less means 10.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(`
		SELECT id, game_id, score, moves, scene, created_at FROM scores
		WHERE game_id = ?
		ORDER BY score DESC, moves ASC, id ASC
		LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, wrap("top scores", err)
	}
	defer rows.Close()

	var out []ScoreEntry
	for rows.Next() {
		var (
			e  ScoreEntry
			at any
		)
		if err := rows.Scan(&e.ID, &e.GameID, &e.Score, &e.Moves, &e.Scene, &at); err != nil {
			return nil, wrap("top scores", err)
		}
		e.CreatedAt = parseTime(at)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("top scores", err)
	}
	return out, nil
}

// HighScore returns the best score recorded for gameID, 0 when none.
func (s *Store) HighScore(gameID string) (int, error) {
	var best int
	err := s.db.QueryRow(
		"SELECT COALESCE(MAX(score), 0) FROM scores WHERE game_id = ?", gameID,
	).Scan(&best)
	if err != nil {
		return 0, wrap("high score", err)
	}
	return best, nil
}

// ClearScores forgets every run of gameID.
func (s *Store) ClearScores(gameID string) error {
	if _, err := s.db.Exec("DELETE FROM scores WHERE game_id = ?", gameID); err != nil {
		return wrap("clear scores", err)
	}
	return nil
}

// GameStats aggregates the runs of gameID. A game never played yields a
// zero summary, not an error.
func (s *Store) GameStats(gameID string) (*GameStats, error) {
	st := &GameStats{GameID: gameID}

	err := s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0)
		FROM scores WHERE game_id = ?`,
		gameID,
	).Scan(&st.GamesCount, &st.HighScore, &st.AvgScore)
	if err != nil {
		return nil, wrap("game stats", err)
	}
	if st.GamesCount == 0 {
		return st, nil
	}

	var last any
	err = s.db.QueryRow(`
		SELECT
			(SELECT MIN(moves) FROM scores WHERE game_id = ?1 AND score = ?2),
			(SELECT created_at FROM scores WHERE game_id = ?1 ORDER BY id DESC LIMIT 1)`,
		gameID, st.HighScore,
	).Scan(&st.FewestMove, &last)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, wrap("game stats", err)
	}
	st.LastPlayed = parseTime(last)
	return st, nil
}

// parseTime accepts created_at as the driver returns it, either a
// time.Time or SQLite's text form.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if t, err := time.Parse(sqliteTime, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
