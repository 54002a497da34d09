// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package settings persists editor preferences and credentials that outlive
// a session: SMTP delivery settings and per-user extraction overrides (API
// key, preferred model). Values live in a small SQLite key/value table so
// the tool stays a single self-contained binary.
package settings

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/manuscript-press/pkg/types"
)

// Well-known setting keys.
const (
	KeySMTPHost    = "smtp-host"
	KeySMTPPort    = "smtp-port"
	KeySMTPUser    = "smtp-user"
	KeySMTPFrom    = "smtp-from"
	KeyAPIKey      = "extraction-api-key"
	KeyModel       = "extraction-model"
	KeyArticleType = "default-article-type"
	KeyJournalName = "journal-name"
	KeyJournalISSN = "journal-issn"
	KeyDOIPrefix   = "doi-prefix"
)

// Store is the settings database.
type Store struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

// NewStore opens or creates the settings database at cfg.Path, creating the
// schema on first use.
func NewStore(cfg types.SettingsConfig) (*Store, error) {
	if cfg.Path == "" {
		cfg.Path = filepath.Join("data", "settings.db")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating settings directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening settings database: %w", err)
	}

	s := &Store{db: db, sb: sq.StatementBuilder.PlaceholderFormat(sq.Question)}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Set stores or replaces one setting.
func (s *Store) Set(key, value string) error {
	query, args, err := s.sb.
		Insert("settings").
		Columns("key", "value", "updated_at").
		Values(key, value, time.Now().UTC().Format(time.RFC3339)).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("building upsert: %w", err)
	}
	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("storing setting %s: %w", key, err)
	}
	return nil
}

// Get returns the value for key, or "" when the key is unset.
func (s *Store) Get(key string) (string, error) {
	query, args, err := s.sb.
		Select("value").
		From("settings").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("building select: %w", err)
	}
	var value string
	switch err := s.db.QueryRow(query, args...).Scan(&value); err {
	case nil:
		return value, nil
	case sql.ErrNoRows:
		return "", nil
	default:
		return "", fmt.Errorf("reading setting %s: %w", key, err)
	}
}

// Delete removes a setting. Deleting an unset key is not an error.
func (s *Store) Delete(key string) error {
	query, args, err := s.sb.
		Delete("settings").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building delete: %w", err)
	}
	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("deleting setting %s: %w", key, err)
	}
	return nil
}

// All returns every stored setting keyed by name.
func (s *Store) All() (map[string]string, error) {
	query, args, err := s.sb.
		Select("key", "value").
		From("settings").
		OrderBy("key").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select: %w", err)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing settings: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scanning setting: %w", err)
		}
		out[k] = v
	}
	return out, rows.Err()
}

// ApplyOverrides copies stored extraction overrides onto cfg when present:
// a saved API key and a saved preferred model (which is prepended to the
// candidate list so it is tried first).
func (s *Store) ApplyOverrides(cfg *types.ExtractionConfig) error {
	if key, err := s.Get(KeyAPIKey); err != nil {
		return err
	} else if key != "" {
		cfg.APIKey = key
	}

	model, err := s.Get(KeyModel)
	if err != nil {
		return err
	}
	if model == "" {
		return nil
	}
	candidates := []types.ModelCandidate{{Provider: "gemini", Name: model}}
	for _, c := range cfg.Models {
		if c.Name != model {
			candidates = append(candidates, c)
		}
	}
	cfg.Models = candidates
	return nil
}
