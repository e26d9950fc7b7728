package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"linkedin-scraper/pkg/models"
)

// Store persists scrape results twice over: the result file holds the
// last scraped profile as JSON, overwritten each request, and the sqlite
// database keeps one row per profile URL as a history.
type Store struct {
	db         *sql.DB
	resultFile string
}

// ProfileSummary is one row of the scrape history listing.
type ProfileSummary struct {
	LinkedInURL string
	FullName    string
	ScrapedAt   time.Time
}

// Open opens the sqlite database, running migrations, and binds the
// result file path.
func Open(dbPath, resultFile string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db, resultFile: resultFile}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RunMigrations creates all necessary tables
func RunMigrations(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS profiles (
		linkedin_url TEXT PRIMARY KEY,
		full_name TEXT NOT NULL,
		data TEXT NOT NULL,
		scraped_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_profiles_scraped_at ON profiles(scraped_at);
	`
	_, err := db.Exec(schema)
	return err
}

// SaveProfile upserts the profile keyed by its URL; rescraping a profile
// replaces its history row.
func (s *Store) SaveProfile(profile *models.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	query := `INSERT INTO profiles (linkedin_url, full_name, data, scraped_at)
			  VALUES (?, ?, ?, ?)
			  ON CONFLICT(linkedin_url) DO UPDATE SET
				  full_name = excluded.full_name,
				  data = excluded.data,
				  scraped_at = excluded.scraped_at`
	_, err = s.db.Exec(query, profile.LinkedInURL, profile.FullName, string(data), time.Now().UTC())
	return err
}

// GetProfile returns the stored record for a profile URL, or nil when the
// URL was never scraped.
func (s *Store) GetProfile(linkedinURL string) (*models.Profile, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM profiles WHERE linkedin_url = ?`, linkedinURL).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	profile := &models.Profile{}
	if err := json.Unmarshal([]byte(data), profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// ListProfiles returns the scrape history, newest first.
func (s *Store) ListProfiles() ([]ProfileSummary, error) {
	rows, err := s.db.Query(`SELECT linkedin_url, full_name, scraped_at FROM profiles ORDER BY scraped_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProfileSummary
	for rows.Next() {
		var p ProfileSummary
		if err := rows.Scan(&p.LinkedInURL, &p.FullName, &p.ScrapedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// WriteResultFile replaces the last-result file with this profile and
// returns the path written to.
func (s *Store) WriteResultFile(profile *models.Profile) (string, error) {
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(s.resultFile), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(s.resultFile, data, 0644); err != nil {
		return "", err
	}
	return s.resultFile, nil
}

// ResultFile is the path the last scraped profile gets written to.
func (s *Store) ResultFile() string {
	return s.resultFile
}
