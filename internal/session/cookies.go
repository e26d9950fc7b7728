package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"linkedin-scraper/pkg/models"
)

// CookieStore persists session cookies as a JSON array, the format the
// cookie file has always used. Save replaces the file wholesale, it never
// merges.
type CookieStore struct {
	path string
}

func NewCookieStore(path string) *CookieStore {
	return &CookieStore{path: path}
}

func (s *CookieStore) Path() string { return s.path }

// Load reads the persisted cookies. A missing file surfaces as
// os.ErrNotExist so callers can fall through to the login flow.
func (s *CookieStore) Load() ([]models.Cookie, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	var cookies []models.Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, fmt.Errorf("failed to parse cookie file %s: %w", s.path, err)
	}
	return cookies, nil
}

// Save writes the cookies, replacing any previous content.
func (s *CookieStore) Save(cookies []models.Cookie) error {
	data, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}
