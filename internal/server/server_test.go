package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"linkedin-scraper/internal/app"
	"linkedin-scraper/pkg/models"
)

type fakeScraper struct {
	calls   int
	lastURL string

	profile *models.Profile
	err     error
}

func (f *fakeScraper) Scrape(_ context.Context, profileURL string) (*models.Profile, error) {
	f.calls++
	f.lastURL = profileURL
	return f.profile, f.err
}

func init() {
	gin.SetMode(gin.TestMode)
}

func postScrape(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/scrape", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestScrapeSuccess(t *testing.T) {
	fake := &fakeScraper{profile: &models.Profile{
		FullName:    "Jane Q. Public",
		LinkedInURL: "https://www.linkedin.com/in/jane/",
	}}
	s := New(fake, "/tmp/profile.json")

	w := postScrape(t, s, `{"profileUrl": "https://www.linkedin.com/in/jane/"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, fake.calls)
	require.Equal(t, "https://www.linkedin.com/in/jane/", fake.lastURL)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Jane Q. Public", resp["fullName"])
	require.Equal(t, "Profile scraped and saved successfully", resp["message"])
	require.Equal(t, "/tmp/profile.json", resp["savedTo"])
}

func TestScrapeMissingURL(t *testing.T) {
	for _, body := range []string{`{}`, `{"profileUrl": ""}`, `{"profileUrl": "   "}`, `not json`} {
		fake := &fakeScraper{}
		s := New(fake, "profile.json")

		w := postScrape(t, s, body)
		require.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
		// validation happens before any browser resource is touched
		require.Zero(t, fake.calls, "body %q", body)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Equal(t, "Profile URL is required", resp["error"])
	}
}

func TestScrapeTimeout(t *testing.T) {
	fake := &fakeScraper{err: app.ErrScrapeTimeout}
	s := New(fake, "profile.json")

	w := postScrape(t, s, `{"profileUrl": "https://www.linkedin.com/in/jane/"}`)
	require.Equal(t, http.StatusRequestTimeout, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Request timeout", resp["error"])
	require.Equal(t, "Scraping took too long and was terminated", resp["details"])
}

func TestScrapeFailure(t *testing.T) {
	fake := &fakeScraper{err: &app.BrowserError{Op: "launch", Err: errors.New("chrome not found")}}
	s := New(fake, "profile.json")

	w := postScrape(t, s, `{"profileUrl": "https://www.linkedin.com/in/jane/"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Failed to scrape LinkedIn profile", resp["error"])
	require.Contains(t, resp["details"], "chrome not found")
}

func TestHealth(t *testing.T) {
	s := New(&fakeScraper{}, "profile.json")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "OK", resp["status"])
	require.NotEmpty(t, resp["timestamp"])
}

func TestRoot(t *testing.T) {
	s := New(&fakeScraper{}, "profile.json")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "running", resp["status"])
}

func TestCORSPreflight(t *testing.T) {
	s := New(&fakeScraper{}, "profile.json")

	req := httptest.NewRequest(http.MethodOptions, "/scrape", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
