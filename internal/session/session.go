package session

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"golang.org/x/sync/singleflight"

	"linkedin-scraper/internal/app"
	"linkedin-scraper/internal/config"
	"linkedin-scraper/pkg/models"
)

const defaultCookieDomain = ".linkedin.com"

// Session resolves a valid LinkedIn session for a page. Resolution order,
// first match wins:
//
//  1. a cookie value configured directly (the cookie store is not touched)
//  2. the persisted cookie file, applied verbatim
//  3. a live login on the current page, so the authenticated page can be
//     reused immediately for the scrape that triggered it
type Session struct {
	cfg   *config.Config
	store *CookieStore

	group  singleflight.Group
	mu     sync.Mutex
	loaded bool

	// overridable in tests
	login func(ctx context.Context) (models.Cookie, error)
	apply func(ctx context.Context, cookies []models.Cookie) error
}

func NewSession(cfg *config.Config, store *CookieStore) *Session {
	s := &Session{cfg: cfg, store: store}
	s.login = func(ctx context.Context) (models.Cookie, error) {
		return NewFlow(cfg, store).Run(ctx)
	}
	s.apply = applyCookies
	return s
}

// Ensure makes sure the page behind ctx carries an authenticated session.
// Under the shared-browser policy cookies live in the one browser, so a
// single successful resolution covers the whole process; concurrent first
// requests collapse into one resolution. A session invalidated
// server-side mid-process is only noticed when a scrape fails.
func (s *Session) Ensure(ctx context.Context) error {
	if !s.cfg.SharedBrowser {
		return s.resolve(ctx)
	}

	if s.isLoaded() {
		return nil
	}
	_, err, _ := s.group.Do("session", func() (interface{}, error) {
		if s.isLoaded() {
			return nil, nil
		}
		if err := s.resolve(ctx); err != nil {
			// leave the flag unset so a failed login does not poison
			// future requests
			return nil, err
		}
		s.setLoaded()
		return nil, nil
	})
	return err
}

func (s *Session) isLoaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

func (s *Session) setLoaded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
}

func (s *Session) resolve(ctx context.Context) error {
	if s.cfg.LiAtCookie != "" {
		slog.Info("using li_at cookie from configuration")
		return s.apply(ctx, []models.Cookie{{
			Name:     models.SessionCookieName,
			Value:    s.cfg.LiAtCookie,
			Domain:   defaultCookieDomain,
			Path:     "/",
			HTTPOnly: true,
			Secure:   true,
			SameSite: "None",
		}})
	}

	cookies, err := s.store.Load()
	if err == nil && len(cookies) > 0 {
		slog.Info("loaded session cookies from file", "count", len(cookies))
		return s.apply(ctx, withCookieDefaults(cookies))
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load cookie file, falling back to login", "err", err)
	}

	slog.Info("no stored session, performing login")
	cookie, err := s.login(ctx)
	if err != nil {
		return &app.AuthError{Err: err}
	}
	return s.apply(ctx, []models.Cookie{cookie})
}

// withCookieDefaults substitutes the LinkedIn defaults for domain and
// path when a stored cookie carries none.
func withCookieDefaults(cookies []models.Cookie) []models.Cookie {
	out := make([]models.Cookie, len(cookies))
	for i, c := range cookies {
		if c.Domain == "" {
			c.Domain = defaultCookieDomain
		}
		if c.Path == "" {
			c.Path = "/"
		}
		out[i] = c
	}
	return out
}

// applyCookies sets the cookies in the browser.
func applyCookies(ctx context.Context, cookies []models.Cookie) error {
	return chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		for _, c := range cookies {
			p := network.SetCookie(c.Name, c.Value).
				WithDomain(c.Domain).
				WithPath(c.Path).
				WithHTTPOnly(c.HTTPOnly).
				WithSecure(c.Secure)
			if c.Expires > 0 {
				expires := cdp.TimeSinceEpoch(time.Unix(int64(c.Expires), 0))
				p = p.WithExpires(&expires)
			}
			if c.SameSite != "" {
				p = p.WithSameSite(network.CookieSameSite(c.SameSite))
			}
			if err := p.Do(ctx); err != nil {
				return err
			}
		}
		return nil
	}))
}
