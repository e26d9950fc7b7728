package session

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"linkedin-scraper/internal/app"
	"linkedin-scraper/internal/config"
	"linkedin-scraper/pkg/models"
)

const (
	loginURL = "https://www.linkedin.com/login"

	// Cookie-set timing after form submission is not observable from the
	// automation protocol, so the flow polls. 60 samples at 1 Hz bounds
	// the worst case at one minute.
	defaultPollAttempts = 60
	defaultPollInterval = time.Second

	screenshotFile = "login_error.png"
)

// State is the login flow's current position.
type State int

const (
	StateNotStarted State = iota
	StateNavigatingToLogin
	StateSubmittingCredentials
	StatePollingForCookie
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not started"
	case StateNavigatingToLogin:
		return "navigating to login"
	case StateSubmittingCredentials:
		return "submitting credentials"
	case StatePollingForCookie:
		return "polling for cookie"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Flow drives an interactive LinkedIn login on a page and waits for the
// li_at session cookie to appear.
type Flow struct {
	cfg   *config.Config
	store *CookieStore
	state State

	pollAttempts int
	pollInterval time.Duration

	// overridable in tests
	getCookies func(ctx context.Context) ([]models.Cookie, error)
	screenshot func(ctx context.Context) error
}

func NewFlow(cfg *config.Config, store *CookieStore) *Flow {
	f := &Flow{
		cfg:          cfg,
		store:        store,
		pollAttempts: defaultPollAttempts,
		pollInterval: defaultPollInterval,
	}
	f.getCookies = pageCookies
	f.screenshot = captureScreenshot
	return f
}

func (f *Flow) State() State { return f.state }

// Run performs the login on the given page context. On success the
// resolved cookie replaces the cookie store's content and the page itself
// is left authenticated, ready for the scrape that triggered the login.
func (f *Flow) Run(ctx context.Context) (models.Cookie, error) {
	email := f.cfg.LinkedInEmail
	password := f.cfg.LinkedInPassword
	if email == "" || password == "" {
		f.state = StateFailed
		return models.Cookie{}, app.ErrMissingCredentials
	}

	f.state = StateNavigatingToLogin
	slog.Info("navigating to LinkedIn login page")
	navCtx, cancel := context.WithTimeout(ctx, f.cfg.NavigationTimeout())
	err := chromedp.Run(navCtx,
		chromedp.Navigate(loginURL),
		chromedp.WaitVisible(`#username`, chromedp.ByID),
	)
	cancel()
	if err != nil {
		f.state = StateFailed
		return models.Cookie{}, &app.NavigationError{URL: loginURL, Err: err}
	}

	f.state = StateSubmittingCredentials
	slog.Info("submitting credentials")
	// submit is fire-and-forget: the polling loop below absorbs however
	// long the response takes to land
	err = chromedp.Run(ctx,
		chromedp.SendKeys(`#username`, email, chromedp.ByID),
		chromedp.Sleep(100*time.Millisecond),
		chromedp.SendKeys(`#password`, password, chromedp.ByID),
		chromedp.Sleep(100*time.Millisecond),
		chromedp.Click(`button[type="submit"]`, chromedp.ByQuery),
	)
	if err != nil {
		f.state = StateFailed
		return models.Cookie{}, fmt.Errorf("failed to submit login form: %w", err)
	}

	f.state = StatePollingForCookie
	slog.Info("waiting for li_at session cookie")
	cookie, err := f.pollForCookie(ctx)
	if err != nil {
		f.state = StateFailed
		// best effort: a failed capture must not mask the login error
		if serr := f.screenshot(ctx); serr != nil {
			slog.Warn("failed to capture login diagnostic screenshot", "err", serr)
		} else {
			slog.Info("login diagnostic screenshot captured", "path", screenshotFile)
		}
		return models.Cookie{}, err
	}

	if err := f.store.Save([]models.Cookie{cookie}); err != nil {
		slog.Warn("failed to persist session cookie", "path", f.store.Path(), "err", err)
	} else {
		slog.Info("session cookie saved", "path", f.store.Path())
	}

	f.state = StateSucceeded
	return cookie, nil
}

// pollForCookie samples the page's cookies until li_at shows up or the
// attempt budget runs out.
func (f *Flow) pollForCookie(ctx context.Context) (models.Cookie, error) {
	for attempt := 1; attempt <= f.pollAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return models.Cookie{}, ctx.Err()
			case <-time.After(f.pollInterval):
			}
		}

		cookies, err := f.getCookies(ctx)
		if err != nil {
			slog.Debug("cookie poll failed", "attempt", attempt, "err", err)
			continue
		}
		for _, c := range cookies {
			if c.Name == models.SessionCookieName {
				slog.Info("li_at cookie found", "attempt", attempt)
				return c, nil
			}
		}
	}
	return models.Cookie{}, app.ErrCookieTimeout
}

// pageCookies reads the cookies currently visible to the page.
func pageCookies(ctx context.Context) ([]models.Cookie, error) {
	var out []models.Cookie
	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		cookies, err := network.GetCookies().Do(ctx)
		if err != nil {
			return err
		}
		for _, c := range cookies {
			out = append(out, models.Cookie{
				Name:     c.Name,
				Value:    c.Value,
				Domain:   c.Domain,
				Path:     c.Path,
				Expires:  c.Expires,
				HTTPOnly: c.HTTPOnly,
				Secure:   c.Secure,
				SameSite: c.SameSite.String(),
			})
		}
		return nil
	}))
	return out, err
}

func captureScreenshot(ctx context.Context) error {
	shotCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	var buf []byte
	if err := chromedp.Run(shotCtx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return err
	}
	return os.WriteFile(screenshotFile, buf, 0644)
}
