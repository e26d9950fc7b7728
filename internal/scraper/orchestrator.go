package scraper

import (
	"context"
	"log/slog"
	"strings"

	"github.com/chromedp/chromedp"

	"linkedin-scraper/internal/app"
	"linkedin-scraper/internal/browser"
	"linkedin-scraper/internal/config"
	"linkedin-scraper/internal/storage"
	"linkedin-scraper/pkg/models"
)

// PageProvider acquires and releases browser pages.
type PageProvider interface {
	NewPage(ctx context.Context) (*browser.Page, error)
	Release(page *browser.Page)
}

// SessionManager puts an authenticated session on the page behind ctx.
type SessionManager interface {
	Ensure(ctx context.Context) error
}

// Orchestrator composes the browser manager, session manager and
// extraction engine into one scrape pipeline.
type Orchestrator struct {
	cfg     *config.Config
	browser PageProvider
	session SessionManager
	store   *storage.Store
}

func NewOrchestrator(cfg *config.Config, b PageProvider, s SessionManager, store *storage.Store) *Orchestrator {
	return &Orchestrator{cfg: cfg, browser: b, session: s, store: store}
}

// Scrape fetches and extracts one profile under the overall wall-clock
// budget. When the budget fires, the pending work is cancelled, the page
// is still released and app.ErrScrapeTimeout comes back.
func (o *Orchestrator) Scrape(parent context.Context, profileURL string) (*models.Profile, error) {
	if strings.TrimSpace(profileURL) == "" {
		return nil, app.ErrProfileURLRequired
	}

	ctx, cancel := context.WithTimeout(parent, o.cfg.ScrapeTimeout())
	defer cancel()

	profile, err := o.scrape(ctx, profileURL)
	if err != nil && ctx.Err() == context.DeadlineExceeded && parent.Err() == nil {
		slog.Error("scraping operation timed out", "url", profileURL, "budget", o.cfg.ScrapeTimeout())
		return nil, app.ErrScrapeTimeout
	}
	return profile, err
}

func (o *Orchestrator) scrape(ctx context.Context, profileURL string) (*models.Profile, error) {
	page, err := o.browser.NewPage(ctx)
	if err != nil {
		return nil, err
	}
	defer o.browser.Release(page)

	// bound every browser operation by the overall budget
	runCtx := page.Ctx
	if deadline, ok := ctx.Deadline(); ok {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithDeadline(page.Ctx, deadline)
		defer cancel()
	}

	if err := o.session.Ensure(runCtx); err != nil {
		return nil, err
	}

	target := o.targetURL(profileURL)
	slog.Info("navigating to profile", "url", target)
	navCtx, cancelNav := context.WithTimeout(runCtx, o.cfg.NavigationTimeout())
	err = chromedp.Run(navCtx, chromedp.Navigate(target))
	cancelNav()
	if err != nil {
		return nil, &app.NavigationError{URL: target, Err: err}
	}

	// a slow name element is not fatal: extraction has a defined empty
	// default for every field, so a partially rendered page still yields
	// a usable record
	waitCtx, cancelWait := context.WithTimeout(runCtx, o.cfg.ElementTimeout())
	err = chromedp.Run(waitCtx, chromedp.WaitVisible("h1", chromedp.ByQuery))
	cancelWait()
	if err != nil {
		if runCtx.Err() != nil {
			return nil, runCtx.Err()
		}
		slog.Warn("profile name element not found quickly, continuing anyway", "err", err)
	}

	var html string
	if err := chromedp.Run(runCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, err
	}

	extractor := &Extractor{Mobile: o.cfg.MobileEmulation}
	profile, err := extractor.Extract(html, profileURL)
	if err != nil {
		return nil, err
	}

	o.persist(profile)
	return profile, nil
}

// targetURL switches the host to the mobile site when mobile emulation is
// on; the mobile markup is lighter and renders without client-side
// hydration.
func (o *Orchestrator) targetURL(profileURL string) string {
	if o.cfg.MobileEmulation {
		return strings.Replace(profileURL, "www.linkedin.com", "m.linkedin.com", 1)
	}
	return profileURL
}

// persist is best effort: a persistence failure is logged and never fails
// the scrape that produced the record.
func (o *Orchestrator) persist(profile *models.Profile) {
	if o.store == nil {
		return
	}
	if path, err := o.store.WriteResultFile(profile); err != nil {
		slog.Error("failed to write scraped data to file", "err", err)
	} else {
		slog.Info("scraped data saved", "path", path)
	}
	if err := o.store.SaveProfile(profile); err != nil {
		slog.Error("failed to record scrape in database", "err", err)
	}
}
