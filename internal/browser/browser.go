package browser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/device"
	"golang.org/x/sync/singleflight"

	"linkedin-scraper/internal/app"
	"linkedin-scraper/internal/config"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"

	launchAttempts = 2
	launchTimeout  = 45 * time.Second
)

// Page is one browser tab, exclusive to a single request. Release must be
// called on every exit path.
type Page struct {
	Ctx    context.Context
	cancel context.CancelFunc

	// set under the ephemeral policy so releasing the page also tears
	// down the browser it was launched in
	closeBrowser context.CancelFunc
}

// Manager owns the browser lifecycle. Under the shared policy the browser
// is launched lazily on first use and reused across requests; under the
// ephemeral policy every page gets a browser of its own.
type Manager struct {
	cfg   *config.Config
	group singleflight.Group

	mu            sync.Mutex
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

func NewManager(cfg *config.Config) *Manager {
	return &Manager{cfg: cfg}
}

func (m *Manager) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", m.cfg.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-background-timer-throttling", true),
		chromedp.Flag("disable-backgrounding-occluded-windows", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("disable-ipc-flooding-protection", true),
		chromedp.UserAgent(userAgent),
	)
	if m.cfg.ExecutablePath != "" {
		opts = append(opts, chromedp.ExecPath(m.cfg.ExecutablePath))
	}
	return opts
}

// launch starts a fresh browser and blocks until it is ready.
func (m *Manager) launch() (context.Context, context.CancelFunc, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), m.allocatorOptions()...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, v ...interface{}) {
		// chromedp logs unmarshal warnings for protocol events it does
		// not know; they are harmless
		msg := fmt.Sprintf(format, v...)
		if strings.Contains(msg, "could not unmarshal event") {
			return
		}
		slog.Warn("chromedp", "msg", msg)
	}))

	cancel := func() {
		browserCancel()
		allocCancel()
	}

	startCtx, startCancel := context.WithTimeout(browserCtx, launchTimeout)
	defer startCancel()
	if err := chromedp.Run(startCtx); err != nil {
		cancel()
		return nil, nil, err
	}
	return browserCtx, cancel, nil
}

// launchWithRetry makes a bounded number of launch attempts, each with a
// fresh allocator. The orchestrator must not loop around this.
func (m *Manager) launchWithRetry() (context.Context, context.CancelFunc, error) {
	var lastErr error
	for attempt := 1; attempt <= launchAttempts; attempt++ {
		browserCtx, cancel, err := m.launch()
		if err == nil {
			return browserCtx, cancel, nil
		}
		lastErr = err
		slog.Warn("browser launch failed", "attempt", attempt, "err", err)
	}
	return nil, nil, &app.BrowserError{Op: "launch", Err: lastErr}
}

// acquire returns a live shared browser context, launching one if needed.
// Concurrent first requests collapse into a single launch.
func (m *Manager) acquire(ctx context.Context) (context.Context, error) {
	m.mu.Lock()
	browserCtx := m.browserCtx
	m.mu.Unlock()
	if browserCtx != nil && browserCtx.Err() == nil {
		return browserCtx, nil
	}

	result, err, _ := m.group.Do("launch", func() (interface{}, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		// another caller may have finished the launch while we waited
		if m.browserCtx != nil && m.browserCtx.Err() == nil {
			return m.browserCtx, nil
		}
		if m.browserCancel != nil {
			m.browserCancel()
		}
		slog.Info("launching shared browser")
		browserCtx, cancel, err := m.launchWithRetry()
		if err != nil {
			return nil, err
		}
		m.browserCtx = browserCtx
		m.browserCancel = cancel
		return browserCtx, nil
	})
	if err != nil {
		return nil, err
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return result.(context.Context), nil
}

// NewPage opens a tab configured with network events, optional resource
// blocking and optional mobile emulation.
func (m *Manager) NewPage(ctx context.Context) (*Page, error) {
	var page *Page
	if m.cfg.SharedBrowser {
		browserCtx, err := m.acquire(ctx)
		if err != nil {
			return nil, err
		}
		tabCtx, tabCancel := chromedp.NewContext(browserCtx)
		page = &Page{Ctx: tabCtx, cancel: tabCancel}
	} else {
		browserCtx, closeBrowser, err := m.launchWithRetry()
		if err != nil {
			return nil, err
		}
		tabCtx, tabCancel := chromedp.NewContext(browserCtx)
		page = &Page{Ctx: tabCtx, cancel: tabCancel, closeBrowser: closeBrowser}
	}

	if err := m.setupPage(page); err != nil {
		m.Release(page)
		return nil, &app.BrowserError{Op: "new page", Err: err}
	}
	return page, nil
}

func (m *Manager) setupPage(page *Page) error {
	actions := []chromedp.Action{network.Enable()}

	if m.cfg.MobileEmulation {
		actions = append(actions, chromedp.Emulate(device.IPhoneX))
	}

	if m.cfg.BlockResources {
		blockHeavyResources(page.Ctx)
		actions = append(actions, fetch.Enable())
	}

	setupCtx, cancel := context.WithTimeout(page.Ctx, 10*time.Second)
	defer cancel()
	return chromedp.Run(setupCtx, actions...)
}

// blockHeavyResources fails image, stylesheet, font and media requests so
// profile pages render their markup without paying for assets.
func blockHeavyResources(tabCtx context.Context) {
	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		e, ok := ev.(*fetch.EventRequestPaused)
		if !ok {
			return
		}
		go func() {
			c := chromedp.FromContext(tabCtx)
			ectx := cdp.WithExecutor(tabCtx, c.Target)
			switch e.ResourceType {
			case network.ResourceTypeImage,
				network.ResourceTypeStylesheet,
				network.ResourceTypeFont,
				network.ResourceTypeMedia:
				fetch.FailRequest(e.RequestID, network.ErrorReasonBlockedByClient).Do(ectx)
			default:
				fetch.ContinueRequest(e.RequestID).Do(ectx)
			}
		}()
	})
}

// Release closes the page's tab. Under the ephemeral policy it also closes
// the browser the tab was launched in; the shared browser is never closed
// from request handling.
func (m *Manager) Release(page *Page) {
	if page == nil {
		return
	}
	if page.cancel != nil {
		page.cancel()
	}
	if page.closeBrowser != nil {
		page.closeBrowser()
	}
}

// Close tears down the shared browser on process shutdown.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.browserCancel != nil {
		m.browserCancel()
		m.browserCtx = nil
		m.browserCancel = nil
	}
}
