package app

import (
	"errors"
	"fmt"
)

// Sentinel errors for common application errors
var (
	ErrProfileURLRequired = errors.New("profile URL is required")
	ErrMissingCredentials = errors.New("LinkedIn credentials are missing: set LINKEDIN_EMAIL and LINKEDIN_PASSWORD")
	ErrScrapeTimeout      = errors.New("scraping took too long and was terminated")
	ErrCookieTimeout      = errors.New("li_at cookie not found after polling, login may have failed")
)

// BrowserError reports a failure to acquire the browser or a page.
type BrowserError struct {
	Op  string // "launch", "new page"
	Err error
}

func (e *BrowserError) Error() string {
	return fmt.Sprintf("browser %s failed: %v", e.Op, e.Err)
}

func (e *BrowserError) Unwrap() error { return e.Err }

// AuthError reports a failed session establishment. It is fatal for the
// request that triggered it but must not poison later requests.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// NavigationError reports a failed initial navigation to the profile page.
// Selector waits after a successful navigation degrade instead of raising
// this.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation to %s failed: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }
