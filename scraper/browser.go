package scraper

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"

	"gharkhoj/config"
)

// ErrBrowserStart marks failures to bring the browser up at all, as opposed
// to per-page navigation errors. Callers treat it as fatal for the whole
// batch instead of falling back per candidate.
var ErrBrowserStart = errors.New("browser session unavailable")

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// stealthScript runs before any page script and hides the usual headless
// giveaways: navigator.webdriver, empty plugin list, missing window.chrome.
const stealthScript = `
Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'] });
Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3, 4, 5] });
window.chrome = { runtime: {} };
const originalQuery = window.navigator.permissions.query;
window.navigator.permissions.query = (parameters) => (
  parameters.name === 'notifications'
    ? Promise.resolve({ state: Notification.permission })
    : originalQuery(parameters)
);
`

// Session owns one browser context. Sessions are not safe for concurrent
// page use; the worker pool gives each worker its own.
type Session struct {
	cfg         *config.BrowserConfig
	pw          *playwright.Playwright
	browser     playwright.Browser
	context     playwright.BrowserContext
	mu          sync.Mutex
	initialized bool
}

func NewSession(cfg *config.BrowserConfig) *Session {
	return &Session{cfg: cfg}
}

// WithSession runs fn with a dedicated session and tears it down on every
// exit path, including fn failing partway through a batch.
func WithSession(cfg *config.BrowserConfig, fn func(*Session) error) error {
	session := NewSession(cfg)
	defer session.Close()
	return fn(session)
}

func (s *Session) ensure() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	var err error
	s.pw, err = playwright.Run()
	if err != nil {
		return fmt.Errorf("%w: start driver: %v", ErrBrowserStart, err)
	}

	s.browser, err = s.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(s.cfg.Headless),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	})
	if err != nil {
		return fmt.Errorf("%w: launch browser: %v", ErrBrowserStart, err)
	}

	s.context, err = s.browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(userAgent),
		Viewport:  &playwright.Size{Width: 1920, Height: 1080},
		Locale:    playwright.String("en-IN"),
	})
	if err != nil {
		return fmt.Errorf("%w: create context: %v", ErrBrowserStart, err)
	}

	if s.cfg.Stealth {
		if err := s.context.AddInitScript(playwright.Script{Content: playwright.String(stealthScript)}); err != nil {
			log.Printf("Failed to add stealth script (continuing): %v", err)
		}
	}

	s.initialized = true
	return nil
}

func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.context != nil {
		s.context.Close()
		s.context = nil
	}
	if s.browser != nil {
		s.browser.Close()
		s.browser = nil
	}
	if s.pw != nil {
		s.pw.Stop()
		s.pw = nil
	}
	s.initialized = false
}

// OpenPage navigates a fresh page to the URL and settles it. The caller
// closes the page.
func (s *Session) OpenPage(rawURL string) (playwright.Page, error) {
	if err := s.ensure(); err != nil {
		return nil, err
	}

	// pacing delay goes before the navigation, not after
	if s.cfg.Pacing {
		s.humanDelay(s.cfg.MinDelayMS, s.cfg.MaxDelayMS)
	}

	page, err := s.context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	_, err = page.Goto(rawURL, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(s.cfg.NavTimeoutMS)),
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		page.Close()
		return nil, fmt.Errorf("navigation failed: %w", err)
	}

	s.settle(page)
	return page, nil
}

// settle moves the pointer around a bit after load. Skipped entirely when
// pacing is off (tests, CI).
func (s *Session) settle(page playwright.Page) {
	if !s.cfg.Pacing {
		return
	}
	s.simulateHumanBehavior(page)
}

func (s *Session) simulateHumanBehavior(page playwright.Page) {
	page.Mouse().Move(float64(300+rand.Intn(400)), float64(200+rand.Intn(300)))
	page.WaitForTimeout(float64(200 + rand.Intn(300)))
	page.Mouse().Move(float64(400+rand.Intn(300)), float64(300+rand.Intn(200)))
	page.WaitForTimeout(float64(200 + rand.Intn(300)))

	scrollAmount := 100 + rand.Intn(300)
	page.Evaluate(fmt.Sprintf(`window.scrollBy(0, %d)`, scrollAmount))
}

func (s *Session) humanDelay(minMs, maxMs int) {
	if maxMs <= minMs {
		time.Sleep(time.Duration(minMs) * time.Millisecond)
		return
	}
	delay := minMs + rand.Intn(maxMs-minMs)
	time.Sleep(time.Duration(delay) * time.Millisecond)
}

// expandCollapsedSections clicks "Read more" style toggles so the full
// description lands in the DOM before the snapshot.
func (s *Session) expandCollapsedSections(page playwright.Page, selectors []string) {
	for _, selector := range selectors {
		el := page.Locator(selector).First()
		if visible, _ := el.IsVisible(); visible {
			if err := el.Click(); err == nil {
				log.Printf("Expanded section: %s", selector)
				page.WaitForTimeout(500)
			}
		}
	}
}

func (s *Session) scrollToBottom(page playwright.Page) {
	for i := 0; i < 4; i++ {
		page.Evaluate(`window.scrollBy(0, window.innerHeight)`)
		page.WaitForTimeout(float64(400 + rand.Intn(400)))
	}
}

// Document snapshots the live DOM into a goquery document.
func (s *Session) Document(page playwright.Page) (*goquery.Document, error) {
	content, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("failed to read page content: %w", err)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(content))
}
