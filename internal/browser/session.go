package browser

import (
	"fmt"
	"sync"
	"time"

	"jobharvest/internal/logger"

	"github.com/playwright-community/playwright-go"
)

// LaunchError means the browser process could not be started even after the
// conservative retry. Fatal for the current harvest run.
type LaunchError struct {
	Err error
}

func (e *LaunchError) Error() string { return fmt.Sprintf("browser launch failed: %v", e.Err) }
func (e *LaunchError) Unwrap() error { return e.Err }

// Baseline launch flags: sandboxing off for containerized hosting, GPU off,
// automation-detection surfaces disabled.
var stealthArgs = []string{
	"--no-sandbox",
	"--disable-setuid-sandbox",
	"--disable-dev-shm-usage",
	"--disable-accelerated-2d-canvas",
	"--no-first-run",
	"--no-zygote",
	"--disable-blink-features=AutomationControlled",
	"--disable-features=IsolateOrigins,site-per-process",
	"--disable-web-security",
	"--disable-gpu",
	"--window-size=1920,1080",
	"--disable-infobars",
	"--disable-notifications",
	"--disable-extensions",
	"--disable-default-apps",
	"--disable-background-timer-throttling",
	"--disable-backgrounding-occluded-windows",
	"--disable-renderer-backgrounding",
	"--disable-ipc-flooding-protection",
	"--mute-audio",
}

// Flags appended on the single retry after a failed launch.
var conservativeArgs = []string{
	"--single-process",
	"--no-zygote",
}

// Options configure the session manager at construction time.
type Options struct {
	ExecutablePath string
	Headless       bool
	BlockResources bool
}

// Manager owns the single long-lived browser session. All page creation is
// mediated through it; no other component touches the browser handle.
type Manager struct {
	log  *logger.Logger
	opts Options

	mu        sync.Mutex
	pw        *playwright.Playwright
	browser   playwright.Browser
	createdAt time.Time
}

func NewManager(opts Options) *Manager {
	return &Manager{log: logger.New("Session"), opts: opts}
}

// Acquire returns the live browser session, launching a new one when none
// exists or forceNew is set. Reusing the session preserves launch cost and
// fingerprint consistency across extraction steps within a run.
func (m *Manager) Acquire(forceNew bool) (playwright.Browser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browser != nil {
		if m.browser.IsConnected() && !forceNew {
			return m.browser, nil
		}
		_ = m.browser.Close()
		m.browser = nil
	}

	if m.pw == nil {
		pw, err := playwright.Run()
		if err != nil {
			return nil, &LaunchError{Err: fmt.Errorf("playwright run: %w", err)}
		}
		m.pw = pw
	}

	b, err := m.launch(stealthArgs)
	if err != nil {
		m.log.LogWarnf("launch failed, retrying with conservative flags: %v", err)
		b, err = m.launch(append(append([]string{}, stealthArgs...), conservativeArgs...))
		if err != nil {
			return nil, &LaunchError{Err: err}
		}
	}

	// A disconnect (crash, external kill) nulls the handle so the next
	// Acquire creates a fresh process. The event is dispatched asynchronously
	// and can arrive after the session was already replaced, so only the
	// matching handle is cleared.
	b.OnDisconnected(func(playwright.Browser) {
		m.handleDisconnect(b)
	})

	m.browser = b
	m.createdAt = time.Now()
	m.log.Info().Bool("force_new", forceNew).Msg("browser session launched")
	return b, nil
}

func (m *Manager) launch(args []string) (playwright.Browser, error) {
	opts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(m.opts.Headless),
		Args:     args,
	}
	if m.opts.ExecutablePath != "" {
		opts.ExecutablePath = playwright.String(m.opts.ExecutablePath)
	}
	b, err := m.pw.Chromium.Launch(opts)
	if err != nil {
		return nil, fmt.Errorf("chromium launch: %w", err)
	}
	return b, nil
}

// handleDisconnect clears the stored handle when the disconnected browser is
// still the current session. A stale event for an already replaced browser
// must not discard the live handle.
func (m *Manager) handleDisconnect(b playwright.Browser) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.browser != b {
		return
	}
	m.log.Warn().Msg("browser disconnected")
	m.browser = nil
}

// Close shuts the session down. Idempotent and safe with no live session;
// wired to process termination so no browser process is orphaned.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browser != nil {
		if err := m.browser.Close(); err != nil {
			m.log.LogError("closing browser", err)
		}
		m.browser = nil
	}
	if m.pw != nil {
		if err := m.pw.Stop(); err != nil {
			m.log.LogError("stopping playwright", err)
		}
		m.pw = nil
	}
}
