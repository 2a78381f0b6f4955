package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// Resource types aborted when resource blocking is enabled. Dropping heavy
// sub-resources speeds navigation; correctness does not depend on them.
var blockedResourceTypes = map[string]bool{
	"image":      true,
	"stylesheet": true,
	"font":       true,
	"media":      true,
}

// PageContext is one tab used for one navigation target. It owns its browser
// context and is discarded after the extraction step it served.
type PageContext struct {
	Page     playwright.Page
	Identity Identity

	browserCtx playwright.BrowserContext
}

// NewPage opens a fresh page on the live session with a randomized identity.
// When forceNew is set the underlying browser process is replaced first.
func (m *Manager) NewPage(forceNew bool) (*PageContext, error) {
	b, err := m.Acquire(forceNew)
	if err != nil {
		return nil, err
	}

	id := PickIdentity()
	bctx, err := b.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(id.UserAgent),
		Viewport:  &playwright.Size{Width: id.Viewport.Width, Height: id.Viewport.Height},
		ExtraHttpHeaders: map[string]string{
			"Accept-Language": "en-US,en;q=0.9",
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("new browser context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, fmt.Errorf("new page: %w", err)
	}

	if m.opts.BlockResources {
		err = page.Route("**/*", func(route playwright.Route) {
			if blockedResourceTypes[route.Request().ResourceType()] {
				_ = route.Abort()
				return
			}
			_ = route.Continue()
		})
		if err != nil {
			_ = page.Close()
			_ = bctx.Close()
			return nil, fmt.Errorf("install resource blocking: %w", err)
		}
	}

	m.log.Debug().
		Str("user_agent", id.UserAgent).
		Int("viewport_w", id.Viewport.Width).
		Int("viewport_h", id.Viewport.Height).
		Msg("page created")

	return &PageContext{Page: page, Identity: id, browserCtx: bctx}, nil
}

// Close discards the page and its context. Safe to call more than once.
func (p *PageContext) Close() {
	if p.Page != nil {
		_ = p.Page.Close()
		p.Page = nil
	}
	if p.browserCtx != nil {
		_ = p.browserCtx.Close()
		p.browserCtx = nil
	}
}
