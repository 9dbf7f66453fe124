// internal/fetch/browser.go
package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/valpere/ShopScrapexter/internal/config"
)

// Renderer captures page HTML through a headless Chrome instance. Pages
// that assemble their product data with scripts need this; plain listings
// do not.
type Renderer struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	cfg         config.BrowserConfig
}

// NewRenderer creates a renderer from the given browser configuration.
// Chrome itself is not launched until the first Render call.
func NewRenderer(cfg *config.BrowserConfig) *Renderer {
	resolved := config.BrowserConfig{Headless: true}
	if cfg != nil {
		resolved = *cfg
	}
	if resolved.Timeout == 0 {
		resolved.Timeout = 30 * time.Second
	}
	if resolved.ViewportWidth == 0 {
		resolved.ViewportWidth = 1920
	}
	if resolved.ViewportHeight == 0 {
		resolved.ViewportHeight = 1080
	}

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.DisableGPU,
		chromedp.NoSandbox, // required in containers
	}
	if resolved.Headless {
		opts = append(opts, chromedp.Headless)
	}
	if resolved.DisableImages {
		opts = append(opts, chromedp.Flag("blink-settings", "imagesEnabled=false"))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Renderer{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		cfg:         resolved,
	}
}

// Render navigates to targetURL and returns the page HTML after scripts
// have run.
func (r *Renderer) Render(ctx context.Context, targetURL string) (string, error) {
	browserCtx, cancel := chromedp.NewContext(r.allocCtx)
	defer cancel()

	timeout := r.cfg.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, timeout)
	defer cancelTimeout()

	tasks := []chromedp.Action{
		chromedp.EmulateViewport(int64(r.cfg.ViewportWidth), int64(r.cfg.ViewportHeight)),
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body"),
	}
	if r.cfg.WaitSelector != "" {
		tasks = append(tasks, chromedp.WaitVisible(r.cfg.WaitSelector))
	}

	var html string
	tasks = append(tasks, chromedp.OuterHTML("html", &html))

	if err := chromedp.Run(browserCtx, tasks...); err != nil {
		return "", fmt.Errorf("page render failed: %w", err)
	}
	return html, nil
}

// Close shuts the browser down.
func (r *Renderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}
