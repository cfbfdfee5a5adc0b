// Package browser renders client-side pages in headless Chrome
package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// DefaultUserAgent is sent by the headless browser
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Options configures the browser process
type Options struct {
	UserAgent string
	// ExecPath overrides the Chrome binary lookup when set
	ExecPath string
	Width    int
	Height   int
}

// Renderer owns one headless browser process for the duration of a run.
// Close must be called on every exit path.
type Renderer struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	browserCtx  context.Context
	cancel      context.CancelFunc
	closeOnce   sync.Once
}

// New starts a headless browser
func New(ctx context.Context, opts Options) (*Renderer, error) {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Width == 0 || opts.Height == 0 {
		opts.Width, opts.Height = 1920, 1080
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("enable-javascript", true),
		chromedp.WindowSize(opts.Width, opts.Height),
		chromedp.UserAgent(opts.UserAgent),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	r := &Renderer{}
	r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(ctx, allocOpts...)
	r.browserCtx, r.cancel = chromedp.NewContext(r.allocCtx, chromedp.WithLogf(func(format string, args ...interface{}) {
		// Silent logging
	}))

	chromedp.ListenTarget(r.browserCtx, func(ev interface{}) {
		switch ev.(type) {
		case *page.EventJavascriptDialogOpening:
			// dialogs would block rendering
			go chromedp.Run(r.browserCtx, page.HandleJavaScriptDialog(false))
		}
	})

	// Launch the browser now so startup failures surface before the run
	if err := chromedp.Run(r.browserCtx, chromedp.Navigate("about:blank")); err != nil {
		r.Close()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return r, nil
}

// Render navigates to url, waits settle for client-side rendering, and
// returns the outer HTML of the document
func (r *Renderer) Render(ctx context.Context, url string, settle time.Duration) (string, error) {
	runCtx, cancel := r.runContext(ctx)
	defer cancel()

	var htmlContent string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(settle),
		chromedp.OuterHTML(`html`, &htmlContent, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", url, err)
	}

	return htmlContent, nil
}

// runContext derives a tab context that also ends when ctx ends
func (r *Renderer) runContext(ctx context.Context) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithCancel(r.browserCtx)
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

// Close shuts the browser down. Safe to call more than once.
func (r *Renderer) Close() error {
	r.closeOnce.Do(func() {
		if r.cancel != nil {
			r.cancel()
		}
		if r.allocCancel != nil {
			r.allocCancel()
		}
	})
	return nil
}
