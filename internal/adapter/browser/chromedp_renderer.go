package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// ChromedpRenderer implements domain.PageRenderer using a headless Chrome
// instance. News pages build their article bodies with client-side scripts,
// so a plain HTTP GET returns skeleton markup; the renderer waits for the
// page to settle before capturing the DOM.
type ChromedpRenderer struct {
	settleDelay time.Duration
	allocOpts   []chromedp.ExecAllocatorOption
}

// NewChromedpRenderer creates a renderer. settleDelay is how long the page
// is given to finish client-side rendering after navigation.
func NewChromedpRenderer(settleDelay time.Duration) *ChromedpRenderer {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.UserAgent(defaultUserAgent),
	)
	return &ChromedpRenderer{
		settleDelay: settleDelay,
		allocOpts:   opts,
	}
}

// Render navigates to the URL, waits for the settle delay and returns the
// rendered HTML of the full document.
func (r *ChromedpRenderer) Render(ctx context.Context, url string) (string, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, r.allocOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(r.settleDelay),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", url, err)
	}
	return html, nil
}
