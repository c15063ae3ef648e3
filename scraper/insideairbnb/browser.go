package insideairbnb

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"airbnb-cleaner/utils"
)

// LinkFinder returns every listings.csv link published on a page.
type LinkFinder interface {
	FindLinks(ctx context.Context, pageURL string) ([]string, error)
}

// browserFinder renders the page in headless Chrome. The data page builds
// its city tables client-side, so a plain HTTP GET sees no links.
type browserFinder struct {
	chromeBin string
	logger    *utils.Logger
}

// NewBrowserFinder returns a LinkFinder backed by chromedp. An empty
// chromeBin searches the usual install locations.
func NewBrowserFinder(chromeBin string, logger *utils.Logger) LinkFinder {
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	return &browserFinder{chromeBin: chromeBin, logger: logger}
}

func (b *browserFinder) FindLinks(ctx context.Context, pageURL string) ([]string, error) {
	b.logger.Info("[insideairbnb] Using browser binary: %s", b.chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if b.chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(b.chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, 90*time.Second)
	defer cancelTimeout()

	var links []string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(3*time.Second),
		chromedp.Evaluate(`
			(function() {
				var out = [];
				var anchors = document.querySelectorAll('a[href]');
				for (var i = 0; i < anchors.length; i++) {
					var href = anchors[i].href || '';
					if (/\/visualisations\/listings\.csv$/.test(href)) {
						out.push(href);
					}
				}
				return out;
			})()
		`, &links),
	)
	if err != nil {
		return nil, fmt.Errorf("chromedp evaluate %s: %w", pageURL, err)
	}

	b.logger.Debug("[insideairbnb] Found %d listings.csv links on %s", len(links), pageURL)
	return links, nil
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
