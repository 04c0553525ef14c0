// Package fetch retrieves page HTML from URLs or local files, optionally
// rendering JavaScript-driven pages in a headless browser.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// Options controls how a target is fetched.
type Options struct {
	Render  bool
	Timeout time.Duration
}

// IsURL reports whether the target is an http(s) URL.
func IsURL(target string) bool {
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}

// HTML fetches the target, which may be a URL or a local file path.
func HTML(target string, opts Options) (string, error) {
	if IsURL(target) {
		if opts.Render {
			return render(target, opts.Timeout)
		}
		return plain(target)
	}
	if opts.Render {
		slog.Debug("Render flag ignored for non-URL target", "target", target)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return string(data), nil
}

func plain(target string) (string, error) {
	resp, err := http.Get(target)
	if err != nil {
		return "", fmt.Errorf("fetch URL: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return string(body), nil
}

// render loads the page in a headless browser and waits for form elements to
// appear before snapshotting the DOM.
func render(target string, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ctx, cancel = chromedp.NewContext(ctx)
	defer cancel()

	var htmlContent string
	err := chromedp.Run(ctx,
		chromedp.Navigate(target),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			waitCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			_ = chromedp.Run(waitCtx,
				chromedp.WaitVisible("form, input", chromedp.ByQuery),
			)
			_ = chromedp.Run(ctx, chromedp.Sleep(500*time.Millisecond))
			return nil
		}),
		chromedp.OuterHTML("html", &htmlContent, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("render browser: %w", err)
	}
	return htmlContent, nil
}
