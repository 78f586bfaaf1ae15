package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// Chrome reads local storage through a Chrome/Chromium instance driven over
// the DevTools protocol. Point UserDataDir at a copy of the profile that ran
// the collector; Chrome refuses to share a profile with a running browser.
type Chrome struct {
	// UserDataDir is the browser profile directory. Empty uses a fresh profile.
	UserDataDir string
	// Origin is the page whose local storage is read.
	Origin string
	// Headless runs the browser without a window.
	Headless bool
	// Timeout bounds the whole browser session.
	Timeout time.Duration
}

// Get implements Store.
func (c *Chrome) Get(ctx context.Context, key string) (string, bool, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", c.Headless),
		chromedp.Flag("disable-gpu", true),
	)
	if c.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(c.UserDataDir))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	if c.Timeout > 0 {
		browserCtx, cancel = context.WithTimeout(browserCtx, c.Timeout)
		defer cancel()
	}

	expr, err := localStorageExpr(key)
	if err != nil {
		return "", false, err
	}

	var encoded string
	err = chromedp.Run(browserCtx,
		chromedp.Navigate(c.Origin),
		chromedp.WaitReady("body"),
		chromedp.Evaluate(expr, &encoded),
	)
	if err != nil {
		return "", false, fmt.Errorf("%w: browser session failed: %v", ErrUnavailable, err)
	}

	return decodeItem(encoded)
}

// localStorageExpr builds a script returning the item JSON-encoded, so a
// missing key comes back as "null" rather than an undefined result.
func localStorageExpr(key string) (string, error) {
	quoted, err := json.Marshal(key)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("JSON.stringify(localStorage.getItem(%s))", quoted), nil
}

func decodeItem(encoded string) (string, bool, error) {
	var item *string
	if err := json.Unmarshal([]byte(encoded), &item); err != nil {
		return "", false, fmt.Errorf("%w: unexpected getItem result: %v", ErrUnavailable, err)
	}
	if item == nil {
		return "", false, nil
	}
	return *item, true, nil
}
