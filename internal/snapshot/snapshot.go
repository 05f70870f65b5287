// Package snapshot mounts a view in headless Chrome and screenshots the mount point,
// which is the only way to see what a browser-side engine actually laid out.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/psidex/graphview/internal/graphs"
)

var ErrNotHTML = errors.New("view does not render to HTML")

// ScriptError carries the exceptions the page threw while loading the view.
type ScriptError struct {
	Exceptions []string
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("page threw %d exception(s): %s", len(e.Exceptions), strings.Join(e.Exceptions, "; "))
}

type Options struct {
	Width  int64
	Height int64
	// Settle is how long the layout gets to run after the mount point is visible.
	Settle time.Duration
}

type Result struct {
	PNG []byte
	// DownloadedBytes is everything the page fetched, the engine's script included.
	DownloadedBytes int64
	Duration        time.Duration
}

// Capture renders v to a temporary file, loads it in headless Chrome and screenshots
// the element whose id is the view's container. ctx bounds the whole operation; a
// mount point that never appears runs into its deadline.
func Capture(ctx context.Context, v graphs.View, o Options, logger *slog.Logger) (*Result, error) {
	if !strings.HasPrefix(v.ContentType(), "text/html") {
		return nil, fmt.Errorf("%w: %s", ErrNotHTML, v.ContentType())
	}

	startTime := time.Now()

	dir, err := os.MkdirTemp("", "graphview-snapshot")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	page, err := graphs.RenderToFile(v, filepath.Join(dir, "view"))
	if err != nil {
		return nil, fmt.Errorf("render view: %w", err)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.WindowSize(int(o.Width), int(o.Height)),
	)...)
	defer allocCancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	var (
		mu              sync.Mutex
		exceptions      []string
		downloadedBytes int64
	)
	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		mu.Lock()
		defer mu.Unlock()
		switch ev := ev.(type) {
		case *network.EventLoadingFinished:
			downloadedBytes += int64(ev.EncodedDataLength)
		case *runtime.EventExceptionThrown:
			exceptions = append(exceptions, ev.ExceptionDetails.Error())
		}
	})

	selector := "#" + cssEscape(v.Container())
	logger.Debug("Capturing view", "view", v.ID(), "page", page, "selector", selector)

	var png []byte
	err = chromedp.Run(browserCtx,
		network.Enable(),
		runtime.Enable(),
		chromedp.Navigate("file://"+page),
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Sleep(o.Settle),
		chromedp.Screenshot(selector, &png, chromedp.ByQuery),
	)

	mu.Lock()
	defer mu.Unlock()

	if len(exceptions) > 0 {
		return nil, &ScriptError{Exceptions: exceptions}
	}
	if err != nil {
		return nil, fmt.Errorf("capture %s: %w", selector, err)
	}

	res := &Result{
		PNG:             png,
		DownloadedBytes: downloadedBytes,
		Duration:        time.Since(startTime),
	}
	logger.Info("Captured view", "view", v.ID(), "bytes", len(png), "downloaded", res.DownloadedBytes, "took", res.Duration)
	return res, nil
}

// cssEscape escapes an element id for use in an #id selector.
func cssEscape(id string) string {
	var sb strings.Builder
	for i, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == '-', r > 0x7f:
			sb.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				// A leading digit has to be written as a code point.
				fmt.Fprintf(&sb, "\\%x ", r)
			} else {
				sb.WriteRune(r)
			}
		default:
			sb.WriteByte('\\')
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
