package exposure

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/temirov/clawshield/internal/ui"
)

const (
	// MinimumWatchInterval is the shortest interval between watch checks.
	MinimumWatchInterval = 5 * time.Second
	// DefaultWatchInterval is used when no interval is configured.
	DefaultWatchInterval = 30 * time.Second

	watchBannerTemplateConstant = "Watching gateway exposure every %ds. Press Ctrl+C to stop.\n"
)

// ReportChecker produces exposure reports.
type ReportChecker interface {
	Check(executionContext context.Context, port int) Report
}

// TickerFactory creates a channel that fires every interval and a function that stops it.
type TickerFactory func(interval time.Duration) (<-chan time.Time, func())

// Watcher repeats exposure checks until its context ends.
type Watcher struct {
	checker       ReportChecker
	tickerFactory TickerFactory
}

// NewWatcher constructs a Watcher. A nil ticker factory uses time.NewTicker.
func NewWatcher(checker ReportChecker, tickerFactory TickerFactory) *Watcher {
	if tickerFactory == nil {
		tickerFactory = func(interval time.Duration) (<-chan time.Time, func()) {
			ticker := time.NewTicker(interval)
			return ticker.C, ticker.Stop
		}
	}
	return &Watcher{checker: checker, tickerFactory: tickerFactory}
}

// ClampWatchInterval applies the default and minimum watch intervals.
func ClampWatchInterval(interval time.Duration) time.Duration {
	if interval <= 0 {
		return DefaultWatchInterval
	}
	if interval < MinimumWatchInterval {
		return MinimumWatchInterval
	}
	return interval
}

// Run prints a report immediately and then once per interval. It returns nil when the context is cancelled.
func (watcher *Watcher) Run(executionContext context.Context, writer io.Writer, styler ui.StatusStyler, port int, interval time.Duration) error {
	interval = ClampWatchInterval(interval)
	if _, writeError := fmt.Fprintf(writer, watchBannerTemplateConstant, int(interval/time.Second)); writeError != nil {
		return writeError
	}

	if checkError := watcher.checkOnce(executionContext, writer, styler, port); checkError != nil {
		return checkError
	}

	ticks, stopTicker := watcher.tickerFactory(interval)
	defer stopTicker()

	for {
		select {
		case <-executionContext.Done():
			return nil
		case <-ticks:
			if checkError := watcher.checkOnce(executionContext, writer, styler, port); checkError != nil {
				return checkError
			}
		}
	}
}

func (watcher *Watcher) checkOnce(executionContext context.Context, writer io.Writer, styler ui.StatusStyler, port int) error {
	return WriteReport(writer, styler, watcher.checker.Check(executionContext, port))
}
