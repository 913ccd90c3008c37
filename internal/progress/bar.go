package progress

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
)

// Display constants
const (
	TickInterval       = 100 * time.Millisecond
	RenderThrottle     = 65 * time.Millisecond
	DefaultBarWidth    = 40
	DefaultDescription = "downloading"
	SpinnerType        = 14
	CompleteMessage    = "download complete"
)

// Bar is a terminal Reporter built on progressbar.
type Bar struct {
	w           io.Writer
	description string
	interval    time.Duration

	mu      sync.Mutex
	bar     *progressbar.ProgressBar
	mode    Mode
	written int64

	ticks  atomic.Int64
	stop   context.CancelFunc
	ticker *errgroup.Group
}

// NewBar creates a reporter writing to w
func NewBar(w io.Writer, description string) *Bar {
	if description == "" {
		description = DefaultDescription
	}
	return &Bar{
		w:           w,
		description: description,
		interval:    TickInterval,
	}
}

// Start creates the bar for mode; Indeterminate also starts the spinner ticker.
func (b *Bar) Start(mode Mode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.mode = mode
	switch m := mode.(type) {
	case Determinate:
		b.bar = progressbar.NewOptions64(m.Total, b.options()...)
	case Indeterminate:
		opts := append(b.options(), progressbar.OptionSpinnerType(SpinnerType))
		b.bar = progressbar.NewOptions64(-1, opts...)
		b.startTicker(b.bar)
	}
}

// Advance adds n bytes to the bar
func (b *Bar) Advance(n int64) {
	b.mu.Lock()
	b.written += n
	bar := b.bar
	b.mu.Unlock()

	if bar != nil {
		_ = bar.Add64(n)
	}
}

// Finish stops the ticker, clears the bar and prints message.
func (b *Bar) Finish(message string) {
	b.mu.Lock()
	stop, ticker, bar := b.stop, b.ticker, b.bar
	b.stop, b.ticker = nil, nil
	b.mu.Unlock()

	if stop != nil {
		stop()
		_ = ticker.Wait()
	}
	if bar != nil {
		_ = bar.Clear()
	}
	fmt.Fprintln(b.w, message)
}

// Written returns the number of bytes reported so far
func (b *Bar) Written() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.written
}

// Fraction returns the completed share of a determinate download, or -1
// when the total is unknown.
func (b *Bar) Fraction() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	m, ok := b.mode.(Determinate)
	if !ok {
		return -1
	}
	if m.Total == 0 {
		return 1
	}
	return float64(b.written) / float64(m.Total)
}

// Ticks returns how many times the spinner refreshed on its own
func (b *Bar) Ticks() int64 {
	return b.ticks.Load()
}

func (b *Bar) options() []progressbar.Option {
	return []progressbar.Option{
		progressbar.OptionSetWriter(b.w),
		progressbar.OptionSetDescription(b.description),
		progressbar.OptionSetWidth(DefaultBarWidth),
		progressbar.OptionShowBytes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(RenderThrottle),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "#",
			SaucerHead:    ">",
			SaucerPadding: "-",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	}
}

// startTicker refreshes the spinner every interval until Finish, so the
// display stays alive while no chunk arrives.
func (b *Bar) startTicker(bar *progressbar.ProgressBar) {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t := time.NewTicker(b.interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-t.C:
				_ = bar.RenderBlank()
				b.ticks.Add(1)
			}
		}
	})
	b.stop = cancel
	b.ticker = g
}
