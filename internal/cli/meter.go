package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Meter provides an inline frame-count progress indicator with context
// cancellation support. Tick is cheap (an atomic increment), so the
// simulation can call it once per frame; a background goroutine redraws the
// line on its own cadence.
type Meter struct {
	message string
	total   int
	count   atomic.Int64
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}
	frames  []string
	mu      sync.Mutex
}

// newMeter creates a meter that will stop when the context is cancelled.
func newMeter(ctx context.Context, message string, total int) *Meter {
	meterCtx, cancel := context.WithCancel(ctx)
	return &Meter{
		message: message,
		total:   total,
		ctx:     meterCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	}
}

// Start begins the meter redraw loop.
func (m *Meter) Start() {
	go func() {
		defer close(m.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		i := 0
		for {
			select {
			case <-m.ctx.Done():
				m.clearLine()
				return
			case <-m.done:
				return
			case <-ticker.C:
				frame := m.frames[i%len(m.frames)]
				m.mu.Lock()
				fmt.Fprintf(os.Stderr, "\r%s %s %s",
					styleIconMeter.Render(frame),
					styleDim.Render(m.message),
					styleDim.Render(fmt.Sprintf("%d/%d", m.count.Load(), m.total)))
				m.mu.Unlock()
				i++
			}
		}
	}()
}

// Tick records one completed frame.
func (m *Meter) Tick() {
	m.count.Add(1)
}

// Stop stops the meter and clears the line.
func (m *Meter) Stop() {
	m.cancel()
	select {
	case <-m.done:
	default:
		close(m.done)
	}
	<-m.stopped
	m.clearLine()
}

func (m *Meter) clearLine() {
	m.mu.Lock()
	defer m.mu.Unlock()
	width := len(m.message) + len(fmt.Sprintf(" %d/%d", m.total, m.total)) + 4
	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", width))
}

// Cancelled returns true if the meter was stopped due to context cancellation.
func (m *Meter) Cancelled() bool {
	return m.ctx.Err() != nil
}
