package window

import (
	"context"
	"sync"
	"time"

	"github.com/idescope/idescope/internal/faults"
	"github.com/idescope/idescope/internal/logger"
)

// DefaultEnumerationTimeout bounds one full enumeration pass.
const DefaultEnumerationTimeout = 30 * time.Second

// maxChildDepth caps child recursion; IDE tool windows nest shallowly and
// a runaway tree must not stall the scan.
const maxChildDepth = 8

// Enumerator walks the window system and returns owned snapshots.
// Concurrent calls serialize on one lock so a second caller waits for the
// in-flight walk instead of starting a duplicate one.
type Enumerator struct {
	backend Backend
	timeout time.Duration
	mu      sync.Mutex
}

// NewEnumerator creates an enumerator. A timeout of 0 selects the
// default deadline.
func NewEnumerator(backend Backend, timeout time.Duration) *Enumerator {
	if timeout <= 0 {
		timeout = DefaultEnumerationTimeout
	}
	return &Enumerator{backend: backend, timeout: timeout}
}

// Enumerate walks every top-level window and its children under the
// deadline. Each call returns a freshly built slice that the caller owns.
//
// A per-window extraction failure skips that window; it never aborts the
// scan. Hitting the deadline returns whatever was collected so far along
// with a Timeout-kind error, which callers treat as a partial result
// rather than a failure.
func (e *Enumerator) Enumerate(ctx context.Context) ([]Window, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	log := logger.WithComponent("enumerator")
	start := time.Now()

	tops, err := e.backend.TopLevelWindows()
	if err != nil {
		return nil, err
	}

	windows := make([]Window, 0, len(tops))
	skipped := 0
	for _, h := range tops {
		if ctx.Err() != nil {
			log.Warn().
				Int("collected", len(windows)).
				Int("remaining", len(tops)-len(windows)-skipped).
				Dur("elapsed", time.Since(start)).
				Msg("Enumeration deadline exceeded, returning partial result")
			return windows, faults.Wrap(faults.ErrTimeout, ctx.Err())
		}

		win, err := e.collect(ctx, h, 0, 0)
		if err != nil {
			log.Debug().
				Uint32("handle", uint32(h)).
				Err(err).
				Msg("Skipping window that failed extraction")
			skipped++
			continue
		}
		windows = append(windows, win)
	}

	log.Debug().
		Int("windows", len(windows)).
		Int("skipped", skipped).
		Dur("elapsed", time.Since(start)).
		Msg("Enumeration complete")
	return windows, nil
}

// collect builds one window with its children, recursively.
func (e *Enumerator) collect(ctx context.Context, h Handle, parent Handle, depth int) (Window, error) {
	win, err := e.backend.WindowInfo(h)
	if err != nil {
		return Window{}, err
	}
	win.Parent = parent

	if depth >= maxChildDepth || ctx.Err() != nil {
		return win, nil
	}

	childHandles, err := e.backend.ChildWindows(h)
	if err != nil {
		// The parent is still usable without its children.
		return win, nil
	}

	for _, ch := range childHandles {
		if ctx.Err() != nil {
			break
		}
		child, err := e.collect(ctx, ch, h, depth+1)
		if err != nil {
			continue
		}
		win.Children = append(win.Children, child)
	}

	return win, nil
}
