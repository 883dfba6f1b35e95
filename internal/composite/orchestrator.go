// Package composite assembles a full-IDE capture from the layout,
// the primary window image, and per-role annotated panel images.
package composite

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/idescope/idescope/internal/annotate"
	"github.com/idescope/idescope/internal/capture"
	"github.com/idescope/idescope/internal/layout"
	"github.com/idescope/idescope/internal/logger"
	"github.com/idescope/idescope/internal/window"
)

// LayoutSource yields the current layout. *layout.Analyzer satisfies it.
type LayoutSource interface {
	Analyze(ctx context.Context) (*layout.Layout, error)
}

// WindowCapturer renders one window. *capture.Engine satisfies it.
type WindowCapturer interface {
	CaptureWindow(ctx context.Context, h window.Handle) (capture.Capture, error)
}

// Annotator decorates a capture. *annotate.Engine satisfies it.
type Annotator interface {
	Annotate(c capture.Capture, w window.Window) annotate.Specialized
}

// Result is one full-IDE capture.
type Result struct {
	Primary  capture.Capture        `json:"primary"`
	Panels   []annotate.Specialized `json:"panels,omitempty"`
	Layout   *layout.Layout         `json:"layout,omitempty"`
	Metadata map[string]string      `json:"metadata"`
}

// Orchestrator drives the full-IDE capture.
type Orchestrator struct {
	layouts   LayoutSource
	capturer  WindowCapturer
	annotator Annotator
}

// NewOrchestrator creates an orchestrator.
func NewOrchestrator(layouts LayoutSource, capturer WindowCapturer, annotator Annotator) *Orchestrator {
	return &Orchestrator{layouts: layouts, capturer: capturer, annotator: annotator}
}

// CaptureFullIDE analyzes the layout once, captures the main window as
// the primary image, and fans out one capture per present role (skipping
// Unknown and MainWindow). Panel captures run concurrently and
// independently: a failed panel is logged and counted, never fatal.
func (o *Orchestrator) CaptureFullIDE(ctx context.Context) (*Result, error) {
	log := logger.WithComponent("composite")
	start := time.Now()

	result := &Result{Metadata: make(map[string]string)}

	lay, err := o.layouts.Analyze(ctx)
	if err != nil && lay == nil {
		result.Metadata["error"] = err.Error()
		return result, err
	}
	result.Layout = lay

	if lay.Main != nil {
		primary, err := o.capturer.CaptureWindow(ctx, lay.Main.Handle)
		if err != nil {
			log.Warn().Err(err).Msg("Primary capture failed")
		}
		result.Primary = primary
	}

	// One target per role, in the stable role order so results are
	// deterministic for a fixed layout.
	type target struct {
		win window.Window
	}
	var targets []target
	for _, role := range window.AllRoles {
		if role == window.RoleMainWindow {
			continue
		}
		wins := lay.ByRole[role]
		if len(wins) == 0 {
			continue
		}
		targets = append(targets, target{win: wins[0]})
	}

	panels := make([]annotate.Specialized, len(targets))
	var failures int
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i := range targets {
		i := i
		g.Go(func() error {
			win := targets[i].win
			shot, err := o.capturer.CaptureWindow(gctx, win.Handle)
			if err != nil {
				log.Warn().
					Str("role", string(win.Role)).
					Uint32("handle", uint32(win.Handle)).
					Err(err).
					Msg("Panel capture failed, continuing with the rest")
				mu.Lock()
				failures++
				mu.Unlock()
			}
			panels[i] = o.annotator.Annotate(shot, win)
			return nil
		})
	}
	// Goroutines never return errors; Wait only synchronizes.
	_ = g.Wait()

	result.Panels = panels

	result.Metadata["window_count"] = strconv.Itoa(len(lay.Windows))
	result.Metadata["role_count"] = strconv.Itoa(len(lay.ByRole))
	result.Metadata["panel_count"] = strconv.Itoa(len(panels))
	result.Metadata["panel_failures"] = strconv.Itoa(failures)
	result.Metadata["duration_ms"] = strconv.FormatInt(time.Since(start).Milliseconds(), 10)

	log.Debug().
		Int("panels", len(panels)).
		Int("failures", failures).
		Dur("elapsed", time.Since(start)).
		Msg("Full IDE capture complete")
	return result, nil
}
