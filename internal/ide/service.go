// Package ide exposes the public operations of the discovery and capture
// pipeline. Internal layers return real, kind-tagged errors; this facade
// applies the fail-soft policy: faults are logged with their context and
// collapsed into empty or default results, so a single misbehaving window
// never cascades into the caller.
package ide

import (
	"context"
	"time"

	"github.com/idescope/idescope/internal/annotate"
	"github.com/idescope/idescope/internal/capture"
	"github.com/idescope/idescope/internal/composite"
	"github.com/idescope/idescope/internal/config"
	"github.com/idescope/idescope/internal/faults"
	"github.com/idescope/idescope/internal/layout"
	"github.com/idescope/idescope/internal/logger"
	"github.com/idescope/idescope/internal/window"
)

// Service wires the pipeline together.
type Service struct {
	backend   window.Backend
	enum      *window.Enumerator
	validator *window.Validator
	analyzer  *layout.Analyzer
	engine    *capture.Engine
	annotator *annotate.Engine
	orch      *composite.Orchestrator
}

// New builds a service over a live X11 connection using the given
// configuration.
func New(cfg config.Config) (*Service, error) {
	backend, err := window.NewX11Backend()
	if err != nil {
		return nil, err
	}

	grabber := capture.NewX11Grabber(backend.Conn(), backend.Root(), backend.Screen())

	return build(cfg, backend, grabber), nil
}

// build assembles a service from its parts; tests use it with fakes.
func build(cfg config.Config, backend window.Backend, grabber capture.Grabber) *Service {
	validator := window.NewValidator(window.ProcFS{}, cfg.AllowedProcesses)
	enum := window.NewEnumerator(backend, time.Duration(cfg.EnumerationTimeoutSec)*time.Second)
	analyzer := layout.NewAnalyzer(enum, validator, backend, time.Duration(cfg.LayoutCacheTTLSec)*time.Second)
	engine := capture.NewEngine(grabber, backend, validator, capture.Options{
		Format:        cfg.Capture.Format,
		JPEGQuality:   cfg.Capture.JPEGQuality,
		WarnBytes:     cfg.Capture.WarnBytes,
		HardBytes:     cfg.Capture.HardBytes,
		PressureBytes: cfg.Capture.PressureBytes,
	})
	annotator := annotate.NewEngine()

	return &Service{
		backend:   backend,
		enum:      enum,
		validator: validator,
		analyzer:  analyzer,
		engine:    engine,
		annotator: annotator,
		orch:      composite.NewOrchestrator(analyzer, engine, annotator),
	}
}

// Close releases the window-system connection.
func (s *Service) Close() error {
	return s.backend.Close()
}

// DiscoverWindows enumerates, ownership-filters, and classifies the
// target IDE's windows. Failures yield an empty slice.
func (s *Service) DiscoverWindows(ctx context.Context) []window.Window {
	lay := s.AnalyzeLayout(ctx)
	return lay.Windows
}

// ClassifyWindow maps raw window metadata to its role. Pure and total.
func (s *Service) ClassifyWindow(w window.Window) window.Role {
	return window.Classify(w)
}

// AnalyzeLayout returns the current layout, cached within the TTL.
// Failures yield an empty layout, never a nil one.
func (s *Service) AnalyzeLayout(ctx context.Context) *layout.Layout {
	lay, err := s.analyzer.Analyze(ctx)
	if err != nil {
		logger.WithComponent("ide").Warn().
			Str("kind", kindName(err)).
			Err(err).
			Msg("Layout analysis failed")
	}
	if lay == nil {
		return &layout.Layout{
			ByRole:   make(map[window.Role][]window.Window),
			Analyzed: time.Now(),
		}
	}
	return lay
}

// GetActiveWindow returns the focused window when it belongs to the IDE,
// else the main window, else nil.
func (s *Service) GetActiveWindow(ctx context.Context) *window.Window {
	return s.AnalyzeLayout(ctx).Active
}

// FindWindowsByType returns every discovered window of the given role.
func (s *Service) FindWindowsByType(ctx context.Context, role window.Role) []window.Window {
	return s.AnalyzeLayout(ctx).ByRole[role]
}

// CaptureWindow renders one window. Failures yield an empty capture.
func (s *Service) CaptureWindow(ctx context.Context, h window.Handle) capture.Capture {
	shot, err := s.engine.CaptureWindow(ctx, h)
	if err != nil {
		logger.WithComponent("ide").Warn().
			Uint32("handle", uint32(h)).
			Str("kind", kindName(err)).
			Err(err).
			Msg("Window capture failed")
	}
	return shot
}

// CaptureRegion renders a screen rectangle. Failures yield an empty
// capture.
func (s *Service) CaptureRegion(ctx context.Context, x, y, width, height int) capture.Capture {
	shot, err := s.engine.CaptureRegion(ctx, x, y, width, height)
	if err != nil {
		logger.WithComponent("ide").Warn().
			Int("width", width).
			Int("height", height).
			Str("kind", kindName(err)).
			Err(err).
			Msg("Region capture failed")
	}
	return shot
}

// CaptureWithAnnotation captures one window and decorates it according
// to its classified role.
func (s *Service) CaptureWithAnnotation(ctx context.Context, h window.Handle) annotate.Specialized {
	info, err := s.backend.WindowInfo(h)
	if err != nil {
		logger.WithComponent("ide").Warn().
			Uint32("handle", uint32(h)).
			Err(err).
			Msg("Annotated capture target not found")
		return s.annotator.Annotate(capture.Capture{}, window.Window{Handle: h, Role: window.RoleUnknown})
	}
	info.Role = window.Classify(info)

	shot := s.CaptureWindow(ctx, h)
	return s.annotator.Annotate(shot, info)
}

// CaptureFullIDE produces the aggregate capture: primary main-window
// image plus one annotated capture per present role.
func (s *Service) CaptureFullIDE(ctx context.Context) *composite.Result {
	result, err := s.orch.CaptureFullIDE(ctx)
	if err != nil {
		logger.WithComponent("ide").Warn().
			Str("kind", kindName(err)).
			Err(err).
			Msg("Full IDE capture failed")
	}
	if result == nil {
		result = &composite.Result{Metadata: map[string]string{}}
	}
	return result
}

// InvalidateLayout drops the layout cache; the next analysis enumerates
// fresh.
func (s *Service) InvalidateLayout() {
	s.analyzer.Invalidate()
}

func kindName(err error) string {
	if kind := faults.Kind(err); kind != nil {
		return kind.Error()
	}
	return "unclassified"
}
