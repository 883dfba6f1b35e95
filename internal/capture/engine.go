package capture

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"image/png"
	"runtime"
	"time"

	"github.com/idescope/idescope/internal/faults"
	"github.com/idescope/idescope/internal/logger"
	"github.com/idescope/idescope/internal/window"
)

// Memory thresholds for the pre-flight cost check, in bytes. The cost of
// a capture is estimated as width * height * 4 before any allocation.
const (
	DefaultWarnBytes     = 50_000_000
	DefaultHardBytes     = 100_000_000
	DefaultPressureBytes = 500_000_000
)

// Grabber is the pixel source. *X11Grabber is the production
// implementation; tests substitute fakes.
type Grabber interface {
	GrabWindow(h window.Handle, b window.Bounds) (*image.RGBA, error)
	GrabRegion(x, y, width, height int) (*image.RGBA, error)
}

// WindowResolver reads a window's current metadata. window.Backend
// satisfies it.
type WindowResolver interface {
	WindowInfo(h window.Handle) (window.Window, error)
}

// Ownership gates captures by owning process. *window.Validator
// satisfies it.
type Ownership interface {
	Validate(w window.Window) bool
}

// Options tunes an Engine.
type Options struct {
	Format        string // "png" (default) or "jpeg"
	JPEGQuality   int
	WarnBytes     uint64
	HardBytes     uint64
	PressureBytes uint64
}

// Engine produces single-shot captures. Every failure between reading
// bounds and encoding yields an empty capture plus an error describing
// the fault kind; the engine never retries.
type Engine struct {
	grabber  Grabber
	resolver WindowResolver
	owner    Ownership
	opts     Options
}

// NewEngine creates an engine. Zero option fields select defaults.
func NewEngine(grabber Grabber, resolver WindowResolver, owner Ownership, opts Options) *Engine {
	if opts.Format == "" {
		opts.Format = "png"
	}
	if opts.JPEGQuality <= 0 || opts.JPEGQuality > 100 {
		opts.JPEGQuality = 85
	}
	if opts.WarnBytes == 0 {
		opts.WarnBytes = DefaultWarnBytes
	}
	if opts.HardBytes == 0 {
		opts.HardBytes = DefaultHardBytes
	}
	if opts.PressureBytes == 0 {
		opts.PressureBytes = DefaultPressureBytes
	}
	return &Engine{grabber: grabber, resolver: resolver, owner: owner, opts: opts}
}

// CaptureWindow renders one window. Ownership is re-validated even for
// handles that passed discovery: the window may have been reparented or
// reused since.
func (e *Engine) CaptureWindow(ctx context.Context, h window.Handle) (Capture, error) {
	log := logger.WithComponent("capture-engine")

	if err := ctx.Err(); err != nil {
		return emptyCapture(), faults.Wrap(faults.ErrTimeout, err)
	}

	info, err := e.resolver.WindowInfo(h)
	if err != nil {
		log.Warn().Uint32("handle", uint32(h)).Err(err).Msg("Capture target not found")
		return emptyCapture(), faults.Wrap(faults.ErrNotFound, err)
	}

	if !e.owner.Validate(info) {
		log.Warn().Uint32("handle", uint32(h)).Int("pid", info.PID).
			Msg("Capture rejected: owning process failed validation")
		return emptyCapture(), faults.Wrapf(faults.ErrAccessDenied, "window 0x%x failed ownership validation", uint32(h))
	}

	if info.Bounds.Width <= 0 || info.Bounds.Height <= 0 {
		log.Warn().Uint32("handle", uint32(h)).
			Int("width", info.Bounds.Width).Int("height", info.Bounds.Height).
			Msg("Capture rejected: degenerate bounds")
		return emptyCapture(), faults.Wrapf(faults.ErrMalformed, "window 0x%x has bounds %dx%d",
			uint32(h), info.Bounds.Width, info.Bounds.Height)
	}

	if err := e.preflight(info.Bounds.Width, info.Bounds.Height); err != nil {
		return emptyCapture(), err
	}

	img, err := e.grabber.GrabWindow(h, info.Bounds)
	if err != nil {
		log.Warn().Uint32("handle", uint32(h)).Err(err).Msg("Window grab failed")
		return emptyCapture(), err
	}

	return e.encode(img, map[string]string{"source": "window", "title": info.Title})
}

// CaptureRegion renders a rectangle of the screen.
func (e *Engine) CaptureRegion(ctx context.Context, x, y, width, height int) (Capture, error) {
	log := logger.WithComponent("capture-engine")

	if err := ctx.Err(); err != nil {
		return emptyCapture(), faults.Wrap(faults.ErrTimeout, err)
	}

	if width <= 0 || height <= 0 {
		return emptyCapture(), faults.Wrapf(faults.ErrMalformed, "region %dx%d", width, height)
	}

	if err := e.preflight(width, height); err != nil {
		return emptyCapture(), err
	}

	img, err := e.grabber.GrabRegion(x, y, width, height)
	if err != nil {
		log.Warn().Err(err).Msg("Region grab failed")
		return emptyCapture(), err
	}

	return e.encode(img, map[string]string{"source": "region"})
}

// preflight enforces the memory discipline: estimate the raw cost, warn
// past the soft line, reject past the hard line without allocating, and
// force a collection pass when the process heap is already under
// pressure.
func (e *Engine) preflight(width, height int) error {
	log := logger.WithComponent("capture-engine")

	cost := uint64(width) * uint64(height) * 4
	if cost > e.opts.HardBytes {
		log.Warn().Uint64("cost", cost).Uint64("limit", e.opts.HardBytes).
			Msg("Capture rejected before allocation: estimated cost exceeds hard threshold")
		return faults.Wrapf(faults.ErrResourceExhausted, "estimated %d bytes exceeds %d", cost, e.opts.HardBytes)
	}
	if cost > e.opts.WarnBytes {
		log.Warn().Uint64("cost", cost).Uint64("warn", e.opts.WarnBytes).
			Msg("Large capture: estimated cost exceeds warning threshold")
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	if mem.HeapAlloc > e.opts.PressureBytes {
		log.Warn().Uint64("heap_alloc", mem.HeapAlloc).Uint64("pressure", e.opts.PressureBytes).
			Msg("Process under memory pressure, forcing collection before capture")
		runtime.GC()
	}

	return nil
}

// encode serializes the image into the configured format.
func (e *Engine) encode(img *image.RGBA, metadata map[string]string) (Capture, error) {
	var buf bytes.Buffer
	var err error

	switch e.opts.Format {
	case "jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: e.opts.JPEGQuality})
	default:
		err = png.Encode(&buf, img)
	}
	if err != nil {
		return emptyCapture(), faults.Wrap(faults.ErrMalformed, err)
	}

	bounds := img.Bounds()
	return Capture{
		Buffer:   buf.Bytes(),
		Format:   e.opts.Format,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Taken:    time.Now(),
		Metadata: metadata,
	}, nil
}
