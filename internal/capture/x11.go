package capture

import (
	"image"
	"image/color"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/composite"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/idescope/idescope/internal/faults"
	"github.com/idescope/idescope/internal/logger"
	"github.com/idescope/idescope/internal/window"
)

// X11Grabber reads window and region pixels through guarded X resources.
type X11Grabber struct {
	conn             *xgb.Conn
	root             xproto.Window
	screen           *xproto.ScreenInfo
	compositeEnabled bool
	mu               sync.Mutex
}

// NewX11Grabber wraps an existing X connection. The Composite extension
// is initialized opportunistically; without it, obscured windows may
// capture stale or black content.
func NewX11Grabber(conn *xgb.Conn, root xproto.Window, screen *xproto.ScreenInfo) *X11Grabber {
	g := &X11Grabber{conn: conn, root: root, screen: screen}

	log := logger.WithComponent("x11-grabber")
	if err := composite.Init(conn); err != nil {
		log.Warn().Err(err).Msg("Composite extension not available, obscured windows may capture incompletely")
	} else {
		g.compositeEnabled = true
		log.Info().Msg("Composite extension initialized")
	}
	return g
}

// GrabWindow copies a window's content into an RGBA image. The copy runs
// entirely inside guard scopes: source pin, compatible pixmap, and
// graphics context are each released on every exit path.
func (g *X11Grabber) GrabWindow(h window.Handle, b window.Bounds) (*image.RGBA, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	win := xproto.Window(h)
	width := uint16(b.Width)
	height := uint16(b.Height)

	src := AcquireSource(g.conn, win, g.compositeEnabled)
	defer src.Release()

	pixmap, err := NewPixmapGuard(g.conn, g.screen.RootDepth, xproto.Drawable(g.root), width, height)
	if err != nil {
		return nil, faults.Wrap(faults.ErrMalformed, err)
	}
	defer pixmap.Release()

	gc, err := NewGContextGuard(g.conn, pixmap.Drawable())
	if err != nil {
		return nil, faults.Wrap(faults.ErrMalformed, err)
	}
	defer gc.Release()

	err = xproto.CopyAreaChecked(
		g.conn,
		src.Drawable(), pixmap.Drawable(), gc.GC(),
		0, 0, 0, 0,
		width, height,
	).Check()
	if err != nil {
		return nil, faults.Wrapf(faults.ErrNotFound, "copy window 0x%x: %v", uint32(h), err)
	}

	reply, err := xproto.GetImage(
		g.conn,
		xproto.ImageFormatZPixmap,
		pixmap.Drawable(),
		0, 0,
		width, height,
		0xffffffff,
	).Reply()
	if err != nil {
		return nil, faults.Wrapf(faults.ErrMalformed, "read window image: %v", err)
	}

	return g.convertImageData(reply.Data, b.Width, b.Height), nil
}

// GrabRegion copies a region of the root window.
func (g *X11Grabber) GrabRegion(x, y, width, height int) (*image.RGBA, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	reply, err := xproto.GetImage(
		g.conn,
		xproto.ImageFormatZPixmap,
		xproto.Drawable(g.root),
		int16(x), int16(y),
		uint16(width), uint16(height),
		0xffffffff,
	).Reply()
	if err != nil {
		return nil, faults.Wrapf(faults.ErrMalformed, "read region image: %v", err)
	}

	return g.convertImageData(reply.Data, width, height), nil
}

// ScreenBounds returns the root window dimensions.
func (g *X11Grabber) ScreenBounds() (int, int) {
	return int(g.screen.WidthInPixels), int(g.screen.HeightInPixels)
}

// convertImageData converts X11 ZPixmap data (BGRA) to RGBA.
func (g *X11Grabber) convertImageData(data []byte, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	depth := int(g.screen.RootDepth)

	if depth == 24 || depth == 32 {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				i := (y*width + x) * 4
				if i+3 < len(data) {
					img.SetRGBA(x, y, color.RGBA{
						R: data[i+2],
						G: data[i+1],
						B: data[i],
						A: 255,
					})
				}
			}
		}
	}

	return img
}
