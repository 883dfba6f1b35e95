package capture

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/composite"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/idescope/idescope/internal/logger"
)

// The guards below wrap server-side graphics resources so release happens
// exactly once on every exit path. Callers may read the wrapped id but
// never take over releasing it. Release on an already-released guard is a
// no-op.

// PixmapGuard owns an off-screen pixmap.
type PixmapGuard struct {
	id       xproto.Pixmap
	free     func()
	released bool
}

// NewPixmapGuard creates a pixmap compatible with the given drawable.
func NewPixmapGuard(conn *xgb.Conn, depth byte, drawable xproto.Drawable, width, height uint16) (*PixmapGuard, error) {
	id, err := xproto.NewPixmapId(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate pixmap id: %w", err)
	}
	if err := xproto.CreatePixmapChecked(conn, depth, id, drawable, width, height).Check(); err != nil {
		return nil, fmt.Errorf("failed to create pixmap: %w", err)
	}
	return &PixmapGuard{
		id:   id,
		free: func() { xproto.FreePixmap(conn, id) },
	}, nil
}

// Drawable exposes the pixmap for copy and read operations.
func (g *PixmapGuard) Drawable() xproto.Drawable {
	return xproto.Drawable(g.id)
}

// Release frees the pixmap. Safe to call more than once.
func (g *PixmapGuard) Release() {
	if g == nil || g.released {
		return
	}
	g.released = true
	g.free()
}

// GContextGuard owns a graphics context used for the block copy.
type GContextGuard struct {
	id       xproto.Gcontext
	free     func()
	released bool
}

// NewGContextGuard creates a graphics context on the given drawable.
func NewGContextGuard(conn *xgb.Conn, drawable xproto.Drawable) (*GContextGuard, error) {
	id, err := xproto.NewGcontextId(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate gcontext id: %w", err)
	}
	if err := xproto.CreateGCChecked(conn, id, drawable, 0, nil).Check(); err != nil {
		return nil, fmt.Errorf("failed to create gcontext: %w", err)
	}
	return &GContextGuard{
		id:   id,
		free: func() { xproto.FreeGC(conn, id) },
	}, nil
}

// GC exposes the context for copy operations.
func (g *GContextGuard) GC() xproto.Gcontext {
	return g.id
}

// Release frees the graphics context. Safe to call more than once.
func (g *GContextGuard) Release() {
	if g == nil || g.released {
		return
	}
	g.released = true
	g.free()
}

// SourceGuard pins a window's content as a readable drawable. When the
// Composite extension is available the window is redirected off-screen
// and its backing pixmap named, which captures obscured windows too;
// release frees the named pixmap before unredirecting so the server's
// backing state is restored in acquisition's reverse order. Without
// Composite the guard degrades to the window's own drawable and release
// has nothing to undo.
type SourceGuard struct {
	drawable xproto.Drawable
	free     func()
	released bool
}

// AcquireSource pins the window. Redirect failures fall back to direct
// capture rather than failing the acquisition.
func AcquireSource(conn *xgb.Conn, win xproto.Window, compositeEnabled bool) *SourceGuard {
	direct := &SourceGuard{drawable: xproto.Drawable(win), free: func() {}}
	if !compositeEnabled {
		return direct
	}

	log := logger.WithComponent("capture-guards")

	if err := composite.RedirectWindowChecked(conn, win, composite.RedirectAutomatic).Check(); err != nil {
		log.Debug().Err(err).Uint32("window", uint32(win)).
			Msg("Composite redirect failed, capturing window directly")
		return direct
	}

	pixmap, err := xproto.NewPixmapId(conn)
	if err != nil {
		composite.UnredirectWindow(conn, win, composite.RedirectAutomatic)
		return direct
	}
	if err := composite.NameWindowPixmapChecked(conn, win, pixmap).Check(); err != nil {
		log.Debug().Err(err).Uint32("window", uint32(win)).
			Msg("NameWindowPixmap failed, capturing window directly")
		composite.UnredirectWindow(conn, win, composite.RedirectAutomatic)
		return direct
	}

	return &SourceGuard{
		drawable: xproto.Drawable(pixmap),
		free: func() {
			xproto.FreePixmap(conn, pixmap)
			composite.UnredirectWindow(conn, win, composite.RedirectAutomatic)
		},
	}
}

// Drawable exposes the pinned content for read operations.
func (g *SourceGuard) Drawable() xproto.Drawable {
	return g.drawable
}

// Release undoes the redirect, if any. Safe to call more than once.
func (g *SourceGuard) Release() {
	if g == nil || g.released {
		return
	}
	g.released = true
	g.free()
}
