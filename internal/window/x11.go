package window

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/idescope/idescope/internal/faults"
	"github.com/idescope/idescope/internal/logger"
)

// X11Backend implements Backend over an X11 connection.
type X11Backend struct {
	util   *xgbutil.XUtil
	conn   *xgb.Conn
	root   xproto.Window
	screen *xproto.ScreenInfo
}

// NewX11Backend connects to the X server.
func NewX11Backend() (*X11Backend, error) {
	util, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}

	conn := util.Conn()
	screen := xproto.Setup(conn).DefaultScreen(conn)

	return &X11Backend{
		util:   util,
		conn:   conn,
		root:   screen.Root,
		screen: screen,
	}, nil
}

// Close closes the X11 connection.
func (b *X11Backend) Close() error {
	b.conn.Close()
	return nil
}

// Conn exposes the raw connection for the capture grabber, which shares
// the backend's X session.
func (b *X11Backend) Conn() *xgb.Conn {
	return b.conn
}

// Screen returns the default screen info.
func (b *X11Backend) Screen() *xproto.ScreenInfo {
	return b.screen
}

// Root returns the root window.
func (b *X11Backend) Root() xproto.Window {
	return b.root
}

// TopLevelWindows returns all top-level application windows, preferring
// the EWMH client list and falling back to a root QueryTree walk.
func (b *X11Backend) TopLevelWindows() ([]Handle, error) {
	log := logger.WithComponent("x11-backend")

	clients, err := ewmh.ClientListGet(b.util)
	if err == nil && len(clients) > 0 {
		handles := make([]Handle, 0, len(clients))
		for _, win := range clients {
			if b.isNormalWindow(win) {
				handles = append(handles, Handle(win))
			}
		}
		log.Debug().Int("count", len(handles)).Msg("TopLevelWindows: using EWMH _NET_CLIENT_LIST")
		return handles, nil
	}
	if err != nil {
		log.Debug().Err(err).Msg("TopLevelWindows: EWMH failed, falling back to QueryTree")
	}

	tree, err := xproto.QueryTree(b.conn, b.root).Reply()
	if err != nil {
		return nil, faults.Wrap(faults.ErrMalformed, err)
	}

	handles := make([]Handle, 0, len(tree.Children))
	for _, child := range tree.Children {
		if b.isNormalWindow(child) {
			handles = append(handles, Handle(child))
		}
	}
	log.Debug().Int("count", len(handles)).Msg("TopLevelWindows: using QueryTree fallback")
	return handles, nil
}

// isNormalWindow rejects docks, splash screens and other non-application
// windows by EWMH window type. Windows without a type are assumed normal.
func (b *X11Backend) isNormalWindow(win xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(b.util, win)
	if err != nil {
		return true
	}

	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL", "_NET_WM_WINDOW_TYPE_DIALOG", "_NET_WM_WINDOW_TYPE_UTILITY":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP", "_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH", "_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}
	return len(types) == 0
}

// ChildWindows returns the direct children of a window.
func (b *X11Backend) ChildWindows(h Handle) ([]Handle, error) {
	tree, err := xproto.QueryTree(b.conn, xproto.Window(h)).Reply()
	if err != nil {
		return nil, faults.Wrap(faults.ErrNotFound, err)
	}

	handles := make([]Handle, 0, len(tree.Children))
	for _, child := range tree.Children {
		handles = append(handles, Handle(child))
	}
	return handles, nil
}

// ActiveWindow returns the EWMH active window.
func (b *X11Backend) ActiveWindow() (Handle, error) {
	win, err := ewmh.ActiveWindowGet(b.util)
	if err != nil {
		return 0, faults.Wrap(faults.ErrNotFound, err)
	}
	return Handle(win), nil
}

// WindowInfo retrieves raw metadata for a window. A window that vanished
// mid-scan surfaces as a NotFound error; missing optional properties
// (title, class, pid) are tolerated and left zero.
func (b *X11Backend) WindowInfo(h Handle) (Window, error) {
	win := xproto.Window(h)

	geom, err := xproto.GetGeometry(b.conn, xproto.Drawable(win)).Reply()
	if err != nil {
		return Window{}, faults.Wrapf(faults.ErrNotFound, "window 0x%x: %v", uint32(h), err)
	}

	info := Window{
		Handle: h,
		Bounds: Bounds{
			X:      int(geom.X),
			Y:      int(geom.Y),
			Width:  int(geom.Width),
			Height: int(geom.Height),
		},
		Seen: time.Now(),
	}

	// Reparenting window managers leave GetGeometry coordinates relative
	// to the frame; translate to root so docking comparisons line up.
	if trans, err := xproto.TranslateCoordinates(b.conn, win, b.root, 0, 0).Reply(); err == nil {
		info.Bounds.X = int(trans.DstX)
		info.Bounds.Y = int(trans.DstY)
	}

	if attrs, err := xproto.GetWindowAttributes(b.conn, win).Reply(); err == nil {
		info.Visible = attrs.MapState == xproto.MapStateViewable
	}

	if title, err := b.getStringProperty(win, "_NET_WM_NAME"); err == nil {
		info.Title = title
	}
	if info.Title == "" {
		if title, err := b.getStringProperty(win, "WM_NAME"); err == nil {
			info.Title = title
		}
	}

	// WM_CLASS format is instance\0class\0; prefer the class part.
	if classRaw, err := b.getStringProperty(win, "WM_CLASS"); err == nil {
		parts := strings.Split(classRaw, "\x00")
		if len(parts) >= 2 && parts[1] != "" {
			info.Class = parts[1]
		} else if len(parts) >= 1 && parts[0] != "" {
			info.Class = parts[0]
		}
	}

	if pid, err := b.getCardinalProperty(win, "_NET_WM_PID"); err == nil {
		info.PID = int(pid)
	}

	return info, nil
}

// getAtom gets an atom ID by name
func (b *X11Backend) getAtom(name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(b.conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, err
	}
	return reply.Atom, nil
}

// getStringProperty gets a property value as a string
func (b *X11Backend) getStringProperty(win xproto.Window, name string) (string, error) {
	atom, err := b.getAtom(name)
	if err != nil {
		return "", err
	}

	reply, err := xproto.GetProperty(
		b.conn,
		false,
		win,
		atom,
		xproto.GetPropertyTypeAny,
		0,
		(1<<32)-1,
	).Reply()
	if err != nil {
		return "", err
	}

	if reply.ValueLen == 0 {
		return "", fmt.Errorf("empty property %s", name)
	}

	return string(reply.Value), nil
}

// getCardinalProperty gets a 32-bit cardinal property value
func (b *X11Backend) getCardinalProperty(win xproto.Window, name string) (uint32, error) {
	atom, err := b.getAtom(name)
	if err != nil {
		return 0, err
	}

	reply, err := xproto.GetProperty(
		b.conn,
		false,
		win,
		atom,
		xproto.AtomCardinal,
		0,
		1,
	).Reply()
	if err != nil {
		return 0, err
	}
	if len(reply.Value) < 4 {
		return 0, fmt.Errorf("property %s too short", name)
	}

	return uint32(reply.Value[0]) |
		uint32(reply.Value[1])<<8 |
		uint32(reply.Value[2])<<16 |
		uint32(reply.Value[3])<<24, nil
}
