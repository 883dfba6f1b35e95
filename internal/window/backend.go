package window

// Backend abstracts the window system for enumeration. The X11
// implementation is the production backend; tests substitute fakes.
type Backend interface {
	// TopLevelWindows returns the handles of every top-level window.
	TopLevelWindows() ([]Handle, error)

	// ChildWindows returns the direct children of a window.
	ChildWindows(h Handle) ([]Handle, error)

	// WindowInfo returns raw metadata for one window. The returned
	// Window has no Role and no Children; those are filled in by the
	// enumerator and classifier.
	WindowInfo(h Handle) (Window, error)

	// ActiveWindow returns the handle of the currently focused
	// top-level window.
	ActiveWindow() (Handle, error)

	// Close releases the connection to the window system.
	Close() error
}
