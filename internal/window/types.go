// Package window implements discovery, ownership validation, and
// classification of the target IDE's windows.
package window

import "time"

// Handle is the opaque window-system identifier for a live window.
type Handle uint32

// Bounds is a window rectangle in screen coordinates.
type Bounds struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Right returns the x coordinate of the right edge.
func (b Bounds) Right() int { return b.X + b.Width }

// Bottom returns the y coordinate of the bottom edge.
func (b Bounds) Bottom() int { return b.Y + b.Height }

// Valid reports whether the rectangle has non-negative dimensions.
func (b Bounds) Valid() bool { return b.Width >= 0 && b.Height >= 0 }

// Contains reports whether other lies fully inside b.
func (b Bounds) Contains(other Bounds) bool {
	return other.X >= b.X && other.Y >= b.Y &&
		other.Right() <= b.Right() && other.Bottom() <= b.Bottom()
}

// Window is one enumerated window. Instances are built fresh on every
// enumeration pass and never mutated afterwards; a new pass supersedes
// the previous set.
type Window struct {
	Handle   Handle   `json:"handle"`
	Title    string   `json:"title"`
	Class    string   `json:"class"`
	Role     Role     `json:"role"`
	Visible  bool     `json:"visible"`
	PID      int      `json:"pid"`
	Bounds   Bounds   `json:"bounds"`
	Parent   Handle   `json:"parent,omitempty"`
	Children []Window `json:"children,omitempty"`
	Active   bool     `json:"active,omitempty"`
	Seen     time.Time `json:"seen"`
}

// Role is the semantic role of a window within the IDE. The set is
// closed; RoleUnknown is the default and terminal fallback.
type Role string

const (
	RoleUnknown             Role = "unknown"
	RoleMainWindow          Role = "main_window"
	RoleSolutionExplorer    Role = "solution_explorer"
	RolePropertiesPanel     Role = "properties_panel"
	RoleDiagnosticsList     Role = "diagnostics_list"
	RoleOutputLog           Role = "output_log"
	RoleCodeEditor          Role = "code_editor"
	RoleDesignSurface       Role = "design_surface"
	RoleToolbox             Role = "toolbox"
	RoleResourceExplorer    Role = "resource_explorer"
	RoleVersionControlPanel Role = "version_control_panel"
	RoleConsolePanel        Role = "console_panel"
	RoleFindReplace         Role = "find_replace"
	RoleImmediateWindow     Role = "immediate_window"
	RoleWatchWindow         Role = "watch_window"
	RoleCallStackWindow     Role = "call_stack_window"
	RoleLocalsWindow        Role = "locals_window"
	RoleAutosWindow         Role = "autos_window"
)

// AllRoles lists every role except RoleUnknown, in a stable order.
var AllRoles = []Role{
	RoleMainWindow,
	RoleSolutionExplorer,
	RolePropertiesPanel,
	RoleDiagnosticsList,
	RoleOutputLog,
	RoleCodeEditor,
	RoleDesignSurface,
	RoleToolbox,
	RoleResourceExplorer,
	RoleVersionControlPanel,
	RoleConsolePanel,
	RoleFindReplace,
	RoleImmediateWindow,
	RoleWatchWindow,
	RoleCallStackWindow,
	RoleLocalsWindow,
	RoleAutosWindow,
}

// ParseRole maps a string to a known Role, defaulting to RoleUnknown.
func ParseRole(s string) Role {
	for _, r := range AllRoles {
		if string(r) == s {
			return r
		}
	}
	return RoleUnknown
}
