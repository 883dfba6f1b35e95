// Package layout infers the docking arrangement of the IDE's windows
// from their geometry relative to the main window.
package layout

import "github.com/idescope/idescope/internal/window"

// Docking thresholds. These values are heuristic and carried over
// verbatim for behavioral parity; they have no documented rationale and
// may not generalize to scaled displays.
const (
	// edgeTolerance is how far past a main-window edge a panel must sit
	// to count as docked outside that edge.
	edgeTolerance = 50

	// sideInteriorThreshold is how close to the main window's left or
	// right edge an interior panel must sit to count as side-docked.
	sideInteriorThreshold = 300

	// bottomInteriorThreshold is the same for the bottom edge.
	bottomInteriorThreshold = 200
)

// Docking groups panels by their inferred position relative to the main
// window. It carries no persistent identity and is regenerated on every
// analysis.
type Docking struct {
	Left     []window.Window `json:"left,omitempty"`
	Right    []window.Window `json:"right,omitempty"`
	Top      []window.Window `json:"top,omitempty"`
	Bottom   []window.Window `json:"bottom,omitempty"`
	Floating []window.Window `json:"floating,omitempty"`

	// EditorArea is the first editor window, when one exists.
	EditorArea *window.Window `json:"editor_area,omitempty"`
}

// InferDocking classifies every non-main, non-editor, non-unknown window
// by comparing its bounds to the main window's. With no main window, all
// candidate panels float.
func InferDocking(main *window.Window, windows []window.Window) Docking {
	var d Docking

	for i := range windows {
		w := windows[i]
		switch w.Role {
		case window.RoleCodeEditor, window.RoleDesignSurface:
			if d.EditorArea == nil {
				editor := w
				d.EditorArea = &editor
			}
			continue
		case window.RoleMainWindow, window.RoleUnknown:
			continue
		}

		if main == nil {
			d.Floating = append(d.Floating, w)
			continue
		}

		mb := main.Bounds
		wb := w.Bounds
		switch {
		case wb.X < mb.X-edgeTolerance:
			d.Left = append(d.Left, w)
		case wb.Right() > mb.Right()+edgeTolerance:
			d.Right = append(d.Right, w)
		case wb.Y < mb.Y-edgeTolerance:
			d.Top = append(d.Top, w)
		case wb.Bottom() > mb.Bottom()+edgeTolerance:
			d.Bottom = append(d.Bottom, w)
		case mb.Contains(wb):
			switch {
			case wb.X-mb.X <= sideInteriorThreshold:
				d.Left = append(d.Left, w)
			case mb.Right()-wb.Right() <= sideInteriorThreshold:
				d.Right = append(d.Right, w)
			case mb.Bottom()-wb.Bottom() <= bottomInteriorThreshold:
				d.Bottom = append(d.Bottom, w)
			default:
				d.Floating = append(d.Floating, w)
			}
		default:
			d.Floating = append(d.Floating, w)
		}
	}

	return d
}
