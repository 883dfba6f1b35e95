// Package annotate turns raw captures into role-aware, annotated ones.
package annotate

import (
	"image/color"

	"github.com/idescope/idescope/internal/capture"
	"github.com/idescope/idescope/internal/window"
)

// Type tags one annotation's shape.
type Type string

const (
	TypeHighlight Type = "highlight"
	TypeOutline   Type = "outline"
	TypeLabel     Type = "label"
	TypeArrow     Type = "arrow"
	TypeCircle    Type = "circle"
	TypeBlur      Type = "blur"
)

// Annotation is one overlay element in the capture's pixel space.
type Annotation struct {
	Type       Type              `json:"type"`
	Bounds     window.Bounds     `json:"bounds"`
	Color      color.RGBA        `json:"color"`
	Label      string            `json:"label,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

// UIElement is a named region recognized inside a capture.
type UIElement struct {
	Name   string        `json:"name"`
	Kind   string        `json:"kind"`
	Bounds window.Bounds `json:"bounds"`
}

// Specialized extends a capture with its role, annotations, and the
// role-specific metadata variant. Exactly one variant is populated,
// selected by Role; fields that would require host-IDE introspection are
// left empty rather than guessed.
type Specialized struct {
	capture.Capture

	Role          window.Role  `json:"role"`
	Annotations   []Annotation `json:"annotations,omitempty"`
	ExtractedText string       `json:"extracted_text,omitempty"`
	Elements      []UIElement  `json:"elements,omitempty"`
	Meta          Metadata     `json:"meta"`
}

// Metadata is the role-keyed variant holder.
type Metadata struct {
	Main        *MainMeta        `json:"main,omitempty"`
	Editor      *EditorMeta      `json:"editor,omitempty"`
	Diagnostics *DiagnosticsMeta `json:"diagnostics,omitempty"`
	Output      *OutputMeta      `json:"output,omitempty"`
	Solution    *SolutionMeta    `json:"solution,omitempty"`
}

// MainMeta describes the main IDE window.
type MainMeta struct {
	WorkspaceName string `json:"workspace_name,omitempty"`
}

// EditorMeta describes a code editor or design surface.
type EditorMeta struct {
	FileName string `json:"file_name,omitempty"`
	Language string `json:"language,omitempty"`
	Modified bool   `json:"modified,omitempty"`
}

// DiagnosticsMeta describes the diagnostics list.
type DiagnosticsMeta struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

// OutputMeta describes the output log.
type OutputMeta struct {
	Pane string `json:"pane,omitempty"`
}

// SolutionMeta describes the solution explorer.
type SolutionMeta struct {
	SolutionName string `json:"solution_name,omitempty"`
}

// roleColors codes each role's annotation color. Unlisted roles use
// genericColor.
var roleColors = map[window.Role]color.RGBA{
	window.RoleMainWindow:          {R: 0x2e, G: 0x7d, B: 0xd1, A: 0xff},
	window.RoleSolutionExplorer:    {R: 0x8e, G: 0x44, B: 0xad, A: 0xff},
	window.RolePropertiesPanel:     {R: 0x16, G: 0xa0, B: 0x85, A: 0xff},
	window.RoleDiagnosticsList:     {R: 0xd1, G: 0x2e, B: 0x2e, A: 0xff},
	window.RoleOutputLog:           {R: 0x7f, G: 0x8c, B: 0x8d, A: 0xff},
	window.RoleCodeEditor:          {R: 0x27, G: 0xae, B: 0x60, A: 0xff},
	window.RoleDesignSurface:       {R: 0xe6, G: 0x7e, B: 0x22, A: 0xff},
	window.RoleToolbox:             {R: 0xf3, G: 0x9c, B: 0x12, A: 0xff},
	window.RoleResourceExplorer:    {R: 0x2c, G: 0x3e, B: 0x50, A: 0xff},
	window.RoleVersionControlPanel: {R: 0x9b, G: 0x59, B: 0xb6, A: 0xff},
	window.RoleConsolePanel:        {R: 0x34, G: 0x49, B: 0x5e, A: 0xff},
	window.RoleFindReplace:         {R: 0x1a, G: 0xbc, B: 0x9c, A: 0xff},
	window.RoleImmediateWindow:     {R: 0xc0, G: 0x39, B: 0x2b, A: 0xff},
	window.RoleWatchWindow:         {R: 0xd3, G: 0x54, B: 0x00, A: 0xff},
	window.RoleCallStackWindow:     {R: 0x8d, G: 0x6e, B: 0x63, A: 0xff},
	window.RoleLocalsWindow:        {R: 0x55, G: 0x6b, B: 0x2f, A: 0xff},
	window.RoleAutosWindow:         {R: 0x6d, G: 0x4c, B: 0x41, A: 0xff},
}

var genericColor = color.RGBA{R: 0x95, G: 0xa5, B: 0xa6, A: 0xff}

// ColorForRole returns the role's annotation color.
func ColorForRole(role window.Role) color.RGBA {
	if c, ok := roleColors[role]; ok {
		return c
	}
	return genericColor
}
