package annotate

import (
	"testing"

	"github.com/idescope/idescope/internal/window"
)

func TestMetadataForMainWindow(t *testing.T) {
	m := metadataFor(window.Window{Role: window.RoleMainWindow, Title: "MyApp - Microsoft Visual Studio"})
	if m.Main == nil {
		t.Fatal("main variant not populated")
	}
	if m.Main.WorkspaceName != "MyApp" {
		t.Errorf("workspace = %q, want MyApp", m.Main.WorkspaceName)
	}
}

func TestMetadataForEditor(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		file     string
		language string
		modified bool
	}{
		{"plain file", "Program.cs - MyApp", "Program.cs", "C#", false},
		{"modified file", "Program.cs* - MyApp", "Program.cs", "C#", true},
		{"go file", "main.go", "main.go", "Go", false},
		{"xaml file", "MainWindow.xaml - MyApp", "MainWindow.xaml", "XAML", false},
		{"no file in title", "untitled", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metadataFor(window.Window{Role: window.RoleCodeEditor, Title: tt.title})
			if m.Editor == nil {
				t.Fatal("editor variant not populated")
			}
			if m.Editor.FileName != tt.file {
				t.Errorf("file = %q, want %q", m.Editor.FileName, tt.file)
			}
			if m.Editor.Language != tt.language {
				t.Errorf("language = %q, want %q", m.Editor.Language, tt.language)
			}
			if m.Editor.Modified != tt.modified {
				t.Errorf("modified = %v, want %v", m.Editor.Modified, tt.modified)
			}
		})
	}
}

func TestMetadataForDiagnostics(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		errors   int
		warnings int
	}{
		{"both counts", "Error List - 3 Errors, 12 Warnings", 3, 12},
		{"singular forms", "Error List - 1 Error, 1 Warning", 1, 1},
		{"no counts", "Error List", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metadataFor(window.Window{Role: window.RoleDiagnosticsList, Title: tt.title})
			if m.Diagnostics == nil {
				t.Fatal("diagnostics variant not populated")
			}
			if m.Diagnostics.Errors != tt.errors {
				t.Errorf("errors = %d, want %d", m.Diagnostics.Errors, tt.errors)
			}
			if m.Diagnostics.Warnings != tt.warnings {
				t.Errorf("warnings = %d, want %d", m.Diagnostics.Warnings, tt.warnings)
			}
		})
	}
}

func TestMetadataForOutput(t *testing.T) {
	m := metadataFor(window.Window{Role: window.RoleOutputLog, Title: "Output - Build"})
	if m.Output == nil {
		t.Fatal("output variant not populated")
	}
	if m.Output.Pane != "Build" {
		t.Errorf("pane = %q, want Build", m.Output.Pane)
	}
}

func TestMetadataForUnhandledRoleIsEmpty(t *testing.T) {
	m := metadataFor(window.Window{Role: window.RoleToolbox, Title: "Toolbox"})
	if m.Main != nil || m.Editor != nil || m.Diagnostics != nil || m.Output != nil || m.Solution != nil {
		t.Errorf("unhandled role populated a variant: %+v", m)
	}
}
