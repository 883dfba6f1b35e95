package annotate

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/idescope/idescope/internal/window"
)

// Title parsing is best effort: a field that cannot be read off the
// window title is left zero rather than guessed.

var (
	errorCountRe   = regexp.MustCompile(`(\d+)\s+Errors?`)
	warningCountRe = regexp.MustCompile(`(\d+)\s+Warnings?`)
)

// languageByExtension maps editor file extensions to language names.
var languageByExtension = map[string]string{
	".cs":   "C#",
	".vb":   "Visual Basic",
	".fs":   "F#",
	".go":   "Go",
	".py":   "Python",
	".js":   "JavaScript",
	".ts":   "TypeScript",
	".c":    "C",
	".h":    "C",
	".cpp":  "C++",
	".hpp":  "C++",
	".java": "Java",
	".rb":   "Ruby",
	".rs":   "Rust",
	".sql":  "SQL",
	".xaml": "XAML",
	".xml":  "XML",
	".html": "HTML",
}

// metadataFor builds the role-specific variant from window metadata.
func metadataFor(w window.Window) Metadata {
	switch w.Role {
	case window.RoleMainWindow:
		return Metadata{Main: &MainMeta{WorkspaceName: workspaceFromTitle(w.Title)}}
	case window.RoleCodeEditor, window.RoleDesignSurface:
		return Metadata{Editor: editorMetaFromTitle(w.Title)}
	case window.RoleDiagnosticsList:
		return Metadata{Diagnostics: diagnosticsFromTitle(w.Title)}
	case window.RoleOutputLog:
		return Metadata{Output: &OutputMeta{Pane: paneFromTitle(w.Title)}}
	case window.RoleSolutionExplorer:
		return Metadata{Solution: &SolutionMeta{SolutionName: workspaceFromTitle(w.Title)}}
	default:
		return Metadata{}
	}
}

// workspaceFromTitle extracts the leading segment of a dash-separated
// title, e.g. "MyApp - JetBrains Rider" yields "MyApp".
func workspaceFromTitle(title string) string {
	parts := strings.Split(title, " - ")
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[0])
}

// paneFromTitle extracts the trailing segment, e.g. "Output - Build"
// yields "Build".
func paneFromTitle(title string) string {
	parts := strings.Split(title, " - ")
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[len(parts)-1])
}

func diagnosticsFromTitle(title string) *DiagnosticsMeta {
	meta := &DiagnosticsMeta{}
	if m := errorCountRe.FindStringSubmatch(title); m != nil {
		meta.Errors, _ = strconv.Atoi(m[1])
	}
	if m := warningCountRe.FindStringSubmatch(title); m != nil {
		meta.Warnings, _ = strconv.Atoi(m[1])
	}
	return meta
}

func editorMetaFromTitle(title string) *EditorMeta {
	meta := &EditorMeta{}
	for _, token := range strings.Fields(title) {
		modified := strings.HasSuffix(token, "*")
		token = strings.TrimRight(token, "*+]):,")
		lower := strings.ToLower(token)
		for ext, lang := range languageByExtension {
			if strings.HasSuffix(lower, ext) {
				meta.FileName = token
				meta.Language = lang
				meta.Modified = modified
				return meta
			}
		}
	}
	return meta
}
