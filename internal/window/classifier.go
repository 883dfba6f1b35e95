package window

import "strings"

// classRoles maps exact window class names to roles. Checked before any
// title rule. The entries cover the IDE family's known tool-window
// classes; windows sharing a generic class fall through to title rules.
var classRoles = map[string]Role{
	"MonoDevelop":         RoleMainWindow,
	"monodevelop":         RoleMainWindow,
	"jetbrains-rider":     RoleMainWindow,
	"PropertyGridHost":    RolePropertiesPanel,
	"SolutionPadControl":  RoleSolutionExplorer,
	"ToolboxPadControl":   RoleToolbox,
	"OutputPadControl":    RoleOutputLog,
	"XamlDesignerHost":    RoleDesignSurface,
	"ImmediatePadControl": RoleImmediateWindow,
}

// titleRule matches a role-indicative title fragment. Rules are tried in
// order and the first match wins, so this order is part of the observable
// contract: a reordering changes classification results.
type titleRule struct {
	fragment string
	role     Role
}

var titleRules = []titleRule{
	{"Solution Explorer", RoleSolutionExplorer},
	{"Error List", RoleDiagnosticsList},
	{"Problems", RoleDiagnosticsList},
	{"Package Manager Console", RoleConsolePanel},
	{"Server Explorer", RoleResourceExplorer},
	{"Team Explorer", RoleVersionControlPanel},
	{"Source Control", RoleVersionControlPanel},
	{"Find and Replace", RoleFindReplace},
	{"Find in Files", RoleFindReplace},
	{"Call Stack", RoleCallStackWindow},
	{"Immediate", RoleImmediateWindow},
	{"Watch", RoleWatchWindow},
	{"Locals", RoleLocalsWindow},
	{"Autos", RoleAutosWindow},
	{"Properties", RolePropertiesPanel},
	{"Toolbox", RoleToolbox},
	{"Output", RoleOutputLog},
	{"Terminal", RoleConsolePanel},
	{"Visual Studio", RoleMainWindow},
	{"JetBrains Rider", RoleMainWindow},
	{"MonoDevelop", RoleMainWindow},
}

// sourceExtensions are file extensions whose presence in a title implies
// a code editor. The list is a starting point, not a canonical set: the
// host IDE's titles are locale- and version-dependent.
var sourceExtensions = []string{
	".cs", ".vb", ".fs", ".go", ".py", ".js", ".ts",
	".c", ".h", ".cpp", ".hpp", ".java", ".rb", ".rs", ".sql",
}

// markupExtensions imply a design surface.
var markupExtensions = []string{
	".xaml", ".axaml", ".cshtml", ".razor", ".xml", ".html",
}

// markupClassFragments are class-name fragments that imply a design
// surface even without a markup extension in the title.
var markupClassFragments = []string{
	"XamlDesigner", "DesignerHost", "DesignSurface",
}

// Classify maps raw window metadata to a Role. It is deterministic,
// side-effect free, and total: unrecognized windows are RoleUnknown.
func Classify(w Window) Role {
	if role, ok := classRoles[w.Class]; ok {
		return role
	}

	for _, rule := range titleRules {
		if strings.Contains(w.Title, rule.fragment) {
			return rule.role
		}
	}

	if titleHasExtension(w.Title, sourceExtensions) {
		return RoleCodeEditor
	}
	if titleHasExtension(w.Title, markupExtensions) || classHasFragment(w.Class, markupClassFragments) {
		return RoleDesignSurface
	}

	return RoleUnknown
}

// titleHasExtension reports whether any whitespace-separated token of the
// title ends in one of the extensions. Tokens are stripped of trailing
// decoration such as the modified marker ("Program.cs*") before matching,
// so ".cs" does not fire on "Index.cshtml".
func titleHasExtension(title string, extensions []string) bool {
	for _, token := range strings.Fields(title) {
		token = strings.TrimRight(token, "*+]):,")
		lower := strings.ToLower(token)
		for _, ext := range extensions {
			if strings.HasSuffix(lower, ext) {
				return true
			}
		}
	}
	return false
}

func classHasFragment(class string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(class, f) {
			return true
		}
	}
	return false
}
