package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idescope/idescope/internal/ide"
	"github.com/idescope/idescope/internal/window"
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Analyze the IDE docking layout",
	Long: `Enumerate the IDE's windows, classify them, and infer how each
panel is docked relative to the main window.`,
	Example: `  # Print a layout summary
  idescope layout

  # Print the full layout as JSON
  idescope layout --format json`,
	RunE: runLayout,
}

var layoutFormat string

func init() {
	rootCmd.AddCommand(layoutCmd)

	layoutCmd.Flags().StringVarP(&layoutFormat, "format", "f", "summary", "output format (summary or json)")
}

func runLayout(cmd *cobra.Command, args []string) error {
	configMgr, err := loadConfig()
	if err != nil {
		return err
	}

	service, err := ide.New(configMgr.Get())
	if err != nil {
		return fmt.Errorf("failed to connect to X11: %w", err)
	}
	defer service.Close()

	layout := service.AnalyzeLayout(context.Background())

	if layoutFormat == "json" {
		return printJSON(layout)
	}

	if layout.Main == nil {
		fmt.Println("No IDE main window found")
		return nil
	}

	fmt.Printf("Main window: %q (0x%x, %dx%d)\n",
		layout.Main.Title, uint32(layout.Main.Handle),
		layout.Main.Bounds.Width, layout.Main.Bounds.Height)
	if layout.Active != nil {
		fmt.Printf("Active:      %q (%s)\n", layout.Active.Title, layout.Active.Role)
	}
	fmt.Printf("Windows:     %d across %d roles\n", len(layout.Windows), len(layout.ByRole))

	d := layout.Docking
	if len(d.Left) == 0 && len(d.Right) == 0 && len(d.Top) == 0 &&
		len(d.Bottom) == 0 && len(d.Floating) == 0 && d.EditorArea == nil {
		return nil
	}

	fmt.Println("\nDocking:")
	printDockSide("left", layout.Docking.Left)
	printDockSide("right", layout.Docking.Right)
	printDockSide("top", layout.Docking.Top)
	printDockSide("bottom", layout.Docking.Bottom)
	printDockSide("floating", layout.Docking.Floating)
	if layout.Docking.EditorArea != nil {
		fmt.Printf("  editor    %s %q\n", layout.Docking.EditorArea.Role, layout.Docking.EditorArea.Title)
	}
	return nil
}

func printDockSide(side string, windows []window.Window) {
	for _, w := range windows {
		fmt.Printf("  %-9s %s %q\n", side, w.Role, w.Title)
	}
}
