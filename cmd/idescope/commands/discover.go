package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/idescope/idescope/internal/ide"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover and classify IDE windows",
	Long: `Enumerate every window belonging to the allow-listed IDE family,
classify each by role, and print the result.`,
	Example: `  # List windows in table format (default)
  idescope discover

  # List windows in JSON format
  idescope discover --format json

  # Show the active window only
  idescope discover --active`,
	RunE: runDiscover,
}

var (
	discoverFormat string
	discoverActive bool
)

func init() {
	rootCmd.AddCommand(discoverCmd)

	discoverCmd.Flags().StringVarP(&discoverFormat, "format", "f", "table", "output format (table or json)")
	discoverCmd.Flags().BoolVarP(&discoverActive, "active", "a", false, "show only the active window")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	configMgr, err := loadConfig()
	if err != nil {
		return err
	}

	service, err := ide.New(configMgr.Get())
	if err != nil {
		return fmt.Errorf("failed to connect to X11: %w", err)
	}
	defer service.Close()

	ctx := context.Background()

	if discoverActive {
		active := service.GetActiveWindow(ctx)
		if active == nil {
			fmt.Println("No active IDE window found")
			return nil
		}
		if discoverFormat == "json" {
			return printJSON(active)
		}
		fmt.Printf("0x%x  %-22s  %s\n", uint32(active.Handle), active.Role, active.Title)
		return nil
	}

	windows := service.DiscoverWindows(ctx)

	if discoverFormat == "json" {
		return printJSON(windows)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "HANDLE\tROLE\tPID\tBOUNDS\tTITLE")
	for _, win := range windows {
		fmt.Fprintf(w, "0x%x\t%s\t%d\t%d,%d %dx%d\t%s\n",
			uint32(win.Handle), win.Role, win.PID,
			win.Bounds.X, win.Bounds.Y, win.Bounds.Width, win.Bounds.Height,
			win.Title)
	}
	return w.Flush()
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
