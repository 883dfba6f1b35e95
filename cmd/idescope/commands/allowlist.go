package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var allowlistCmd = &cobra.Command{
	Use:   "allowlist",
	Short: "Manage the process-name allowlist",
	Long: `Manage the allowlist of IDE process names. Only windows owned by an
allow-listed process are ever classified, analyzed, or captured.`,
}

var allowlistAddCmd = &cobra.Command{
	Use:   "add <process-name>",
	Short: "Add a process name to the allowlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configMgr, err := loadConfig()
		if err != nil {
			return err
		}
		if err := configMgr.AddAllowedProcess(args[0]); err != nil {
			return err
		}
		fmt.Printf("Added %q to the allowlist\n", args[0])
		return nil
	},
}

var allowlistRemoveCmd = &cobra.Command{
	Use:   "remove <process-name>",
	Short: "Remove a process name from the allowlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configMgr, err := loadConfig()
		if err != nil {
			return err
		}
		if err := configMgr.RemoveAllowedProcess(args[0]); err != nil {
			return err
		}
		fmt.Printf("Removed %q from the allowlist\n", args[0])
		return nil
	},
}

var allowlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the allowed process names",
	RunE: func(cmd *cobra.Command, args []string) error {
		configMgr, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := configMgr.Get()
		if len(cfg.AllowedProcesses) == 0 {
			fmt.Println("Allowlist is empty; no window will pass ownership validation")
			return nil
		}
		for _, name := range cfg.AllowedProcesses {
			fmt.Println(name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(allowlistCmd)
	allowlistCmd.AddCommand(allowlistAddCmd)
	allowlistCmd.AddCommand(allowlistRemoveCmd)
	allowlistCmd.AddCommand(allowlistListCmd)
}
