package cli

import (
	"encoding/json"
	"fmt"

	"github.com/Sergey-Okey/toka-app/pkg/config"
	"github.com/Sergey-Okey/toka-app/pkg/store"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the configuration",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(cfg)
		},
	}

	setCalendarCmd := &cobra.Command{
		Use:   "set-calendar <name>",
		Short: "Set the default Google Calendar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateConfig(func(cfg *config.Config) error {
				cfg.Calendar = args[0]
				fmt.Fprintf(cmd.OutOrStdout(), "Default calendar set to: %s\n", args[0])
				return nil
			})
		},
	}

	setBackendCmd := &cobra.Command{
		Use:   "set-backend <file|sqlite>",
		Short: "Set the storage backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateConfig(func(cfg *config.Config) error {
				if args[0] != config.BackendFile && args[0] != config.BackendSQLite {
					return fmt.Errorf("unknown storage backend %q", args[0])
				}
				cfg.Backend = args[0]
				fmt.Fprintf(cmd.OutOrStdout(), "Storage backend set to: %s\n", args[0])
				return nil
			})
		},
	}

	setPolicyCmd := &cobra.Command{
		Use:   "set-active-policy <exclude-overdue|include-overdue>",
		Short: "Choose whether overdue tasks count as active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateConfig(func(cfg *config.Config) error {
				p, err := store.ParseActivePolicy(args[0])
				if err != nil {
					return err
				}
				cfg.ActivePolicy = string(p)
				fmt.Fprintf(cmd.OutOrStdout(), "Active policy set to: %s\n", p)
				return nil
			})
		},
	}

	configCmd.AddCommand(showCmd, setCalendarCmd, setBackendCmd, setPolicyCmd)
	return configCmd
}

// updateConfig edits the file on disk. Environment overrides are not
// written back.
func updateConfig(edit func(cfg *config.Config) error) error {
	path, err := config.GetConfigPath()
	if err != nil {
		return err
	}
	cfg, err := config.ReadFile(path)
	if err != nil {
		return err
	}
	if err := edit(cfg); err != nil {
		return err
	}
	return config.SaveFile(path, cfg)
}
