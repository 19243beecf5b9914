// Package cli is the toka command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// globalFlags override the corresponding config values for one run.
type globalFlags struct {
	dataDir string
	backend string
}

// NewRootCmd builds the command tree.
func NewRootCmd(version string) *cobra.Command {
	gf := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:   "toka",
		Short: "toka - a personal task tracker",
		Long: `toka keeps a local task list with due dates, priorities and tags,
tracks daily productivity and can publish due tasks to Google Calendar.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&gf.dataDir, "data-dir", "", "Directory holding the task data (overrides config)")
	rootCmd.PersistentFlags().StringVar(&gf.backend, "backend", "", "Storage backend: file or sqlite (overrides config)")

	rootCmd.AddCommand(
		newAddCmd(gf),
		newListCmd(gf),
		newShowCmd(gf),
		newUpdateCmd(gf),
		newToggleCmd(gf),
		newDoneCmd(gf),
		newDeleteCmd(gf),
		newStatsCmd(gf),
		newLogsCmd(gf),
		newTagsCmd(gf),
		newExportCmd(gf),
		newImportCmd(gf),
		newPublishCmd(gf),
		newAuthCmd(),
		newConfigCmd(),
	)
	return rootCmd
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute(version string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd(version).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
