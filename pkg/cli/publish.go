package cli

import (
	"fmt"
	"time"

	"github.com/Sergey-Okey/toka-app/pkg/auth"
	"github.com/Sergey-Okey/toka-app/pkg/colors"
	"github.com/Sergey-Okey/toka-app/pkg/config"
	"github.com/Sergey-Okey/toka-app/pkg/google"
	"github.com/Sergey-Okey/toka-app/pkg/index"
	"github.com/spf13/cobra"
)

func newPublishCmd(gf *globalFlags) *cobra.Command {
	var calendarName string
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish tasks with a due date to Google Calendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := config.GetConfigDir()
			if err != nil {
				return err
			}
			return withStore(gf, func(s *session) error {
				name := s.cfg.Calendar
				if calendarName != "" {
					name = calendarName
				}

				idx, err := index.NewEventIndex(s.storage)
				if err != nil {
					return err
				}
				cc, err := colors.NewColorCache(s.storage, time.Now)
				if err != nil {
					return err
				}
				client, err := google.NewClient(cmd.Context(), configDir, name)
				if err != nil {
					return fmt.Errorf("error creating Google Calendar client: %w", err)
				}

				res, err := google.NewPublisher(client, idx, cc, time.Now).Publish(cmd.Context(), s.store.Tasks())
				fmt.Fprintf(cmd.OutOrStdout(), "Published to %q: %d created, %d updated, %d unchanged, %d deleted, %d failed\n",
					name, res.Created, res.Updated, res.Unchanged, res.Deleted, res.Failed)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&calendarName, "calendar", "", "Google Calendar name (overrides config)")
	return cmd
}

func newAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize access to Google Calendar",
		Long: `Run the OAuth flow and store a fresh token.

Download an OAuth client for a desktop app from the Google Cloud console
and save it as credentials.json in the toka config directory first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := config.GetConfigDir()
			if err != nil {
				return err
			}
			if err := auth.Reauthorize(cmd.Context(), configDir); err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Authentication successful! Token saved to %s\n", auth.TokenPath(configDir))
			return nil
		},
	}
}
