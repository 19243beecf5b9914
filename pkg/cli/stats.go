package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Sergey-Okey/toka-app/pkg/model"
	"github.com/spf13/cobra"
)

func newStatsCmd(gf *globalFlags) *cobra.Command {
	var jsonOutput, history bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show counts, productivity and breakdowns",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(gf, func(s *session) error {
				w := cmd.OutOrStdout()
				sum := s.store.Summary()
				byPriority := s.store.PriorityStats()
				byTag := s.store.TagStats()

				if jsonOutput {
					enc := json.NewEncoder(w)
					enc.SetIndent("", "  ")
					return enc.Encode(map[string]any{
						"summary":    sum,
						"priorities": byPriority,
						"tags":       byTag,
						"history":    s.store.History(),
					})
				}

				fmt.Fprintf(w, "Total: %d  Active: %d  Completed: %d  Overdue: %d\n",
					sum.Total, sum.Active, sum.Completed, sum.Overdue)
				fmt.Fprintf(w, "Weekly productivity: %d%%  Predicted: %d%%\n",
					sum.WeeklyProductivity, sum.PredictedProductivity)
				if len(sum.Categories) > 0 {
					fmt.Fprintf(w, "Categories: %s\n", strings.Join(sum.Categories, ", "))
				}
				if len(sum.Urgent) > 0 {
					fmt.Fprintf(w, "\nUrgent (%d):\n", len(sum.Urgent))
					for _, t := range sum.Urgent {
						printTask(w, s.store, t)
					}
				}

				fmt.Fprintln(w, "\nCompleted by priority:")
				for _, p := range model.Priorities {
					ps := byPriority[p]
					fmt.Fprintf(w, "  %-7s %3d tasks  %5d min total  %4d min avg\n", p, ps.Count, ps.TotalTime, ps.AvgTime)
				}
				fmt.Fprintln(w, "\nCompleted by tag:")
				for _, ts := range byTag {
					fmt.Fprintf(w, "  %-12s %3d\n", ts.Name, ts.Count)
				}

				if history {
					fmt.Fprintln(w, "\nHistory:")
					for _, d := range s.store.History() {
						fmt.Fprintf(w, "  %s  %3d/%-3d  %3d%%\n", d.Date, d.Completed, d.Total, d.Productivity)
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON")
	cmd.Flags().BoolVar(&history, "history", false, "Include the daily history")
	return cmd
}

func newLogsCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logs",
		Short: "Show the diagnostic log kept with the data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(gf, func(s *session) error {
				for _, line := range s.store.Logs() {
					fmt.Fprintln(cmd.OutOrStdout(), line)
				}
				return nil
			})
		},
	}
}
