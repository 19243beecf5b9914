package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTagsCmd(gf *globalFlags) *cobra.Command {
	tagsCmd := &cobra.Command{
		Use:   "tags",
		Short: "Manage the tag registry",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(gf, func(s *session) error {
				for _, t := range s.store.Tags() {
					fmt.Fprintf(cmd.OutOrStdout(), "%-4s %-16s %s\n", t.ID, t.Name, t.Color)
				}
				return nil
			})
		},
	}

	var color string
	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Register a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(gf, func(s *session) error {
				tag, err := s.store.AddTag(args[0], color)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", tag.ID, tag.Name, tag.Color)
				return nil
			})
		},
	}
	addCmd.Flags().StringVar(&color, "color", "", "Hex color, e.g. #ff9800")

	tagsCmd.AddCommand(listCmd, addCmd)
	return tagsCmd
}
