package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/Sergey-Okey/toka-app/pkg/model"
	"github.com/Sergey-Okey/toka-app/pkg/orgmode"
	"github.com/Sergey-Okey/toka-app/pkg/taskwarrior"
	"github.com/spf13/cobra"
)

func newImportCmd(gf *globalFlags) *cobra.Command {
	var from, tag string
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import open tasks from Taskwarrior or Org-mode",
		Long: `Import open tasks as new toka tasks.

With --from taskwarrior the files are 'task export' output; without files
the task binary is run directly. With --from org the files are Org-mode
documents and TODO headlines are imported.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var drafts []model.Draft
			switch from {
			case "taskwarrior", "tw":
				client := taskwarrior.NewClient()
				var tasks []taskwarrior.Task
				if len(args) == 0 {
					var filter []string
					if tag != "" {
						filter = append(filter, "+"+tag)
					}
					var err error
					if tasks, err = client.GetTasks(filter); err != nil {
						return err
					}
				}
				for _, path := range args {
					f, err := os.Open(path)
					if err != nil {
						return err
					}
					parsed, err := client.ParseTasks(f)
					f.Close()
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					tasks = append(tasks, parsed...)
				}
				if tag != "" && len(args) > 0 {
					tasks = withTaskwarriorTag(tasks, tag)
				}
				drafts = taskwarrior.Drafts(tasks)
			case "org", "orgmode":
				if len(args) == 0 {
					return fmt.Errorf("org import needs at least one file")
				}
				headlines, err := orgmode.ParseFiles(args)
				if err != nil {
					return err
				}
				drafts = orgmode.Drafts(orgmode.FilterTasks(headlines, tag))
			default:
				return fmt.Errorf("unknown import source %q (use taskwarrior or org)", from)
			}

			return withStore(gf, func(s *session) error {
				for _, d := range drafts {
					s.store.AddTask(d)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks\n", len(drafts))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "taskwarrior", "Source: taskwarrior or org")
	cmd.Flags().StringVar(&tag, "tag", "", "Only import tasks carrying this tag")
	return cmd
}

func withTaskwarriorTag(tasks []taskwarrior.Task, tag string) []taskwarrior.Task {
	var out []taskwarrior.Task
	for _, t := range tasks {
		for _, name := range t.Tags {
			if strings.EqualFold(name, tag) {
				out = append(out, t)
				break
			}
		}
	}
	return out
}
