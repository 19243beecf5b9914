package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Sergey-Okey/toka-app/pkg/model"
	"github.com/Sergey-Okey/toka-app/pkg/store"
	"github.com/Sergey-Okey/toka-app/pkg/tags"
	"github.com/Sergey-Okey/toka-app/pkg/util"
	"github.com/spf13/cobra"
)

const listTimeLayout = "2006-01-02 15:04"

func parseDue(s string) (time.Time, error) {
	ts, err := model.ParseTimestamp(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q (use YYYY-MM-DD or YYYY-MM-DDTHH:MM)", s)
	}
	return ts.Time, nil
}

func parseMinutes(s string) (int, error) {
	d, err := util.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	return int(d.Round(time.Minute) / time.Minute), nil
}

// resolveID accepts a full task id or an unambiguous prefix of one.
func resolveID(st *store.Store, ref string) (string, error) {
	if _, ok := st.TaskByID(ref); ok {
		return ref, nil
	}
	var match string
	for _, t := range st.Tasks() {
		if strings.HasPrefix(t.ID, ref) {
			if match != "" {
				return "", fmt.Errorf("task id %q is ambiguous", ref)
			}
			match = t.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("task %q not found", ref)
	}
	return match, nil
}

func printTask(w io.Writer, st *store.Store, t model.Task) {
	mark := "[ ]"
	switch {
	case t.Completed:
		mark = "[x]"
	case st.IsOverdue(t):
		mark = "[!]"
	}
	fmt.Fprintf(w, "%s %s  %s", mark, t.ID, t.Title)
	if t.Priority != "" && t.Priority != model.PriorityNone {
		fmt.Fprintf(w, "  (%s)", t.Priority)
	}
	if t.DueDate != nil {
		fmt.Fprintf(w, "  due %s", t.DueDate.Local().Format(listTimeLayout))
	}
	if t.Category != "" {
		fmt.Fprintf(w, "  @%s", t.Category)
	}
	for _, tag := range t.Tags {
		fmt.Fprintf(w, " #%s", tag.Name)
	}
	fmt.Fprintln(w)
}

func newAddCmd(gf *globalFlags) *cobra.Command {
	var (
		due, category, priority, description, estimate string
		tagNames                                       []string
	)
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := model.Draft{
				Title:       strings.Join(args, " "),
				Description: description,
				Category:    category,
				Tags:        tags.FromNames(tagNames),
			}
			if due != "" {
				t, err := parseDue(due)
				if err != nil {
					return err
				}
				d.DueDate = &t
			}
			if priority != "" {
				p, err := model.ParsePriority(priority)
				if err != nil {
					return err
				}
				d.Priority = p
			}
			if estimate != "" {
				m, err := parseMinutes(estimate)
				if err != nil {
					return err
				}
				d.EstimatedTime = m
			}
			return withStore(gf, func(s *session) error {
				id := s.store.AddTask(d)
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD or YYYY-MM-DDTHH:MM)")
	cmd.Flags().StringVar(&category, "category", "", "Category")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Priority: none, low, medium or high")
	cmd.Flags().StringSliceVarP(&tagNames, "tag", "t", nil, "Tag name (repeatable)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Longer description")
	cmd.Flags().StringVar(&estimate, "estimate", "", "Estimated time, e.g. 45m or PT1H30M")
	return cmd
}

func newListCmd(gf *globalFlags) *cobra.Command {
	var (
		date                string
		onlyOverdue, urgent bool
		pending, jsonOutput bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(gf, func(s *session) error {
				w := cmd.OutOrStdout()
				var tasks []model.Task
				switch {
				case onlyOverdue:
					for _, e := range s.store.OverdueTasks() {
						if t, ok := s.store.TaskByID(e.TaskID); ok {
							tasks = append(tasks, t)
						}
					}
				case urgent:
					tasks = s.store.UrgentTasks()
				case date != "":
					day, err := parseDue(date)
					if err != nil {
						return err
					}
					tasks = s.store.TasksForDate(day)
				default:
					tasks = s.store.Tasks()
				}
				if pending {
					open := tasks[:0]
					for _, t := range tasks {
						if !t.Completed {
							open = append(open, t)
						}
					}
					tasks = open
				}

				if jsonOutput {
					enc := json.NewEncoder(w)
					enc.SetIndent("", "  ")
					if tasks == nil {
						tasks = []model.Task{}
					}
					return enc.Encode(tasks)
				}
				if len(tasks) == 0 {
					fmt.Fprintln(w, "No tasks found.")
					return nil
				}
				for _, t := range tasks {
					printTask(w, s.store, t)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Only tasks due on this day (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&onlyOverdue, "overdue", false, "Only overdue tasks, oldest first")
	cmd.Flags().BoolVar(&urgent, "urgent", false, "Only urgent tasks")
	cmd.Flags().BoolVar(&pending, "pending", false, "Hide completed tasks")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON")
	cmd.MarkFlagsMutuallyExclusive("date", "overdue", "urgent")
	return cmd
}

func newShowCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a task as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(gf, func(s *session) error {
				id, err := resolveID(s.store, args[0])
				if err != nil {
					return err
				}
				task, _ := s.store.TaskByID(id)
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(task)
			})
		},
	}
}

func newUpdateCmd(gf *globalFlags) *cobra.Command {
	var (
		title, description, due, category, priority string
		spent, estimate                             string
		tagNames                                    []string
		clearDue, completed                         bool
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var p model.Patch
			if flags.Changed("title") {
				p.Title = &title
			}
			if flags.Changed("description") {
				p.Description = &description
			}
			if flags.Changed("category") {
				p.Category = &category
			}
			if flags.Changed("completed") {
				p.Completed = &completed
			}
			if flags.Changed("due") {
				t, err := parseDue(due)
				if err != nil {
					return err
				}
				p.DueDate = &t
			}
			p.ClearDueDate = clearDue
			if flags.Changed("priority") {
				pr, err := model.ParsePriority(priority)
				if err != nil {
					return err
				}
				p.Priority = &pr
			}
			if flags.Changed("tag") {
				p.Tags = tags.FromNames(tagNames)
			}
			if flags.Changed("spent") {
				m, err := parseMinutes(spent)
				if err != nil {
					return err
				}
				p.TimeSpent = &m
			}
			if flags.Changed("estimate") {
				m, err := parseMinutes(estimate)
				if err != nil {
					return err
				}
				p.EstimatedTime = &m
			}

			return withStore(gf, func(s *session) error {
				id, err := resolveID(s.store, args[0])
				if err != nil {
					return err
				}
				if !s.store.UpdateTask(id, p) {
					return fmt.Errorf("task %s was not updated", id)
				}
				task, _ := s.store.TaskByID(id)
				printTask(cmd.OutOrStdout(), s.store, task)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&title, "title", "", "New title")
	f.StringVarP(&description, "description", "d", "", "New description")
	f.StringVar(&due, "due", "", "New due date")
	f.BoolVar(&clearDue, "no-due", false, "Remove the due date")
	f.StringVar(&category, "category", "", "New category")
	f.StringVarP(&priority, "priority", "p", "", "New priority")
	f.StringSliceVarP(&tagNames, "tag", "t", nil, "Replace the tags (repeatable)")
	f.BoolVar(&completed, "completed", false, "Set the completion flag")
	f.StringVar(&spent, "spent", "", "Time spent, e.g. 1h15m")
	f.StringVar(&estimate, "estimate", "", "Estimated time")
	cmd.MarkFlagsMutuallyExclusive("due", "no-due")
	return cmd
}

// actOnTask resolves ref, applies act and prints the result.
func actOnTask(gf *globalFlags, w io.Writer, ref, verb string, act func(st *store.Store, id string) bool) error {
	return withStore(gf, func(s *session) error {
		id, err := resolveID(s.store, ref)
		if err != nil {
			return err
		}
		if !act(s.store, id) {
			return fmt.Errorf("%s failed for task %s", verb, id)
		}
		if task, ok := s.store.TaskByID(id); ok {
			printTask(w, s.store, task)
		} else {
			fmt.Fprintf(w, "Deleted %s\n", id)
		}
		return nil
	})
}

func newToggleCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip the completion state of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return actOnTask(gf, cmd.OutOrStdout(), args[0], "toggle", (*store.Store).ToggleCompletion)
		},
	}
}

func newDeleteCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return actOnTask(gf, cmd.OutOrStdout(), args[0], "delete", (*store.Store).DeleteTask)
		},
	}
}

func newDoneCmd(gf *globalFlags) *cobra.Command {
	var spent string
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Complete a task and record the time spent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := util.ParseDuration(spent)
			if err != nil {
				return err
			}
			return actOnTask(gf, cmd.OutOrStdout(), args[0], "done", func(st *store.Store, id string) bool {
				return st.CompleteTask(id, d)
			})
		},
	}
	cmd.Flags().StringVar(&spent, "spent", "", "Time spent, e.g. 45m or PT1H")
	return cmd
}
