package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/wbs/internal/cli/formatter"
	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/hierarchy"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks", "t"},
		Short:   "Manage tasks",
	}
	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskShowCmd(app),
		newTaskSetCmd(app),
		newTaskDatesCmd(app),
		newTaskIndentCmd(app),
		newTaskMoveCmd(app),
		newTaskRmCmd(app),
	)
	return cmd
}

// taskFlags are the editable task fields shared by add and set.
type taskFlags struct {
	phase, category          string
	owner, status, priority  string
	effort, note, start, end string
	indent                   int
}

func (f *taskFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.phase, "phase", "p", "", "phase name")
	fs.StringVarP(&f.category, "category", "c", "", "category name within the phase")
	fs.StringVar(&f.owner, "owner", "", "engineer, designer or shared")
	fs.StringVar(&f.status, "status", "", "not_started, in_progress, done or on_hold")
	fs.StringVar(&f.priority, "priority", "", "required, recommended or optional")
	fs.StringVar(&f.effort, "effort", "", "free-form effort estimate")
	fs.StringVar(&f.note, "note", "", "note")
	fs.StringVar(&f.start, "start", "", "start date (YYYY-MM-DD)")
	fs.StringVar(&f.end, "end", "", "end date (YYYY-MM-DD)")
	fs.IntVar(&f.indent, "indent", 0, "outline level (0-3)")
}

// apply copies the flags that were set on fs onto t.
func (f *taskFlags) apply(fs *pflag.FlagSet, t *domain.Task) error {
	if fs.Changed("phase") {
		t.Phase = f.phase
	}
	if fs.Changed("category") {
		t.Category = f.category
	}
	if fs.Changed("owner") {
		o := domain.Owner(f.owner)
		if !o.Valid() {
			return fmt.Errorf("invalid owner %q", f.owner)
		}
		t.Owner = o
	}
	if fs.Changed("status") {
		s := domain.Status(f.status)
		if !s.Valid() {
			return fmt.Errorf("invalid status %q", f.status)
		}
		t.Status = s
	}
	if fs.Changed("priority") {
		p := domain.Priority(f.priority)
		if !p.Valid() {
			return fmt.Errorf("invalid priority %q", f.priority)
		}
		t.Priority = p
	}
	if fs.Changed("effort") {
		t.Effort = f.effort
	}
	if fs.Changed("note") {
		t.Note = f.note
	}
	if fs.Changed("start") {
		d, err := domain.ParseDate(f.start)
		if err != nil {
			return err
		}
		t.StartDate = d
	}
	if fs.Changed("end") {
		d, err := domain.ParseDate(f.end)
		if err != nil {
			return err
		}
		t.EndDate = d
	}
	if fs.Changed("indent") {
		t.IndentLevel = f.indent
	}
	return nil
}

func newTaskAddCmd(app *App) *cobra.Command {
	var f taskFlags
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a task at the end of its phase and category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := domain.Task{Name: args[0], Phase: defaultPhase(app)}
			if err := f.apply(cmd.Flags(), &t); err != nil {
				return err
			}
			if p, err := resolvePhase(app.Store, t.Phase); err == nil {
				t.Phase = p.Name
			}
			created, err := app.Store.AddTask(cmd.Context(), t)
			if err != nil {
				return fmt.Errorf("adding task: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added task #%d %s\n", created.ID, formatter.Bold(created.Name))
			return nil
		},
	}
	f.register(cmd.Flags())
	return cmd
}

// defaultPhase is the first phase row, or the first default phase name.
func defaultPhase(app *App) string {
	if phases := app.Store.Phases(); len(phases) > 0 {
		return phases[0].Name
	}
	return domain.DefaultPhaseNames[0]
}

func newTaskListCmd(app *App) *cobra.Command {
	filter := hierarchy.Filter{Phase: hierarchy.All, Owner: hierarchy.All}
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks in outline order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if filter.Phase != hierarchy.All {
				p, err := resolvePhase(app.Store, filter.Phase)
				if err != nil {
					return err
				}
				filter.Phase = p.Name
			}
			tasks := hierarchy.FilterTasks(app.Store.Tasks(), filter)
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No tasks."))
				return nil
			}
			var rows [][]string
			for _, g := range hierarchy.GroupByPhase(tasks, app.Store.Phases(), app.Store.Categories()) {
				for _, sec := range g.Sections {
					for _, t := range sec.Tasks {
						rows = append(rows, taskRow(t))
					}
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable(
				[]string{"ID", "Phase", "Category", "Task", "Owner", "Status", "Dates", "Days"}, rows))
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter.Phase, "phase", "p", hierarchy.All, "only this phase")
	cmd.Flags().StringVar(&filter.Owner, "owner", hierarchy.All, "only this owner")
	return cmd
}

func taskRow(t domain.Task) []string {
	days := ""
	if n := t.DurationDays(); n > 0 {
		days = strconv.Itoa(n)
	}
	return []string{
		strconv.FormatInt(t.ID, 10),
		t.Phase,
		t.Category,
		strings.Repeat("  ", t.IndentLevel) + t.Name,
		t.Owner.Label(),
		t.Status.Label(),
		formatter.DateRange(t.StartDate, t.EndDate),
		days,
	}
}

func newTaskShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show every field of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolveTask(app.Store, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.Bold(fmt.Sprintf("#%d %s", t.ID, t.Name)))
			field := func(label, value string) {
				fmt.Fprintf(out, "%s %s\n", formatter.PadRight(formatter.Dim(label), 10), value)
			}
			field("Phase", t.Phase)
			field("Category", orDash(t.Category))
			field("Owner", t.Owner.Label())
			field("Status", formatter.StatusPill(t.Status))
			field("Priority", formatter.PriorityLabel(t.Priority))
			field("Effort", orDash(t.Effort))
			field("Start", formatter.HumanDate(t.StartDate))
			field("End", formatter.HumanDate(t.EndDate))
			if n := t.DurationDays(); n > 0 {
				field("Duration", formatter.Days(n))
			}
			field("Indent", strconv.Itoa(t.IndentLevel))
			if t.Note != "" {
				field("Note", t.Note)
			}
			return nil
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "--"
	}
	return s
}

func newTaskSetCmd(app *App) *cobra.Command {
	var f taskFlags
	cmd := &cobra.Command{
		Use:   "set ID",
		Short: "Change fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolveTask(app.Store, args[0])
			if err != nil {
				return err
			}
			if !localChanged(cmd) {
				return fmt.Errorf("nothing to change")
			}
			if cmd.Flags().Changed("name") {
				t.Name = cmd.Flag("name").Value.String()
			}
			if err := f.apply(cmd.Flags(), &t); err != nil {
				return err
			}
			if err := app.Store.SaveTask(cmd.Context(), t); err != nil {
				return fmt.Errorf("saving task: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task #%d\n", t.ID)
			return nil
		},
	}
	cmd.Flags().String("name", "", "task name")
	f.register(cmd.Flags())
	return cmd
}

// localChanged reports whether any flag defined on cmd itself was set.
// Persistent flags such as --db and --log-level don't count.
func localChanged(cmd *cobra.Command) bool {
	changed := false
	cmd.LocalNonPersistentFlags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			changed = true
		}
	})
	return changed
}

func newTaskDatesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dates ID START END",
		Short: "Set both dates of a task; \"-\" clears one",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolveTask(app.Store, args[0])
			if err != nil {
				return err
			}
			var dates [2]domain.Date
			for i, s := range args[1:] {
				if s == "-" {
					continue
				}
				if dates[i], err = domain.ParseDate(s); err != nil {
					return err
				}
			}
			if err := app.Store.CommitDates(cmd.Context(), t.ID, dates[0], dates[1]); err != nil {
				return fmt.Errorf("setting dates: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "#%d %s: %s\n", t.ID, t.Name, formatter.DateRange(dates[0], dates[1]))
			return nil
		},
	}
}

func newTaskIndentCmd(app *App) *cobra.Command {
	var out bool
	cmd := &cobra.Command{
		Use:   "indent ID",
		Short: "Indent a task one level (--out to outdent)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolveTask(app.Store, args[0])
			if err != nil {
				return err
			}
			delta := 1
			if out {
				delta = -1
			}
			changed, err := app.Store.ChangeIndent(cmd.Context(), t.ID, delta)
			if err != nil {
				return fmt.Errorf("changing indent: %w", err)
			}
			if !changed {
				fmt.Fprintf(cmd.OutOrStdout(), "#%d is already at level %d\n", t.ID, t.IndentLevel)
				return nil
			}
			t, _ = app.Store.Task(t.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "#%d is now at level %d\n", t.ID, t.IndentLevel)
			return nil
		},
	}
	cmd.Flags().BoolVar(&out, "out", false, "outdent instead")
	return cmd
}

func newTaskMoveCmd(app *App) *cobra.Command {
	var by int
	cmd := &cobra.Command{
		Use:   "move ID",
		Short: "Move a task within its phase and category (--by=-1 moves up)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolveTask(app.Store, args[0])
			if err != nil {
				return err
			}
			moved, err := app.Store.ShiftTask(cmd.Context(), t.ID, by)
			if err != nil {
				return fmt.Errorf("moving task: %w", err)
			}
			if !moved {
				fmt.Fprintf(cmd.OutOrStdout(), "#%d cannot move %d\n", t.ID, by)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved #%d\n", t.ID)
			return nil
		},
	}
	cmd.Flags().IntVar(&by, "by", 1, "rows to move; negative moves up")
	return cmd
}

func newTaskRmCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolveTask(app.Store, args[0])
			if err != nil {
				return err
			}
			if err := app.Store.DeleteTask(cmd.Context(), t.ID, confirmer(app, yes)); err != nil {
				return fmt.Errorf("deleting task: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task #%d\n", t.ID)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}
