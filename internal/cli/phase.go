package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/wbs/internal/cli/formatter"
)

func newPhaseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "phase",
		Aliases: []string{"phases"},
		Short:   "Manage phases",
	}
	cmd.AddCommand(
		newPhaseAddCmd(app),
		newPhaseListCmd(app),
		newPhaseRenameCmd(app),
		newPhaseRmCmd(app),
		newPhaseReorderCmd(app),
	)
	return cmd
}

func newPhaseAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME",
		Short: "Add a phase at the end",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Store.AddPhase(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("adding phase: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added phase %s (#%d)\n", formatter.Bold(p.Name), p.ID)
			return nil
		},
	}
}

func newPhaseListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List phases in order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			phases := app.Store.Phases()
			if len(phases) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No phases."))
				return nil
			}
			counts := map[string]int{}
			for _, t := range app.Store.Tasks() {
				counts[t.Phase]++
			}
			rows := make([][]string, 0, len(phases))
			for _, p := range phases {
				rows = append(rows, []string{
					strconv.FormatInt(p.ID, 10),
					p.Name,
					strconv.Itoa(len(app.Store.CategoriesOf(p.ID))),
					strconv.Itoa(counts[p.Name]),
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"ID", "Name", "Categories", "Tasks"}, rows))
			return nil
		},
	}
}

func newPhaseRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename PHASE NAME",
		Short: "Rename a phase and the tasks that reference it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolvePhase(app.Store, args[0])
			if err != nil {
				return err
			}
			if err := app.Store.RenamePhase(cmd.Context(), p.ID, args[1]); err != nil {
				return fmt.Errorf("renaming phase: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", p.Name, formatter.Bold(args[1]))
			return nil
		},
	}
}

func newPhaseRmCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "rm PHASE",
		Aliases: []string{"delete"},
		Short:   "Delete a phase with its categories and tasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolvePhase(app.Store, args[0])
			if err != nil {
				return err
			}
			if err := app.Store.DeletePhase(cmd.Context(), p.ID, confirmer(app, yes)); err != nil {
				return fmt.Errorf("deleting phase: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted phase %s\n", p.Name)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func newPhaseReorderCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder PHASE...",
		Short: "Set the phase order; phases not named keep their place after those named",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ids []int64
			seen := map[int64]bool{}
			for _, a := range args {
				p, err := resolvePhase(app.Store, a)
				if err != nil {
					return err
				}
				if seen[p.ID] {
					return fmt.Errorf("phase %q listed twice", p.Name)
				}
				seen[p.ID] = true
				ids = append(ids, p.ID)
			}
			for _, p := range app.Store.Phases() {
				if !seen[p.ID] {
					ids = append(ids, p.ID)
				}
			}
			if err := app.Store.ReorderPhases(cmd.Context(), ids); err != nil {
				return fmt.Errorf("reordering phases: %w", err)
			}
			for i, id := range ids {
				p, _ := app.Store.Phase(id)
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, p.Name)
			}
			return nil
		},
	}
}
