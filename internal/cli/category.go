package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/wbs/internal/cli/formatter"
	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/store"
)

func newCategoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"cat", "categories"},
		Short:   "Manage categories within phases",
	}
	cmd.AddCommand(
		newCategoryAddCmd(app),
		newCategoryListCmd(app),
		newCategoryRenameCmd(app),
		newCategoryRmCmd(app),
		newCategoryMoveCmd(app, "up", store.Up),
		newCategoryMoveCmd(app, "down", store.Down),
	)
	return cmd
}

// categoryArg resolves a category argument, by id or by name inside the
// phase given with --phase.
func categoryArg(app *App, input, phaseFlag string) (domain.Category, error) {
	var phase domain.Phase
	if phaseFlag != "" {
		p, err := resolvePhase(app.Store, phaseFlag)
		if err != nil {
			return domain.Category{}, err
		}
		phase = p
	}
	return resolveCategory(app.Store, input, phase)
}

func newCategoryAddCmd(app *App) *cobra.Command {
	var phaseFlag string
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a category at the end of a phase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolvePhase(app.Store, phaseFlag)
			if err != nil {
				return err
			}
			c, err := app.Store.AddCategory(cmd.Context(), args[0], p.ID)
			if err != nil {
				return fmt.Errorf("adding category: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added category %s to %s (#%d)\n", formatter.Bold(c.Name), p.Name, c.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&phaseFlag, "phase", "p", "", "phase id or name (required)")
	_ = cmd.MarkFlagRequired("phase")
	return cmd
}

func newCategoryListCmd(app *App) *cobra.Command {
	var phaseFlag string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List categories grouped by phase",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			phases := app.Store.Phases()
			if phaseFlag != "" {
				p, err := resolvePhase(app.Store, phaseFlag)
				if err != nil {
					return err
				}
				phases = []domain.Phase{p}
			}
			counts := map[int64]int{}
			for _, t := range app.Store.Tasks() {
				counts[t.CategoryID]++
			}
			var rows [][]string
			for _, p := range phases {
				for _, c := range app.Store.CategoriesOf(p.ID) {
					rows = append(rows, []string{
						strconv.FormatInt(c.ID, 10),
						p.Name,
						c.Name,
						strconv.Itoa(counts[c.ID]),
					})
				}
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No categories."))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"ID", "Phase", "Name", "Tasks"}, rows))
			return nil
		},
	}
	cmd.Flags().StringVarP(&phaseFlag, "phase", "p", "", "only this phase")
	return cmd
}

func newCategoryRenameCmd(app *App) *cobra.Command {
	var phaseFlag string
	cmd := &cobra.Command{
		Use:   "rename CATEGORY NAME",
		Short: "Rename a category and the tasks in it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := categoryArg(app, args[0], phaseFlag)
			if err != nil {
				return err
			}
			if err := app.Store.RenameCategory(cmd.Context(), c.ID, args[1]); err != nil {
				return fmt.Errorf("renaming category: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", c.Name, formatter.Bold(args[1]))
			return nil
		},
	}
	cmd.Flags().StringVarP(&phaseFlag, "phase", "p", "", "phase to look the name up in")
	return cmd
}

func newCategoryRmCmd(app *App) *cobra.Command {
	var (
		phaseFlag string
		yes       bool
	)
	cmd := &cobra.Command{
		Use:     "rm CATEGORY",
		Aliases: []string{"delete"},
		Short:   "Delete a category and its tasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := categoryArg(app, args[0], phaseFlag)
			if err != nil {
				return err
			}
			if err := app.Store.DeleteCategory(cmd.Context(), c.ID, confirmer(app, yes)); err != nil {
				return fmt.Errorf("deleting category: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %s\n", c.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&phaseFlag, "phase", "p", "", "phase to look the name up in")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func newCategoryMoveCmd(app *App, use string, dir store.Direction) *cobra.Command {
	var phaseFlag string
	cmd := &cobra.Command{
		Use:   use + " CATEGORY",
		Short: "Move a category one place " + use + " within its phase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := categoryArg(app, args[0], phaseFlag)
			if err != nil {
				return err
			}
			moved, err := app.Store.MoveCategory(cmd.Context(), c.ID, dir)
			if err != nil {
				return fmt.Errorf("moving category: %w", err)
			}
			if !moved {
				edge := "top"
				if dir == store.Down {
					edge = "bottom"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is already at the %s\n", c.Name, edge)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s %s\n", c.Name, use)
			return nil
		},
	}
	cmd.Flags().StringVarP(&phaseFlag, "phase", "p", "", "phase to look the name up in")
	return cmd
}
