package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/wbs/internal/snapshot"
)

func newExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export FILE",
		Short: "Write phases, categories and tasks to a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := snapshot.Export(cmd.Context(), app.Backend.Repos, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d phases, %d categories, %d tasks to %s\n",
				len(s.Phases), len(s.Categories), len(s.Tasks), args[0])
			return nil
		},
	}
}

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Add the rows of a YAML snapshot to the board",
		Long: `Import validates the whole file first and writes nothing when it is invalid.
Phases and categories that already exist by name are reused; tasks are always added.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := snapshot.Load(args[0])
			if err != nil {
				return err
			}
			res, err := snapshot.Import(cmd.Context(), app.Backend.Tx, s)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d phases, %d categories, %d tasks\n", res.Phases, res.Categories, res.Tasks)
			return nil
		},
	}
}
