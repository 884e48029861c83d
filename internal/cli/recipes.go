package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/firstsnow25/BlockChef-front-sub000/internal/store"
)

// NewRecipesCommand creates the recipes command group.
func NewRecipesCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "Inspect stored recipe documents",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "blockchef.db", "path to SQLite database")

	list := &cobra.Command{
		Use:           "list",
		Short:         "List stored recipes",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(dbPath)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to open database", err)
			}
			defer st.Close()

			recipes, err := st.ListRecipes(context.Background())
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to list recipes", err)
			}

			out := cmd.OutOrStdout()
			if len(recipes) == 0 {
				fmt.Fprintln(out, "no recipes")
				return nil
			}
			for _, r := range recipes {
				line := fmt.Sprintf("%s  %s", r.ID, r.Title)
				if len(r.Tags) > 0 {
					line += "  [" + strings.Join(r.Tags, ", ") + "]"
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	del := &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete a stored recipe",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(dbPath)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to open database", err)
			}
			defer st.Close()

			if err := st.DeleteRecipe(context.Background(), args[0]); err != nil {
				return WrapExitError(ExitCommandError, "failed to delete recipe", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted", args[0])
			return nil
		},
	}

	cmd.AddCommand(list)
	cmd.AddCommand(del)
	return cmd
}
