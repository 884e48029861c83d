package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firstsnow25/BlockChef-front-sub000/internal/catalog"
	"github.com/firstsnow25/BlockChef-front-sub000/internal/toolbox"
)

// NewPaletteCommand creates the palette command.
func NewPaletteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "palette",
		Short: "Print the block palette description",
		Long: `Print the palette (toolbox) XML generated from the block catalog.

The output is what the canvas consumes to populate its drag-source
palette.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Default()
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to compile catalog", err)
			}
			xml, err := toolbox.BuildDefault(cat)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to build palette", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), xml)
			return nil
		},
	}
}
