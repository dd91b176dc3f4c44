package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PrintQuote/internal/model"
)

func newLayoutCmd(a *app) *cobra.Command {
	var (
		sheet, piece string
		margins      model.Margins
		noRotate     bool
		asJSON       bool
	)
	defaults := model.DefaultSettings().OffsetMargins

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Show how many pieces fit on a sheet",
		Long: `Lay a piece out on a press sheet and print the grid, the usable area and
the remnant strips left over. Sizes are WIDTHxHEIGHT in centimetres.`,
		Example: "  printquote layout --sheet 50x35 --piece 9x5 --bleed 0.3",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := parseSize(sheet)
			if err != nil {
				return err
			}
			p, err := parseSize(piece)
			if err != nil {
				return err
			}

			l := a.memo.Layout(s, p, margins, !noRotate)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(l)
			}
			renderLayout(cmd.OutOrStdout(), l)
			return nil
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "50x35", "Press sheet size")
	cmd.Flags().StringVar(&piece, "piece", "", "Finished piece size")
	cmd.Flags().Float64Var(&margins.Gripper, "gripper", defaults.Gripper, "Gripper margin (cm)")
	cmd.Flags().Float64Var(&margins.Edge, "edge", defaults.Edge, "Edge margin on every side (cm)")
	cmd.Flags().Float64Var(&margins.Gap, "gap", defaults.Gap, "Gap between pieces (cm)")
	cmd.Flags().Float64Var(&margins.Bleed, "bleed", defaults.Bleed, "Bleed around each piece (cm)")
	cmd.Flags().BoolVar(&noRotate, "no-rotate", false, "Keep the piece in its given orientation")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the layout as JSON")
	_ = cmd.MarkFlagRequired("piece")
	return cmd
}
