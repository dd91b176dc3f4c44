package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PrintQuote/internal/model"
)

func newCatalogCmd(a *app) *cobra.Command {
	var papers bool

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the sheet catalog, digital sheets and papers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, path, err := a.loadInventory()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			rows := make([][]string, 0, len(inv.Candidates))
			for _, c := range inv.Candidates {
				rows = append(rows, []string{
					c.Name,
					size(c.Width, c.Height),
					size(c.ParentWidth, c.ParentHeight),
					strconv.Itoa(c.CutsPerParent),
				})
			}
			printTitle(out, "Offset sheets")
			printTable(out, []string{"Name", "Sheet", "Parent", "Cuts"}, rows)

			var digital [][]string
			for _, d := range model.DigitalSheets {
				digital = append(digital, []string{d.Name, size(d.Width, d.Height)})
			}
			printTitle(out, "Digital sheets")
			printTable(out, []string{"Name", "Sheet"}, digital)

			if !papers {
				return nil
			}
			paperRows := make([][]string, 0, len(inv.Papers))
			for _, p := range inv.Papers {
				paperRows = append(paperRows, []string{
					p.Name,
					strconv.Itoa(p.GSM),
					size(p.ParentWidth, p.ParentHeight),
					money(p.PricePerSheet),
					p.Supplier,
				})
			}
			printTitle(out, fmt.Sprintf("Papers (%s)", path))
			printTable(out, []string{"Paper", "GSM", "Parent", "Price", "Supplier"}, paperRows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&papers, "papers", false, "Also list the inventory papers")
	return cmd
}
