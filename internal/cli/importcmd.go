package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/PrintQuote/internal/importer"
	"github.com/piwi3910/PrintQuote/internal/model"
	"github.com/piwi3910/PrintQuote/internal/project"
)

func newImportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import price lists, product lists and die lines",
	}
	cmd.AddCommand(newImportPricesCmd(a), newImportProductsCmd(a), newImportDieLineCmd(a))
	return cmd
}

func newImportPricesCmd(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "prices <file.csv|file.xlsx>",
		Short: "Merge a paper price list into the inventory",
		Long: `Read papers from a CSV or Excel price list and merge them into the
inventory. A paper with the same name and weight as an existing one gets
the new price.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := importer.ImportPrices(args[0])
			out := cmd.OutOrStdout()
			printMessages(out, res.Errors, res.Warnings)
			if len(res.Papers) == 0 {
				return fmt.Errorf("no papers imported from %s", filepath.Base(args[0]))
			}

			inv, path, err := a.loadInventory()
			if err != nil {
				return err
			}
			merged := project.MergeInventory(inv, res.Papers, nil)

			rows := make([][]string, 0, len(res.Papers))
			for _, p := range res.Papers {
				rows = append(rows, []string{p.Name, strconv.Itoa(p.GSM), size(p.ParentWidth, p.ParentHeight), money(p.PricePerSheet)})
			}
			printTable(out, []string{"Paper", "GSM", "Parent", "Price"}, rows)

			if dryRun {
				fmt.Fprintf(out, "%d papers read, inventory not changed\n", len(res.Papers))
				return nil
			}
			if err := project.SaveInventory(path, merged); err != nil {
				return err
			}
			a.log.Info("inventory updated",
				zap.String("path", path),
				zap.Int("imported", len(res.Papers)),
				zap.Int("papers", len(merged.Papers)))
			fmt.Fprintf(out, "%d papers merged, inventory now holds %d\n", len(res.Papers), len(merged.Papers))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the papers without saving the inventory")
	return cmd
}

func newImportProductsCmd(a *app) *cobra.Command {
	var (
		outPath string
		name    string
	)

	cmd := &cobra.Command{
		Use:   "products <file.csv|file.xlsx>",
		Short: "Convert a product list into a job file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := importer.ImportProducts(args[0])
			out := cmd.OutOrStdout()
			printMessages(out, res.Errors, res.Warnings)
			if len(res.Products) == 0 {
				return fmt.Errorf("no products imported from %s", filepath.Base(args[0]))
			}

			base := strings.TrimSuffix(args[0], filepath.Ext(args[0]))
			if outPath == "" {
				outPath = base + ".yaml"
			}
			q := model.NewQuote()
			a.config.ApplyToSettings(&q.Settings)
			q.Name = name
			if q.Name == "" {
				q.Name = filepath.Base(base)
			}
			q.Products = res.Products

			if err := project.SaveJobFile(outPath, project.JobFileFromQuote(q)); err != nil {
				return err
			}
			a.log.Info("job file written", zap.String("path", outPath), zap.Int("products", len(q.Products)))
			fmt.Fprintf(out, "%d products written to %s\n", len(q.Products), outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Job file to write (default <file>.yaml)")
	cmd.Flags().StringVar(&name, "name", "", "Quote name (default the file name)")
	return cmd
}

func newImportDieLineCmd(a *app) *cobra.Command {
	var (
		units string
		sheet string
	)

	cmd := &cobra.Command{
		Use:   "dieline <file.dxf>",
		Short: "Read the piece size from a DXF die line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := importer.ImportDieLine(args[0], units)
			out := cmd.OutOrStdout()
			printMessages(out, res.Errors, res.Warnings)
			if len(res.Errors) > 0 {
				return fmt.Errorf("failed to read die line %s", filepath.Base(args[0]))
			}

			printTable(out, []string{"Die line", "Value"}, [][]string{
				{"Piece", size(res.Piece.Width, res.Piece.Height)},
				{"Closed outlines", strconv.Itoa(res.Outlines)},
				{"Area (cm2)", fmt.Sprintf("%.2f", res.Area)},
			})

			if sheet == "" {
				return nil
			}
			s, err := parseSize(sheet)
			if err != nil {
				return err
			}
			settings := model.DefaultSettings()
			a.config.ApplyToSettings(&settings)
			renderLayout(out, a.memo.Layout(s, res.Piece, settings.OffsetMargins, true))
			return nil
		},
	}

	cmd.Flags().StringVar(&units, "units", "mm", "Drawing units: mm, cm, in or pt")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Also lay the piece out on this sheet (WIDTHxHEIGHT)")
	return cmd
}
