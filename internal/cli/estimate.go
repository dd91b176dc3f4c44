package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/PrintQuote/internal/engine"
	"github.com/piwi3910/PrintQuote/internal/export"
	"github.com/piwi3910/PrintQuote/internal/model"
	"github.com/piwi3910/PrintQuote/internal/project"
)

func newEstimateCmd(a *app) *cobra.Command {
	var (
		savePath string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "estimate <job.yaml|job.json|quote.pquote>",
		Short: "Price every product and paper of a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := a.runQuote(cmd, args[0])
			if err != nil {
				return err
			}

			if savePath != "" {
				path, err := project.SaveQuote(savePath, q)
				if err != nil {
					return err
				}
				a.log.Info("quote saved", zap.String("path", path))
				a.config.AddRecentQuote(path)
				if err := project.SaveAppConfig(a.configPath, a.config); err != nil {
					a.log.Warn("failed to update recent quotes", zap.Error(err))
				}
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(q.Result)
			}
			renderResults(cmd.OutOrStdout(), q)
			return nil
		},
	}

	cmd.Flags().StringVar(&savePath, "save", "", "Save the quote with its results to this file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the results as JSON")
	return cmd
}

func newCompareCmd(a *app) *cobra.Command {
	var (
		productRef string
		detail     bool
	)

	cmd := &cobra.Command{
		Use:   "compare <job.yaml|job.json|quote.pquote>",
		Short: "Compare what-if scenarios for each product",
		Long: `For each product, price the other printing method, no bleed and the
rotation setting flipped next to the current settings. With --detail the
full candidate table of every paper is printed as well.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := loadQuoteFile(args[0])
			if err != nil {
				return err
			}
			inv, _, err := a.loadInventory()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			matched := false
			for _, p := range q.Products {
				if productRef != "" && p.ID != productRef && !strings.EqualFold(p.Name, productRef) {
					continue
				}
				matched = true
				scenarios := engine.BuildDefaultScenarios(q.Settings, p)
				results := engine.CompareScenarios(scenarios, inv.Candidates, inv.PriceLookup(), a.memo)
				renderScenarios(out, p.Name, results)

				if detail {
					for _, c := range export.BuildComparisons(a.estimator(q.Settings, inv), p) {
						if len(c.Rows) > 0 {
							renderCostRows(out, c.Title, c.Rows)
						} else {
							renderDigitalOptions(out, c.Title, c.Options)
						}
					}
				}
			}
			if productRef != "" && !matched {
				return fmt.Errorf("no product %q in %s", productRef, filepath.Base(args[0]))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&productRef, "product", "", "Only compare this product (name or ID)")
	cmd.Flags().BoolVar(&detail, "detail", false, "Print every candidate sheet or digital option")
	return cmd
}

func renderScenarios(w io.Writer, title string, results []engine.ComparisonResult) {
	rows := make([][]string, 0, len(results))
	for _, cr := range results {
		note := ""
		if cr.Err != nil {
			note = cr.Err.Error()
		} else if cr.InfeasibleCount > 0 {
			note = fmt.Sprintf("%d paper(s) do not fit", cr.InfeasibleCount)
		}
		rows = append(rows, []string{
			cr.Scenario.Name,
			string(cr.Scenario.Product.Method),
			fmt.Sprintf("%d", cr.Sheets),
			fmt.Sprintf("%d", cr.FeasiblePapers),
			money(cr.Total),
			note,
		})
	}
	printTitle(w, title)
	printTable(w, []string{"Scenario", "Method", "Sheets", "Papers", "Total", "Note"}, rows)
}

// loadQuoteFile reads a saved quote or a job file, picked by extension.
func loadQuoteFile(path string) (model.Quote, error) {
	if strings.EqualFold(filepath.Ext(path), project.QuoteExtension) {
		return project.LoadQuote(path)
	}
	return project.LoadJobFile(path)
}

// runQuote loads a quote and estimates it against the inventory. Results
// are always recomputed; overrides stored in the file are kept.
func (a *app) runQuote(cmd *cobra.Command, path string) (model.Quote, error) {
	q, err := loadQuoteFile(path)
	if err != nil {
		return model.Quote{}, err
	}
	inv, _, err := a.loadInventory()
	if err != nil {
		return model.Quote{}, err
	}

	res, err := a.estimator(q.Settings, inv).Estimate(cmd.Context(), q.Products)
	if err != nil {
		return model.Quote{}, fmt.Errorf("failed to estimate: %w", err)
	}
	q.Result = &res
	a.log.Debug("quote estimated",
		zap.String("quote", q.Name),
		zap.Int("products", len(q.Products)),
		zap.Float64("total", res.Total()))
	return q, nil
}
