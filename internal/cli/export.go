package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/PrintQuote/internal/cutplan"
	"github.com/piwi3910/PrintQuote/internal/export"
	"github.com/piwi3910/PrintQuote/internal/model"
	"github.com/piwi3910/PrintQuote/internal/project"
)

// exportFlags are shared by every export subcommand.
type exportFlags struct {
	output string
	result int
}

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Estimate a job and write it as PDF, Excel, DXF, tickets or cut programs",
	}
	cmd.AddCommand(
		newExportFileCmd(a, "pdf", "Imposition pages and cost summary", ".pdf", exportPDF),
		newExportFileCmd(a, "xlsx", "Excel workbook with summary and candidate comparison", ".xlsx", exportXLSX),
		newExportFileCmd(a, "tickets", "Printable job tickets with QR codes", "-tickets.pdf", exportTickets),
		newExportFileCmd(a, "dxf", "DXF imposition of one result", ".dxf", exportDXF),
		newExportCutPlanCmd(a),
	)
	return cmd
}

type exportFunc func(a *app, q model.Quote, f exportFlags) error

func newExportFileCmd(a *app, name, short, suffix string, run exportFunc) *cobra.Command {
	var f exportFlags

	cmd := &cobra.Command{
		Use:   name + " <job.yaml|job.json|quote.pquote>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := a.runQuote(cmd, args[0])
			if err != nil {
				return err
			}
			if f.output == "" {
				f.output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + suffix
			}
			if err := run(a, q, f); err != nil {
				return err
			}
			a.log.Info("exported", zap.String("format", name), zap.String("path", f.output))
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", f.output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output file (default next to the job file)")
	if name == "dxf" {
		cmd.Flags().IntVar(&f.result, "result", -1, "Result row to export (default the first feasible)")
	}
	return cmd
}

func exportPDF(a *app, q model.Quote, f exportFlags) error {
	return export.ExportPDF(f.output, q, q.Settings)
}

func exportXLSX(a *app, q model.Quote, f exportFlags) error {
	inv, _, err := a.loadInventory()
	if err != nil {
		return err
	}
	est := a.estimator(q.Settings, inv)
	var comparisons []export.CostComparison
	for _, p := range q.Products {
		comparisons = append(comparisons, export.BuildComparisons(est, p)...)
	}
	return export.ExportXLSX(f.output, q, comparisons)
}

func exportTickets(a *app, q model.Quote, f exportFlags) error {
	return export.ExportTickets(f.output, q)
}

func exportDXF(a *app, q model.Quote, f exportFlags) error {
	r, err := pickResult(q, f.result)
	if err != nil {
		return err
	}
	return export.ExportResultDXF(f.output, r)
}

// pickResult returns result idx, or the first feasible one when idx is
// negative.
func pickResult(q model.Quote, idx int) (model.PerPaperResult, error) {
	results := q.Result.Results
	if idx >= 0 {
		if idx >= len(results) {
			return model.PerPaperResult{}, fmt.Errorf("result %d out of range, the quote has %d", idx, len(results))
		}
		return results[idx], nil
	}
	for _, r := range results {
		if r.Feasible {
			return r, nil
		}
	}
	return model.PerPaperResult{}, fmt.Errorf("no feasible result to export")
}

func newExportCutPlanCmd(a *app) *cobra.Command {
	var (
		f       exportFlags
		profile string
	)

	cmd := &cobra.Command{
		Use:   "cutplan <job.yaml|job.json|quote.pquote>",
		Short: "Guillotine cutter programs for the feasible results",
		Long: `Write one cutter program per feasible result, or only the one chosen
with --result. Without --output the programs are printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := a.runQuote(cmd, args[0])
			if err != nil {
				return err
			}
			if profile == "" {
				profile = a.config.DefaultCutterProfile
			}
			gen, err := a.cutPlanGenerator(profile)
			if err != nil {
				return err
			}

			var programs []string
			if f.result >= 0 {
				r, err := pickResult(q, f.result)
				if err != nil {
					return err
				}
				programs = []string{gen.GenerateResult(r)}
			} else {
				programs = gen.GenerateAll(q.Result.Results)
			}
			if len(programs) == 0 {
				return fmt.Errorf("no feasible result to cut")
			}

			text := strings.Join(programs, "\n")
			if f.output == "" {
				fmt.Fprint(cmd.OutOrStdout(), text)
				return nil
			}
			if err := os.WriteFile(f.output, []byte(text), 0644); err != nil {
				return fmt.Errorf("failed to write cut program: %w", err)
			}
			a.log.Info("exported", zap.String("format", "cutplan"), zap.String("profile", gen.Profile().Name))
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", f.output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().IntVar(&f.result, "result", -1, "Only this result row")
	cmd.Flags().StringVar(&profile, "profile", "", "Cutter profile (default from config)")
	return cmd
}

// cutPlanGenerator resolves a built-in or saved custom profile by name.
func (a *app) cutPlanGenerator(name string) (*cutplan.Generator, error) {
	if name == "" || model.IsBuiltInProfile(name) {
		return cutplan.New(name), nil
	}
	custom, err := project.LoadCustomProfilesFromDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to load cutter profiles: %w", err)
	}
	for _, p := range custom {
		if strings.EqualFold(p.Name, name) {
			return cutplan.NewWithProfile(p), nil
		}
	}
	return nil, fmt.Errorf("unknown cutter profile %q", name)
}
