package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"Mudcheck/internal/calc/export"
	"Mudcheck/internal/calc/mudcheck"
	"Mudcheck/internal/calc/premium/batch"
	"Mudcheck/internal/calc/premium/importer"
	"Mudcheck/internal/calc/treatment"
	"Mudcheck/internal/config"
	"Mudcheck/internal/repo"

	"github.com/spf13/cobra"
)

type options struct {
	calibrationFile string
	profile         string
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "mudcheck",
		Short:        "Drilling fluid alkalinity advisor",
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&opts.calibrationFile, "calibration", "", "YAML file of calibration profiles")
	root.PersistentFlags().StringVar(&opts.profile, "profile", "", "calibration profile name (default built-in)")

	root.AddCommand(newEvalCmd(opts), newBatchCmd(opts))
	return root
}

func newEvalCmd(opts *options) *cobra.Command {
	var (
		pm, pf, mf, calcium, hardness string
		asJSON                        bool
	)
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Classify one mud check and suggest treatments",
		Long: `Classify one mud check and suggest treatments.

Readings that are left out or cannot be parsed are evaluated as 0 and
listed as not entered.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cal, err := resolve(cmd.Context(), opts)
			if err != nil {
				return err
			}
			s := mudcheck.Sample{
				Pm:       mudcheck.ParseReading(pm),
				Pf:       mudcheck.ParseReading(pf),
				Mf:       mudcheck.ParseReading(mf),
				Calcium:  mudcheck.ParseReading(calcium),
				Hardness: mudcheck.ParseReading(hardness),
			}
			rep := mudcheck.Evaluate(s, cal)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rep)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), mudcheck.Summary(rep))
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&pm, "pm", "", "phenolphthalein alkalinity of mud (Pm)")
	f.StringVar(&pf, "pf", "", "filtrate phenolphthalein alkalinity (Pf)")
	f.StringVar(&mf, "mf", "", "filtrate methyl orange alkalinity (Mf)")
	f.StringVar(&calcium, "calcium", "", "calcium, mg/L")
	f.StringVar(&hardness, "hardness", "", "total hardness, mg/L")
	f.BoolVar(&asJSON, "json", false, "print the full report as JSON")
	return cmd
}

func newBatchCmd(opts *options) *cobra.Command {
	var (
		format  string
		outPath string
		workers int
	)
	cmd := &cobra.Command{
		Use:   "batch FILE.xlsx",
		Short: "Evaluate every mud check in a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cal, err := resolve(cmd.Context(), opts)
			if err != nil {
				return err
			}
			in, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer in.Close()
			samples, err := importer.ReadSamples(in)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			res, err := batch.Evaluate(cmd.Context(), cal, samples, workers)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if format == "text" {
				for i, rep := range res.Results {
					fmt.Fprintf(w, "# Row %d\n%s\n", i+2, mudcheck.Summary(rep))
				}
				return nil
			}
			ef, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			if ef == export.FormatXLSX && outPath == "" {
				return errors.New("xlsx output needs --out")
			}
			rows := make([]mudcheck.Snapshot, len(res.Results))
			for i, rep := range res.Results {
				rows[i] = rep.Snapshot()
			}
			return export.Write(w, ef, rows)
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "output format: csv, xlsx or text")
	cmd.Flags().StringVar(&outPath, "out", "", "write output to file instead of stdout")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel evaluations (default GOMAXPROCS)")
	return cmd
}

func resolve(ctx context.Context, opts *options) (treatment.Calibration, error) {
	r := &repo.Resolver{}
	if opts.calibrationFile != "" {
		cals, err := config.LoadCalibrations(opts.calibrationFile)
		if err != nil {
			return treatment.Calibration{}, err
		}
		m := repo.NewMemoryRepository()
		if err := repo.Seed(ctx, m, cals); err != nil {
			return treatment.Calibration{}, err
		}
		r.Repo = m
	}
	return r.Resolve(ctx, opts.profile)
}
