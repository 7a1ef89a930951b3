package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ja7ad/coeffit/pkg/fit"
	"github.com/ja7ad/coeffit/pkg/grid"
	"github.com/ja7ad/coeffit/pkg/profiles"
	"github.com/ja7ad/coeffit/pkg/report"
	"github.com/ja7ad/coeffit/pkg/types"
	"github.com/ja7ad/coeffit/pkg/util"
)

type opts struct {
	// grids
	cdLow, cdHigh, cdStep, cdFineStep float64
	crLow, crHigh, crStep, crFineStep float64
	workers                           int

	// model
	joint bool
	mass  float64

	// outputs
	pretty   bool
	elapsed  bool
	verbose  bool
	list     bool
	csvPath  string
	jsonPath string
}

func main() {
	root := newRootCmd()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		slog.Error(err.Error())
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var o opts
	def := fit.DefaultConfig()

	root := &cobra.Command{
		Use:   "coeffit [PROFILE]...",
		Short: "Fit drag (cd) and rolling-resistance (cr) coefficients to ride data",
		Long: `coeffit searches a grid of drag (cd) and rolling-resistance (cr)
coefficients for the pair that best explains measured power at a range of
speeds, using the model

    P = cd*v^3 + cr*v*9.81*m      (v in m/s, m in kg)

and the normalized RMS error sqrt(sum((P-meas)^2) / sum(meas^2)).

With --joint, one cr is shared by all selected profiles while each profile
keeps its own cd.

Examples:
  coeffit
  coeffit jerome-tt alban-tt
  coeffit --joint --workers 8 alban-tt,alban-rb,alban-pk
  coeffit --pretty --csv out/fit.csv --json out/fit.json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), o, args, cmd.OutOrStdout())
		},
	}

	f := root.Flags()
	f.Float64Var(&o.cdLow, "cd-low", def.Cd.Low, "lowest cd tested")
	f.Float64Var(&o.cdHigh, "cd-high", def.Cd.High, "cd upper bound (exclusive)")
	f.Float64Var(&o.cdStep, "cd-step", def.Cd.Step, "cd step of the 2-D search")
	f.Float64Var(&o.cdFineStep, "cd-fine-step", def.CdFine.Step, "cd step of the shared-cr search")
	f.Float64Var(&o.crLow, "cr-low", def.Cr.Low, "lowest cr tested")
	f.Float64Var(&o.crHigh, "cr-high", def.Cr.High, "cr upper bound (exclusive)")
	f.Float64Var(&o.crStep, "cr-step", def.Cr.Step, "cr step of the 2-D search")
	f.Float64Var(&o.crFineStep, "cr-fine-step", def.CrFine.Step, "cr step of the shared-cr search")
	f.IntVarP(&o.workers, "workers", "w", def.Workers, "goroutines used per search")

	f.BoolVar(&o.joint, "joint", false, "fit one shared cr across all selected profiles")
	f.Float64Var(&o.mass, "mass", 0, "override total mass in kg for every profile (0 = per-profile mass)")

	f.BoolVar(&o.pretty, "pretty", false, "format output as a table instead of per-profile blocks")
	f.BoolVar(&o.elapsed, "elapsed", true, "print elapsed wall-clock time")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "debug logging to stderr")
	f.BoolVar(&o.list, "list", false, "list built-in profiles and exit")
	f.StringVar(&o.csvPath, "csv", "", "write results to CSV file")
	f.StringVar(&o.jsonPath, "json", "", "write results to JSON file")

	return root
}

func (o opts) config() *fit.Config {
	return &fit.Config{
		Cd:      grid.Range{Low: o.cdLow, High: o.cdHigh, Step: o.cdStep},
		CdFine:  grid.Range{Low: o.cdLow, High: o.cdHigh, Step: o.cdFineStep},
		Cr:      grid.Range{Low: o.crLow, High: o.crHigh, Step: o.crStep},
		CrFine:  grid.Range{Low: o.crLow, High: o.crHigh, Step: o.crFineStep},
		Workers: o.workers,
	}
}

func run(ctx context.Context, o opts, args []string, out io.Writer) error {
	if o.verbose {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	if o.list {
		return listProfiles(out)
	}
	if o.workers <= 0 {
		return fmt.Errorf("workers must be > 0")
	}
	if o.mass < 0 {
		return fmt.Errorf("mass must be >= 0")
	}

	ps, err := profiles.Select(util.ParseNames(args))
	if err != nil {
		return err
	}
	if o.mass > 0 {
		ps = profiles.WithMass(ps, types.Mass(o.mass))
	}

	// Every range comes from flags with defaults, so all four are set here.
	// Validate before fit.New, which would read an all-zero range as unset.
	want := o.config()
	if err := want.Validate(); err != nil {
		return err
	}
	fitter, err := fit.New(want)
	if err != nil {
		return err
	}
	cfg := fitter.Config()
	slog.Debug("config",
		"cd", cfg.Cd.String(), "cd_fine", cfg.CdFine.String(),
		"cr", cfg.Cr.String(), "cr_fine", cfg.CrFine.String(),
		"workers", cfg.Workers, "profiles", len(ps), "joint", o.joint)

	start := time.Now()
	mode := report.Mode2D
	var results []fit.Result
	if o.joint {
		mode = report.ModeJoint
		results, err = fitter.FitJoint(ctx, ps)
		if err != nil {
			return fmt.Errorf("joint fit: %w", err)
		}
	} else {
		for _, p := range ps {
			t0 := time.Now()
			res, err := fitter.FitProfile(ctx, p)
			if err != nil {
				return err
			}
			slog.Debug("fitted", "profile", p.Name, "evaluated", res.Evaluated, "took", time.Since(t0))
			results = append(results, res)
		}
	}

	rows := make([]report.Row, len(ps))
	for i, p := range ps {
		rows[i] = report.NewRow(p, mode, results[i])
	}

	if o.pretty {
		err = report.Table(out, rows)
	} else {
		err = printBlocks(out, ps, results)
	}
	if err != nil {
		return err
	}
	if err := writeFiles(o, rows); err != nil {
		return err
	}
	if o.elapsed {
		return report.Elapsed(out, time.Since(start))
	}
	return nil
}

func printBlocks(out io.Writer, ps []fit.Profile, results []fit.Result) error {
	for i, p := range ps {
		if err := report.Block(out, p.Label, results[i]); err != nil {
			return err
		}
	}
	return nil
}

func writeFiles(o opts, rows []report.Row) error {
	var errs []error
	if o.csvPath != "" {
		errs = append(errs, writeFile(o.csvPath, func(w io.Writer) error { return report.CSV(w, rows) }))
	}
	if o.jsonPath != "" {
		errs = append(errs, writeFile(o.jsonPath, func(w io.Writer) error { return report.JSON(w, rows) }))
	}
	return errors.Join(errs...)
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	slog.Debug("wrote", "path", path)
	return nil
}

func listProfiles(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tLABEL\tMASS\tPOINTS")
	for _, p := range profiles.All() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", p.Name, p.Label, p.Mass, p.Data.Len())
	}
	return tw.Flush()
}
