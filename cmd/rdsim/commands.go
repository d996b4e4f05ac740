package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/rdsim/internal/analysis"
	"github.com/san-kum/rdsim/internal/automation"
	"github.com/san-kum/rdsim/internal/compute"
	"github.com/san-kum/rdsim/internal/config"
	"github.com/san-kum/rdsim/internal/export"
	"github.com/san-kum/rdsim/internal/metrics"
	"github.com/san-kum/rdsim/internal/optim"
	"github.com/san-kum/rdsim/internal/sim"
	"github.com/san-kum/rdsim/internal/storage"
)

// openStore uses the config file's data directory unless --data was given.
func openStore(cmd *cobra.Command) *storage.Store {
	dir := dataDir
	if configFile != "" && !cmd.Flags().Changed("data") {
		if cfg, err := config.Load(configFile); err == nil && cfg.Output.DataDir != "" {
			dir = cfg.Output.DataDir
		}
	}
	return storage.New(dir)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, _, err := newSimulator(cfg)
	if err != nil {
		return err
	}
	every := sampleEvery
	if every <= 0 {
		every = cfg.Output.SampleEvery
	}
	for _, m := range metrics.Default() {
		s.AddMetric(m)
	}
	s.AddMetric(analysis.NewWavelength(every))

	ctx, cancel := signalContext()
	defer cancel()
	result, err := s.Run(ctx, runTicks, every)
	// an interrupted run is still reported and saved
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	printResult(result)

	if noSave {
		return nil
	}
	name := runName
	if name == "" {
		name = s.Preset()
	}
	cols, rows := s.Grid().Dimensions()
	runID, err := storage.New(cfg.Output.DataDir).Save(name, cfg, cols, rows, result)
	if err != nil {
		return err
	}
	fmt.Printf("\nsaved: %s\n", runID)
	return nil
}

func printResult(r *sim.Result) {
	final := r.Final()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ticks\t%d\n", r.Ticks)
	fmt.Fprintf(w, "elapsed\t%v\n", r.Elapsed.Round(time.Millisecond))
	if r.Canceled {
		fmt.Fprintf(w, "status\tcanceled\n")
	}
	fmt.Fprintf(w, "mean_b\t%.5f\n", final.MeanB)
	fmt.Fprintf(w, "std_b\t%.5f\n", final.StdB)
	fmt.Fprintf(w, "coverage\t%.3f\n", final.Coverage)
	for _, name := range []string{"contrast", "activity", "wavelength"} {
		if v, ok := r.Metrics[name]; ok {
			fmt.Fprintf(w, "%s\t%.5f\n", name, v)
		}
	}
	w.Flush()
}

// benchBackends runs the same configuration on each backend and reports throughput.
func benchBackends(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p, err := cfg.Params()
	if err != nil {
		return err
	}

	backends := []compute.Backend{compute.NewSerialBackend(), compute.NewCPUBackend()}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BACKEND\tWORKERS\tGRID\tTICKS\tTIME\tTICKS/SEC")

	ctx, cancel := signalContext()
	defer cancel()
	for _, b := range backends {
		opts := simOptions(cfg)
		opts.Backend = b
		opts.Logger = slog.New(slog.DiscardHandler)
		s, err := sim.New(p, opts)
		if err != nil {
			return err
		}
		result, err := s.Run(ctx, benchTicks, benchTicks)
		if err != nil {
			return err
		}
		cols, rows := s.Grid().Dimensions()
		rate := float64(result.Ticks) / result.Elapsed.Seconds()
		fmt.Fprintf(w, "%s\t%d\t%dx%d\t%d\t%v\t%.0f\n",
			b.Name(), b.Workers(), cols, rows, result.Ticks, result.Elapsed.Round(time.Millisecond), rate)
		b.Cleanup()
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDA\tDB\tFEED\tKILL")
	for _, name := range config.ListPresets() {
		pr := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%.4f\t%.4f\n", name, pr.DiffusionA, pr.DiffusionB, pr.Feed, pr.Kill)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := openStore(cmd).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tTICKS\tGRID\tFEED\tKILL\tCOVERAGE")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%dx%d\t%.4f\t%.4f\t%.3f\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			run.Cols, run.Rows,
			run.Feed,
			run.Kill,
			run.Final.Coverage,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := openStore(cmd)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	rows, err := st.LoadStats(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", len(rows))

	for _, col := range column {
		graph := asciigraph.Plot(metrics.Series(rows, col),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(col+" vs tick"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if svgOut != "" && len(column) > 0 {
		svg, err := export.StatsToSVG(rows, column[0], 800, 300, "#00ccff")
		if err != nil {
			return err
		}
		if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgOut)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := openStore(cmd)
	if outFile == "" {
		return st.ExportJSONStdout(args[0])
	}
	if err := st.ExportJSON(outFile, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "exported to %s\n", outFile)
	return nil
}

// exportCSV concatenates the samples of every run, with one header at most.
func exportCSV(cmd *cobra.Command, args []string) error {
	st := openStore(cmd)
	for i, runID := range args {
		if err := st.ExportCSV(os.Stdout, runID, !noHeader && i == 0); err != nil {
			return fmt.Errorf("%s: %w", runID, err)
		}
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, _, err := newSimulator(cfg)
	if err != nil {
		return err
	}
	for _, m := range metrics.Default() {
		s.AddMetric(m)
	}
	if scenario.SampleEvery <= 0 {
		scenario.SampleEvery = cfg.Output.SampleEvery
	}

	st := storage.New(cfg.Output.DataDir)
	runner := &automation.Runner{Sim: s, Store: st, Config: cfg, Log: slog.Default()}

	ctx, cancel := signalContext()
	defer cancel()
	results, err := runner.RunScenario(ctx, scenario)
	for i, r := range results {
		fmt.Printf("\n-- step result %d --\n", i+1)
		printResult(r)
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	sweep, err := automation.LoadSweep(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	base, err := cfg.Params()
	if err != nil {
		return err
	}

	opts := simOptions(cfg)
	if sweep.Seed == 0 {
		sweep.Seed = opts.Seed
	}

	ctx, cancel := signalContext()
	defer cancel()
	start := time.Now()
	results, err := automation.RunSweep(ctx, sweep, base, opts)
	if err != nil {
		return err
	}
	slog.Info("sweep finished", "param", sweep.Param, "values", len(results), "elapsed", time.Since(start).Round(time.Millisecond))

	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := gocsv.MarshalFile(&results, f); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outFile)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tMEAN_B\tSTD_B\tCOVERAGE\tACTIVITY\n", sweep.Param)
	for _, r := range results {
		if r.Err != "" {
			fmt.Fprintf(w, "%.5f\t%s\n", r.Value, r.Err)
			continue
		}
		fmt.Fprintf(w, "%.5f\t%.5f\t%.5f\t%.3f\t%.6f\n", r.Value, r.MeanB, r.StdB, r.Coverage, r.Activity)
	}
	return w.Flush()
}

func runTrials(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p, err := cfg.Params()
	if err != nil {
		return err
	}
	opts := simOptions(cfg)

	mc := &automation.MonteCarloConfig{
		Params:       p,
		Preset:       cfg.Simulation.Preset,
		NumTrials:    trials,
		Ticks:        trialTicks,
		DropInterval: cfg.DropInterval(),
		Seed:         opts.Seed,
	}

	ctx, cancel := signalContext()
	defer cancel()
	results, err := automation.RunMonteCarlo(ctx, mc, opts)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tSEED\tMEAN_B\tCOVERAGE")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%.5f\t%.3f\n", r.TrialID, r.Seed, r.MeanB, r.Coverage)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	mean, std := automation.MonteCarloStats(results)
	fmt.Printf("\ncoverage: %.3f ± %.3f over %d trials\n", mean, std, len(results))
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	names := make([]string, 0, len(searchRanges))
	ranges := make([][]float64, 0, len(searchRanges))
	for _, arg := range searchRanges {
		name, vals, err := optim.ParseRange(arg)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	base, err := cfg.Params()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	g := optim.NewGridSearch(names, ranges)
	best, points, err := g.Search(ctx, base, searchTicks, searchMetric, searchTarget, simOptions(cfg), searchWorkers)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\tSCORE\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(searchMetric))
	for _, pt := range points {
		vals := make([]string, len(names))
		for i, n := range names {
			vals[i] = fmt.Sprintf("%.5f", pt.Params[n])
		}
		if pt.Err != nil {
			fmt.Fprintf(w, "%s\t%v\n", strings.Join(vals, "\t"), pt.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%.5f\t%.5f\n", strings.Join(vals, "\t"), pt.Value, pt.Score)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest:")
	for _, n := range names {
		fmt.Printf(" %s=%.5f", n, best.Params[n])
	}
	fmt.Printf(" (%s=%.5f)\n", searchMetric, best.Value)
	return nil
}

func writeConfig(cmd *cobra.Command, args []string) error {
	path := "rdsim.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
