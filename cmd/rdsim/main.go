package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/rdsim/internal/compute"
	"github.com/san-kum/rdsim/internal/config"
	"github.com/san-kum/rdsim/internal/dynamo"
	"github.com/san-kum/rdsim/internal/gui"
	"github.com/san-kum/rdsim/internal/sim"
	"github.com/san-kum/rdsim/internal/viz"
)

var (
	configFile string
	dataDir    string
	logLevel   string
	logJSON    bool

	preset      string
	feed        float64
	kill        float64
	diffA       float64
	diffB       float64
	dt          float64
	resolution  int
	mode        string
	width       int
	height      int
	backendName string
	seed        uint64
	randomDrops bool
	intervalMs  int

	runTicks    int
	benchTicks  int
	trialTicks  int
	sampleEvery int
	runName     string
	noSave      bool
	column      []string
	svgOut      string
	outFile     string
	noHeader    bool
	trials      int

	searchRanges  []string
	searchMetric  string
	searchTarget  float64
	searchTicks   int
	searchWorkers int
)

// main registers commands and flags, opens the raylib window when no
// subcommand is given, and exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "rdsim",
		Short: "gray-scott reaction-diffusion lab",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger(os.Stderr)
		},
		RunE: runGUI,
	}
	rootCmd.SilenceUsage = true

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.BoolVar(&logJSON, "log-json", false, "log as JSON")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the simulation in a window",
		RunE:  runGUI,
	}
	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation in the terminal",
		RunE:  runLive,
	}
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and save sampled statistics",
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&runTicks, "ticks", 1000, "number of ticks")
	runCmd.Flags().IntVar(&sampleEvery, "sample-every", 0, "sample interval in ticks (config default when 0)")
	runCmd.Flags().StringVar(&runName, "name", "", "run name (defaults to preset)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not write the run to the data directory")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "compare compute backends",
		RunE:  benchBackends,
	}
	benchCmd.Flags().IntVar(&benchTicks, "ticks", 200, "ticks per backend")

	for _, c := range []*cobra.Command{guiCmd, liveCmd, runCmd, benchCmd} {
		addSimFlags(c)
	}
	// the root command opens the window too
	addSimFlags(rootCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list parameter presets",
		RunE:  listPresets,
	}
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}
	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot sampled statistics of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&column, "column", []string{"mean_b", "coverage"}, "columns to plot")
	plotCmd.Flags().StringVar(&svgOut, "svg", "", "also write the first column as SVG to this path")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and samples to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (stdout when empty)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id...]",
		Short: "export sampled statistics to CSV",
		Args:  cobra.MinimumNArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().BoolVar(&noHeader, "no-header", false, "omit the header row")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	addSimFlags(scenarioCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [file]",
		Short: "sweep one parameter across a range",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVarP(&outFile, "out", "o", "", "write results as CSV to this file")
	addSimFlags(sweepCmd)

	trialsCmd := &cobra.Command{
		Use:   "trials",
		Short: "repeat a run with random drops under different seeds",
		RunE:  runTrials,
	}
	trialsCmd.Flags().IntVar(&trials, "trials", 8, "number of trials")
	trialsCmd.Flags().IntVar(&trialTicks, "ticks", 500, "ticks per trial")
	addSimFlags(trialsCmd)

	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "grid-search parameters for a target metric value",
		RunE:  runSearch,
	}
	searchCmd.Flags().StringArrayVar(&searchRanges, "range", nil, "parameter range name=min:max:steps (repeatable)")
	searchCmd.Flags().StringVar(&searchMetric, "metric", "coverage", "metric to match (mean_b, coverage, contrast, activity)")
	searchCmd.Flags().Float64Var(&searchTarget, "target", 0.3, "target metric value")
	searchCmd.Flags().IntVar(&searchTicks, "ticks", 500, "ticks per run")
	searchCmd.Flags().IntVar(&searchWorkers, "workers", 0, "concurrent runs (all when 0)")
	_ = searchCmd.MarkFlagRequired("range")
	addSimFlags(searchCmd)

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE:  writeConfig,
	}

	rootCmd.AddCommand(guiCmd, liveCmd, runCmd, benchCmd, presetsCmd, listCmd, plotCmd,
		exportJSONCmd, exportCSVCmd, scenarioCmd, sweepCmd, trialsCmd, searchCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&preset, "preset", "", "parameter preset (see presets)")
	f.Float64Var(&feed, "feed", 0, "feed rate")
	f.Float64Var(&kill, "kill", 0, "kill rate")
	f.Float64Var(&diffA, "da", 0, "diffusion rate of A")
	f.Float64Var(&diffB, "db", 0, "diffusion rate of B")
	f.Float64Var(&dt, "dt", 0, "time step")
	f.IntVar(&resolution, "resolution", 0, "pixels per cell")
	f.StringVar(&mode, "mode", "", "color mode (a, b, blend, subtract)")
	f.IntVar(&width, "width", 0, "display width in pixels")
	f.IntVar(&height, "height", 0, "display height in pixels")
	f.StringVar(&backendName, "backend", "", "compute backend (auto, serial, cpu)")
	f.Uint64Var(&seed, "seed", 0, "random seed (time based when 0)")
	f.BoolVar(&randomDrops, "random-drops", false, "drop B at random intervals")
	f.IntVar(&intervalMs, "interval", 0, "random drop interval in ms")
}

func setupLogger(w *os.File) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler = slog.NewTextHandler(w, opts)
	if logJSON {
		h = slog.NewJSONHandler(w, opts)
	}
	slog.SetDefault(slog.New(h))
	return nil
}

// loadConfig reads the config file, if any, and applies the flags the user set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("preset") {
		cfg.Simulation.Preset = preset
	}
	rates := []struct {
		name string
		dst  *float64
		v    float64
	}{
		{"feed", &cfg.Simulation.Feed, feed},
		{"kill", &cfg.Simulation.Kill, kill},
		{"da", &cfg.Simulation.DiffusionA, diffA},
		{"db", &cfg.Simulation.DiffusionB, diffB},
	}
	for _, r := range rates {
		if !flags.Changed(r.name) {
			continue
		}
		// an explicit rate adjusts the preset instead of being overridden by it
		if err := foldPreset(cfg); err != nil {
			return nil, err
		}
		*r.dst = r.v
	}
	if flags.Changed("dt") {
		cfg.Simulation.TimeStep = dt
	}
	if flags.Changed("resolution") {
		cfg.Simulation.Resolution = resolution
	}
	if flags.Changed("mode") {
		cfg.Visual.Mode = mode
	}
	if flags.Changed("width") {
		cfg.Display.Width = width
	}
	if flags.Changed("height") {
		cfg.Display.Height = height
	}
	if flags.Changed("backend") {
		cfg.Simulation.Backend = backendName
	}
	if flags.Changed("seed") {
		cfg.Drops.Seed = seed
	}
	if flags.Changed("random-drops") {
		cfg.Drops.Random = randomDrops
	}
	if flags.Changed("interval") {
		cfg.Drops.IntervalMs = intervalMs
	}
	if flags.Changed("data") || cfg.Output.DataDir == "" {
		cfg.Output.DataDir = dataDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// foldPreset copies the preset's rates into the explicit fields and clears it.
func foldPreset(cfg *config.Config) error {
	if cfg.Simulation.Preset == "" {
		return nil
	}
	pr, err := config.Lookup(cfg.Simulation.Preset)
	if err != nil {
		return err
	}
	cfg.Simulation.DiffusionA = pr.DiffusionA
	cfg.Simulation.DiffusionB = pr.DiffusionB
	cfg.Simulation.Feed = pr.Feed
	cfg.Simulation.Kill = pr.Kill
	cfg.Simulation.Preset = ""
	return nil
}

func selectBackend(name string) compute.Backend {
	switch strings.ToLower(name) {
	case "", "auto":
		return compute.AutoSelectBackend()
	}
	return compute.ByName(strings.ToLower(name))
}

func simOptions(cfg *config.Config) sim.Options {
	s := cfg.Drops.Seed
	if s == 0 {
		s = uint64(time.Now().UnixNano())
	}
	return sim.Options{
		Width:        cfg.Display.Width,
		Height:       cfg.Display.Height,
		Logger:       slog.Default(),
		Seed:         s,
		RandomDrops:  cfg.Drops.Random,
		DropInterval: cfg.DropInterval(),
	}
}

// newSimulator builds a simulator from cfg and makes its backend the
// process-wide one, so rasterizing runs on the same workers.
func newSimulator(cfg *config.Config) (*sim.Simulator, dynamo.Params, error) {
	p, err := cfg.Params()
	if err != nil {
		return nil, p, err
	}
	backend := selectBackend(cfg.Simulation.Backend)
	compute.SetBackend(backend)

	opts := simOptions(cfg)
	opts.Backend = backend
	s, err := sim.New(p, opts)
	if err != nil {
		return nil, p, err
	}
	if cfg.Simulation.Preset != "" {
		if err := s.ApplyPreset(cfg.Simulation.Preset); err != nil {
			return nil, p, err
		}
	}
	slog.Info("simulator ready", "backend", backend.Name(), "workers", backend.Workers(), "preset", s.Preset())
	return s, s.Params(), nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, _, err := newSimulator(cfg)
	if err != nil {
		return err
	}
	gui.Run(s, slog.Default())
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// keep log output off the alternate screen
	slog.SetDefault(slog.New(slog.DiscardHandler))
	s, _, err := newSimulator(cfg)
	if err != nil {
		return err
	}
	viz.SetTheme(cfg.Display.Theme)
	return viz.Run(s, cfg.FrameInterval())
}
