package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/kppsim/internal/config"
	"github.com/san-kum/kppsim/internal/experiment"
	"github.com/san-kum/kppsim/internal/sim"
	"github.com/san-kum/kppsim/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	preset     string
	configFile string
	overrides  []string

	save    bool
	runName string
	series  bool
	output  string
	field   string
	width   int
	height  int

	svgWidth   int
	svgHeight  int
	xlsxOutput string
	every      int
	theme      string
	workers    int

	sweepMin   float64
	sweepMax   float64
	sweepSteps int

	mcParams []string
	mcSpread float64
	mcTrials int
	mcSeed   int64

	optParams    []string
	optRanges    []string
	optObjective string
	optMinimize  bool

	addr    string
	origins []string
)

var logger *slog.Logger

func main() {
	rootCmd := &cobra.Command{
		Use:   "kppsim",
		Short: "buoyancy power plant simulator",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(logLevel)); err != nil {
				return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".kppsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "debug, info, warn or error")

	paramFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&preset, "preset", "baseline", "starting preset")
		cmd.Flags().StringVar(&configFile, "config", "", "params file (yaml), replaces the preset")
		cmd.Flags().StringArrayVar(&overrides, "set", nil, "override a parameter, name=value (repeatable)")
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run one simulation and print the energy balance",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	paramFlags(runCmd)
	runCmd.Flags().BoolVar(&save, "save", false, "store the run under --data")
	runCmd.Flags().StringVar(&runName, "name", "", "name for the stored run (default: preset)")

	compareCmd := &cobra.Command{
		Use:   "compare [preset]...",
		Short: "run presets side by side",
		RunE:  comparePresets,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets and tunable parameters",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&field, "field", "net_torque", "series to plot: "+strings.Join(sim.SeriesFields, ", "))
	plotCmd.Flags().IntVar(&width, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&height, "height", 12, "plot height")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "torque spectrum and force portrait of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a stored series as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	exportJSONCmd.Flags().BoolVar(&series, "series", false, "include the time series")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render torque and forces of a stored run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 900, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 400, "image height")

	exportXLSXCmd := &cobra.Command{
		Use:   "export-xlsx",
		Short: "run a simulation and write a spreadsheet report",
		Args:  cobra.NoArgs,
		RunE:  exportXLSX,
	}
	paramFlags(exportXLSXCmd)
	exportXLSXCmd.Flags().StringVarP(&xlsxOutput, "output", "o", "kppsim.xlsx", "output file")

	sweepCmd := &cobra.Command{
		Use:   "sweep [param]",
		Short: "sweep one parameter and report efficiency",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	paramFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 10, "number of values")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (default GOMAXPROCS)")
	sweepCmd.Flags().StringVarP(&output, "output", "o", "", "also write the points as CSV")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run every variant of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "randomized runs around a preset",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	paramFlags(monteCarloCmd)
	monteCarloCmd.Flags().StringSliceVar(&mcParams, "params", []string{"floater.volume", "floater.drag_coefficient"}, "parameters to perturb")
	monteCarloCmd.Flags().Float64Var(&mcSpread, "spread", 0.1, "relative spread")
	monteCarloCmd.Flags().IntVar(&mcTrials, "trials", 50, "number of trials")
	monteCarloCmd.Flags().Int64Var(&mcSeed, "seed", 0, "random seed (0 uses the clock)")
	monteCarloCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (default GOMAXPROCS)")

	optimizeCmd := &cobra.Command{
		Use:   "optimize",
		Short: "grid search over parameters",
		Args:  cobra.NoArgs,
		RunE:  runOptimize,
	}
	paramFlags(optimizeCmd)
	optimizeCmd.Flags().StringSliceVar(&optParams, "params", nil, "parameters to search")
	optimizeCmd.Flags().StringArrayVar(&optRanges, "range", nil, "min:max:steps for each parameter, in order")
	optimizeCmd.Flags().StringVar(&optObjective, "objective", "efficiency", "efficiency, energy_out, mean_electrical_power or a metric")
	optimizeCmd.Flags().BoolVar(&optMinimize, "minimize", false, "minimize instead of maximize")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "replay a run in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	paramFlags(liveCmd)
	liveCmd.Flags().IntVar(&every, "every", 5, "record every n-th step")
	liveCmd.Flags().StringVar(&theme, "theme", viz.ThemeNames()[0], "color theme: "+strings.Join(viz.ThemeNames(), ", "))

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (default $KPPSIM_ADDR or :8080)")
	serveCmd.Flags().StringSliceVar(&origins, "cors-origin", nil, "allowed CORS origins (default any)")

	rootCmd.AddCommand(runCmd, compareCmd, presetsCmd, listCmd, plotCmd, analyzeCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd, exportXLSXCmd,
		sweepCmd, scenarioCmd, monteCarloCmd, optimizeCmd, liveCmd, serveCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// loadParams resolves --config or --preset, then applies every --set.
func loadParams() (config.Params, error) {
	var p config.Params
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return config.Params{}, fmt.Errorf("failed to load config: %w", err)
		}
		p = loaded
	} else {
		var ok bool
		p, ok = config.GetPreset(preset)
		if !ok {
			return config.Params{}, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	for _, kv := range overrides {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return config.Params{}, fmt.Errorf("--set expects name=value, got %q", kv)
		}
		if err := p.SetString(strings.TrimSpace(name), strings.TrimSpace(value)); err != nil {
			return config.Params{}, err
		}
	}
	return p, nil
}

func newExperiment(name string, p config.Params) (*experiment.Experiment, error) {
	exp := experiment.New(name, p)
	if err := exp.Setup(experiment.NewRegistry(), logger); err != nil {
		return nil, err
	}
	return exp, nil
}

// create opens path for writing, or returns stdout when path is empty.
func create(path string) (*os.File, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
