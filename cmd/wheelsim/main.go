package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/san-kum/wheelsim/internal/config"
	"github.com/san-kum/wheelsim/internal/layout"
	"github.com/san-kum/wheelsim/internal/store"
	"github.com/san-kum/wheelsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	layoutFile string
	ledgerPath string
	quiet      bool

	preset      string
	configFile  string
	overrides   []string
	seed        int64
	randomize   bool
	record      bool
	maxTicks    int
	sampleEvery int
	svgOut      string

	runs     int
	param    string
	paramMin float64
	paramMax float64
	steps    int
	grid     []string
	target   float64
	goal     string

	plotVars []string
	xAxis    string
	yAxis    string
	column   string
	limit    int

	speed   int
	auto    bool
	gifPath string
	theme   string
	outPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "wheelsim",
		Short:         "roulette wheel physics lab",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, _, err := loadLayout()
			if err != nil {
				return err
			}
			return viz.RunInteractive(l, nil)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".wheelsim", "data directory")
	pf.StringVar(&layoutFile, "layout", "", "wheel layout file (yaml), default european")
	pf.StringVar(&ledgerPath, "ledger", "", "spin ledger database (default <data>/ledger.db)")
	pf.BoolVarP(&quiet, "quiet", "q", false, "suppress log output")

	spinCmd := &cobra.Command{
		Use:   "spin",
		Short: "run one spin and save it",
		Args:  cobra.NoArgs,
		RunE:  runSpin,
	}
	addTuningFlags(spinCmd)
	spinCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (default: time based)")
	spinCmd.Flags().BoolVar(&randomize, "randomize", true, "random ball direction")
	spinCmd.Flags().BoolVar(&record, "record", false, "record the outcome in the ledger")
	spinCmd.Flags().IntVar(&maxTicks, "max-ticks", 0, "tick budget, 0 for unlimited")
	spinCmd.Flags().IntVar(&sampleEvery, "sample-every", 1, "ticks between saved samples")
	spinCmd.Flags().StringVar(&svgOut, "svg", "", "write the ball path as svg")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved spins",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot telemetry of a saved spin",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&plotVars, "vars", []string{"r", "w", "energy"}, "columns to plot")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase portrait of two telemetry columns",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().StringVar(&xAxis, "x", "r", "column for the x axis")
	phaseCmd.Flags().StringVar(&yAxis, "y", "rv", "column for the y axis")

	spectrumCmd := &cobra.Command{
		Use:   "spectrum [run_id]",
		Short: "frequency analysis of a telemetry column",
		Args:  cobra.ExactArgs(1),
		RunE:  spectrumRun,
	}
	spectrumCmd.Flags().StringVar(&column, "var", "r", "column to analyse")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a saved spin to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a saved spin to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "spin many seeds and test the outcome distribution",
		Args:  cobra.NoArgs,
		RunE:  benchSpins,
	}
	addTuningFlags(benchCmd)
	benchCmd.Flags().IntVar(&runs, "runs", 370, "number of seeds")
	benchCmd.Flags().Int64Var(&seed, "seed", 1, "first seed")
	benchCmd.Flags().BoolVar(&randomize, "randomize", true, "random ball direction")
	benchCmd.Flags().BoolVar(&record, "record", false, "record the batch in the ledger")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one config param and compare ensembles",
		Args:  cobra.NoArgs,
		RunE:  sweepParam,
	}
	addTuningFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&param, "param", "stickiness", "param to sweep")
	sweepCmd.Flags().Float64Var(&paramMin, "min", 1, "first value")
	sweepCmd.Flags().Float64Var(&paramMax, "max", 4, "last value")
	sweepCmd.Flags().IntVar(&steps, "steps", 7, "number of values")
	sweepCmd.Flags().IntVar(&runs, "runs", 37, "seeds per value")
	sweepCmd.Flags().Int64Var(&seed, "seed", 1, "first seed")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search config params against an objective",
		Args:  cobra.NoArgs,
		RunE:  tuneParams,
	}
	addTuningFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&grid, "grid", nil, "name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&goal, "objective", "duration", "duration or uniformity")
	tuneCmd.Flags().Float64Var(&target, "target", 25, "target mean spin length in seconds")
	tuneCmd.Flags().IntVar(&runs, "runs", 16, "seeds per grid point")
	tuneCmd.Flags().Int64Var(&seed, "seed", 1, "first seed")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted batch of ensembles",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&record, "record", false, "record each step in the ledger")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch and tune spins in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addTuningFlags(liveCmd)
	liveCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (default: time based)")
	liveCmd.Flags().BoolVar(&randomize, "randomize", true, "random ball direction")
	liveCmd.Flags().IntVar(&speed, "speed", 1, "ticks per frame")
	liveCmd.Flags().BoolVar(&auto, "auto", false, "relaunch after each result")
	liveCmd.Flags().StringVar(&gifPath, "gif", "spin.gif", "where G saves recordings")
	liveCmd.Flags().StringVar(&theme, "theme", "felt", "colour theme: "+strings.Join(viz.ThemeNames(), ", "))

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list config presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config [preset]",
		Short: "print a preset as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  dumpConfig,
	}

	layoutCmd := &cobra.Command{
		Use:   "layout",
		Short: "write the default european layout as yaml",
		Args:  cobra.NoArgs,
		RunE:  dumpLayout,
	}
	layoutCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "show recorded spins and hit counts",
		Args:  cobra.NoArgs,
		RunE:  showHistory,
	}
	historyCmd.Flags().IntVar(&limit, "limit", 20, "spins to show")
	historyCmd.Flags().StringVar(&preset, "preset", "", "only count this preset")

	rootCmd.AddCommand(spinCmd, listCmd, plotCmd, phaseCmd, spectrumCmd, exportJSONCmd, exportCSVCmd,
		benchCmd, sweepCmd, tuneCmd, scenarioCmd, liveCmd, presetsCmd, configCmd, layoutCmd, historyCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addTuningFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "casino", "config preset")
	cmd.Flags().StringVar(&configFile, "config", "", "config file (yaml), replaces the preset")
	cmd.Flags().StringArrayVar(&overrides, "set", nil, "override a param, name=value (repeatable)")
}

func newLogger() *log.Logger {
	if quiet {
		return log.New(io.Discard, "", 0)
	}
	return log.New(os.Stderr, "[wheelsim] ", log.LstdFlags)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// resolveConfig applies preset, then config file, then --set overrides. The
// returned label names where the tuning came from.
func resolveConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}
	label := preset

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		label = filepath.Base(configFile)
		if cmd.Flags().Changed("preset") {
			label = preset + "+" + label
		}
	}

	for _, kv := range overrides {
		name, val, err := parseAssign(kv)
		if err != nil {
			return nil, "", err
		}
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, "", fmt.Errorf("--set %s: %w", kv, err)
		}
		if err := cfg.SetParam(name, v); err != nil {
			return nil, "", err
		}
	}
	if len(overrides) > 0 {
		label += "*"
	}
	return cfg, label, cfg.Validate()
}

func parseAssign(kv string) (string, string, error) {
	name, val, ok := strings.Cut(kv, "=")
	if !ok || name == "" || val == "" {
		return "", "", fmt.Errorf("expected name=value, got %q", kv)
	}
	return strings.TrimSpace(name), strings.TrimSpace(val), nil
}

func loadLayout() (*layout.Layout, string, error) {
	if layoutFile == "" {
		return layout.DefaultEuropean(), "european", nil
	}
	l, err := layout.Load(layoutFile)
	if err != nil {
		return nil, "", err
	}
	return l, filepath.Base(layoutFile), nil
}

func openLedger() (*store.Ledger, error) {
	path := ledgerPath
	if path == "" {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, err
		}
		path = filepath.Join(dataDir, "ledger.db")
	}
	return store.Open(path)
}

func runLive(cmd *cobra.Command, args []string) error {
	l, _, err := loadLayout()
	if err != nil {
		return err
	}
	cfg, label, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("theme") {
		viz.SetTheme(theme)
	}
	eng, err := newEngine(l, cfg, cmd.Flags().Changed("seed"), log.New(io.Discard, "", 0))
	if err != nil {
		return err
	}
	return viz.RunLive(eng, viz.Options{
		Title:         "wheelsim · " + label,
		Randomize:     randomize,
		TicksPerFrame: speed,
		GIFPath:       gifPath,
		Auto:          auto,
	})
}

func dumpConfig(cmd *cobra.Command, args []string) error {
	name := "casino"
	if len(args) > 0 {
		name = args[0]
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func dumpLayout(cmd *cobra.Command, args []string) error {
	l, _, err := loadLayout()
	if err != nil {
		return err
	}
	if outPath != "" {
		return layout.Save(outPath, l)
	}
	data, err := l.Marshal()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
