package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/chaoseq/internal/config"
	"github.com/san-kum/chaoseq/internal/export"
	"github.com/san-kum/chaoseq/internal/gui"
	"github.com/san-kum/chaoseq/internal/projection"
	"github.com/san-kum/chaoseq/internal/sim"
	"github.com/san-kum/chaoseq/internal/storage"
	"github.com/san-kum/chaoseq/internal/viz"
)

var (
	configFile string
	preset     string
	seed       int64
	speed      float64
	trailName  string
	palette    string
	restart    string
	shuffle    bool
	skipWarmup bool
	logLevel   string
	logFile    string
	dataDir    string
	traceN     int
	snapshotN  int
	scanN      int
	frameRate  int
	count      int
	save       bool
	center     bool
	numRuns    int
	top        int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "chaoseq",
		Short: "chaos equations generative art",
		Long:  "Draws trajectories of randomly generated quadratic recurrences in x, y and t.\nWith no subcommand a window is opened.",
		RunE:  runWindow,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	pf.Float64Var(&speed, "speed", config.DefaultSpeed, "initial speed multiplier")
	pf.StringVar(&trailName, "trail", config.DefaultTrail, "trail length: short, long, persistent, none")
	pf.StringVar(&palette, "palette", "random", "point palette: random, spectrum, mono")
	pf.StringVar(&restart, "restart", config.RestartRewind, "what happens when t passes its end: rewind, continue")
	pf.BoolVar(&shuffle, "shuffle", true, "draw a new equation when t passes its end")
	pf.BoolVar(&skipWarmup, "skip-warmup", false, "hide the first iterations of every sub-step")
	pf.StringVar(&logLevel, "log-level", "info", "log level")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "draw in the terminal",
		RunE:  runTUI,
	}
	tuiCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	describeCmd := &cobra.Command{
		Use:   "describe",
		Short: "print the equations a seed produces",
		RunE:  runDescribe,
	}
	describeCmd.Flags().IntVar(&count, "count", 1, "number of successive equations")

	traceCmd := &cobra.Command{
		Use:   "trace",
		Short: "run headless and plot t and the rolling step",
		RunE:  runTrace,
	}
	traceCmd.Flags().IntVar(&traceN, "frames", 240, "frames to run")
	traceCmd.Flags().BoolVar(&save, "save", false, "store the trace")
	traceCmd.Flags().StringVar(&dataDir, "data", ".chaoseq", "data directory")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list stored traces",
		RunE:  listRuns,
	}
	runsCmd.Flags().StringVar(&dataDir, "data", ".chaoseq", "data directory")

	plotCmd := &cobra.Command{
		Use:   "plot [trace_id]",
		Short: "plot a stored trace",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&dataDir, "data", ".chaoseq", "data directory")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [file]",
		Short: "run headless and export the last frame (.svg, .png, .pdf)",
		Args:  cobra.ExactArgs(1),
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().IntVar(&snapshotN, "frames", 120, "frames to run before exporting")
	snapshotCmd.Flags().BoolVar(&center, "center", false, "fit the view to the trajectory before the last frame")

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "rank seeds by how much of their trajectory stays on screen",
		RunE:  runScan,
	}
	scanCmd.Flags().IntVar(&numRuns, "runs", 32, "number of seeds")
	scanCmd.Flags().IntVar(&scanN, "frames", 60, "frames per seed")
	scanCmd.Flags().IntVar(&top, "top", 10, "results to show")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSPEED\tTRAIL\tPALETTE\tSHUFFLE\tRESTART")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%.1f\t%s\t%s\t%t\t%s\n", name, p.Speed, p.Trail, p.Palette, p.Shuffle, p.Restart)
			}
			return w.Flush()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config [file]",
		Short: "write the effective configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(tuiCmd, describeCmd, traceCmd, runsCmd, plotCmd, snapshotCmd, scanCmd, presetsCmd, configCmd)
	return rootCmd
}

// loadConfig resolves preset, config file and flags, in that order of
// increasing precedence.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOnto(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if flags.Changed("speed") {
		cfg.Speed = speed
	}
	if flags.Changed("trail") {
		cfg.Trail = trailName
	}
	if flags.Changed("palette") {
		cfg.Palette = palette
	}
	if flags.Changed("restart") {
		cfg.Restart = restart
	}
	if flags.Changed("shuffle") {
		cfg.Shuffle = shuffle
	}
	if flags.Changed("skip-warmup") {
		cfg.SkipWarmup = skipWarmup
	}
	if flags.Changed("log-level") || cfg.Log.Level == "" {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = logFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newSession loads the configuration and builds a logger and a controller
// drawing onto screen. A nil screen means the configured window size.
func newSession(cmd *cobra.Command, screen *projection.Screen, quiet bool) (*config.Config, *sim.Controller, *zap.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	log, err := newLogger(cfg.Log, quiet)
	if err != nil {
		return nil, nil, nil, err
	}
	s := projection.Screen{W: float64(cfg.Window.Width), H: float64(cfg.Window.Height)}
	if screen != nil {
		s = *screen
	}
	ctrl, err := sim.New(cfg, s, log)
	if err != nil {
		_ = log.Sync()
		return nil, nil, nil, err
	}
	log.Debug("session started", zap.Int64("seed", cfg.Seed), zap.String("code", ctrl.Params().Encode()))
	return cfg, ctrl, log, nil
}

func runWindow(cmd *cobra.Command, args []string) error {
	cfg, ctrl, log, err := newSession(cmd, nil, false)
	if err != nil {
		return err
	}
	defer log.Sync()

	gui.Run(ctrl, cfg.Window.Width, cfg.Window.Height, log)
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, ctrl, log, err := newSession(cmd, nil, true)
	if err != nil {
		return err
	}
	defer log.Sync()

	m := viz.NewModel(ctrl, cfg.Terminal.Width, cfg.Terminal.Height, frameRate)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runDescribe(cmd *cobra.Command, args []string) error {
	cfg, ctrl, log, err := newSession(cmd, nil, true)
	if err != nil {
		return err
	}
	defer log.Sync()

	fmt.Printf("seed %d\n\n", cfg.Seed)
	for i := 0; i < count; i++ {
		if i > 0 {
			ctrl.Tick(sim.CmdShuffle)
			fmt.Println()
		}
		fmt.Println(ctrl.Label())
	}
	return nil
}

func runTrace(cmd *cobra.Command, args []string) error {
	cfg, ctrl, log, err := newSession(cmd, nil, false)
	if err != nil {
		return err
	}
	defer log.Sync()

	reports := make([]sim.FrameReport, 0, traceN)
	ctrl.AddObserver(sim.ObserverFunc(func(r sim.FrameReport) {
		reports = append(reports, r)
	}))

	x, y := ctrl.Params().Describe()
	meta := storage.TraceMeta{
		Code:      ctrl.Params().Encode(),
		EquationX: x,
		EquationY: y,
		Seed:      cfg.Seed,
		Speed:     cfg.Speed,
		Restart:   cfg.Restart,
		Shuffle:   cfg.Shuffle,
	}

	start := time.Now()
	for i := 0; i < traceN; i++ {
		ctrl.Frame()
	}
	elapsed := time.Since(start)
	meta.FinalT = ctrl.State().T

	fmt.Println(ctrl.Label())
	printTrace(reports)
	fmt.Printf("\n%d frames in %v (%.1f frames/s)\n", len(reports), elapsed.Round(time.Millisecond), float64(len(reports))/elapsed.Seconds())

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(meta, reports)
		if err != nil {
			return fmt.Errorf("failed to save trace: %w", err)
		}
		fmt.Printf("saved: %s\n", id)
	}
	return nil
}

func printTrace(reports []sim.FrameReport) {
	if len(reports) == 0 {
		fmt.Println("no frames")
		return
	}

	ts := make([]float64, len(reports))
	steps := make([]float64, len(reports))
	visible, total, restarts := 0, 0, 0
	for i, r := range reports {
		ts[i] = r.T
		steps[i] = math.Log10(r.Stats.RollingDelta)
		visible += r.Stats.VisibleSteps
		total += r.Stats.VisibleSteps + r.Stats.OffscreenSteps
		if r.Restarted {
			restarts++
		}
	}

	fmt.Println()
	fmt.Println(asciigraph.Plot(ts, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("t")))
	fmt.Println()
	fmt.Println(asciigraph.Plot(steps, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("log10 rolling step")))

	ratio := 0.0
	if total > 0 {
		ratio = float64(visible) / float64(total)
	}
	fmt.Printf("\nvisible sub-steps: %.1f%%  restarts: %d  final t: %.5f\n", ratio*100, restarts, reports[len(reports)-1].T)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no traces found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCODE\tTIME\tSEED\tSPEED\tFRAMES\tFINAL T")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.1f\t%d\t%.5f\n",
			run.ID,
			run.Code,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Seed,
			run.Speed,
			run.Frames,
			run.FinalT,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	reports, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s  seed %d  speed %.1f\n", meta.Code, meta.Seed, meta.Speed)
	fmt.Printf("x' = %s\ny' = %s\n", meta.EquationX, meta.EquationY)
	printTrace(reports)
	return nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	_, ctrl, log, err := newSession(cmd, nil, false)
	if err != nil {
		return err
	}
	defer log.Sync()

	for i := 0; i < snapshotN; i++ {
		if center && i == snapshotN-1 {
			ctrl.Center()
		}
		ctrl.Frame()
	}

	if err := export.Save(args[0], ctrl.Trail(), ctrl.Screen(), ctrl.Label()); err != nil {
		return err
	}
	log.Info("snapshot written", zap.String("path", args[0]), zap.String("code", ctrl.Params().Encode()))
	fmt.Printf("wrote %s (%s)\n", args[0], ctrl.Params().Encode())
	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	if numRuns <= 0 {
		return fmt.Errorf("%w: --runs must be positive, got %d", config.ErrInvalid, numRuns)
	}
	if top < 0 {
		return fmt.Errorf("%w: --top must not be negative, got %d", config.ErrInvalid, top)
	}
	if scanN < 0 {
		return fmt.Errorf("%w: --frames must not be negative, got %d", config.ErrInvalid, scanN)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	screen := projection.Screen{W: float64(cfg.Window.Width), H: float64(cfg.Window.Height)}
	results, err := sim.NewEnsemble(cfg, screen, numRuns, cfg.Seed, scanN).Run(ctx)
	if err != nil {
		return err
	}

	if top > len(results) {
		top = len(results)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tCODE\tVISIBLE\tFINAL T")
	for _, r := range results[:top] {
		fmt.Fprintf(w, "%d\t%s\t%.1f%%\t%.5f\n", r.Seed, r.Code, r.VisibleRatio*100, r.FinalT)
	}
	return w.Flush()
}
