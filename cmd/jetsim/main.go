package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/jetsim/internal/anim"
	"github.com/san-kum/jetsim/internal/config"
	"github.com/san-kum/jetsim/internal/neighbor"
	"github.com/san-kum/jetsim/internal/scenario"
	"github.com/san-kum/jetsim/internal/storage"
	"github.com/san-kum/jetsim/internal/tui"
)

var (
	dataDir    string
	verbosity  int
	configFile string
	frames     int
	searcher   string
	save       bool
	parallel   int
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "jetsim",
		Short:         "particle fluid simulation toolkit",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".jetsim", "data directory")
	rootCmd.PersistentFlags().IntVarP(&verbosity, "verbose", "v", 0, "log verbosity")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a simulation and save it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().BoolVar(&save, "save", true, "save the final state")

	watchCmd := &cobra.Command{
		Use:   "watch [preset]",
		Short: "run a simulation with a live terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  watchSimulation,
	}
	addRunFlags(watchCmd)

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "compare neighbor searchers on one scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchSearchers,
	}
	addRunFlags(benchCmd)
	benchCmd.Flags().IntVar(&parallel, "parallel", 1, "runs stepped at once")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-14s %s, %dD, %d frames\n", name, p.Scenario, p.Dimension, p.Frames)
			}
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect [run_id]",
		Short: "show a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  inspectRun,
	}

	rootCmd.AddCommand(runCmd, watchCmd, benchCmd, presetsCmd, listCmd, inspectCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().IntVar(&frames, "frames", 0, "frames to simulate (overrides config)")
	cmd.Flags().StringVar(&searcher, "searcher", "", "neighbor searcher (overrides config)")
}

func newLogger() logr.Logger {
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintln(os.Stderr, prefix, args)
			return
		}
		fmt.Fprintln(os.Stderr, args)
	}, funcr.Options{Verbosity: verbosity})
}

// loadConfig resolves a preset or config file, then applies flag overrides.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case len(args) > 0:
		cfg = config.GetPreset(args[0])
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	default:
		cfg = config.DefaultConfig()
	}
	if cmd.Flags().Changed("frames") {
		cfg.Frames = frames
	}
	if cmd.Flags().Changed("searcher") {
		cfg.Searcher = searcher
	}
	return cfg, cfg.Validate()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	log := newLogger()
	run, err := scenario.New(cfg)
	if err != nil {
		return err
	}
	run.SetLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info("running", "scenario", cfg.Scenario, "dimension", cfg.Dimension, "frames", cfg.Frames)
	start := time.Now()
	if err := run.RunFrames(ctx, cfg.Frames); err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Println(titleStyle.Render(fmt.Sprintf("%s (%dD)", cfg.Scenario, cfg.Dimension)))
	fmt.Printf("completed in %v\n", elapsed.Round(time.Millisecond))
	fmt.Printf("frames: %d  particles: %d\n", run.Frame().Index, run.NumberOfParticles())
	printMetrics(run.Recorder.Values())

	if energy := run.Recorder.History("kinetic_energy"); len(energy) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(energy,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("kinetic energy"),
		))
	}

	if !save {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg.Scenario, cfg, run.Frame().Index, run.Fluid, run.Recorder)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func watchSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	run, err := scenario.New(cfg)
	if err != nil {
		return err
	}
	return tui.Watch(tui.NewMonitor(run, cfg.Frames))
}

// timedRun measures the wall time spent updating a run.
type timedRun struct {
	*scenario.Run
	elapsed time.Duration
}

func (t *timedRun) Update(frame anim.Frame) error {
	start := time.Now()
	err := t.Run.Update(frame)
	t.elapsed += time.Since(start)
	return err
}

func benchSearchers(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if cfg.Frames < 1 {
		return fmt.Errorf("bench needs at least one frame")
	}
	names := neighbor.Names3()
	if cfg.Dimension == 2 {
		names = neighbor.Names2()
	}

	log := newLogger()
	ens := anim.NewEnsemble()
	ens.SetLimit(parallel)
	runs := make([]*timedRun, 0, len(names))
	for _, name := range names {
		c := cfg.Clone()
		c.Searcher = name
		run, err := scenario.New(c)
		if err != nil {
			return err
		}
		run.SetLogger(log.WithValues("searcher", name))
		t := &timedRun{Run: run}
		runs = append(runs, t)
		ens.Add(t)
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("benchmarking %s (%dD, %d frames)", cfg.Scenario, cfg.Dimension, cfg.Frames)))
	if err := ens.Run(cmd.Context(), anim.NewFrame(uint(cfg.Frames-1), cfg.TimeStep())); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEARCHER\tPARTICLES\tTIME\tFRAMES/SEC\tMAX DENSITY")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%d\t%v\t%.1f\t%.4f\n",
			r.Config.Searcher,
			r.NumberOfParticles(),
			r.elapsed.Round(time.Millisecond),
			float64(cfg.Frames)/r.elapsed.Seconds(),
			r.Recorder.Values()["max_density_ratio"],
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println(okStyle.Render("done"))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDIM\tFRAMES\tPARTICLES\tSEARCHER")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dD\t%d\t%d\t%s\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Dimension,
			run.Frame,
			run.Particles,
			searcherLabel(run.Searcher),
		)
	}
	return w.Flush()
}

func inspectRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.LoadMetadata(runID)
	if err != nil {
		return err
	}
	times, history, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("run: " + meta.ID))
	fmt.Printf("scenario: %s (%dD)\n", meta.Scenario, meta.Dimension)
	fmt.Printf("frames: %d  particles: %d  searcher: %s\n", meta.Frame, meta.Particles, searcherLabel(meta.Searcher))
	fmt.Printf("samples: %d\n", len(times))
	printMetrics(meta.Metrics)

	names := make([]string, 0, len(history))
	for name := range history {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if len(history[name]) < 2 {
			continue
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(history[name],
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		))
	}
	return nil
}

func printMetrics(values map[string]float64) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s %s\n", dimStyle.Render(fmt.Sprintf("%-18s", name)), fmt.Sprintf("%.6g", values[name]))
	}
}

func searcherLabel(name string) string {
	if name == "" {
		return "default"
	}
	return name
}
