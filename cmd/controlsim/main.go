package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/controlsim/internal/automation"
	"github.com/san-kum/controlsim/internal/config"
	"github.com/san-kum/controlsim/internal/experiment"
	"github.com/san-kum/controlsim/internal/logging"
	"github.com/san-kum/controlsim/internal/metrics"
	"github.com/san-kum/controlsim/internal/scene"
	"github.com/san-kum/controlsim/internal/storage"
	"github.com/san-kum/controlsim/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	dt         float64
	duration   float64
	integrator string
	configFile string
	noSave     bool
	// sweep
	sweepControl string
	sweepParam   string
	sweepMin     float64
	sweepMax     float64
	sweepSteps   int
	workers      int
	// plot/export
	plotControl string
	outFile     string
	metricsAddr string

	log = zap.NewNop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "controlsim",
		Short:         "interactive control simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(logLevel)
			if err != nil {
				return err
			}
			log = l
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".controlsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scene from a preset or --config",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	sceneFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run every step of a scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "sweep one control parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sceneFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepControl, "control", "", "control to vary")
	sweepCmd.Flags().StringVar(&sweepParam, "param", "", "parameter name (yaml key)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel scenes (0 = one per cpu)")
	_ = sweepCmd.MarkFlagRequired("control")
	_ = sweepCmd.MarkFlagRequired("param")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotControl, "control", "", "control to plot (default: all, normalized)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "step a scene in real time and interact with it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	sceneFlags(liveCmd)
	liveCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset scenes",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, batchCmd, sweepCmd, listCmd, plotCmd, exportCmd, liveCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func sceneFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "frame time")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator for physics doors (rk4, euler)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
}

// loadScene picks the preset named in args, else --config, else the default
// scene. Flags given explicitly override the file.
func loadScene(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case len(args) == 1:
		cfg = config.GetPreset(args[0])
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
	case configFile != "":
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	default:
		cfg = config.DefaultConfig()
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	return cfg, cfg.Validate()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	exp, err := automation.Build(cfg, experiment.NewRegistry(), log, experiment.WithDefaultMetrics())
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	printSummary(cfg, result)

	if noSave {
		return nil
	}
	return save(cfg, result)
}

func save(cfg *config.Config, result *scene.Result) error {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}
	fmt.Printf("saved: %s\n", runID)
	return nil
}

func printSummary(cfg *config.Config, result *scene.Result) {
	fmt.Printf("%s: %d frames, %d events\n", cfg.Name, result.Frames, len(result.Events))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CONTROL\tTYPE\tFINAL\tNORM\tLIMIT\tEVENTS")
	for _, cc := range cfg.Controls {
		trace := result.Traces[cc.Name]
		if len(trace) == 0 {
			continue
		}
		last := trace[len(trace)-1]
		limit := "-"
		if last.AtMin {
			limit = "min"
		} else if last.AtMax {
			limit = "max"
		}
		events := 0
		for _, e := range result.Events {
			if e.Control == cc.Name {
				events++
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%.4f\t%.3f\t%s\t%d\n", cc.Name, cc.Type, last.Value, last.Normalized, limit, events)
	}
	w.Flush()

	if len(result.Metrics) > 0 {
		names := make([]string, 0, len(result.Metrics))
		for name := range result.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %-32s %.4f\n", name, result.Metrics[name])
		}
	}
}

func runBatch(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("scenario %s: %d steps\n", sc.Name, len(sc.Steps))

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunScenario(ctx, sc, experiment.NewRegistry(), log)
	for _, r := range results {
		printSummary(r.Config, r.Result)
		if r.SaveAs != "" {
			r.Config.Name = r.SaveAs
		}
		if serr := save(r.Config, r.Result); serr != nil {
			return serr
		}
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	sweep := &automation.ParameterSweep{
		Base:     cfg,
		Control:  sweepControl,
		Param:    sweepParam,
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
		Workers:  workers,
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, sweep, experiment.NewRegistry(), log)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tFINAL\tNORM\tEVENTS\tTRAVEL\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%.4f\t%.3f\t%d\t%.4f\n",
			r.ParamValue, r.Final.Value, r.Final.Normalized, r.Events, r.Metrics[sweepControl+".travel"])
	}
	return w.Flush()
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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tDURATION\tDT\tCONTROLS\tEVENTS")

	for _, run := range runs {
		names := make([]string, len(run.Controls))
		for i, c := range run.Controls {
			names[i] = c.Name
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%d\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			strings.Join(names, ","),
			run.Events,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	result, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}

	var graph string
	if plotControl != "" {
		graph, err = viz.Plot(result, plotControl)
	} else {
		graph, err = viz.PlotNormalized(result)
	}
	if err != nil {
		return err
	}
	fmt.Println(graph)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	cfg, err := st.LoadConfig(args[0])
	if err != nil {
		return err
	}
	result, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}

	if outFile == "" {
		return storage.ExportJSON(os.Stdout, cfg, result)
	}
	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := storage.ExportJSON(f, cfg, result); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outFile)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	collector := metrics.NewCollector()
	exp, err := automation.Build(cfg, experiment.NewRegistry(), log, experiment.WithObserver(collector))
	if err != nil {
		return err
	}

	if metricsAddr != "" {
		reg := prometheus.NewRegistry()
		if err := collector.Register(reg); err != nil {
			return err
		}
		srv := &http.Server{Addr: metricsAddr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server", zap.Error(err))
			}
		}()
		defer srv.Close()
	}

	p := tea.NewProgram(viz.NewLive(exp.Scene(), cfg.Dt), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tCONTROLS\tACTIONS\tDURATION")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		kinds := make([]string, len(cfg.Controls))
		for i, cc := range cfg.Controls {
			kinds[i] = cc.Name + ":" + cc.Type
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.1fs\n", name, strings.Join(kinds, ","), len(cfg.Script), cfg.Duration)
	}
	return w.Flush()
}
