package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/blobsim/internal/analysis"
	"github.com/san-kum/blobsim/internal/automation"
	"github.com/san-kum/blobsim/internal/config"
	"github.com/san-kum/blobsim/internal/engine"
	"github.com/san-kum/blobsim/internal/export"
	"github.com/san-kum/blobsim/internal/gui"
	"github.com/san-kum/blobsim/internal/metrics"
	"github.com/san-kum/blobsim/internal/settings"
	"github.com/san-kum/blobsim/internal/storage"
	"github.com/san-kum/blobsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir     string
	configFile  string
	seed        int64
	fps         int
	integrator  string
	resolution  int
	maxBodies   int
	preset      string
	presetsFile string

	frames   int
	record   bool
	plot     bool
	jsonOut  string
	objOut   string
	objWorld bool
	mono     bool
	xCol     string
	yCol     string
	svgOut   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "blobsim",
		Short: "metaball blob simulation",
		RunE:  runGUI,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (default from config)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")

	engineFlags := func(cmd *cobra.Command) {
		cmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
		cmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frames per second")
		cmd.Flags().StringVar(&integrator, "integrator", "semi-implicit", "integrator")
		cmd.Flags().IntVar(&resolution, "resolution", 96, "surface grid resolution")
		cmd.Flags().IntVar(&maxBodies, "max-bodies", settings.DefaultMaxBodies, "body pool size")
		cmd.Flags().StringVar(&preset, "preset", "", "start preset name")
		cmd.Flags().StringVar(&presetsFile, "presets", "", "presets file (yaml)")
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	engineFlags(runCmd)
	runCmd.Flags().IntVar(&frames, "frames", 600, "frames to simulate")
	runCmd.Flags().BoolVar(&record, "record", false, "save the run")
	runCmd.Flags().BoolVar(&plot, "plot", false, "plot spread over time")
	runCmd.Flags().StringVar(&jsonOut, "json", "", "write frame stats as JSON (- for stdout)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with terminal visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	engineFlags(liveCmd)
	liveCmd.Flags().BoolVar(&mono, "mono", false, "disable colors")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run in a window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	engineFlags(guiCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}
	presetsCmd.Flags().StringVar(&presetsFile, "presets", "", "presets file (yaml)")
	presetsCmd.Flags().StringVar(&jsonOut, "save", "", "write the presets to a yaml file")

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

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "summary and frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "plot one recorded column against another",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().StringVar(&xCol, "x", "centroid_x", "column for the x axis")
	phaseCmd.Flags().StringVar(&yCol, "y", "centroid_z", "column for the y axis")
	phaseCmd.Flags().StringVar(&svgOut, "svg", "", "also write an SVG to this path")

	objCmd := &cobra.Command{
		Use:   "export-obj",
		Short: "simulate and write the surface as OBJ",
		Args:  cobra.NoArgs,
		RunE:  exportOBJ,
	}
	engineFlags(objCmd)
	objCmd.Flags().IntVar(&frames, "frames", 120, "frames to simulate first")
	objCmd.Flags().StringVar(&objOut, "out", "blob.obj", "output path")
	objCmd.Flags().BoolVar(&objWorld, "world", true, "write world coordinates")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	engineFlags(scenarioCmd)
	scenarioCmd.Flags().BoolVar(&record, "record", false, "save the run")

	sweepCmd := &cobra.Command{
		Use:   "sweep [control] [min] [max] [steps]",
		Short: "run once per value of a control",
		Args:  cobra.ExactArgs(4),
		RunE:  runSweep,
	}
	engineFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&frames, "frames", 300, "frames per run")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [runs]",
		Short: "run concurrently under consecutive seeds",
		Args:  cobra.ExactArgs(1),
		RunE:  runEnsemble,
	}
	engineFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&frames, "frames", 300, "frames per run")

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, presetsCmd, listCmd, plotCmd, analyzeCmd,
		exportCmd, phaseCmd, objCmd, scenarioCmd, sweepCmd, ensembleCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads --config, then applies the flags that were set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("resolution") {
		cfg.Resolution = resolution
	}
	if flags.Changed("max-bodies") {
		cfg.MaxBodies = maxBodies
	}
	if flags.Changed("preset") {
		cfg.StartPreset = preset
	}
	if flags.Changed("presets") {
		cfg.PresetsFile = presetsFile
	}
	if dataDir != "" {
		cfg.RunsDir = dataDir
	}
	return cfg, nil
}

func newEngine(cmd *cobra.Command, opts ...engine.Option) (*config.Config, *engine.Engine, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	ec, err := cfg.Engine()
	if err != nil {
		return nil, nil, err
	}
	e, err := engine.New(ec, opts...)
	if err != nil {
		return nil, nil, err
	}
	return cfg, e, nil
}

func addStandardMetrics(e *engine.Engine) {
	for _, m := range metrics.Standard(e.Settings().BoundaryRadius) {
		e.AddMetric(m)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func metadata(cfg *config.Config, e *engine.Engine) storage.RunMetadata {
	return storage.RunMetadata{
		Preset:     e.State().Preset().Name,
		Seed:       cfg.Seed,
		FPS:        cfg.FPS,
		Integrator: cfg.Integrator,
		Resolution: cfg.Resolution,
		MaxBodies:  cfg.MaxBodies,
	}
}

func printMetrics(m map[string]float64) {
	fmt.Println("\nmetrics:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range sortedKeys(m) {
		fmt.Fprintf(w, "  %s\t%.6f\n", name, m[name])
	}
	w.Flush()
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func saveRun(cfg *config.Config, meta storage.RunMetadata, result *engine.Result) error {
	st := storage.New(cfg.RunsDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(meta, result)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, e, err := newEngine(cmd)
	if err != nil {
		return err
	}
	addStandardMetrics(e)

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %d frames of %s...\n", frames, e.State().Preset().Name)
	start := time.Now()
	result, err := e.Run(ctx, frames)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n", time.Since(start))

	meta := metadata(cfg, e)
	if record {
		if err := saveRun(cfg, meta, result); err != nil {
			return err
		}
	}
	if jsonOut != "" {
		meta.Frames, meta.Metrics = len(result.Frames), result.Metrics
		if err := storage.ExportJSON(jsonOut, meta, result); err != nil {
			return err
		}
	}

	last := result.Frames[len(result.Frames)-1]
	fmt.Printf("blobs: %d  triangles: %d  spread: %.4f\n", last.Influences, last.Triangles, last.Spread)
	printMetrics(result.Metrics)

	if plot {
		spread := make([]float64, len(result.Frames))
		for i, f := range result.Frames {
			spread[i] = f.Spread
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(spread, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("spread")))
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	renderer := viz.NewRenderer(80, 30, !mono)
	_, e, err := newEngine(cmd, engine.WithRenderer(renderer))
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewModel(e, renderer), tea.WithAltScreen(), tea.WithMouseAllMotion())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(viz.Model); ok {
		return m.Err()
	}
	return nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	_, e, err := newEngine(cmd)
	if err != nil {
		return err
	}
	return gui.Run(e)
}

func listPresets(cmd *cobra.Command, args []string) error {
	presets := settings.Builtin()
	if presetsFile != "" {
		var err error
		presets, err = config.LoadPresets(presetsFile)
		if err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tMESH\tSIZE\tGLUE\tSPREAD\tRECENTER\tNOISE\tSWIRL")
	for i, p := range presets {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1, p.Name, p.MeshCount,
			settings.FormatValue(p.MetaballSize),
			settings.FormatValue(p.GlueStrength),
			settings.FormatValue(p.SpreadRange),
			settings.FormatValue(p.RecenterForce),
			settings.FormatValue(p.NoiseStrength),
			settings.FormatValue(p.SwirlStrength),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if jsonOut != "" {
		return config.SavePresets(jsonOut, presets)
	}
	return nil
}

func openStore(cmd *cobra.Command) (*storage.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return storage.New(cfg.RunsDir), nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tFRAMES\tFPS\tRES\tSCENARIO")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.FPS,
			run.Resolution,
			run.Scenario,
		)
	}

	return w.Flush()
}

func loadRun(cmd *cobra.Command, runID string) (*storage.RunMetadata, storage.Series, error) {
	st, err := openStore(cmd)
	if err != nil {
		return nil, nil, err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	series, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, series, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", series.Len())

	for _, col := range []string{"kinetic_energy", "spread", "influences", "triangles", "offset"} {
		data := series[col]
		if len(data) == 0 {
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(col),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s (%s, %d frames at %d fps)\n\n", meta.ID, meta.Preset, series.Len(), meta.FPS)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SERIES\tMEAN\tSTDDEV\tMIN\tMAX\tPEAK HZ")
	for _, col := range []string{"kinetic_energy", "spread", "centroid_x", "centroid_y", "centroid_z", "triangles"} {
		data := series[col]
		s := analysis.Summarize(data)
		freq, _ := analysis.DominantFrequency(data, float64(meta.FPS))
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.3f\n", col, s.Mean, s.StdDev, s.Min, s.Max, freq)
	}
	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	xs, ok := series[xCol]
	if !ok {
		return fmt.Errorf("unknown column %q (available: %v)", xCol, storage.Columns)
	}
	ys, ok := series[yCol]
	if !ok {
		return fmt.Errorf("unknown column %q (available: %v)", yCol, storage.Columns)
	}

	points := analysis.Trajectory(xs, ys)
	fmt.Printf("run: %s  %s vs %s\n\n", meta.ID, yCol, xCol)
	fmt.Println(analysis.TrajectoryToASCII(points, 80, 24))

	if svgOut != "" {
		svg := export.TrajectoryToSVG(points, 800, 600, "#4fc3f7")
		if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgOut)
	}
	return nil
}

func exportOBJ(cmd *cobra.Command, args []string) error {
	_, e, err := newEngine(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	if _, err := e.Run(ctx, frames); err != nil {
		return err
	}

	var tf export.Transform
	if objWorld {
		tf = e.Marcher().ToWorld
	}
	mesh := e.Marcher().Mesh()
	if err := export.SaveOBJ(objOut, mesh, tf); err != nil {
		return err
	}
	fmt.Printf("wrote %s: %d vertices, %d triangles\n", objOut, len(mesh.Vertices), mesh.Triangles())
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	if sc.Preset != "" && !cmd.Flags().Changed("preset") {
		if err := cmd.Flags().Set("preset", sc.Preset); err != nil {
			return err
		}
	}
	cfg, e, err := newEngine(cmd)
	if err != nil {
		return err
	}
	addStandardMetrics(e)

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running scenario %s: %d frames, %d steps\n", sc.Name, sc.Frames, len(sc.Steps))
	result, err := automation.Play(ctx, e, sc)
	if err != nil {
		return err
	}

	var applied, rejected int
	for _, f := range result.Frames {
		applied += f.Applied
		rejected += f.Rejected
	}
	fmt.Printf("intents: %d applied, %d rejected\n", applied, rejected)
	printMetrics(result.Metrics)

	if record {
		meta := metadata(cfg, e)
		meta.Scenario = sc.Name
		return saveRun(cfg, meta, result)
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	key, ok := settings.ParseKey(args[0])
	if !ok {
		return fmt.Errorf("unknown control %q (available: %v)", args[0], settings.Keys)
	}
	lo, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return err
	}
	hi, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return err
	}
	steps, err := strconv.Atoi(args[3])
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	sweep := automation.Sweep{Key: key, Min: lo, Max: hi, Steps: steps, Frames: frames}
	results, err := automation.RunSweep(ctx, sweep, func() (*engine.Engine, error) {
		_, e, err := newEngine(cmd)
		if err != nil {
			return nil, err
		}
		addStandardMetrics(e)
		return e, nil
	})
	if err != nil {
		return err
	}

	if len(results) == 0 {
		return nil
	}
	names := sortedKeys(results[0].Metrics)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, key)
	for _, n := range names {
		fmt.Fprintf(w, "\t%s", n)
	}
	fmt.Fprintln(w)
	for _, r := range results {
		fmt.Fprint(w, settings.FormatValue(r.Value))
		for _, n := range names {
			fmt.Fprintf(w, "\t%.4f", r.Metrics[n])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	runs, err := strconv.Atoi(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %d seeds from %d, %d frames each...\n", runs, cfg.Seed, frames)
	en := automation.Ensemble{Runs: runs, SeedStart: cfg.Seed, Frames: frames}
	results, err := en.Run(ctx, func(seed int64) (*engine.Engine, error) {
		c := *cfg
		c.Seed = seed
		ec, err := c.Engine()
		if err != nil {
			return nil, err
		}
		e, err := engine.New(ec)
		if err != nil {
			return nil, err
		}
		addStandardMetrics(e)
		return e, nil
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tSTDDEV\tMIN\tMAX")
	for _, name := range sortedKeys(results[0].Metrics) {
		s := analysis.Summarize(automation.MetricSeries(results, name))
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%.4f\n", name, s.Mean, s.StdDev, s.Min, s.Max)
	}
	return w.Flush()
}
