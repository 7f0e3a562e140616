package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/matrixvis/internal/color565"
	"github.com/san-kum/matrixvis/internal/config"
	"github.com/san-kum/matrixvis/internal/export"
	"github.com/san-kum/matrixvis/internal/iss"
	"github.com/san-kum/matrixvis/internal/player"
	"github.com/san-kum/matrixvis/internal/preview"
	"github.com/san-kum/matrixvis/internal/storage"
	"github.com/san-kum/matrixvis/internal/stream"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       int64
	verbose    bool

	theme     string
	fps       int
	frames    int
	outFile   string
	scale     int
	square    bool
	caption   string
	noGIF     bool
	listen    string
	serveISS  bool
	numRuns   int
	variant   int
	runLength time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "matrixvis [visualization...]",
		Short: "LED matrix visualizations",
		RunE:  runPreview,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".matrixvis", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "palette preset")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed (0 uses config or clock)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.Flags().StringVar(&theme, "theme", "dark", "preview theme ("+strings.Join(preview.ThemeNames(), ", ")+")")
	rootCmd.Flags().IntVar(&fps, "fps", 30, "preview frame rate")

	runCmd := &cobra.Command{
		Use:   "run [visualization...]",
		Short: "run the playlist headless and log frame statistics",
		RunE:  runHeadless,
	}
	runCmd.Flags().DurationVar(&runLength, "time", 10*time.Second, "how long to run (0 runs until interrupted)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list visualizations",
		RunE:  listVisualizations,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list palette presets",
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tVARIANTS\tHUE STEP\tOFFSET\tSAT")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.2f\n", name, p.ColorVariations, p.HueStep, p.HueOffset, p.Saturation)
			}
			w.Flush()
		},
	}

	paletteCmd := &cobra.Command{
		Use:   "palette",
		Short: "plot the brightness ramp of a palette variant",
		RunE:  plotPalette,
	}
	paletteCmd.Flags().IntVar(&variant, "variant", 0, "palette variant")

	renderCmd := &cobra.Command{
		Use:   "render [visualization]",
		Short: "render a still (png, svg) or animation (gif)",
		Args:  cobra.ExactArgs(1),
		RunE:  renderVisualization,
	}
	renderCmd.Flags().IntVar(&frames, "frames", 120, "frames to simulate")
	renderCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (.png, .gif or .svg)")
	renderCmd.Flags().IntVar(&scale, "scale", 8, "output pixels per LED")
	renderCmd.Flags().BoolVar(&square, "square", false, "square LEDs instead of dots")
	renderCmd.Flags().StringVar(&caption, "caption", "", "caption under the panel (png)")

	recordCmd := &cobra.Command{
		Use:   "record [visualization]",
		Short: "record a clip into the data directory",
		Args:  cobra.ExactArgs(1),
		RunE:  recordClip,
	}
	recordCmd.Flags().IntVar(&frames, "frames", 300, "frames to record")
	recordCmd.Flags().IntVar(&scale, "scale", 4, "gif pixels per LED")
	recordCmd.Flags().BoolVar(&noGIF, "no-gif", false, "store statistics only")

	clipsCmd := &cobra.Command{
		Use:   "clips",
		Short: "list recorded clips",
		RunE:  listClips,
	}

	showCmd := &cobra.Command{
		Use:   "show [clip_id]",
		Short: "plot coverage of a recorded clip",
		Args:  cobra.ExactArgs(1),
		RunE:  showClip,
	}

	exportCmd := &cobra.Command{
		Use:   "export [clip_id] [file]",
		Short: "export clip metadata and statistics to JSON",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  exportClip,
	}

	rmCmd := &cobra.Command{
		Use:   "rm [clip_id]",
		Short: "delete a recorded clip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := storage.New(dataDir).Delete(args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", args[0])
			return nil
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve [visualization...]",
		Short: "stream frames to browsers over websocket",
		RunE:  serveStream,
	}
	serveCmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config)")

	issCmd := &cobra.Command{
		Use:   "iss",
		Short: "track the space station on a world map",
		RunE:  trackISS,
	}
	issCmd.Flags().BoolVar(&serveISS, "serve", false, "stream instead of the terminal preview")
	issCmd.Flags().StringVar(&listen, "listen", "", "listen address when serving")
	issCmd.Flags().StringVar(&theme, "theme", "dark", "preview theme")

	benchCmd := &cobra.Command{
		Use:   "bench [visualization]",
		Short: "render many seeds in parallel and report frame times",
		Args:  cobra.ExactArgs(1),
		RunE:  benchVisualization,
	}
	benchCmd.Flags().IntVar(&numRuns, "runs", 8, "parallel seeds")
	benchCmd.Flags().IntVar(&frames, "frames", 600, "frames per seed")

	rootCmd.AddCommand(runCmd, listCmd, presetsCmd, paletteCmd, renderCmd, recordCmd,
		clipsCmd, showCmd, exportCmd, rmCmd, serveCmd, issCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger()
	reg, err := newRegistry(cfg, nil, log)
	if err != nil {
		return err
	}
	p, err := newPlayer(cfg, reg, args, cfg.Seed, log)
	if err != nil {
		return err
	}
	// the alternate screen owns the terminal
	p.SetLogger(discardLogger())
	return preview.Run(p, preview.Options{FPS: fps, Theme: theme, GIFDir: dataDir})
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger()
	reg, err := newRegistry(cfg, nil, log)
	if err != nil {
		return err
	}
	p, err := newPlayer(cfg, reg, args, cfg.Seed, log)
	if err != nil {
		return err
	}
	fpsMetric, frameTime, coverage := player.NewFPS(), player.NewFrameTime(), player.NewCoverage()
	p.AddMetric(fpsMetric)
	p.AddMetric(frameTime)
	p.AddMetric(coverage)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if runLength > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, runLength)
		defer cancel()
	}

	log.Info("running", "playlist", p.Names(), "fps", cfg.Display.FPS, "seed", cfg.Seed)
	lastReport := 0.0
	err = p.Run(ctx, cfg.Display.FPS, nil, func(f player.Frame) bool {
		if f.Time-lastReport >= 1 {
			lastReport = f.Time
			log.Info("frame",
				"index", f.Index,
				"vis", f.Name,
				"fps", fmt.Sprintf("%.1f", fpsMetric.Value()),
				"render_ms", fmt.Sprintf("%.3f", frameTime.Value()),
				"coverage", fmt.Sprintf("%.3f", coverage.Last()))
		}
		return true
	})
	if err != nil && ctx.Err() == nil {
		return err
	}

	fmt.Printf("frames: %d\n", p.Frames())
	fmt.Println("\nmetrics:")
	for name, val := range p.Metrics() {
		fmt.Printf("  %s: %.4f\n", name, val)
	}
	return nil
}

func listVisualizations(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := newRegistry(cfg, nil, nil)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDESCRIPTION")
	for _, name := range append(reg.Names(), "iss") {
		fmt.Fprintf(w, "%s\t%s\n", name, descriptions[name])
	}
	return w.Flush()
}

func plotPalette(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	packing, err := cfg.PackingMode()
	if err != nil {
		return err
	}
	b := cfg.Blinken
	pal := color565.NewHSV(packing).BuildPalette(b.ColorVariations, b.FadeLevels, b.HueStep, b.HueOffset, b.Saturation)
	if variant < 0 || variant >= pal.Variants() {
		return fmt.Errorf("variant %d out of range [0,%d)", variant, pal.Variants())
	}

	graph := asciigraph.Plot(pal.Ramp(variant),
		asciigraph.Height(10),
		asciigraph.Width(64),
		asciigraph.Caption(fmt.Sprintf("variant %d brightness (%s packing)", variant, packing)),
	)
	fmt.Println(graph)
	fmt.Println()
	for v := 0; v < pal.Variants(); v++ {
		fmt.Printf("  %2d  %s  %s\n", v, pal.At(v, 0).Hex(), pal.At(v, pal.FadeLevels()-1).Hex())
	}
	return nil
}

func renderVisualization(cmd *cobra.Command, args []string) error {
	name := args[0]
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := newRegistry(cfg, nil, nil)
	if err != nil {
		return err
	}
	p, err := newPlayer(cfg, reg, []string{name}, cfg.Seed, nil)
	if err != nil {
		return err
	}
	if outFile == "" {
		outFile = name + ".png"
	}

	switch ext := strings.ToLower(filepath.Ext(outFile)); ext {
	case ".png":
		stepFixed(p, frames, cfg.Display.FPS)
		opts := export.DefaultPNGOptions()
		opts.Scale = scale
		opts.Dots = !square
		opts.Caption = caption
		err = export.SavePNG(outFile, p.Buffer(), opts)
	case ".gif":
		rec := export.NewGIFRecorder(scale, cfg.Display.FPS, 0)
		p.AddObserver(rec)
		stepFixed(p, frames, cfg.Display.FPS)
		err = rec.Save(outFile)
	case ".svg":
		stepFixed(p, frames, cfg.Display.FPS)
		err = os.WriteFile(outFile, []byte(export.SVG(p.Buffer(), float64(scale))), 0644)
	default:
		return fmt.Errorf("unsupported output format %q", ext)
	}
	if err != nil {
		return err
	}

	fmt.Printf("rendered %d frames of %s to %s\n", frames, name, outFile)
	return nil
}

func recordClip(cmd *cobra.Command, args []string) error {
	name := args[0]
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := newRegistry(cfg, nil, nil)
	if err != nil {
		return err
	}
	p, err := newPlayer(cfg, reg, []string{name}, cfg.Seed, nil)
	if err != nil {
		return err
	}
	p.AddMetric(player.NewFrameTime())
	p.AddMetric(player.NewCoverage())

	stats := storage.NewStatsRecorder()
	p.AddObserver(stats)
	var anim storage.Encoder
	if !noGIF {
		rec := export.NewGIFRecorder(scale, cfg.Display.FPS, 0)
		p.AddObserver(rec)
		anim = rec
	}

	fmt.Printf("recording %d frames of %s...\n", frames, name)
	start := time.Now()
	stepFixed(p, frames, cfg.Display.FPS)

	st := storage.New(dataDir)
	clipID, err := st.Save(storage.ClipMetadata{
		Visualization: name,
		Seed:          cfg.Seed,
		FPS:           cfg.Display.FPS,
		Width:         cfg.Display.Width,
		Height:        cfg.Display.Height,
		Preset:        cfg.Preset,
		Packing:       cfg.Display.Packing,
		Metrics:       p.Metrics(),
	}, stats.Stats(), anim)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("clip id: %s\n", clipID)
	return nil
}

func listClips(cmd *cobra.Command, args []string) error {
	clips, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(clips) == 0 {
		fmt.Println("no clips found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tVIS\tTIME\tFRAMES\tFPS\tSEED\tGIF")
	for _, c := range clips {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%v\n",
			c.ID,
			c.Visualization,
			c.Timestamp.Format("2006-01-02 15:04:05"),
			c.Frames,
			c.FPS,
			c.Seed,
			c.HasGIF,
		)
	}
	return w.Flush()
}

func showClip(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	stats, err := st.LoadStats(args[0])
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("clip: %s\n", meta.ID)
	fmt.Printf("visualization: %s\n", meta.Visualization)
	fmt.Printf("frames: %d\n\n", len(stats))

	cov := make([]float64, len(stats))
	for i, s := range stats {
		cov[i] = s.Coverage
	}
	fmt.Println(asciigraph.Plot(cov,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("lit pixel fraction"),
	))
	if fl := storage.FlickerSpectrum(stats, meta.FPS); fl.Magnitude > 0 {
		fmt.Printf("\nflicker: %.2f Hz (amplitude %.3f)\n", fl.Frequency, fl.Magnitude)
	}
	if meta.HasGIF {
		fmt.Printf("\nanimation: %s\n", st.GIFPath(meta.ID))
	}
	return nil
}

func exportClip(cmd *cobra.Command, args []string) error {
	clipID := args[0]
	path := clipID + ".json"
	if len(args) > 1 {
		path = args[1]
	}
	if err := storage.New(dataDir).ExportJSON(path, clipID); err != nil {
		return err
	}
	fmt.Printf("exported %s to %s\n", clipID, path)
	return nil
}

func serveStream(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger()
	reg, err := newRegistry(cfg, nil, log)
	if err != nil {
		return err
	}
	p, err := newPlayer(cfg, reg, args, cfg.Seed, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return servePlayer(ctx, cfg, p, log)
}

func trackISS(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger()
	if !serveISS {
		log = discardLogger()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	tracker := iss.NewTracker(iss.NewClient(cfg.ISS), cfg.ISS, log)
	go tracker.Run(ctx)

	reg, err := newRegistry(cfg, tracker, log)
	if err != nil {
		return err
	}
	p, err := newPlayer(cfg, reg, []string{"iss"}, cfg.Seed, log)
	if err != nil {
		return err
	}

	if serveISS {
		return servePlayer(ctx, cfg, p, log)
	}
	return preview.Run(p, preview.Options{FPS: 10, Theme: theme, GIFDir: dataDir})
}

func benchVisualization(cmd *cobra.Command, args []string) error {
	name := args[0]
	if numRuns < 1 || frames < 1 {
		return fmt.Errorf("runs and frames must be positive")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := newRegistry(cfg, nil, nil)
	if err != nil {
		return err
	}

	times := make([]*player.FrameTime, numRuns)
	build := func(s int64) (*player.Player, error) {
		p, err := newPlayer(cfg, reg, []string{name}, s, discardLogger())
		if err != nil {
			return nil, err
		}
		ft := player.NewFrameTime()
		times[s-cfg.Seed] = ft
		p.AddMetric(ft)
		p.AddMetric(player.NewCoverage())
		return p, nil
	}

	fmt.Printf("benchmarking %s: %d seeds x %d frames\n\n", name, numRuns, frames)
	start := time.Now()
	results, err := player.NewEnsemble(build, numRuns, cfg.Seed).Run(context.Background(), frames, 1/float64(cfg.Display.FPS))
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tFRAMES\tMEAN MS\tMAX MS\tCOVERAGE")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%.4f\t%.4f\t%.3f\n",
			r.Seed, r.Frames, r.Metrics["frame_ms"], times[i].Max(), r.Metrics["coverage"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	total := numRuns * frames
	fmt.Printf("\n%d frames in %v (%.0f frames/sec)\n\n", total, elapsed, float64(total)/elapsed.Seconds())
	if samples := times[0].Samples(); len(samples) > 1 {
		fmt.Println(asciigraph.Plot(samples,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("frame time ms, seed %d", results[0].Seed)),
		))
	}
	return nil
}

// servePlayer streams p until ctx is done or the listener fails.
func servePlayer(ctx context.Context, cfg *config.Config, p *player.Player, log *slog.Logger) error {
	addr := listen
	if addr == "" {
		addr = cfg.Serve.Listen
	}
	srv := stream.New(addr, log)
	p.AddObserver(srv)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ctx)
		cancel()
	}()

	log.Info("serving", "addr", addr, "playlist", p.Names())
	runErr := p.Run(ctx, cfg.Display.FPS, srv, nil)
	cancel()
	if err := <-errc; err != nil {
		return err
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}
