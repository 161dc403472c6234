// Command backdrop runs the animated background effects in a window, or
// simulates them headlessly and writes particle snapshots.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/phanxgames/backdrop"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	configPath string
	effectName string
	seed       uint64
	verbose    bool

	// run flags
	watch      bool
	showFPS    bool
	resizable  bool
	scriptPath string

	// snapshot flags
	ticks   int
	outPath string
	width   int
	height  int

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "backdrop",
	Short: "Animated particle and field backgrounds",
	Long: `backdrop renders full-window decorative background layers: flow fields,
constellations, a shader aurora, morphing blobs, floaters and orbits.

Settings come from the embedded presets, overlaid with --config.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = newLogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open a window and run an effect",
	RunE:  runWindow,
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Simulate an effect headlessly and write a particle CSV",
	Long: `Runs the effect for --ticks frames on a headless host with a fixed seed
and writes every particle's state as CSV. A summary of speeds and ages is
printed to stderr.`,
	RunE: runSnapshot,
}

var effectsCmd = &cobra.Command{
	Use:   "effects",
	Short: "List available effects",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, n := range backdrop.EffectNames() {
			fmt.Fprintln(cmd.OutOrStdout(), n)
		}
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "YAML config overlaid on the presets")
	pf.StringVarP(&effectName, "effect", "e", "", "effect to run (see 'backdrop effects')")
	pf.Uint64Var(&seed, "seed", 0, "random seed; 0 uses the config seed or entropy")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload --config when it changes")
	runCmd.Flags().BoolVar(&showFPS, "fps", false, "show FPS overlay")
	runCmd.Flags().BoolVar(&resizable, "resizable", true, "allow resizing the window")
	runCmd.Flags().StringVar(&scriptPath, "script", "", "JSON input script to play")

	snapshotCmd.Flags().IntVarP(&ticks, "ticks", "n", 100, "frames to simulate")
	snapshotCmd.Flags().StringVarP(&outPath, "out", "o", "-", "CSV output path, - for stdout")
	snapshotCmd.Flags().IntVar(&width, "width", 0, "viewport width (default from config)")
	snapshotCmd.Flags().IntVar(&height, "height", 0, "viewport height (default from config)")

	rootCmd.AddCommand(runCmd, snapshotCmd, effectsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	config.Encoding = "console"
	return config.Build()
}

// loadSettings resolves the config file and flag overrides.
func loadSettings() (*backdrop.Config, error) {
	cfg, err := backdrop.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	applyFlags(cfg)
	return cfg, nil
}

func applyFlags(cfg *backdrop.Config) {
	if effectName != "" {
		cfg.Effect = effectName
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if verbose {
		cfg.Debug = true
	}
}

func newLayer(cfg *backdrop.Config) (*backdrop.Layer, error) {
	effect, err := backdrop.NewEffect(cfg.Effect, cfg)
	if err != nil {
		return nil, err
	}
	return backdrop.NewLayer(effect,
		backdrop.WithLogger(logger),
		backdrop.WithSeed(cfg.Seed),
		backdrop.WithDebug(cfg.Debug),
	), nil
}

func runWindow(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	stage := backdrop.NewStage(cfg.Width, cfg.Height, logger)
	stage.ClearColor = backdrop.Color{R: 0.039, G: 0.039, B: 0.039, A: 1}

	layer, err := newLayer(cfg)
	if err != nil {
		return err
	}
	if err := stage.Mount(layer); err != nil {
		// A layer that cannot mount draws nothing; keep the window up.
		logger.Warn("effect disabled", zap.Error(err))
	}

	if scriptPath != "" {
		data, err := os.ReadFile(scriptPath)
		if err != nil {
			return fmt.Errorf("reading script: %w", err)
		}
		sc, err := backdrop.LoadScript(data)
		if err != nil {
			return err
		}
		stage.SetScript(sc)
	}

	if watch && configPath != "" {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		w, err := backdrop.NewConfigWatcher(configPath, logger)
		if err != nil {
			return err
		}
		defer w.Close()
		if err := w.Start(ctx); err != nil {
			return err
		}
		stage.SetUpdateFunc(func() error {
			select {
			case next := <-w.Changes():
				applyFlags(next)
				swapLayer(stage, next)
			default:
			}
			return nil
		})
	}

	return backdrop.Run(stage, backdrop.RunConfig{
		Title:     "backdrop - " + cfg.Effect,
		Width:     cfg.Width,
		Height:    cfg.Height,
		TPS:       cfg.TPS,
		Resizable: resizable,
		ShowFPS:   showFPS || cfg.Debug,
	})
}

// swapLayer replaces every mounted layer with one built from cfg.
func swapLayer(stage *backdrop.Stage, cfg *backdrop.Config) {
	layer, err := newLayer(cfg)
	if err != nil {
		logger.Warn("config reload ignored", zap.Error(err))
		return
	}
	stage.UnmountAll()
	if err := stage.Mount(layer); err != nil {
		logger.Warn("effect disabled", zap.Error(err))
	}
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	if width > 0 {
		cfg.Width = width
	}
	if height > 0 {
		cfg.Height = height
	}
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}

	particles, err := simulate(cfg, ticks)
	if err != nil {
		return err
	}

	if outPath == "" || outPath == "-" {
		if err := backdrop.WriteSnapshotCSV(cmd.OutOrStdout(), particles); err != nil {
			return err
		}
	} else if err := writeSnapshotFile(outPath, particles); err != nil {
		return err
	}
	sum := backdrop.Summarize(particles, backdrop.Viewport(cfg.Width, cfg.Height))
	fmt.Fprintf(cmd.ErrOrStderr(), "%s seed=%d ticks=%d %s\n", cfg.Effect, cfg.Seed, ticks, sum)
	return nil
}

// writeSnapshotFile writes the CSV to path, including any error from Close.
func writeSnapshotFile(path string, particles []backdrop.Particle) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := backdrop.WriteSnapshotCSV(f, particles); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

// simulate mounts the configured effect on a headless host, advances it n
// frames, and returns its particles.
func simulate(cfg *backdrop.Config, n int) ([]backdrop.Particle, error) {
	layer, err := newLayer(cfg)
	if err != nil {
		return nil, err
	}
	src, ok := layer.Effect().(backdrop.ParticleSource)
	if !ok {
		return nil, fmt.Errorf("effect %q has no particles to snapshot", cfg.Effect)
	}
	host := backdrop.NewHeadlessHost(cfg.Width, cfg.Height)
	if err := layer.Mount(host); err != nil {
		return nil, err
	}
	defer layer.Unmount()
	host.Advance(n, 1000/float64(cfg.TPS))

	// Copy before Unmount drops the store.
	ps := src.Particles()
	out := make([]backdrop.Particle, len(ps))
	copy(out, ps)
	return out, nil
}
