package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/bouncelab/internal/config"
	"github.com/san-kum/bouncelab/internal/export"
	"github.com/san-kum/bouncelab/internal/metrics"
	"github.com/san-kum/bouncelab/internal/server"
	"github.com/san-kum/bouncelab/internal/sim"
	"github.com/san-kum/bouncelab/internal/storage"
	"github.com/san-kum/bouncelab/internal/tui"
)

var (
	dataDir    string
	configFile string
	preset     string
	duration   float64
	fps        int
	gravity    float64
	damping    float64
	coords     string
	startY     float64
	svgOut     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bouncelab",
		Short: "bouncing ball sandbox with rewindable time",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd)
			if err != nil {
				return err
			}
			return tui.Run(cfg)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".bouncelab", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and record it",
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&duration, "time", 5.0, "duration in seconds")
	runCmd.Flags().IntVar(&fps, "fps", config.DefaultTargetFPS, "simulation frame rate")
	runCmd.Flags().Float64Var(&gravity, "gravity", 0, "gravity override (px/s^2)")
	runCmd.Flags().Float64Var(&damping, "damping", 0, "bounce damping override")
	runCmd.Flags().StringVar(&coords, "coords", "", "coordinate system: screen or physics")
	runCmd.Flags().Float64Var(&startY, "start-y", 0, "initial ball center y")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive terminal viewer",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd)
			if err != nil {
				return err
			}
			return tui.Run(cfg)
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve simulations over websockets",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd)
			if err != nil {
				return err
			}
			return server.New(cfg, server.LoadEnv()).Run()
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a recorded run to an svg plot",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&svgOut, "out", "", "output file (default <run_id>.svg)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, tuiCmd, serveCmd, listCmd, plotCmd, exportCmd, exportSVGCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildConfig resolves the effective configuration: defaults, then preset,
// then config file, then explicit CLI flags on top.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("fps") {
		cfg.TargetFPS = fps
	}
	if cmd.Flags().Changed("gravity") {
		cfg.Ball.Gravity = gravity
	}
	if cmd.Flags().Changed("damping") {
		cfg.Ball.BounceDamping = damping
	}
	if cmd.Flags().Changed("coords") {
		cfg.Coordinates = coords
	}
	if cmd.Flags().Changed("start-y") {
		cfg.StartY = startY
	}

	return cfg, cfg.Validate()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	session, err := sim.NewSession(cfg)
	if err != nil {
		return err
	}

	traj := &storage.Trajectory{}
	drift := metrics.NewEnergyDrift(session.Ball())
	peak := metrics.NewPeakHeight(session.Ball())
	session.AddObserver(traj)
	session.AddObserver(drift)
	session.AddObserver(peak)

	fmt.Printf("running %s simulation for %.1fs at %d fps...\n", cfg.Coordinates, duration, cfg.TargetFPS)
	start := time.Now()
	session.StepForwardTime(duration)
	elapsed := time.Since(start)

	meta := storage.RunMetadata{
		Coordinates: cfg.Coordinates,
		Timestamp:   time.Now(),
		TargetFPS:   cfg.TargetFPS,
		Duration:    duration,
		Gravity:     cfg.Ball.Gravity,
		Damping:     cfg.Ball.BounceDamping,
		StartY:      cfg.InitialY(),
		Metrics: map[string]float64{
			drift.Name(): drift.Value(),
			peak.Name():  peak.Value(),
		},
	}

	runID, err := st.Save(meta, traj)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", len(traj.Snaps))
	fmt.Println("\nmetrics:")
	for name, val := range meta.Metrics {
		fmt.Printf("  %s: %.4f\n", name, val)
	}

	if heights := trajectoryHeights(cfg, traj); len(heights) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(heights,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("height above ground"),
		))
	}

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
	fmt.Fprintln(w, "ID\tCOORDS\tTIME\tDURATION\tFPS\tGRAVITY\tDAMPING")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%d\t%.0f\t%.2f\n",
			run.ID,
			run.Coordinates,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.TargetFPS,
			run.Gravity,
			run.Damping,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(traj.Snaps) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("coordinates: %s\n", meta.Coordinates)
	fmt.Printf("samples: %d\n\n", len(traj.Snaps))

	cfg := config.DefaultConfig()
	cfg.Coordinates = meta.Coordinates

	fmt.Println(asciigraph.Plot(trajectoryHeights(cfg, traj),
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("height above ground"),
	))
	fmt.Println()

	velocities := make([]float64, len(traj.Snaps))
	for i, s := range traj.Snaps {
		velocities[i] = s.VelocityY
	}
	fmt.Println(asciigraph.Plot(velocities,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("vertical velocity"),
	))

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(traj.Snaps) < 2 {
		return fmt.Errorf("not enough data to export")
	}

	cfg := config.DefaultConfig()
	cfg.Coordinates = meta.Coordinates

	svg := export.TrajectoryToSVG(traj.Times, trajectoryHeights(cfg, traj), 800, 400, "#4fc3f7")

	out := svgOut
	if out == "" {
		out = runID + ".svg"
	}
	if err := os.WriteFile(out, []byte(svg), 0644); err != nil {
		return err
	}

	fmt.Printf("wrote %s (%d samples)\n", out, len(traj.Snaps))
	return nil
}

// trajectoryHeights converts recorded ball centers to height above ground,
// which reads the same in either coordinate system.
func trajectoryHeights(cfg *config.Config, traj *storage.Trajectory) []float64 {
	heights := make([]float64, len(traj.Snaps))
	for i, s := range traj.Snaps {
		if cfg.Coordinates == "physics" {
			heights[i] = s.Y - cfg.Ball.Radius
		} else {
			heights[i] = cfg.GroundY() - (s.Y + cfg.Ball.Radius)
		}
	}
	return heights
}
