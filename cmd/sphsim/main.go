package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/sphsim/internal/experiment"
	"github.com/san-kum/sphsim/internal/viz"
)

var (
	dataDir string

	// run configuration
	configFile      string
	preset          string
	runName         string
	strategy        string
	integrator      string
	dt              float64
	steps           int
	sampleEvery     int
	seed            int64
	workers         int
	particles       int
	jitter          float64
	gasConstant     float64
	viscosity       float64
	restDensity     float64
	mass            float64
	radius          float64
	gravityModifier float64
	velocityDamping float64
	cols            int
	rows            int
	width           float64
	height          float64

	// inspection
	plotMetric    string
	analyzeMetric string
	frameIndex    int
	showCells     bool
	outFile       string
	svgScale      float64
	particleID    int
	xAxis         string
	yAxis         string

	// live views
	pick    bool
	theme   string
	gifPath string

	// bench, sweep and tune
	benchCounts []int
	benchSteps  int
	sweepSave   bool
	tuneParams  []string
	tuneMetric  string

	// automation
	trials  int
	perturb float64
)

// main registers the sphsim commands. With no subcommand it opens the
// terminal preset picker.
func main() {
	rootCmd := &cobra.Command{
		Use:   "sphsim",
		Short: "2d particle fluid lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunPicker(experiment.NewRegistry().BuildSolver)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".sphsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().StringVar(&runName, "name", "", "run name (defaults to the preset or \"run\")")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot metric series of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotMetric, "metric", "", "plot only this metric")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a metric series",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&analyzeMetric, "metric", "kinetic_energy", "metric to analyze")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase space plot of one particle",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&particleID, "particle", 0, "particle index")
	phaseCmd.Flags().StringVar(&xAxis, "x-axis", "y", "quantity on the x axis (x, y, vx, vy, density, pressure)")
	phaseCmd.Flags().StringVar(&yAxis, "y-axis", "vy", "quantity on the y axis")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [run_id]",
		Short: "render a stored frame as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshotRun,
	}
	snapshotCmd.Flags().IntVar(&frameIndex, "frame", -1, "frame index, negative counts from the end")
	snapshotCmd.Flags().BoolVar(&showCells, "cells", false, "draw the grid cells")
	snapshotCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	snapshotCmd.Flags().Float64Var(&svgScale, "scale", 40, "pixels per world unit")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live terminal visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)
	liveCmd.Flags().BoolVar(&pick, "pick", false, "choose a preset from a menu")
	liveCmd.Flags().StringVar(&theme, "theme", "ocean", "color theme")
	liveCmd.Flags().StringVar(&gifPath, "gif", "sphsim.gif", "recording output path")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run simulation in a window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	addConfigFlags(guiCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark grid against brute force",
		Args:  cobra.NoArgs,
		RunE:  benchStrategies,
	}
	benchCmd.Flags().IntSliceVar(&benchCounts, "counts", []int{100, 400, 900, 1600}, "particle counts")
	benchCmd.Flags().IntVar(&benchSteps, "steps", 100, "steps per measurement")
	benchCmd.Flags().IntVar(&workers, "workers", 1, "worker goroutines per solver")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "run grid and brute force from the same state and report divergence",
		Args:  cobra.NoArgs,
		RunE:  compareStrategies,
	}
	addConfigFlags(compareCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [param] [value...]",
		Short: "run one parameter over several values concurrently",
		Args:  cobra.MinimumNArgs(2),
		RunE:  sweepParam,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().BoolVar(&sweepSave, "save", false, "store every run")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search parameters minimizing a metric",
		Args:  cobra.NoArgs,
		RunE:  tuneParamsCmd,
	}
	addConfigFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&tuneParams, "param", nil, "name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "density_error", "metric to minimize")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of runs from YAML",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "rerun a configuration from randomly jittered layouts",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addConfigFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturb, "perturb", 0.05, "layout jitter per trial")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd,
		analyzeCmd, phaseCmd, snapshotCmd, liveCmd, guiCmd, benchCmd, compareCmd,
		sweepCmd, tuneCmd, scenarioCmd, monteCarloCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
