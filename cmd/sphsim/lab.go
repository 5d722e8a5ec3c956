package main

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/sphsim/internal/analysis"
	"github.com/san-kum/sphsim/internal/config"
	"github.com/san-kum/sphsim/internal/dynamo"
	"github.com/san-kum/sphsim/internal/experiment"
	"github.com/san-kum/sphsim/internal/optim"
	"github.com/san-kum/sphsim/internal/sim"
	"github.com/san-kum/sphsim/internal/storage"
)

// benchConfig sizes a square container so a block of n particles fits with
// room to fall, and picks the finest grid the smoothing radius allows.
func benchConfig(n int) *config.Config {
	cfg := config.DefaultConfig()
	h := cfg.Fluid.SmoothingRadius

	side := math.Ceil(math.Sqrt(float64(n)))
	size := math.Max(10, 2*side*0.75*h+2)
	cells := int(size / h)

	cfg.Particles.Count = n
	cfg.Container.Width, cfg.Container.Height = size, size
	cfg.Container.Cols, cfg.Container.Rows = cells, cells
	cfg.Workers = workers
	return cfg
}

func benchStrategies(cmd *cobra.Command, args []string) error {
	reg := experiment.NewRegistry()
	dt := config.DefaultDt

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tGRID\tBRUTE\tSTEPS/S GRID\tSTEPS/S BRUTE\tSPEEDUP")

	for _, n := range benchCounts {
		cfg := benchConfig(n)
		elapsed := make(map[string]time.Duration, 2)
		count := 0

		for _, name := range []string{"grid", "brute"} {
			cfg.Strategy = name
			solver, err := reg.BuildSolver(cfg)
			if err != nil {
				return fmt.Errorf("%d particles: %w", n, err)
			}
			count = solver.Len()

			run := sim.New(solver)
			start := time.Now()
			err = run.RunWithCallback(cmd.Context(), sim.Config{Dt: dt, Steps: benchSteps},
				func([]dynamo.ParticleView, int, float64) bool { return true })
			if err != nil {
				return err
			}
			elapsed[name] = time.Since(start)
		}

		grid, brute := elapsed["grid"], elapsed["brute"]
		fmt.Fprintf(w, "%d\t%v\t%v\t%.1f\t%.1f\t%.2fx\n",
			count,
			grid.Round(time.Millisecond),
			brute.Round(time.Millisecond),
			float64(benchSteps)/grid.Seconds(),
			float64(benchSteps)/brute.Seconds(),
			brute.Seconds()/grid.Seconds(),
		)
	}
	return w.Flush()
}

func compareStrategies(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	results := make(map[string]*sim.Result, 2)
	for _, name := range []string{"grid", "brute"} {
		c := *cfg
		c.Strategy = name
		exp := experiment.New(&c)
		if err := exp.Setup(reg); err != nil {
			return err
		}
		res, err := exp.Run(cmd.Context())
		if err != nil {
			return err
		}
		results[name] = res
	}

	grid, brute := results["grid"], results["brute"]
	n := min(len(grid.Frames), len(brute.Frames))
	if n == 0 {
		return fmt.Errorf("no frames to compare")
	}

	fmt.Printf("grid vs brute force: %d particles, %s, %d steps\n\n",
		len(grid.Frames[0]), cfg.Integrator, cfg.Steps)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tMAX\tRMS\tMEAN")
	rms := make([]float64, n)
	for i := 0; i < n; i++ {
		d := analysis.FrameDivergence(grid.Frames[i], brute.Frames[i])
		rms[i] = d.RMS
		fmt.Fprintf(w, "%.3f\t%.3e\t%.3e\t%.3e\n", grid.Times[i], d.Max, d.RMS, d.Mean)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nseparation rate: %.4f /s\n", analysis.SeparationRate(grid.Times[:n], rms))
	return nil
}

func parseValues(args []string) ([]float64, error) {
	values := make([]float64, 0, len(args))
	for _, a := range args {
		for _, field := range strings.Split(a, ",") {
			if field == "" {
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid value %q: %w", field, err)
			}
			values = append(values, v)
		}
	}
	return values, nil
}

// parseSweepValues parses the sweep values, which must be distinct and
// non-empty.
func parseSweepValues(args []string) ([]float64, error) {
	values, err := parseValues(args)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("no sweep values given")
	}
	seen := make(map[float64]bool, len(values))
	for _, v := range values {
		if seen[v] {
			return nil, fmt.Errorf("duplicate value %g", v)
		}
		seen[v] = true
	}
	return values, nil
}

func sweepParam(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	param := args[0]
	values, err := parseSweepValues(args[1:])
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	exps := make([]*experiment.Experiment, len(values))
	index := make(map[float64]int, len(values))
	for i, v := range values {
		index[v] = i

		c := *cfg
		if err := c.SetParam(param, v); err != nil {
			return err
		}
		exps[i] = experiment.New(&c)
		if err := exps[i].Setup(reg); err != nil {
			return fmt.Errorf("%s=%g: %w", param, v, err)
		}
	}

	factory := func(v float64) (sim.System, []dynamo.Metric, error) {
		solver := exps[index[v]].Solver()
		return solver, reg.DefaultMetrics(solver.Params()), nil
	}

	fmt.Printf("sweeping %s over %v...\n", param, values)
	start := time.Now()
	results, err := sim.Sweep(cmd.Context(), values, cfg.SimConfig(), 0, factory)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	if sweepSave {
		st := storage.New(dataDir)
		for i, res := range results {
			meta := exps[i].Metadata(fmt.Sprintf("%s_%s_%g", displayName(), param, values[i]))
			runID, err := st.Save(meta, res)
			if err != nil {
				return err
			}
			fmt.Printf("saved %s\n", runID)
		}
		fmt.Println()
	}

	names := sortedNames(results[0].Metrics)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(param), strings.ToUpper(strings.Join(names, "\t")))
	for i, res := range results {
		row := []string{strconv.FormatFloat(values[i], 'g', -1, 64)}
		for _, name := range names {
			row = append(row, fmt.Sprintf("%.4f", res.Metrics[name]))
		}
		if len(res.Errors) > 0 {
			row = append(row, "unstable")
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

// parseParamRange parses "name=v1,v2,...".
func parseParamRange(s string) (string, []float64, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return "", nil, fmt.Errorf("invalid --param %q, want name=v1,v2", s)
	}
	values, err := parseValues([]string{list})
	if err != nil {
		return "", nil, err
	}
	if len(values) == 0 {
		return "", nil, fmt.Errorf("no values for %s", name)
	}
	return name, values, nil
}

func tuneParamsCmd(cmd *cobra.Command, args []string) error {
	if len(tuneParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(tuneParams))
	ranges := make([][]float64, 0, len(tuneParams))
	for _, p := range tuneParams {
		name, values, err := parseParamRange(p)
		if err != nil {
			return err
		}
		if err := cfg.SetParam(name, values[0]); err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	reg := experiment.NewRegistry()
	build := func(params map[string]float64) (*experiment.Experiment, error) {
		c := *cfg
		for name, v := range params {
			if err := c.SetParam(name, v); err != nil {
				return nil, err
			}
		}
		exp := experiment.New(&c)
		if err := exp.Setup(reg); err != nil {
			return nil, err
		}
		return exp, nil
	}

	gs := optim.NewGridSearch(names, ranges)
	fmt.Printf("tuning %v over %d combinations, minimizing %s...\n\n", names, gs.Combinations(), tuneMetric)

	res, err := gs.Search(cmd.Context(), build, tuneMetric)
	if res != nil {
		printOutcomes(names, res.Outcomes)
	}
	if err != nil {
		return err
	}

	fmt.Printf("\nbest %s: %.6f\n", tuneMetric, res.BestValue)
	for _, name := range names {
		fmt.Printf("  %s = %g\n", name, res.Best[name])
	}
	return nil
}

func printOutcomes(names []string, outcomes []optim.Outcome) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(tuneMetric))
	for _, o := range outcomes {
		row := make([]string, 0, len(names)+1)
		for _, name := range names {
			row = append(row, strconv.FormatFloat(o.Params[name], 'g', -1, 64))
		}
		if o.Err != nil {
			row = append(row, "error: "+o.Err.Error())
		} else {
			row = append(row, fmt.Sprintf("%.6f", o.Value))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
}
