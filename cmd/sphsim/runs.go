package main

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/sphsim/internal/analysis"
	"github.com/san-kum/sphsim/internal/dynamo"
	"github.com/san-kum/sphsim/internal/experiment"
	"github.com/san-kum/sphsim/internal/export"
	"github.com/san-kum/sphsim/internal/spatial"
	"github.com/san-kum/sphsim/internal/storage"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return err
	}

	exp.GetSimulator().AddObserver(progress{every: max(1, cfg.Steps/10), total: cfg.Steps})

	name := displayName()
	fmt.Printf("running %s: %d particles, %s, %s, %d steps...\n",
		name, exp.Solver().Len(), cfg.Strategy, cfg.Integrator, cfg.Steps)
	start := time.Now()

	result, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(exp.Metadata(name), result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d (%d frames)\n", result.StepsTaken, len(result.Frames))
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)

	return nil
}

// progress prints a line every n steps of a run.
type progress struct {
	every, total int
}

func (p progress) OnStep(_ []dynamo.ParticleView, step int, t float64) {
	if step > 0 && step%p.every == 0 {
		fmt.Printf("  step %d/%d (t=%.2fs)\n", step, p.total, t)
	}
}

func printMetrics(metrics map[string]float64) {
	for _, name := range sortedNames(metrics) {
		fmt.Printf("  %s: %.6f\n", name, metrics[name])
	}
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tPARTICLES\tSTEPS\tDT\tSTRATEGY\tINTEG")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.4fs\t%s\t%s\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.ParticleCount,
			run.StepsTaken,
			run.Dt,
			run.Strategy,
			run.Integrator,
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

	times, series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(times) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("particles: %d\n", meta.ParticleCount)
	fmt.Printf("samples: %d over %.2fs\n\n", len(times), times[len(times)-1])

	names := sortedNames(series)
	if plotMetric != "" {
		if _, ok := series[plotMetric]; !ok {
			return fmt.Errorf("unknown metric: %s (available: %v)", plotMetric, names)
		}
		names = []string{plotMetric}
	}

	for _, name := range names {
		graph := asciigraph.Plot(series[name],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportMetadata(args[0], os.Stdout)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).CopyFrames(args[0], os.Stdout)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(args[0], os.Stdout)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	times, series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	data, ok := series[analyzeMetric]
	if !ok {
		return fmt.Errorf("unknown metric: %s (available: %v)", analyzeMetric, sortedNames(series))
	}
	if len(data) < 4 {
		return fmt.Errorf("not enough samples: %d", len(data))
	}

	// stored frames are evenly spaced except for a possible trailing final
	// sample, which is dropped
	interval := times[1] - times[0]
	if n := len(times); math.Abs(times[n-1]-times[n-2]-interval) > interval*1e-6 {
		data = data[:n-1]
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("metric: %s, %d samples every %.4fs\n\n", analyzeMetric, len(data), interval)

	ps := analysis.PowerSpectrum(data, interval)
	plotData := ps.Power[1:]
	if len(plotData) > 80 {
		plotData = plotData[:len(plotData)/2]
	}
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (%s)", analyzeMetric)),
	)
	fmt.Println(graph)
	fmt.Println()

	freq, power := analysis.DominantFrequency(data, interval)
	fmt.Printf("dominant frequency: %.3f hz (power %.3g)\n", freq, power)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}
	return nil
}

// particleQuantity extracts a named scalar from a particle.
func particleQuantity(name string) (func(dynamo.ParticleView) float64, error) {
	switch name {
	case "x":
		return func(p dynamo.ParticleView) float64 { return p.Position.X }, nil
	case "y":
		return func(p dynamo.ParticleView) float64 { return p.Position.Y }, nil
	case "vx":
		return func(p dynamo.ParticleView) float64 { return p.Velocity.X }, nil
	case "vy":
		return func(p dynamo.ParticleView) float64 { return p.Velocity.Y }, nil
	case "speed":
		return dynamo.ParticleView.Speed, nil
	case "density":
		return func(p dynamo.ParticleView) float64 { return p.Density }, nil
	case "pressure":
		return func(p dynamo.ParticleView) float64 { return p.Pressure }, nil
	}
	return nil, fmt.Errorf("unknown quantity: %s", name)
}

func phasePlot(cmd *cobra.Command, args []string) error {
	runID := args[0]

	fx, err := particleQuantity(xAxis)
	if err != nil {
		return err
	}
	fy, err := particleQuantity(yAxis)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	_, frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}
	if particleID < 0 || particleID >= len(frames[0]) {
		return fmt.Errorf("particle %d out of range [0, %d)", particleID, len(frames[0]))
	}

	fmt.Printf("phase space plot: %s\n", runID)
	fmt.Printf("particle %d, x-axis: %s, y-axis: %s\n\n", particleID, xAxis, yAxis)

	xData := make([]float64, len(frames))
	yData := make([]float64, len(frames))
	for i, frame := range frames {
		xData[i] = fx(frame[particleID])
		yData[i] = fy(frame[particleID])
	}

	fmt.Print(scatter(xData, yData, 70, 20))
	fmt.Printf("\nLegend: . = early, o = middle, ● = late\n")
	return nil
}

// scatter draws points on a framed character grid; later points overwrite
// earlier ones.
func scatter(xData, yData []float64, width, height int) string {
	xMin, xMax := xData[0], xData[0]
	yMin, yMax := yData[0], yData[0]
	for i := range xData {
		xMin, xMax = math.Min(xMin, xData[i]), math.Max(xMax, xData[i])
		yMin, yMax = math.Min(yMin, yData[i]), math.Max(yMax, yData[i])
	}
	xRange, yRange := xMax-xMin, yMax-yMin
	if xRange == 0 {
		xRange = 1
	}
	if yRange == 0 {
		yRange = 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for i := range xData {
		px := int(float64(width-1) * (xData[i] - xMin) / xRange)
		py := height - 1 - int(float64(height-1)*(yData[i]-yMin)/yRange)
		switch {
		case i < len(xData)/3:
			canvas[py][px] = '.'
		case i < 2*len(xData)/3:
			canvas[py][px] = 'o'
		default:
			canvas[py][px] = '●'
		}
	}

	var b strings.Builder
	border := strings.Repeat("─", width)
	fmt.Fprintf(&b, "%10.2f ┌%s┐\n", yMax, border)
	for i, row := range canvas {
		label := strings.Repeat(" ", 10)
		if i == height/2 {
			label = fmt.Sprintf("%10.2f", (yMax+yMin)/2)
		}
		fmt.Fprintf(&b, "%s │%s│\n", label, string(row))
	}
	fmt.Fprintf(&b, "%10.2f └%s┘\n", yMin, border)
	fmt.Fprintf(&b, "%12.2f%*.2f\n", xMin, width-2, xMax)
	return b.String()
}

func snapshotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	_, frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no frames stored")
	}

	idx := frameIndex
	if idx < 0 {
		idx += len(frames)
	}
	if idx < 0 || idx >= len(frames) {
		return fmt.Errorf("frame %d out of range [0, %d)", frameIndex, len(frames))
	}

	opts := export.DefaultSVGOptions()
	opts.Scale = svgScale
	if showCells && meta.Cols > 0 && meta.Rows > 0 {
		size := r2.Sub(meta.Bounds.Max, meta.Bounds.Min)
		opts.Cells = spatial.NewGrid(meta.Cols, meta.Rows, meta.Bounds.Min, size, 0).Cells()
	}

	svg := export.FrameToSVG(frames[idx], meta.Bounds, opts)
	if outFile == "" {
		_, err := fmt.Print(svg)
		return err
	}
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote frame %d to %s\n", idx, outFile)
	return nil
}
