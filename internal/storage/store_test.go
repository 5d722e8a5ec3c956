package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/sphsim/internal/dynamo"
	"github.com/san-kum/sphsim/internal/sim"
)

func testResult() *sim.Result {
	frame := func(y float64) []dynamo.ParticleView {
		return []dynamo.ParticleView{
			{Position: r2.Vec{X: 2, Y: y}, Velocity: r2.Vec{Y: -1}, Density: 82, Pressure: 0},
			{Position: r2.Vec{X: 2.525, Y: y}, Velocity: r2.Vec{X: 0.5}, Density: 90.5, Pressure: 425},
		}
	}
	return &sim.Result{
		Frames: [][]dynamo.ParticleView{frame(2), frame(1.5)},
		Times:  []float64{0, 0.5},
		Series: map[string][]float64{
			"max_speed":      {0, 1},
			"kinetic_energy": {0, 12.5},
		},
		Metrics:    map[string]float64{"max_speed": 1},
		StepsTaken: 30,
	}
}

func testMeta() RunMetadata {
	return RunMetadata{
		Name:          "test",
		Seed:          42,
		Dt:            1.0 / 60,
		Steps:         30,
		Strategy:      "grid",
		Integrator:    "verlet",
		ParticleCount: 2,
		Cols:          14,
		Rows:          14,
		Bounds:        r2.Box{Min: r2.Vec{X: 2, Y: 2}, Max: r2.Vec{X: 12, Y: 12}},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())

	runID, err := st.Save(testMeta(), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "test_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.ID != runID {
		t.Errorf("expected id %s, got %s", runID, meta.ID)
	}
	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}
	if meta.StepsTaken != 30 {
		t.Errorf("expected 30 steps taken, got %d", meta.StepsTaken)
	}
	if meta.Metrics["max_speed"] != 1 {
		t.Errorf("expected max_speed 1, got %f", meta.Metrics["max_speed"])
	}
	if meta.Bounds.Max.X != 12 {
		t.Errorf("bounds not stored: %+v", meta.Bounds)
	}
}

func TestStoreSeriesRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(testMeta(), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	times, series, err := st.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series failed: %v", err)
	}
	if len(times) != 2 || times[1] != 0.5 {
		t.Errorf("unexpected times %v", times)
	}
	if len(series) != 2 {
		t.Fatalf("expected 2 series, got %d", len(series))
	}
	if series["kinetic_energy"][1] != 12.5 {
		t.Errorf("unexpected kinetic energy series %v", series["kinetic_energy"])
	}
}

func TestStoreFramesRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	want := testResult()
	runID, err := st.Save(testMeta(), want)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	times, frames, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(frames) != 2 || len(times) != 2 {
		t.Fatalf("expected 2 frames, got %d (%d times)", len(frames), len(times))
	}

	for i := range frames {
		for j, got := range frames[i] {
			exp := want.Frames[i][j]
			if math.Abs(got.Position.X-exp.Position.X) > 1e-6 ||
				math.Abs(got.Position.Y-exp.Position.Y) > 1e-6 ||
				math.Abs(got.Velocity.X-exp.Velocity.X) > 1e-6 ||
				math.Abs(got.Density-exp.Density) > 1e-6 ||
				math.Abs(got.Pressure-exp.Pressure) > 1e-6 {
				t.Errorf("frame %d particle %d: got %+v, want %+v", i, j, got, exp)
			}
		}
	}
}

func TestStoreList(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "runs"))

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	for i := 0; i < 2; i++ {
		if _, err := st.Save(testMeta(), testResult()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID == runs[1].ID {
		t.Errorf("runs share id %s", runs[0].ID)
	}
}

func TestStoreFileStructure(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runID, err := st.Save(testMeta(), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{metadataFile, metricsFile, framesFile} {
		if _, err := os.Stat(filepath.Join(dir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestStoreErrorsRecorded(t *testing.T) {
	st := New(t.TempDir())
	result := testResult()
	result.Errors = []error{&dynamo.SimulationError{Step: 3, Time: 0.05, Wrapped: dynamo.ErrInvalidState}}

	runID, err := st.Save(testMeta(), result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(meta.Errors) != 1 || !strings.Contains(meta.Errors[0], "step 3") {
		t.Errorf("unexpected errors %v", meta.Errors)
	}
}

func TestStoreSaveFailureLeavesNoRun(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	res := testResult()
	res.Metrics = map[string]float64{"max_speed": math.NaN()}
	if _, err := st.Save(testMeta(), res); err == nil {
		t.Fatal("expected error encoding NaN metric")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("failed save left %d entries behind", len(entries))
	}
}

func TestStoreLoadMissing(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(testMeta(), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(runID, &buf); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if data.Metadata.ID != runID {
		t.Errorf("expected id %s, got %s", runID, data.Metadata.ID)
	}
	if len(data.Frames) != 2 || len(data.Frames[0]) != 2 {
		t.Errorf("unexpected frames %v", data.Frames)
	}
	if len(data.Series["max_speed"]) != 2 {
		t.Errorf("unexpected series %v", data.Series)
	}
}

func TestCopyFrames(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(testMeta(), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	var buf bytes.Buffer
	if err := st.CopyFrames(runID, &buf); err != nil {
		t.Fatalf("copy failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Errorf("expected header and 4 rows, got %d lines", len(lines))
	}
	if lines[0] != strings.Join(frameHeader, ",") {
		t.Errorf("unexpected header %q", lines[0])
	}
}
