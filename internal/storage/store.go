package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/sphsim/internal/dynamo"
	"github.com/san-kum/sphsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	metricsFile  = "metrics.csv"
	framesFile   = "frames.csv"
)

var frameHeader = []string{"frame", "time", "particle", "x", "y", "vx", "vy", "density", "pressure"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Timestamp     time.Time          `json:"timestamp"`
	Seed          int64              `json:"seed"`
	Dt            float64            `json:"dt"`
	Steps         int                `json:"steps"`
	StepsTaken    int                `json:"steps_taken"`
	SampleEvery   int                `json:"sample_every"`
	Strategy      string             `json:"strategy"`
	Integrator    string             `json:"integrator"`
	ParticleCount int                `json:"particle_count"`
	Cols          int                `json:"cols"`
	Rows          int                `json:"rows"`
	Bounds        r2.Box             `json:"bounds"`
	Params        map[string]float64 `json:"params"`
	Metrics       map[string]float64 `json:"metrics"`
	Errors        []string           `json:"errors,omitempty"`
}

// Save writes metadata, the metric series and every stored frame of result
// under a new run directory and returns its ID.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	if meta.Name == "" {
		meta.Name = "run"
	}

	runID, runDir, err := s.newRunDir(meta.Name, now)
	if err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.StepsTaken = result.StepsTaken
	meta.Metrics = result.Metrics
	for _, e := range result.Errors {
		meta.Errors = append(meta.Errors, e.Error())
	}

	if err := writeRun(runDir, meta, result); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}

	return runID, nil
}

func writeRun(runDir string, meta RunMetadata, result *sim.Result) error {
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(runDir, metricsFile), func(w *csv.Writer) error {
		return writeSeries(w, result.Times, result.Series)
	}); err != nil {
		return err
	}
	return writeCSV(filepath.Join(runDir, framesFile), func(w *csv.Writer) error {
		return writeFrames(w, result.Times, result.Frames)
	})
}

func (s *Store) newRunDir(name string, now time.Time) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}

	base := fmt.Sprintf("%s_%s", name, now.Format("20060102_150405"))
	for i := 0; ; i++ {
		runID := base
		if i > 0 {
			runID = fmt.Sprintf("%s_%d", base, i)
		}
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
	}
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(s.path(runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode metadata of %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadSeries returns the sample times and every metric series of a run.
func (s *Store) LoadSeries(runID string) ([]float64, map[string][]float64, error) {
	records, err := readCSV(s.path(runID, metricsFile))
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 1 {
		return []float64{}, map[string][]float64{}, nil
	}

	header := records[0]
	times := make([]float64, 0, len(records)-1)
	series := make(map[string][]float64, len(header)-1)

	for _, record := range records[1:] {
		if len(record) != len(header) {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		times = append(times, t)

		for j := 1; j < len(record); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%s row %d: %w", metricsFile, len(times), err)
			}
			series[header[j]] = append(series[header[j]], val)
		}
	}

	return times, series, nil
}

// LoadFrames returns the stored frames in order with their times.
func (s *Store) LoadFrames(runID string) ([]float64, [][]dynamo.ParticleView, error) {
	records, err := readCSV(s.path(runID, framesFile))
	if err != nil {
		return nil, nil, err
	}

	times := make([]float64, 0)
	frames := make([][]dynamo.ParticleView, 0)

	for i, record := range records {
		if i == 0 || len(record) != len(frameHeader) {
			continue
		}

		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%s line %d: %w", framesFile, i+1, err)
			}
			vals[j] = v
		}

		idx := int(vals[0])
		for len(frames) <= idx {
			frames = append(frames, nil)
			times = append(times, vals[1])
		}
		frames[idx] = append(frames[idx], dynamo.ParticleView{
			Position: r2.Vec{X: vals[3], Y: vals[4]},
			Velocity: r2.Vec{X: vals[5], Y: vals[6]},
			Density:  vals[7],
			Pressure: vals[8],
		})
	}

	return times, frames, nil
}

// CopyFrames streams the raw frames CSV of a run to w.
func (s *Store) CopyFrames(runID string, w io.Writer) error {
	f, err := os.Open(s.path(runID, framesFile))
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}

func (s *Store) path(runID, file string) string {
	return filepath.Join(s.baseDir, runID, file)
}

func writeSeries(w *csv.Writer, times []float64, series map[string][]float64) error {
	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)

	if err := w.Write(append([]string{"time"}, names...)); err != nil {
		return err
	}

	for i, t := range times {
		row := []string{formatFloat(t)}
		for _, name := range names {
			val := 0.0
			if i < len(series[name]) {
				val = series[name][i]
			}
			row = append(row, formatFloat(val))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeFrames(w *csv.Writer, times []float64, frames [][]dynamo.ParticleView) error {
	if err := w.Write(frameHeader); err != nil {
		return err
	}

	for i, frame := range frames {
		t := 0.0
		if i < len(times) {
			t = times[i]
		}
		for j, p := range frame {
			row := []string{
				strconv.Itoa(i),
				formatFloat(t),
				strconv.Itoa(j),
				formatFloat(p.Position.X),
				formatFloat(p.Position.Y),
				formatFloat(p.Velocity.X),
				formatFloat(p.Velocity.Y),
				formatFloat(p.Density),
				formatFloat(p.Pressure),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, fill func(*csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := fill(w); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
