package gui

import (
	"fmt"
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/sphsim/internal/metrics"
	"github.com/san-kum/sphsim/internal/physics"
)

const (
	screenW = 1280
	screenH = 720

	telemetryCapacity = 200
)

// Theme Colors (Monochrome Hyper-Minimalist)
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColGrid    = rl.NewColor(30, 30, 30, 255)
	ColWarn    = rl.NewColor(220, 80, 80, 255)
)

type App struct {
	Solver  *physics.Solver
	Initial physics.Params
	Name    string
	Time    float64
	Dt      float64
	Steps   int

	Running   bool
	InConfig  bool
	ShowCells bool
	ParamKeys []string
	ParamSel  int
	Status    string

	Telemetry []float64
	Energy    *metrics.KineticEnergy
	Speed     *metrics.MaxSpeed

	View Viewport
}

func initWindow(title string) {
	rl.InitWindow(screenW, screenH, title)
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// NewApp wraps a configured solver. dt is the step taken per frame.
func NewApp(solver *physics.Solver, dt float64, name string) *App {
	keys := make([]string, 0)
	for k := range solver.GetParams() {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	a := &App{
		Solver:    solver,
		Initial:   solver.Params(),
		Name:      name,
		Dt:        dt,
		Running:   true,
		ParamKeys: keys,
		Telemetry: make([]float64, 0, telemetryCapacity),
	}
	a.resetMetrics()
	a.fit()
	return a
}

// Run opens a window on the solver and blocks until it is closed.
func Run(solver *physics.Solver, dt float64, name string) {
	initWindow("sphsim :: " + name)
	defer rl.CloseWindow()
	NewApp(solver, dt, name).RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if !a.Update() {
			return
		}
		a.Draw()
	}
}

// fit maps the container into the window below the header.
func (a *App) fit() {
	a.View = NewViewport(a.Solver.Bounds(), rl.NewRectangle(40, 80, screenW-420, screenH-180))
}

func (a *App) resetMetrics() {
	p := a.Solver.Params()
	a.Energy = metrics.NewKineticEnergy(p.Mass)
	a.Speed = metrics.NewMaxSpeed()
}

// Update handles input and advances the solver. It returns false when the
// window should close.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) {
		return false
	}

	if rl.IsKeyPressed(rl.KeyTab) || rl.IsKeyPressed(rl.KeyM) {
		a.InConfig = !a.InConfig
	}
	if a.InConfig {
		a.updateConfig()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyC) {
		a.ShowCells = !a.ShowCells
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.reset()
	}

	if a.Running {
		a.step()
	}
	return true
}

func (a *App) updateConfig() {
	if len(a.ParamKeys) == 0 {
		return
	}
	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.ParamSel = (a.ParamSel + 1) % len(a.ParamKeys)
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.ParamSel--
		if a.ParamSel < 0 {
			a.ParamSel = len(a.ParamKeys) - 1
		}
	}

	factor := 0.05
	if rl.IsKeyDown(rl.KeyLeftShift) {
		factor = 0.25
	}
	if rl.IsKeyPressed(rl.KeyRight) || rl.IsKeyPressed(rl.KeyL) {
		a.adjust(1 + factor)
	}
	if rl.IsKeyPressed(rl.KeyLeft) || rl.IsKeyPressed(rl.KeyH) {
		a.adjust(1 - factor)
	}
}

// adjust scales the selected parameter; rejected values keep the solver as
// it was.
func (a *App) adjust(factor float64) {
	key := a.ParamKeys[a.ParamSel]
	val := a.Solver.GetParams()[key]
	next := val * factor
	if val == 0 {
		next = factor - 1
	}
	if err := a.Solver.SetParam(key, next); err != nil {
		a.Status = err.Error()
		return
	}
	a.Status = ""
	a.resetMetrics()
	a.fit()
}

func (a *App) reset() {
	if err := a.Solver.Configure(a.Initial); err != nil {
		a.Status = err.Error()
		return
	}
	a.Solver.Reset()
	a.Time = 0
	a.Steps = 0
	a.Status = ""
	a.Telemetry = a.Telemetry[:0]
	a.resetMetrics()
	a.fit()
}

func (a *App) step() {
	a.Solver.Step(a.Dt)
	a.Time += a.Dt
	a.Steps++

	frame := a.Solver.Particles()
	a.Energy.Observe(frame, a.Time)
	a.Speed.Observe(frame, a.Time)

	a.Telemetry = append(a.Telemetry, a.Energy.Current())
	if len(a.Telemetry) > telemetryCapacity {
		a.Telemetry = a.Telemetry[1:]
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.drawSim()
	a.DrawHUD()
	if a.InConfig {
		a.drawConfig()
	}

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	drawText("sphsim", 30, 30, 24, ColSelect)
	drawText(fmt.Sprintf(":: %s", a.Name), 130, 34, 16, ColText)

	status := "RUNNING"
	col := ColSelect
	if !a.Running {
		status = "PAUSED"
		col = ColTextDim
	}
	drawText(status, 1150, 30, 16, col)

	p := a.Solver.Params()
	drawText(fmt.Sprintf("t %.2fs  step %d  n %d  %s", a.Time, a.Steps, a.Solver.Len(), a.Solver.Integrator().Name()), 30, 60, 14, ColText)
	drawText(fmt.Sprintf("max speed %.2f   rest density %.1f", a.Speed.Current(), p.RestDensity), 30, 640, 14, ColText)

	a.DrawTelemetry()

	if a.Status != "" {
		drawText(a.Status, 30, 660, 14, ColWarn)
	}
	drawText("[SPACE] PAUSE  [R] RESET  [C] CELLS  [TAB] PARAMS  [Q] QUIT", 700, 680, 14, ColTextDim)
	drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, 680, 14, ColTextDim)
}

// DrawTelemetry plots the kinetic energy history in the bottom right.
func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rect := rl.NewRectangle(screenW-360, screenH-160, 300, 60)
	points := telemetryPoints(a.Telemetry, rect)

	rl.DrawLineStrip(points, ColAccent)
	drawText(fmt.Sprintf("E: %.2e", a.Telemetry[len(a.Telemetry)-1]), int(rect.X), int(rect.Y+rect.Height)+6, 14, ColText)
}

func (a *App) drawConfig() {
	x, y := screenW-340, 100
	rl.DrawRectangle(int32(x-20), int32(y-20), 320, int32(40+28*len(a.ParamKeys)), rl.NewColor(0, 0, 0, 200))
	drawText("parameters", x, y-10, 16, ColAccent)
	y += 20

	params := a.Solver.GetParams()
	for i, key := range a.ParamKeys {
		line := fmt.Sprintf("%-17s %.3f", key, params[key])
		if i == a.ParamSel {
			drawText("> "+line, x, y, 16, ColSelect)
		} else {
			drawText("  "+line, x, y, 16, ColText)
		}
		y += 28
	}
	drawText("UP/DOWN SELECT  LEFT/RIGHT ADJUST (SHIFT x5)", x-20, y+10, 12, ColTextDim)
}

func drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawText(text, int32(x), int32(y), int32(size), color)
}
