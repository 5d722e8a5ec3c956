package viz

import (
	"bytes"
	"image/gif"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestCanvasSetAndClear(t *testing.T) {
	c := NewCanvas(4, 2)

	c.Set(0, 0)
	c.Set(3, 7)
	if !c.IsSet(0, 0) || !c.IsSet(3, 7) {
		t.Fatal("expected set pixels to be lit")
	}
	if c.IsSet(1, 0) {
		t.Error("unset pixel reported lit")
	}
	if got := c.Grid[0][0]; got != 0x2801 {
		t.Errorf("cell (0,0) = %U, want U+2801", got)
	}
	if got := c.Grid[1][1]; got != 0x2880 {
		t.Errorf("cell (1,1) = %U, want U+2880", got)
	}

	c.Clear()
	if c.IsSet(0, 0) || c.IsSet(3, 7) {
		t.Error("clear left pixels lit")
	}
}

func TestCanvasSetOutOfRange(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Set(-1, 0)
	c.Set(0, -1)
	c.Set(4, 0)
	c.Set(0, 8)

	for _, row := range c.Grid {
		for _, r := range row {
			if r != brailleBlank {
				t.Fatalf("out of range set modified canvas: %U", r)
			}
		}
	}
}

func TestCanvasDrawRect(t *testing.T) {
	c := NewCanvas(4, 2)
	c.DrawRect(0, 0, 7, 7)

	for i := 0; i <= 7; i++ {
		for _, p := range [][2]int{{i, 0}, {i, 7}, {0, i}, {7, i}} {
			if !c.IsSet(p[0], p[1]) {
				t.Errorf("edge pixel %v not lit", p)
			}
		}
	}
	if c.IsSet(3, 3) {
		t.Error("rect interior should be empty")
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(3, 2)
	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	for _, l := range lines {
		if len([]rune(l)) != 3 {
			t.Errorf("line %q has %d runes, want 3", l, len([]rune(l)))
		}
	}
}

func TestViewportProject(t *testing.T) {
	c := NewCanvas(10, 5) // 20 x 20 pixels
	vp := NewViewport(r2.Box{Min: r2.Vec{X: 2, Y: 2}, Max: r2.Vec{X: 12, Y: 12}}, c)

	tests := []struct {
		name   string
		p      r2.Vec
		wx, wy int
	}{
		{"bottom left", r2.Vec{X: 2, Y: 2}, 0, 19},
		{"top right", r2.Vec{X: 12, Y: 12}, 19, 0},
		{"center", r2.Vec{X: 7, Y: 7}, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := vp.Project(tt.p)
			if x != tt.wx || y != tt.wy {
				t.Errorf("Project(%v) = (%d, %d), want (%d, %d)", tt.p, x, y, tt.wx, tt.wy)
			}
		})
	}
}

func TestRecorderEncode(t *testing.T) {
	r := NewRecorder()
	var buf bytes.Buffer
	if err := r.Encode(&buf); err == nil {
		t.Fatal("expected error with no frames")
	}

	c := NewCanvas(4, 2)
	c.Set(1, 1)
	r.Capture(c)
	c.Clear()
	r.Capture(c)

	if r.Len() != 2 {
		t.Fatalf("Len = %d, want 2", r.Len())
	}
	if err := r.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	anim, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(anim.Image) != 2 {
		t.Errorf("decoded %d frames, want 2", len(anim.Image))
	}
	if b := anim.Image[0].Bounds(); b.Dx() != 8*dotW || b.Dy() != 8*dotH {
		t.Errorf("frame size %v", b)
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("missing").Name != ThemeOcean.Name {
		t.Error("unknown theme should fall back to ocean")
	}
	seen := map[string]bool{}
	name := ThemeOcean.Name
	for range Themes {
		seen[name] = true
		name = NextTheme(name).Name
	}
	if len(seen) != len(Themes) || name != ThemeOcean.Name {
		t.Errorf("NextTheme does not cycle through every theme: %v", seen)
	}
}
