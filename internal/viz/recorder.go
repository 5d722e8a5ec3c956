package viz

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
	"os"
)

// dot size of one braille sub-pixel in the recorded image
const (
	dotW = 4
	dotH = 4
)

var errNoFrames = errors.New("viz: no frames recorded")

// Recorder rasterizes canvas frames into an animated GIF.
type Recorder struct {
	frames []*image.Paletted
	delay  int
}

func NewRecorder() *Recorder {
	return &Recorder{delay: 100 / fps * 2}
}

func (r *Recorder) Len() int { return len(r.frames) }

// Capture appends the current canvas contents as a frame.
func (r *Recorder) Capture(c *Canvas) {
	pw, ph := c.PixelSize()
	img := image.NewPaletted(image.Rect(0, 0, pw*dotW, ph*dotH), color.Palette{color.Black, color.White})
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			if !c.IsSet(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

// Encode writes every captured frame as a looping GIF.
func (r *Recorder) Encode(w io.Writer) error {
	if len(r.frames) == 0 {
		return errNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, r.delay)
	}
	return gif.EncodeAll(w, &anim)
}

func (r *Recorder) Save(path string) error {
	if len(r.frames) == 0 {
		return errNoFrames
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create gif: %w", err)
	}
	if err := r.Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("encode gif: %w", err)
	}
	return f.Close()
}
