package screen

import (
	"github.com/beanboi7/chyp8/emu/memory"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/imdraw"
	"github.com/faiface/pixel/pixelgl"
)

const DefaultScale = 8

// Window is a pixelgl window showing the 64x32 display, scaled up.
type Window struct {
	*pixelgl.Window
	KeyMap map[uint8]pixelgl.Button
	scale  float64
	imd    *imdraw.IMDraw
}

// NewWindow opens the emulator window. It must be called from the
// function passed to pixelgl.Run.
func NewWindow(title string, scale int) (*Window, error) {
	if scale <= 0 {
		scale = DefaultScale
	}
	w, h := float64(memory.DisplayWidth*scale), float64(memory.DisplayHeight*scale)

	cfg := pixelgl.WindowConfig{
		Title:  title,
		Bounds: pixel.R(0, 0, w, h),
		VSync:  true,
	}

	win, err := pixelgl.NewWindow(cfg)
	if err != nil {
		return nil, err
	}
	return &Window{
		Window: win,
		KeyMap: DefaultKeyMap(),
		scale:  float64(scale),
		imd:    imdraw.New(nil),
	}, nil
}

// Closed also reports true once escape has been pressed.
func (w *Window) Closed() bool {
	if w.Window.Pressed(pixelgl.KeyEscape) {
		w.Window.SetClosed(true)
	}
	return w.Window.Closed()
}

// UpdateKeys reports the state of every mapped key. While the window is
// out of focus every key reads as released.
func (w *Window) UpdateKeys(set func(code uint8, pressed bool)) {
	focused := w.Window.Focused()
	for code, button := range w.KeyMap {
		set(code, focused && w.Window.Pressed(button))
	}
}

// Render draws the framebuffer and swaps buffers. The framebuffer is row
// major from the top, pixel's y axis points up.
func (w *Window) Render(buf [memory.DisplayPixels]uint32) {
	w.Window.Clear(toRGB(memory.ColorOff))
	w.imd.Clear()
	for i, c := range buf {
		if c == memory.ColorOff {
			continue
		}
		w.imd.Color = toRGB(c)
		lo, hi := cellBounds(i, w.scale)
		w.imd.Push(lo, hi)
		w.imd.Rectangle(0)
	}
	w.imd.Draw(w.Window)
	w.Window.Update()
}

func cellBounds(i int, scale float64) (pixel.Vec, pixel.Vec) {
	x := float64(i % memory.DisplayWidth)
	y := float64(memory.DisplayHeight - 1 - i/memory.DisplayWidth)
	return pixel.V(x*scale, y*scale), pixel.V((x+1)*scale, (y+1)*scale)
}

func toRGB(c uint32) pixel.RGBA {
	r := float64((c>>16)&0xFF) / 0xFF
	g := float64((c>>8)&0xFF) / 0xFF
	b := float64(c&0xFF) / 0xFF
	return pixel.RGB(r, g, b)
}
