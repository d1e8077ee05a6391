package ui

import (
	"image/color"
	"math"
	"sync"

	"DialTimer/dial"
	"DialTimer/geometry"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
)

// Input receives pointer positions in dial-local coordinates.
type Input interface {
	DragStart(geometry.Point)
	DragMove(geometry.Point)
	DragEnd(geometry.Point)
}

// DialWidget draws the dial face and the single countdown arc, and turns
// mouse and touch gestures into Input calls. It implements dial.Renderer;
// those methods may be called from any goroutine.
type DialWidget struct {
	widget.BaseWidget

	circle     geometry.Circle
	input      Input
	background color.NRGBA

	mu    sync.Mutex
	arc   *dial.Arc
	alpha float64

	raster *canvas.Raster
	fade   *fyne.Animation

	// pointer tracking, UI goroutine only
	pressed bool
	last    geometry.Point
}

var (
	_ dial.Renderer     = (*DialWidget)(nil)
	_ fyne.Draggable    = (*DialWidget)(nil)
	_ desktop.Mouseable = (*DialWidget)(nil)
	_ mobile.Touchable  = (*DialWidget)(nil)
)

// NewDialWidget creates the dial face for circle.
func NewDialWidget(circle geometry.Circle, input Input, background color.NRGBA) *DialWidget {
	w := &DialWidget{circle: circle, input: input, background: background, alpha: 1}
	w.raster = canvas.NewRasterWithPixels(w.pixel)
	w.ExtendBaseWidget(w)
	return w
}

func (w *DialWidget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(w.raster)
}

func (w *DialWidget) MinSize() fyne.Size {
	d := float32(2 * w.circle.Radius())
	return fyne.NewSize(d, d)
}

// pixel colours one device pixel of the raster.
func (w *DialWidget) pixel(x, y, width, height int) color.Color {
	if width <= 0 || height <= 0 {
		return color.Transparent
	}
	r := w.circle.Radius()
	p := geometry.Pt((float64(x)+0.5)*2*r/float64(width), (float64(y)+0.5)*2*r/float64(height))
	center := w.circle.Center()
	if math.Hypot(p.X-center.X, p.Y-center.Y) > r {
		return color.Transparent
	}

	w.mu.Lock()
	arc, alpha := w.arc, w.alpha
	w.mu.Unlock()

	if arc == nil || alpha <= 0 {
		return w.background
	}
	angle, err := w.circle.PointToAngle(p)
	if err != nil || angle > arc.Angle {
		return w.background
	}
	return blend(w.background, arc.Color, alpha)
}

// blend paints c, scaled by alpha, over an opaque base.
func blend(base color.NRGBA, c color.Color, alpha float64) color.NRGBA {
	top := color.NRGBAModel.Convert(c).(color.NRGBA)
	a := float64(top.A) / 255 * alpha
	mix := func(b, t uint8) uint8 {
		return uint8(float64(b)*(1-a) + float64(t)*a + 0.5)
	}
	return color.NRGBA{R: mix(base.R, top.R), G: mix(base.G, top.G), B: mix(base.B, top.B), A: base.A}
}

// DrawArc replaces the current arc.
func (w *DialWidget) DrawArc(a dial.Arc) {
	w.mu.Lock()
	w.arc = &a
	w.alpha = 1
	w.mu.Unlock()
	fyne.Do(func() {
		w.stopFade()
		w.raster.Refresh()
	})
}

// ClearArc removes the arc.
func (w *DialWidget) ClearArc() {
	w.mu.Lock()
	w.arc = nil
	w.mu.Unlock()
	fyne.Do(func() {
		w.stopFade()
		w.raster.Refresh()
	})
}

// FadeArc flashes the current arc out f.Repeat times. Once the last flash
// ends the arc is shown at full opacity again.
func (w *DialWidget) FadeArc(f dial.Fade) {
	flash := newFlash(f.Repeat)
	fyne.Do(func() {
		w.stopFade()
		anim := fyne.NewAnimation(f.Duration, func(v float32) {
			w.setAlpha(flash.step(v))
		})
		anim.Curve = fyne.AnimationLinear
		anim.RepeatCount = flash.cycles - 1
		w.fade = anim
		anim.Start()
	})
}

// flash maps animation progress to opacity across repeated cycles. Every
// cycle ends with a tick at 1.
type flash struct {
	cycles int
	done   int
}

func newFlash(repeat int) *flash {
	return &flash{cycles: max(repeat, 1)}
}

func (f *flash) step(v float32) float64 {
	if v < 1 {
		return 1 - float64(v)
	}
	f.done++
	if f.done >= f.cycles {
		return 1
	}
	return 0
}

func (w *DialWidget) setAlpha(alpha float64) {
	w.mu.Lock()
	w.alpha = alpha
	w.mu.Unlock()
	w.raster.Refresh()
}

func (w *DialWidget) stopFade() {
	if w.fade != nil {
		w.fade.Stop()
		w.fade = nil
	}
}

// Snapshot returns the arc currently shown and its opacity.
func (w *DialWidget) Snapshot() (dial.Arc, float64, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.arc == nil {
		return dial.Arc{}, 0, false
	}
	return *w.arc, w.alpha, true
}

func toPoint(p fyne.Position) geometry.Point {
	return geometry.Pt(float64(p.X), float64(p.Y))
}

func (w *DialWidget) press(p geometry.Point) {
	w.pressed = true
	w.last = p
	w.input.DragStart(p)
}

func (w *DialWidget) release(p geometry.Point) {
	if !w.pressed {
		return
	}
	w.pressed = false
	w.input.DragEnd(p)
}

func (w *DialWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	w.press(toPoint(e.Position))
}

func (w *DialWidget) MouseUp(e *desktop.MouseEvent) {
	w.release(toPoint(e.Position))
}

func (w *DialWidget) TouchDown(e *mobile.TouchEvent) {
	w.press(toPoint(e.Position))
}

func (w *DialWidget) TouchUp(e *mobile.TouchEvent) {
	w.release(toPoint(e.Position))
}

func (w *DialWidget) TouchCancel(*mobile.TouchEvent) {
	w.release(w.last)
}

// Dragged follows the pointer. Drivers that never sent a press start the
// drag here.
func (w *DialWidget) Dragged(e *fyne.DragEvent) {
	p := toPoint(e.Position)
	if !w.pressed {
		w.press(p)
	}
	w.last = p
	w.input.DragMove(p)
}

func (w *DialWidget) DragEnd() {
	w.release(w.last)
}
