package ui

import (
	"image/color"
	"strconv"
	"time"

	"DialTimer/geometry"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
)

// LabelCount is the number of minute labels around the dial.
const LabelCount = 12

// LabelRing holds the minute labels (0, 5, … 55) drawn just outside the
// dial. Show and Hide fade the labels' colour and are safe to call from any
// goroutine.
type LabelRing struct {
	labels  []*canvas.Text
	color   color.NRGBA
	fade    time.Duration
	anim    *fyne.Animation
	visible bool
}

// NewLabelRing lays the labels out on a circle padding units outside dial,
// in the coordinate space where dial's top-left corner is at origin.
func NewLabelRing(dial geometry.Circle, origin fyne.Position, padding, textSize float32, col color.NRGBA, fade time.Duration) *LabelRing {
	r := &LabelRing{color: col, fade: fade, visible: true}
	outer, err := geometry.NewCircle(dial.Radius()+float64(padding), dial.Direction())
	if err != nil {
		outer = dial
	}
	shift := dial.Radius() - outer.Radius()

	for i := 0; i < LabelCount; i++ {
		minutes := i * geometry.SecondsPerDial / 60 / LabelCount
		text := canvas.NewText(strconv.Itoa(minutes), col)
		text.TextSize = textSize
		text.Alignment = fyne.TextAlignCenter

		p := outer.AngleToPoint(geometry.AngleForSeconds(minutes * 60))
		size := fyne.MeasureText(text.Text, textSize, text.TextStyle)
		text.Resize(size)
		text.Move(fyne.NewPos(
			origin.X+float32(p.X+shift)-size.Width/2,
			origin.Y+float32(p.Y+shift)-size.Height/2,
		))
		r.labels = append(r.labels, text)
	}
	return r
}

// Objects returns the label canvas objects.
func (r *LabelRing) Objects() []fyne.CanvasObject {
	objs := make([]fyne.CanvasObject, len(r.labels))
	for i, l := range r.labels {
		objs[i] = l
	}
	return objs
}

// Show fades the labels in.
func (r *LabelRing) Show() { fyne.Do(func() { r.setVisible(true) }) }

// Hide fades the labels out.
func (r *LabelRing) Hide() { fyne.Do(func() { r.setVisible(false) }) }

// Visible reports the target visibility of the last Show or Hide.
func (r *LabelRing) Visible() bool { return r.visible }

func (r *LabelRing) setVisible(visible bool) {
	if r.visible == visible {
		return
	}
	r.visible = visible
	if r.anim != nil {
		r.anim.Stop()
	}

	hidden := r.color
	hidden.A = 0
	from, to := color.Color(r.color), color.Color(hidden)
	if visible {
		from, to = to, from
	}
	r.anim = canvas.NewColorRGBAAnimation(from, to, r.fade, func(c color.Color) {
		for _, l := range r.labels {
			l.Color = c
			l.Refresh()
		}
	})
	r.anim.Start()
}
