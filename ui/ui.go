package ui

import (
	"image/color"

	"DialTimer/geometry"
	"DialTimer/timer"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
)

// App is what the window needs from the application.
type App interface {
	Input
	HandleKeyRune(rune)
}

// DialView is the dial, its label ring, the centre dot and the remaining
// time readout.
type DialView struct {
	Dial   *DialWidget
	Labels *LabelRing

	remaining *canvas.Text
	content   fyne.CanvasObject
}

// NewDialView builds the view for cfg.
func NewDialView(cfg *timer.Config, circle geometry.Circle, input Input) *DialView {
	background := timer.MustColor(cfg.Palette.Background, 1)
	labelColor := timer.MustColor(cfg.Palette.Label, 1)

	v := &DialView{}
	margin := cfg.Labels.Padding + cfg.Labels.TextSize
	diameter := float32(2 * circle.Radius())
	origin := fyne.NewPos(margin, margin)

	v.Dial = NewDialWidget(circle, input, lighten(background))
	v.Dial.Resize(fyne.NewSize(diameter, diameter))
	v.Dial.Move(origin)

	v.Labels = NewLabelRing(circle, origin, cfg.Labels.Padding, cfg.Labels.TextSize, labelColor, cfg.Labels.Fade)

	dotRadius := diameter / 2 * cfg.Dial.CenterDotRatio
	dot := canvas.NewCircle(labelColor)
	dot.Resize(fyne.NewSize(2*dotRadius, 2*dotRadius))
	dot.Move(fyne.NewPos(origin.X+diameter/2-dotRadius, origin.Y+diameter/2-dotRadius))

	sizer := canvas.NewRectangle(color.Transparent)
	sizer.SetMinSize(fyne.NewSize(diameter+2*margin, diameter+2*margin))

	objs := []fyne.CanvasObject{sizer, v.Dial}
	objs = append(objs, v.Labels.Objects()...)
	objs = append(objs, dot)
	area := container.NewWithoutLayout(objs...)

	v.remaining = canvas.NewText(timer.FormatTime(0), labelColor)
	v.remaining.TextSize = cfg.Labels.TextSize * 1.6
	v.remaining.TextStyle.Monospace = true
	v.remaining.Alignment = fyne.TextAlignCenter

	v.content = container.NewVBox(
		container.New(layout.NewCenterLayout(), area),
		container.New(layout.NewCenterLayout(), v.remaining),
	)
	return v
}

// Content returns the root canvas object.
func (v *DialView) Content() fyne.CanvasObject {
	return v.content
}

// SetRemaining updates the mm:ss readout.
func (v *DialView) SetRemaining(seconds int) {
	text := timer.FormatTime(seconds)
	fyne.Do(func() {
		v.remaining.Text = text
		v.remaining.Refresh()
	})
}

// RemainingText returns the text currently queued for the readout.
func (v *DialView) RemainingText() string {
	return v.remaining.Text
}

func CreateMainWindow(a App, fyneApp fyne.App, cfg *timer.Config, view *DialView) fyne.Window {
	title := cfg.Window.Title
	if title == "" {
		title = fyneApp.Metadata().Name
	}
	w := fyneApp.NewWindow(title)
	w.Canvas().SetOnTypedRune(a.HandleKeyRune)
	w.SetContent(view.Content())
	w.Resize(fyne.NewSize(cfg.Window.Width, cfg.Window.Height))
	w.SetFixedSize(true)
	return w
}

// lighten lifts the dial face a little off the window background.
func lighten(c color.NRGBA) color.NRGBA {
	up := func(v uint8) uint8 { return v + (255-v)/12 }
	return color.NRGBA{R: up(c.R), G: up(c.G), B: up(c.B), A: c.A}
}
