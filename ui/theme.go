package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// DialTheme paints the window in the dial's palette on top of the default
// theme.
type DialTheme struct {
	fyne.Theme
	background color.Color
	foreground color.Color
	textSize   float32
}

// NewDialTheme creates a new instance of the dial theme.
func NewDialTheme(background, foreground color.Color, textSize float32) fyne.Theme {
	return &DialTheme{Theme: theme.DefaultTheme(), background: background, foreground: foreground, textSize: textSize}
}

// Color returns the palette colour for the window background and text.
func (t *DialTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		return t.background
	case theme.ColorNameForeground:
		return t.foreground
	}
	return t.Theme.Color(name, variant)
}

// Size overrides the default text size.
func (t *DialTheme) Size(name fyne.ThemeSizeName) float32 {
	if name == theme.SizeNameText && t.textSize > 0 {
		return t.textSize
	}
	return t.Theme.Size(name)
}
