package render

import "image/color"

// Global render configuration for colors, tile geometry and the deck canvas.
var (
	Foreground = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	Background = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xFF}
	AlertColor = color.RGBA{R: 0xE0, G: 0x40, B: 0x30, A: 0xFF}

	// Logical canvas size of the deck; scaled to the framebuffer.
	CanvasWidth  = 1920
	CanvasHeight = 1080
)

// Key tile geometry in pixels. Offsets depend only on whether a title is shown.
const (
	KeySize = 144

	TitleTop      = 5
	TitleBaseSize = 20.0
	TitleMinSize  = 8.0

	IconLeft            = 27
	IconTopWithTitle    = 20
	IconTopWithoutTitle = 5
	IconSize            = 90

	ValueTopWithTitle    = 111
	ValueTopWithoutTitle = 105
	ValueBaseSize        = 28.0
	ValueMinSize         = 20.0
)
