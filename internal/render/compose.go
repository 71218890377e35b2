package render

import (
	"errors"
	"image"
	"strings"
)

var ErrEmptyKey = errors.New("render: nothing to draw")

// KeyImage is the content of one slide.
type KeyImage struct {
	Title     string
	ShowTitle bool
	Value     string
	Icon      image.Image
}

// Layout is where the parts of a KeyImage end up on a KeySize tile.
type Layout struct {
	TitleTop  int
	TitleSize float64
	IconRect  image.Rectangle
	ValueTop  int
	ValueSize float64
}

func baseLayout(showTitle bool) Layout {
	if showTitle {
		return Layout{
			TitleTop: TitleTop,
			IconRect: image.Rect(IconLeft, IconTopWithTitle, IconLeft+IconSize, IconTopWithTitle+IconSize),
			ValueTop: ValueTopWithTitle,
		}
	}
	return Layout{
		IconRect: image.Rect(IconLeft, IconTopWithoutTitle, IconLeft+IconSize, IconTopWithoutTitle+IconSize),
		ValueTop: ValueTopWithoutTitle,
	}
}

// Composer draws slides onto KeySize×KeySize images.
type Composer struct {
	Fitter TextFitter
}

// Compose paints k and reports the layout used. A blank value, or a blank
// title when the title is shown, is ErrEmptyKey.
func (c Composer) Compose(k KeyImage) (*image.RGBA, Layout, error) {
	if strings.TrimSpace(k.Value) == "" || (k.ShowTitle && strings.TrimSpace(k.Title) == "") {
		return nil, Layout{}, ErrEmptyKey
	}
	if c.Fitter == nil {
		return nil, Layout{}, errors.New("render: no text fitter")
	}
	img := image.NewRGBA(image.Rect(0, 0, KeySize, KeySize))
	fill(img, img.Bounds(), Background)

	l := baseLayout(k.ShowTitle)
	if k.ShowTitle {
		l.TitleSize, _ = c.Fitter.MeasureAndFitText(k.Title, KeySize, TitleBaseSize, TitleMinSize)
		c.Fitter.DrawText(img, k.Title, l.TitleSize, l.TitleTop, Foreground)
	}
	if k.Icon != nil {
		DrawImageInRect(img, l.IconRect, k.Icon, ScaleModeStretch)
	}
	l.ValueSize, _ = c.Fitter.MeasureAndFitText(k.Value, KeySize, ValueBaseSize, ValueMinSize)
	c.Fitter.DrawText(img, k.Value, l.ValueSize, l.ValueTop, Foreground)
	return img, l, nil
}

// DrawAlert overlays a warning triangle in the bottom-right corner of img.
func DrawAlert(img *image.RGBA) {
	b := img.Bounds()
	size := b.Dx() / 3
	if size < 12 {
		size = 12
	}
	left := b.Max.X - size - 4
	bottom := b.Max.Y - 4
	for row := 0; row < size; row++ {
		half := row / 2
		mid := left + size/2
		y := bottom - size + row
		for x := mid - half; x <= mid+half; x++ {
			img.Set(x, y, AlertColor)
		}
	}
	// exclamation mark
	mid := left + size/2
	for y := bottom - size*3/4; y < bottom-size/3; y++ {
		img.Set(mid, y, Background)
	}
	img.Set(mid, bottom-size/5, Background)
}
