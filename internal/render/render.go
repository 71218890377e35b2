package render

import (
	"context"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Surface is one fixed-size tile on the deck a widget paints into.
type Surface interface {
	// Size returns the pixel size images passed to RenderSurface should have.
	Size() image.Point
	RenderSurface(ctx context.Context, img image.Image) error
	// ShowAlert briefly marks the tile as failed on top of what it shows.
	ShowAlert(ctx context.Context) error
}

// TextFitter measures and draws text, shrinking it until it fits.
// Implementations must be safe for concurrent use.
type TextFitter interface {
	// MeasureAndFitText returns the largest size in [minSize, baseSize] at which
	// text is no wider than maxWidth, or minSize if none is. width is the
	// rendered width at the returned size.
	MeasureAndFitText(text string, maxWidth int, baseSize, minSize float64) (size float64, width int)
	// DrawText draws text with its top edge at y, centered horizontally in dst.
	DrawText(dst draw.Image, text string, size float64, y int, c color.Color)
}

// IconSource resolves icon identifiers like "astronomy/sunrise.png".
type IconSource interface {
	Icon(id string) (image.Image, error)
}

// NoopSurface discards everything.
type NoopSurface struct{ W, H int }

func (n NoopSurface) Size() image.Point                                       { return image.Pt(n.W, n.H) }
func (n NoopSurface) RenderSurface(ctx context.Context, img image.Image) error { return nil }
func (n NoopSurface) ShowAlert(ctx context.Context) error                      { return nil }

type ScaleMode int

const (
	ScaleModeFit ScaleMode = iota
	ScaleModeFill
	ScaleModeStretch
)

// DrawImageInRect scales src into rect on dst, compositing with alpha.
func DrawImageInRect(dst draw.Image, rect image.Rectangle, src image.Image, mode ScaleMode) {
	if src == nil || rect.Empty() {
		return
	}
	target := rect
	sb := src.Bounds()
	if mode != ScaleModeStretch && sb.Dx() > 0 && sb.Dy() > 0 {
		sx := float64(rect.Dx()) / float64(sb.Dx())
		sy := float64(rect.Dy()) / float64(sb.Dy())
		scale := sx
		if (mode == ScaleModeFit && sy < sx) || (mode == ScaleModeFill && sy > sx) {
			scale = sy
		}
		w := int(float64(sb.Dx()) * scale)
		h := int(float64(sb.Dy()) * scale)
		x := rect.Min.X + (rect.Dx()-w)/2
		y := rect.Min.Y + (rect.Dy()-h)/2
		target = image.Rect(x, y, x+w, y+h)
	}
	xdraw.CatmullRom.Scale(dst, target.Intersect(dst.Bounds()), src, sb, xdraw.Over, nil)
}

func fill(dst draw.Image, rect image.Rectangle, c color.Color) {
	draw.Draw(dst, rect, &image.Uniform{C: c}, image.Point{}, draw.Src)
}
