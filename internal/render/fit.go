package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// FontFitter sizes and draws text with one TrueType font. Faces are cached per
// size; a mutex serializes use because faces are not safe for concurrent use.
type FontFitter struct {
	font *truetype.Font

	mu    sync.Mutex
	faces map[float64]font.Face
}

func NewFontFitter(ttf []byte) (*FontFitter, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &FontFitter{font: f, faces: map[float64]font.Face{}}, nil
}

// face must be called with mu held. Size is in pixels (72 DPI).
func (f *FontFitter) face(size float64) font.Face {
	if face, ok := f.faces[size]; ok {
		return face
	}
	face := truetype.NewFace(f.font, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
	f.faces[size] = face
	return face
}

func (f *FontFitter) MeasureAndFitText(text string, maxWidth int, baseSize, minSize float64) (float64, int) {
	if minSize > baseSize {
		minSize = baseSize
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	size := baseSize
	for {
		w := font.MeasureString(f.face(size), text).Ceil()
		if w <= maxWidth || size <= minSize {
			return size, w
		}
		size--
		if size < minSize {
			size = minSize
		}
	}
}

func (f *FontFitter) DrawText(dst draw.Image, text string, size float64, y int, c color.Color) {
	f.mu.Lock()
	defer f.mu.Unlock()
	face := f.face(size)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: face}
	w := d.MeasureString(text).Ceil()
	b := dst.Bounds()
	x := b.Min.X + (b.Dx()-w)/2
	baseline := y + face.Metrics().Ascent.Ceil()
	d.Dot = fixed.P(x, baseline)
	d.DrawString(text)
}

var _ TextFitter = (*FontFitter)(nil)
