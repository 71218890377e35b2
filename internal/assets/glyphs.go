package assets

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
)

// Glyphs draws simple vector icons for every icon id the widgets use, so a
// deck without an icon pack still shows something. It satisfies render.IconSource.
type Glyphs struct{}

const glyphSize = 64

var (
	sunColor   = color.RGBA{R: 0xFF, G: 0xC8, B: 0x2E, A: 0xFF}
	moonColor  = color.RGBA{R: 0xE8, G: 0xE8, B: 0xF0, A: 0xFF}
	cloudColor = color.RGBA{R: 0xB8, G: 0xC4, B: 0xD0, A: 0xFF}
	waterColor = color.RGBA{R: 0x4A, G: 0x9B, B: 0xF0, A: 0xFF}
	dark       = color.RGBA{A: 0xFF}
)

func (Glyphs) Icon(id string) (image.Image, error) {
	img := image.NewRGBA(image.Rect(0, 0, glyphSize, glyphSize))
	name := strings.TrimSuffix(id[strings.LastIndex(id, "/")+1:], ".png")
	switch {
	case strings.HasPrefix(id, "weather/"):
		if strings.Contains(id, "/night/") {
			crescent(img, 0)
		} else {
			disc(img, 32, 30, 18, sunColor)
		}
		if name != "113" { // 113 is "clear"
			disc(img, 24, 42, 12, cloudColor)
			disc(img, 40, 40, 14, cloudColor)
		}
	case name == "sunrise" || name == "sunset":
		disc(img, 32, 44, 18, sunColor)
		rect(img, 0, 44, glyphSize, glyphSize, dark)
		dir := -1
		if name == "sunset" {
			dir = 1
		}
		arrow(img, 32, 14, dir)
	case name == "moonrise" || name == "moonset":
		crescent(img, 8)
		rect(img, 0, 48, glyphSize, glyphSize, dark)
	case strings.HasPrefix(id, "astronomy/"):
		// moon phases
		crescent(img, phaseOffset(name))
	case name == "humidity":
		disc(img, 32, 40, 14, waterColor)
		for y := 10; y < 30; y++ {
			half := (y - 10) * 14 / 20
			rect(img, 32-half, y, 32+half+1, y+1, waterColor)
		}
	case name == "wind":
		for i, w := range []int{44, 52, 36} {
			rect(img, 8, 18+i*12, 8+w, 22+i*12, cloudColor)
		}
	case name == "pressure", name == "feelslike", name == "temperature", name == "uv":
		disc(img, 32, 46, 10, sunColor)
		rect(img, 28, 10, 36, 40, moonColor)
	default:
		return nil, fmt.Errorf("no glyph for %q", id)
	}
	return img, nil
}

func phaseOffset(name string) int {
	switch name {
	case "new moon":
		return 32
	case "full moon":
		return -1
	case "first quarter", "last quarter":
		return 18
	}
	return 10
}

// crescent draws a moon disc with a shadow disc shifted by offset; a negative
// offset draws the full disc.
func crescent(img *image.RGBA, offset int) {
	disc(img, 32, 30, 20, moonColor)
	if offset >= 0 {
		disc(img, 32+offset, 26, 20, dark)
	}
}

func disc(img *image.RGBA, cx, cy, r int, c color.Color) {
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			if math.Hypot(float64(x-cx), float64(y-cy)) <= float64(r) {
				img.Set(x, y, c)
			}
		}
	}
}

func rect(img *image.RGBA, x0, y0, x1, y1 int, c color.Color) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			img.Set(x, y, c)
		}
	}
}

// arrow draws a small vertical arrow pointing up (dir<0) or down (dir>0).
func arrow(img *image.RGBA, cx, cy, dir int) {
	rect(img, cx-2, cy-8, cx+3, cy+9, moonColor)
	tip := cy - 9
	if dir > 0 {
		tip = cy + 9
	}
	for i := 0; i < 7; i++ {
		y := tip - dir*i
		rect(img, cx-i, y, cx+i+1, y+1, moonColor)
	}
}
