package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"
	"sync/atomic"
	"time"

	fb "github.com/gonutz/framebuffer"
	"github.com/rook-computer/weatherdeck/internal/assets"
	"github.com/rook-computer/weatherdeck/internal/render/layout"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	statusBarHeight = 90
	tilePadding     = 12
)

// FBDeck renders tiles onto the Linux framebuffer using an offscreen logical canvas.
type FBDeck struct {
	DevicePath string
	Columns    int
	Rows       int
	Logger     interface {
		Infof(string, string, ...interface{})
		Errorf(string, string, ...interface{})
	}

	fbDev      *fb.Device
	canvas     *image.RGBA
	statusFace font.Face
	statusRect image.Rectangle
	rects      []image.Rectangle
	tiles      []*tile
	running    atomic.Bool

	mu sync.Mutex // canvas and fbDev
}

func NewFBDeck(devicePath string, columns, rows int) *FBDeck {
	if devicePath == "" {
		devicePath = "/dev/fb0"
	}
	return &FBDeck{DevicePath: devicePath, Columns: columns, Rows: rows}
}

func (d *FBDeck) Start(ctx context.Context) error {
	if d.Columns <= 0 || d.Rows <= 0 {
		return fmt.Errorf("deck needs a positive grid, got %dx%d", d.Columns, d.Rows)
	}
	dev, err := fb.Open(d.DevicePath)
	if err != nil {
		return fmt.Errorf("open framebuffer %s: %w", d.DevicePath, err)
	}
	d.fbDev = dev
	d.infof("framebuffer open, bounds=%dx%d", dev.Bounds().Dx(), dev.Bounds().Dy())

	d.canvas = image.NewRGBA(image.Rect(0, 0, CanvasWidth, CanvasHeight))
	fill(d.canvas, d.canvas.Bounds(), Background)

	grid, status := layout.SplitHorizontal(d.canvas.Bounds(), CanvasHeight-statusBarHeight)
	d.statusRect = status
	d.rects = layout.Tiles(grid, d.Columns, d.Rows, tilePadding)
	d.tiles = make([]*tile, len(d.rects))
	for i := range d.tiles {
		d.tiles[i] = &tile{}
	}

	fnt, err := opentype.Parse(assets.RegularTTF)
	if err != nil {
		d.statusFace = basicfont.Face7x13
		d.errorf("font parse failed, using basicfont: %v", err)
	} else if face, ferr := opentype.NewFace(fnt, &opentype.FaceOptions{Size: 36, DPI: 72, Hinting: font.HintingFull}); ferr != nil {
		d.statusFace = basicfont.Face7x13
		d.errorf("font face create failed, using basicfont: %v", ferr)
	} else {
		d.statusFace = face
	}

	d.running.Store(true)
	d.mu.Lock()
	d.blit(d.canvas.Bounds())
	d.mu.Unlock()
	return nil
}

func (d *FBDeck) Stop() error {
	d.running.Store(false)
	for _, t := range d.tiles {
		t.stop()
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fbDev != nil {
		d.fbDev.Close()
		d.fbDev = nil
	}
	return nil
}

func (d *FBDeck) Tiles() int { return len(d.rects) }

func (d *FBDeck) Tile(i int) Surface {
	if i < 0 || i >= len(d.rects) {
		return NoopSurface{W: KeySize, H: KeySize}
	}
	return &fbTile{deck: d, index: i}
}

// ShowSetup fills the first tile with a QR code of payload and writes a hint
// into the status bar.
func (d *FBDeck) ShowSetup(payload string) error {
	if !d.running.Load() {
		return errors.New("deck not started")
	}
	qr, err := GenerateQRCodeImage(payload, KeySize)
	if err != nil {
		return fmt.Errorf("setup qr: %w", err)
	}
	if len(d.rects) > 0 && qr != nil {
		_ = d.tiles[0].show(qr, d.painter(0))
	}
	d.SetStatus("Set an API key: " + payload)
	return nil
}

// SetStatus writes a single line of text into the status bar.
func (d *FBDeck) SetStatus(text string) {
	if !d.running.Load() {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	fill(d.canvas, d.statusRect, Background)
	drawer := &font.Drawer{Dst: d.canvas, Src: image.NewUniform(Foreground), Face: d.statusFace}
	w := drawer.MeasureString(text).Ceil()
	x := d.statusRect.Min.X + (d.statusRect.Dx()-w)/2
	y := d.statusRect.Min.Y + (d.statusRect.Dy()+d.statusFace.Metrics().Ascent.Ceil())/2
	drawer.Dot = fixed.P(x, y)
	drawer.DrawString(text)
	d.blit(d.statusRect)
}

// RunLoop re-blits the whole canvas periodically so console output never
// stays on screen.
func (d *FBDeck) RunLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !d.running.Load() {
				return
			}
			d.mu.Lock()
			d.blit(d.canvas.Bounds())
			d.mu.Unlock()
		}
	}
}

// painter paints into tile i while the deck is running.
func (d *FBDeck) painter(i int) func(*image.RGBA) error {
	return func(img *image.RGBA) error {
		if !d.running.Load() {
			return errors.New("deck not running")
		}
		d.paint(i, img)
		return nil
	}
}

func (d *FBDeck) paint(i int, img *image.RGBA) {
	d.mu.Lock()
	defer d.mu.Unlock()
	rect := d.rects[i]
	DrawImageInRect(d.canvas, rect, img, ScaleModeStretch)
	d.blit(rect)
}

// blit copies rect of the canvas to the framebuffer with nearest-neighbour
// scaling. Must be called with mu held.
func (d *FBDeck) blit(rect image.Rectangle) {
	if d.fbDev == nil {
		return
	}
	bounds := d.fbDev.Bounds()
	fbW, fbH := bounds.Dx(), bounds.Dy()
	x0 := rect.Min.X * fbW / CanvasWidth
	x1 := (rect.Max.X*fbW + CanvasWidth - 1) / CanvasWidth
	y0 := rect.Min.Y * fbH / CanvasHeight
	y1 := (rect.Max.Y*fbH + CanvasHeight - 1) / CanvasHeight
	for y := y0; y < y1 && y < fbH; y++ {
		sy := y * CanvasHeight / fbH
		for x := x0; x < x1 && x < fbW; x++ {
			sx := x * CanvasWidth / fbW
			p := d.canvas.RGBAAt(sx, sy)
			d.fbDev.Set(bounds.Min.X+x, bounds.Min.Y+y, color.RGBA{R: p.R, G: p.G, B: p.B, A: 0xFF})
		}
	}
}

func (d *FBDeck) infof(format string, args ...interface{}) {
	if d.Logger != nil {
		d.Logger.Infof("fb", format, args...)
	}
}

func (d *FBDeck) errorf(format string, args ...interface{}) {
	if d.Logger != nil {
		d.Logger.Errorf("fb", format, args...)
	}
}

type fbTile struct {
	deck  *FBDeck
	index int
}

func (t *fbTile) Size() image.Point { return image.Pt(KeySize, KeySize) }

func (t *fbTile) RenderSurface(ctx context.Context, img image.Image) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !t.deck.running.Load() {
		return errors.New("deck not running")
	}
	return t.deck.tiles[t.index].show(img, t.deck.painter(t.index))
}

func (t *fbTile) ShowAlert(ctx context.Context) error {
	if !t.deck.running.Load() {
		return errors.New("deck not running")
	}
	return t.deck.tiles[t.index].alert(t.deck.painter(t.index))
}

var _ Deck = (*FBDeck)(nil)
