package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/rook-computer/weatherdeck/internal/render/layout"
)

// PNGDeck writes every tile to Dir/tile-<n>.png and keeps an in-memory sheet
// of the whole deck. Used by the simulator in place of a framebuffer.
type PNGDeck struct {
	Dir     string
	Columns int
	Rows    int
	// FailRender, when set, is consulted before every tile write.
	FailRender func(tile int) error

	mu     sync.Mutex
	sheet  *image.RGBA
	rects  []image.Rectangle
	tiles  []*tile
	writes []int
}

func NewPNGDeck(dir string, columns, rows int) *PNGDeck {
	return &PNGDeck{Dir: dir, Columns: columns, Rows: rows}
}

func (d *PNGDeck) Start(ctx context.Context) error {
	if d.Columns <= 0 || d.Rows <= 0 {
		return fmt.Errorf("deck needs a positive grid, got %dx%d", d.Columns, d.Rows)
	}
	if d.Dir != "" {
		if err := os.MkdirAll(d.Dir, 0o755); err != nil {
			return fmt.Errorf("create tile dir: %w", err)
		}
	}
	const gap = 8
	w := d.Columns*(KeySize+gap) + gap
	h := d.Rows*(KeySize+gap) + gap
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sheet = image.NewRGBA(image.Rect(0, 0, w, h))
	fill(d.sheet, d.sheet.Bounds(), AlertColor)
	fill(d.sheet, layout.Inset(d.sheet.Bounds(), 2), Background)
	d.rects = layout.Tiles(d.sheet.Bounds(), d.Columns, d.Rows, gap/2)
	d.tiles = make([]*tile, len(d.rects))
	for i := range d.tiles {
		d.tiles[i] = &tile{}
	}
	d.writes = make([]int, len(d.rects))
	return nil
}

func (d *PNGDeck) Stop() error {
	for _, t := range d.tiles {
		t.stop()
	}
	return nil
}

func (d *PNGDeck) Tiles() int { return len(d.rects) }

func (d *PNGDeck) Tile(i int) Surface {
	if i < 0 || i >= len(d.rects) {
		return NoopSurface{W: KeySize, H: KeySize}
	}
	return &pngTile{deck: d, index: i}
}

func (d *PNGDeck) ShowSetup(payload string) error {
	qr, err := GenerateQRCodeImage(payload, KeySize)
	if err != nil {
		return fmt.Errorf("setup qr: %w", err)
	}
	if qr == nil || len(d.tiles) == 0 {
		return nil
	}
	return d.tiles[0].show(qr, d.writer(0))
}

func (d *PNGDeck) RunLoop(ctx context.Context) { <-ctx.Done() }

// Sheet returns a copy of the whole deck image.
func (d *PNGDeck) Sheet() *image.RGBA {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sheet == nil {
		return nil
	}
	out := image.NewRGBA(d.sheet.Bounds())
	copy(out.Pix, d.sheet.Pix)
	return out
}

// Writes reports how many images tile i received.
func (d *PNGDeck) Writes(i int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i < 0 || i >= len(d.writes) {
		return 0
	}
	return d.writes[i]
}

func (d *PNGDeck) writer(i int) func(*image.RGBA) error {
	return func(img *image.RGBA) error { return d.write(i, img) }
}

func (d *PNGDeck) write(i int, img *image.RGBA) error {
	if d.FailRender != nil {
		if err := d.FailRender(i); err != nil {
			return err
		}
	}
	d.mu.Lock()
	DrawImageInRect(d.sheet, d.rects[i], img, ScaleModeStretch)
	d.writes[i]++
	d.mu.Unlock()

	if d.Dir == "" {
		return nil
	}
	return writePNG(filepath.Join(d.Dir, fmt.Sprintf("tile-%d.png", i)), img)
}

func writePNG(path string, img image.Image) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tile-*.png")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := png.Encode(tmp, img); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

type pngTile struct {
	deck  *PNGDeck
	index int
}

func (t *pngTile) Size() image.Point { return image.Pt(KeySize, KeySize) }

func (t *pngTile) RenderSurface(ctx context.Context, img image.Image) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if img == nil {
		return errors.New("nil image")
	}
	return t.deck.tiles[t.index].show(img, t.deck.writer(t.index))
}

func (t *pngTile) ShowAlert(ctx context.Context) error {
	return t.deck.tiles[t.index].alert(t.deck.writer(t.index))
}

var _ Deck = (*PNGDeck)(nil)
