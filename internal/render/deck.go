package render

import (
	"context"
	"image"
	"sync"
	"time"
)

// AlertDuration is how long ShowAlert keeps the warning badge up.
var AlertDuration = 2 * time.Second

// Deck is a set of tiles widgets paint into.
type Deck interface {
	Start(ctx context.Context) error
	Stop() error
	Tiles() int
	Tile(i int) Surface
	// ShowSetup paints the setup card asking for an API key at payload.
	ShowSetup(payload string) error
	RunLoop(ctx context.Context)
}

// tile keeps the last image a widget rendered so an alert can be drawn over
// it and removed again. Every paint to the tile happens under mu, so a restore
// can never land on top of a newer render.
type tile struct {
	mu    sync.Mutex
	last  *image.RGBA
	gen   uint64
	timer *time.Timer
}

// show records img as the tile's current image and paints it.
func (t *tile) show(img image.Image, paint func(*image.RGBA) error) error {
	rgba := image.NewRGBA(image.Rect(0, 0, KeySize, KeySize))
	DrawImageInRect(rgba, rgba.Bounds(), img, ScaleModeStretch)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = rgba
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	return paint(rgba)
}

// alert paints a badged copy of the last image and schedules the plain one
// to come back unless a newer render replaced it first.
func (t *tile) alert(paint func(*image.RGBA) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	badged := image.NewRGBA(image.Rect(0, 0, KeySize, KeySize))
	if t.last != nil {
		copy(badged.Pix, t.last.Pix)
	} else {
		fill(badged, badged.Bounds(), Background)
	}
	DrawAlert(badged)

	gen := t.gen
	last := t.last
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(AlertDuration, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.gen == gen && last != nil {
			_ = paint(last)
		}
	})
	return paint(badged)
}

func (t *tile) stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
