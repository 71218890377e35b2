package render

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/image/font/gofont/gobold"
)

func TestFontFitterShrinksLongText(t *testing.T) {
	f, err := NewFontFitter(gobold.TTF)
	if err != nil {
		t.Fatalf("NewFontFitter: %v", err)
	}
	size, w := f.MeasureAndFitText("12 °C", KeySize, ValueBaseSize, ValueMinSize)
	if size != ValueBaseSize || w > KeySize {
		t.Fatalf("short text: size=%v width=%d", size, w)
	}

	long := "Llanfairpwllgwyngyll"
	size, w = f.MeasureAndFitText(long, KeySize, TitleBaseSize, TitleMinSize)
	if size >= TitleBaseSize || size < TitleMinSize {
		t.Fatalf("long title size = %v", size)
	}
	if size > TitleMinSize && w > KeySize {
		t.Fatalf("fitted width %d exceeds %d at size %v", w, KeySize, size)
	}

	huge := strings.Repeat("W", 80)
	size, _ = f.MeasureAndFitText(huge, KeySize, ValueBaseSize, ValueMinSize)
	if size != ValueMinSize {
		t.Fatalf("overflowing text should stop at the floor, got %v", size)
	}
}

// stubFitter reports a fixed width per rune and records what was drawn.
type stubFitter struct {
	perRune int
	drawn   []string
}

func (s *stubFitter) MeasureAndFitText(text string, maxWidth int, base, min float64) (float64, int) {
	size := base
	for {
		w := len([]rune(text)) * s.perRune * int(size) / int(base)
		if w <= maxWidth || size <= min {
			return size, w
		}
		size--
	}
}

func (s *stubFitter) DrawText(dst draw.Image, text string, size float64, y int, c color.Color) {
	s.drawn = append(s.drawn, text)
}

func TestComposeLayoutDependsOnTitle(t *testing.T) {
	icon := image.NewRGBA(image.Rect(0, 0, 64, 64))
	c := Composer{Fitter: &stubFitter{perRune: 10}}

	_, withTitle, err := c.Compose(KeyImage{Title: "Berlin", ShowTitle: true, Value: "12 °C", Icon: icon})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if withTitle.IconRect.Min.Y != 20 || withTitle.ValueTop != 111 || withTitle.TitleTop != 5 {
		t.Fatalf("title layout = %+v", withTitle)
	}
	if withTitle.IconRect.Min.X != 27 || withTitle.IconRect.Dx() != 90 || withTitle.IconRect.Dy() != 90 {
		t.Fatalf("icon rect = %v", withTitle.IconRect)
	}

	_, noTitle, err := c.Compose(KeyImage{Value: "12 °C", Icon: icon})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if noTitle.IconRect.Min.Y != 5 || noTitle.ValueTop != 105 || noTitle.TitleSize != 0 {
		t.Fatalf("no-title layout = %+v", noTitle)
	}
}

func TestComposeFitsLongTitle(t *testing.T) {
	fitter := &stubFitter{perRune: 10}
	c := Composer{Fitter: fitter}
	_, l, err := c.Compose(KeyImage{Title: "Saint-Remy-de-Provence", ShowTitle: true, Value: "7 °C"})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if l.TitleSize >= TitleBaseSize || l.TitleSize < TitleMinSize {
		t.Fatalf("title size = %v", l.TitleSize)
	}
	if l.ValueSize != ValueBaseSize {
		t.Fatalf("value size = %v", l.ValueSize)
	}
	if len(fitter.drawn) != 2 {
		t.Fatalf("drawn = %q", fitter.drawn)
	}
}

func TestComposeRejectsEmpty(t *testing.T) {
	c := Composer{Fitter: &stubFitter{perRune: 10}}
	if _, _, err := c.Compose(KeyImage{Value: " "}); !errors.Is(err, ErrEmptyKey) {
		t.Fatalf("blank value: %v", err)
	}
	if _, _, err := c.Compose(KeyImage{Value: "1", ShowTitle: true}); !errors.Is(err, ErrEmptyKey) {
		t.Fatalf("blank title: %v", err)
	}
}

func TestDirIconsFallbackAndMissing(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "astronomy"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := writePNG(filepath.Join(dir, "astronomy", "sunrise.png"), image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("writePNG: %v", err)
	}
	fallback := MapIcons{"astronomy/moonset.png": image.NewRGBA(image.Rect(0, 0, 2, 2))}
	icons := NewDirIcons(dir, fallback)

	img, err := icons.Icon("astronomy/sunrise.png")
	if err != nil || img.Bounds().Dx() != 4 {
		t.Fatalf("Icon(sunrise) = %v, %v", img, err)
	}
	if _, err := icons.Icon("astronomy/moonset.png"); err != nil {
		t.Fatalf("fallback not used: %v", err)
	}
	if _, err := icons.Icon("weather/64x64/day/999.png"); !errors.Is(err, ErrIconNotFound) {
		t.Fatalf("missing icon: %v", err)
	}
	if _, err := icons.Icon("../../etc/passwd"); err == nil {
		t.Fatalf("path escape accepted")
	}
}

func TestPNGDeckWritesAndAlerts(t *testing.T) {
	old := AlertDuration
	AlertDuration = 10 * time.Millisecond
	t.Cleanup(func() { AlertDuration = old })

	dir := t.TempDir()
	deck := NewPNGDeck(dir, 2, 1)
	if err := deck.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = deck.Stop() })
	if deck.Tiles() != 2 {
		t.Fatalf("Tiles = %d", deck.Tiles())
	}

	s := deck.Tile(1)
	if err := s.RenderSurface(context.Background(), image.NewRGBA(image.Rect(0, 0, KeySize, KeySize))); err != nil {
		t.Fatalf("RenderSurface: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "tile-1.png")); err != nil {
		t.Fatalf("tile file: %v", err)
	}
	if err := s.ShowAlert(context.Background()); err != nil {
		t.Fatalf("ShowAlert: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for deck.Writes(1) < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("alert was never cleared, writes=%d", deck.Writes(1))
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func solidTile(c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, KeySize, KeySize))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func TestAlertRestoreNeverCoversNewerRender(t *testing.T) {
	old := AlertDuration
	AlertDuration = time.Millisecond
	t.Cleanup(func() { AlertDuration = old })

	var (
		mu      sync.Mutex
		painted []*image.RGBA
		entered = make(chan struct{})
		release = make(chan struct{})
	)
	paint := func(img *image.RGBA) error {
		mu.Lock()
		painted = append(painted, img)
		n := len(painted)
		mu.Unlock()
		if n == 3 { // show, badge, restore
			close(entered)
			<-release
		}
		return nil
	}

	var tl tile
	if err := tl.show(solidTile(color.White), paint); err != nil {
		t.Fatalf("show: %v", err)
	}
	if err := tl.alert(paint); err != nil {
		t.Fatalf("alert: %v", err)
	}
	<-entered

	done := make(chan struct{})
	go func() {
		_ = tl.show(solidTile(color.Black), paint)
		close(done)
	}()
	select {
	case <-done:
		t.Fatalf("render painted while a restore was in progress")
	case <-time.After(20 * time.Millisecond):
	}
	close(release)
	<-done

	mu.Lock()
	defer mu.Unlock()
	if len(painted) != 4 {
		t.Fatalf("paints = %d, want 4", len(painted))
	}
	if got := painted[3].RGBAAt(0, 0); got != (color.RGBA{A: 0xFF}) {
		t.Fatalf("tile ends on %v, want the newer black render", got)
	}
}

func TestPNGDeckFailRender(t *testing.T) {
	deck := NewPNGDeck("", 1, 1)
	deck.FailRender = func(int) error { return errors.New("surface gone") }
	if err := deck.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	err := deck.Tile(0).RenderSurface(context.Background(), image.NewRGBA(image.Rect(0, 0, 1, 1)))
	if err == nil {
		t.Fatalf("expected injected failure")
	}
}

func TestGenerateQRCodeImage(t *testing.T) {
	img, err := GenerateQRCodeImage("http://deck.local:8080/", KeySize)
	if err != nil {
		t.Fatalf("GenerateQRCodeImage: %v", err)
	}
	if img.Bounds().Dx() != KeySize {
		t.Fatalf("size = %v", img.Bounds())
	}
	if img, err := GenerateQRCodeImage("", 10); img != nil || err != nil {
		t.Fatalf("empty payload = %v, %v", img, err)
	}
}
