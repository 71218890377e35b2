package widget

import (
	"context"
	"errors"
	"image"

	"github.com/rook-computer/weatherdeck/internal/render"
	"github.com/rook-computer/weatherdeck/internal/state"
)

type RenderOutcome int

const (
	RenderSkipped RenderOutcome = iota
	Rendered
	RenderFailed
)

func (o RenderOutcome) String() string {
	switch o {
	case Rendered:
		return "rendered"
	case RenderFailed:
		return "failed"
	}
	return "skipped"
}

// SlideRenderer paints the slide under the cursor. Failures are logged and
// reported as an outcome, never returned.
type SlideRenderer struct {
	WidgetID string
	Kind     Kind
	Icons    render.IconSource
	Composer render.Composer
	Surface  render.Surface
	Logger   Logger
}

func (r *SlideRenderer) Render(ctx context.Context, st state.WidgetState) RenderOutcome {
	facet, ok := r.Kind.FacetAt(st.Data, st.Cursor, st.Options)
	if !ok {
		return RenderSkipped
	}
	log := r.Logger
	if log == nil {
		log = noopLogger{}
	}

	var icon image.Image
	if facet.Icon != "" && r.Icons != nil {
		img, err := r.Icons.Icon(facet.Icon)
		if err != nil {
			log.Errorf("render", "%s: slide %d: %v", r.WidgetID, st.Cursor, err)
			return RenderFailed
		}
		icon = img
	}

	img, _, err := r.Composer.Compose(render.KeyImage{
		Title:     facet.Title,
		ShowTitle: facet.ShowTitle,
		Value:     facet.Value,
		Icon:      icon,
	})
	if errors.Is(err, render.ErrEmptyKey) {
		return RenderSkipped
	}
	if err != nil {
		log.Errorf("render", "%s: compose slide %d: %v", r.WidgetID, st.Cursor, err)
		return RenderFailed
	}
	if err := r.Surface.RenderSurface(ctx, img); err != nil {
		log.Errorf("render", "%s: surface: %v", r.WidgetID, err)
		return RenderFailed
	}
	return Rendered
}
