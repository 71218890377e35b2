package web

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rook-computer/weatherdeck/internal/state"
	"github.com/rook-computer/weatherdeck/internal/widget"
)

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type acceptedResponse struct {
	Widget widget.Status `json:"widget"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Widgets   int       `json:"widgets"`
	HasAPIKey bool      `json:"hasApiKey"`
	Time      time.Time `json:"time"`
}

// settingsResponse never carries the raw key.
type settingsResponse struct {
	APIKey    string `json:"apiKey"`
	HasAPIKey bool   `json:"hasApiKey"`
}

type settingsRequest struct {
	APIKey *string `json:"apiKey"`
}

func apiErr(c echo.Context, status int, code, message string) error {
	return c.JSON(status, apiError{Error: code, Message: message})
}

func handleHealth(d Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, healthResponse{
			Status:    "ok",
			Widgets:   len(d.Widgets.Widgets()),
			HasAPIKey: d.Global.Load().HasAPIKey(),
			Time:      time.Now().UTC(),
		})
	}
}

func handleListWidgets(d Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		out := make([]widget.Status, 0, len(d.Widgets.Widgets()))
		for _, w := range d.Widgets.Widgets() {
			out = append(out, w.Status())
		}
		return c.JSON(http.StatusOK, out)
	}
}

func lookup(c echo.Context, d Deps) (Widget, error) {
	w, ok := d.Widgets.Widget(c.Param("id"))
	if !ok {
		return nil, apiErr(c, http.StatusNotFound, "unknown_widget", "no widget "+c.Param("id"))
	}
	return w, nil
}

func handleGetWidget(d Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		w, err := lookup(c, d)
		if w == nil {
			return err
		}
		return c.JSON(http.StatusOK, w.Status())
	}
}

// POST /widgets/:id/press[?dir=prev]. A press that finds the widget busy is dropped.
func handlePress(d Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		w, err := lookup(c, d)
		if w == nil {
			return err
		}
		switch c.QueryParam("dir") {
		case "", "next":
			w.OnPress(detached(c))
		case "prev":
			w.OnPressBack(detached(c))
		default:
			return apiErr(c, http.StatusBadRequest, "invalid_direction", "dir must be next or prev")
		}
		return c.JSON(http.StatusAccepted, acceptedResponse{Widget: w.Status()})
	}
}

// PUT /widgets/:id/settings
func handleWidgetSettings(d Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		w, err := lookup(c, d)
		if w == nil {
			return err
		}
		var s state.Settings
		if err := c.Bind(&s); err != nil {
			return apiErr(c, http.StatusBadRequest, "invalid_body", "expected {\"cities\": \"...\", \"options\": {...}}")
		}
		if s.Cities == nil && len(s.Options) == 0 {
			return apiErr(c, http.StatusBadRequest, "empty_settings", "nothing to change")
		}
		w.OnSettingsChanged(detached(c), s)
		d.Logger.Infof("web", "settings for %s submitted", w.ID())
		return c.JSON(http.StatusAccepted, acceptedResponse{Widget: w.Status()})
	}
}

func handleGetSettings(d Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		g := d.Global.Load()
		return c.JSON(http.StatusOK, settingsResponse{APIKey: g.Masked(), HasAPIKey: g.HasAPIKey()})
	}
}

// PUT /settings replaces the global API key and persists it.
func handlePutSettings(d Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req settingsRequest
		if err := c.Bind(&req); err != nil || req.APIKey == nil {
			return apiErr(c, http.StatusBadRequest, "invalid_body", "expected {\"apiKey\": \"...\"}")
		}
		if d.Global.SetAPIKey(*req.APIKey) && d.Persister != nil {
			blob, err := d.Global.Load().Marshal()
			if err == nil {
				err = d.Persister.PersistState(c.Request().Context(), state.GlobalKey, blob)
			}
			if err != nil {
				d.Logger.Errorf("web", "persist global settings: %v", err)
				return apiErr(c, http.StatusInternalServerError, "persist_failed", err.Error())
			}
			d.Logger.Infof("web", "api key updated")
		}
		g := d.Global.Load()
		return c.JSON(http.StatusOK, settingsResponse{APIKey: g.Masked(), HasAPIKey: g.HasAPIKey()})
	}
}

// detached keeps request values but not the request's cancellation, so a
// client hanging up mid-render does not abort the paint.
func detached(c echo.Context) context.Context {
	return context.WithoutCancel(c.Request().Context())
}
