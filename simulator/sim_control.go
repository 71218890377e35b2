package main

import (
	"bytes"
	"fmt"
	"image/png"
	"net/http"
	"strconv"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/rook-computer/weatherdeck/internal/buttons"
	"github.com/rook-computer/weatherdeck/internal/render"
	"github.com/rook-computer/weatherdeck/internal/weather"
)

type SimFaults struct {
	weather.Faults
	// FailTiles makes paints to these tile indexes fail.
	FailTiles []int `json:"failTiles"`
}

type SimControl struct {
	fetcher *weather.Synthetic
	deck    *render.PNGDeck
	btns    *buttons.ChanButtons

	mu        sync.RWMutex
	failTiles map[int]bool
}

func NewSimControl(fetcher *weather.Synthetic, deck *render.PNGDeck, btns *buttons.ChanButtons) *SimControl {
	c := &SimControl{fetcher: fetcher, deck: deck, btns: btns, failTiles: map[int]bool{}}
	deck.FailRender = c.failRender
	return c
}

func (c *SimControl) failRender(tile int) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.failTiles[tile] {
		return fmt.Errorf("simulated paint failure on tile %d", tile)
	}
	return nil
}

func (c *SimControl) Faults() SimFaults {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f := SimFaults{Faults: c.fetcher.Faults(), FailTiles: []int{}}
	for t, on := range c.failTiles {
		if on {
			f.FailTiles = append(f.FailTiles, t)
		}
	}
	return f
}

func (c *SimControl) SetFaults(f SimFaults) {
	c.fetcher.SetFaults(f.Faults)
	c.mu.Lock()
	c.failTiles = map[int]bool{}
	for _, t := range f.FailTiles {
		c.failTiles[t] = true
	}
	c.mu.Unlock()
}

func (c *SimControl) Reset() { c.SetFaults(SimFaults{}) }

// Register mounts the /sim endpoints.
func (c *SimControl) Register(e *echo.Echo) {
	g := e.Group("/sim")
	g.GET("/faults", func(ec echo.Context) error {
		return ec.JSON(http.StatusOK, c.Faults())
	})
	g.PATCH("/faults", func(ec echo.Context) error {
		var patch struct {
			FailAll      *bool     `json:"failAll"`
			FailSubjects *[]string `json:"failSubjects"`
			FailTiles    *[]int    `json:"failTiles"`
		}
		if err := ec.Bind(&patch); err != nil {
			return ec.JSON(http.StatusBadRequest, map[string]string{"error": "invalid_body", "message": "invalid json"})
		}
		current := c.Faults()
		if patch.FailAll != nil {
			current.FailAll = *patch.FailAll
		}
		if patch.FailSubjects != nil {
			current.FailSubjects = *patch.FailSubjects
		}
		if patch.FailTiles != nil {
			current.FailTiles = *patch.FailTiles
		}
		c.SetFaults(current)
		return ec.JSON(http.StatusOK, c.Faults())
	})
	g.POST("/reset", func(ec echo.Context) error {
		c.Reset()
		return ec.JSON(http.StatusOK, c.Faults())
	})
	g.POST("/keys/:tile", func(ec echo.Context) error {
		tile, err := strconv.Atoi(ec.Param("tile"))
		if err != nil || tile < 0 {
			return ec.JSON(http.StatusBadRequest, map[string]string{"error": "invalid_tile", "message": "tile must be a non-negative integer"})
		}
		kind := buttons.Press
		if ec.QueryParam("dir") == "prev" {
			kind = buttons.Back
		}
		if !c.btns.Send(buttons.Event{Kind: kind, Key: tile}) {
			return ec.JSON(http.StatusServiceUnavailable, map[string]string{"error": "busy", "message": "key queue full"})
		}
		return ec.NoContent(http.StatusAccepted)
	})
	g.GET("/deck.png", func(ec echo.Context) error {
		var buf bytes.Buffer
		if err := png.Encode(&buf, c.deck.Sheet()); err != nil {
			return err
		}
		ec.Response().Header().Set(echo.HeaderCacheControl, "no-store")
		return ec.Blob(http.StatusOK, "image/png", buf.Bytes())
	})
}
