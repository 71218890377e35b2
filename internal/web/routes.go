package web

import (
	"io/fs"
	"net/http"

	"github.com/labstack/echo/v4"
)

// RegisterAPIV1 mounts the control API under /api/v1.
func RegisterAPIV1(e *echo.Echo, d Deps) {
	d = d.withDefaults()
	g := e.Group("/api/v1")
	g.GET("/health", handleHealth(d))
	g.GET("/widgets", handleListWidgets(d))
	g.GET("/widgets/:id", handleGetWidget(d))
	g.POST("/widgets/:id/press", handlePress(d))
	g.PUT("/widgets/:id/settings", handleWidgetSettings(d))
	g.GET("/settings", handleGetSettings(d))
	g.PUT("/settings", handlePutSettings(d))
}

// RegisterUI serves the embedded settings page at the root.
func RegisterUI(e *echo.Echo, ui fs.FS) {
	if ui == nil {
		return
	}
	e.GET("/*", echo.WrapHandler(http.FileServer(http.FS(ui))))
}
