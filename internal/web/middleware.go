package web

import (
	"time"

	"github.com/labstack/echo/v4"
)

// requestLog logs one line per request with the component-tagged logger.
func requestLog(l logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			req := c.Request()
			status := c.Response().Status
			if status >= 500 {
				l.Errorf("web", "%s %s %d %s", req.Method, req.URL.Path, status, time.Since(start))
			} else {
				l.Infof("web", "%s %s %d %s", req.Method, req.URL.Path, status, time.Since(start))
			}
			return nil
		}
	}
}
