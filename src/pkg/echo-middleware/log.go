package echomw

import (
	"github.com/labstack/echo/v4"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
)

// quietRoutes are polled often (health checks, thumbnails); they log at Verbose.
var quietRoutes = map[string]bool{
	"/health":               true,
	"/files/:index/preview": true,
}

func RouteAccessLoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		LogRouteAccess(c, tl.Info, "Accessing route", palette.Blue)
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		LogRouteAccess(c, tl.Info1, "Route accessed", palette.Green)
		return nil
	}
}

// LogRouteAccess logs method, route, status and client IP of the current request.
func LogRouteAccess(c echo.Context, logLevel tl.LogLevel, actionName string, colorizer palette.Colorizer) {
	if quietRoutes[c.Path()] {
		logLevel = tl.Verbose
		colorizer = palette.CyanDim
	}
	tl.Log(
		logLevel, colorizer, "%s: Method='%s', Path='%s', Status='%s', ClientIP='%s'",
		actionName, c.Request().Method, c.Path(), c.Response().Status, c.RealIP(),
	)
}
