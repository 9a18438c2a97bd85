package api

import (
	"context"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"

	"github.com/datallboy/godemo/internal/api/controllers"
	"github.com/datallboy/godemo/internal/app"
	"github.com/datallboy/godemo/internal/progress"
)

// RegisterRoutes mounts the API. Background downloads started by requests run
// on ctx; the returned controller lets the caller wait for them on shutdown.
func RegisterRoutes(ctx context.Context, e *echo.Echo, app *app.Context, hub *progress.Hub) *controllers.DemoController {

	// Middleware: Request Logger
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c *echo.Context, v middleware.RequestLoggerValues) error {
			app.Logger.Info("%s %s | %d | %s", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))

	demoCtrl := &controllers.DemoController{App: app, Hub: hub, BaseCtx: ctx}
	eventsCtrl := &controllers.EventsController{Hub: hub}
	prefCtrl := &controllers.PreferencesController{App: app}
	historyCtrl := &controllers.HistoryController{App: app}

	e.POST("/api/download", demoCtrl.HandleDownload)
	e.POST("/api/resolve", demoCtrl.HandleResolve)
	e.POST("/api/batch", demoCtrl.HandleBatch)
	e.POST("/api/retry", demoCtrl.HandleRetry)

	// Server-sent events for progress bars and status lines
	e.GET("/api/events", eventsCtrl.Stream)

	e.GET("/api/preferences/:key", prefCtrl.Get)
	e.PUT("/api/preferences/:key", prefCtrl.Put)

	e.GET("/api/history", historyCtrl.List)

	return demoCtrl
}
