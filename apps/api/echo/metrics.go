package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	metricsvc "github.com/ecowaste/dashboard/services/metrics"
)

// metricsMiddleware times every request by route.
func metricsMiddleware(metrics *metricsvc.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)
			if err != nil {
				ctx.Error(err)
			}

			route := ctx.Path()
			if route == "" {
				route = "unmatched"
			}
			status := ctx.Response().Status
			if status == 0 {
				status = http.StatusOK
			}
			metrics.ObserveRequest(ctx.Request().Method, route, status, time.Since(start))
			return nil
		}
	}
}
