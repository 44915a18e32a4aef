package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type healthResponse struct {
	Status   string `json:"status"`
	Upstream string `json:"upstream"`
	Service  string `json:"service,omitempty"`
	Error    string `json:"error,omitempty"`
}

// health reports the gateway as up, and whether the backend answers.
// The gateway stays healthy when the backend does not.
func health(upstream HealthChecker) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		resp := healthResponse{Status: "ok", Upstream: "unknown"}
		if upstream == nil {
			return ctx.JSON(http.StatusOK, resp)
		}

		h, err := upstream.Health(ctx.Request().Context())
		if err != nil {
			resp.Upstream = "unavailable"
			resp.Error = err.Error()
			return ctx.JSON(http.StatusOK, resp)
		}
		resp.Upstream = h.Status
		resp.Service = h.Service
		return ctx.JSON(http.StatusOK, resp)
	}
}
