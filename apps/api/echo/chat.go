package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ecowaste/dashboard/core/chat"
)

type chatApi struct {
	svc      *chat.Service
	validate *validator.Validate
}

func registerChatAPI(g *echo.Group, auth echo.MiddlewareFunc, svc *chat.Service, validate *validator.Validate) {
	api := chatApi{svc: svc, validate: validate}

	cg := g.Group("/chat", auth)
	cg.POST("", api.send)
	cg.GET("/history", api.history)
	cg.DELETE("/history", api.clear)
	cg.GET("/stats", api.stats)
}

// Handlers

func (api *chatApi) send(ctx echo.Context) error {
	var data chat.SendRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SendRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	reply, err := api.svc.Send(ctx.Request().Context(), contextToken(ctx), data)
	if err != nil {
		return errors.Wrap(err, "sending chat message")
	}
	return ctx.JSON(http.StatusOK, reply)
}

func (api *chatApi) history(ctx echo.Context) error {
	var query chat.HistoryQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(ctx, &query); err != nil {
		return errors.Wrap(err, "binding to HistoryQuery")
	}
	if err := query.Validate(api.validate); err != nil {
		return err
	}

	h, err := api.svc.History(ctx.Request().Context(), contextToken(ctx), query.Limit)
	if err != nil {
		return errors.Wrap(err, "fetching chat history")
	}
	return ctx.JSON(http.StatusOK, h)
}

func (api *chatApi) clear(ctx echo.Context) error {
	c, err := api.svc.Clear(ctx.Request().Context(), contextToken(ctx))
	if err != nil {
		return errors.Wrap(err, "clearing chat history")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *chatApi) stats(ctx echo.Context) error {
	s, err := api.svc.Stats(ctx.Request().Context(), contextToken(ctx))
	if err != nil {
		return errors.Wrap(err, "fetching chat stats")
	}
	return ctx.JSON(http.StatusOK, s)
}
