package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ecowaste/dashboard/core/rewards"
)

type rewardsApi struct {
	svc      *rewards.Service
	validate *validator.Validate
}

func registerRewardsAPI(g *echo.Group, auth echo.MiddlewareFunc, svc *rewards.Service, validate *validator.Validate) {
	api := rewardsApi{svc: svc, validate: validate}

	rg := g.Group("/rewards", auth)
	rg.GET("", api.query)
	rg.GET("/categories", api.queryCategories)
	rg.GET("/category/:name", api.queryByCategory)
	rg.POST("/redeem", api.redeem)
	rg.GET("/my-redemptions", api.myRedemptions)
	rg.GET("/redemption/:id", api.redemption)
	rg.GET("/my-points", api.myPoints)

	lg := g.Group("/leaderboard", auth)
	lg.GET("", api.leaderboard)
	lg.GET("/user/:id", api.userRank)
	lg.GET("/badges/:id", api.badges)
}

// Handlers

func (api *rewardsApi) query(ctx echo.Context) error {
	r, err := api.svc.Rewards(ctx.Request().Context(), contextToken(ctx))
	if err != nil {
		return errors.Wrap(err, "querying rewards")
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *rewardsApi) queryCategories(ctx echo.Context) error {
	c, err := api.svc.Categories(ctx.Request().Context(), contextToken(ctx))
	if err != nil {
		return errors.Wrap(err, "querying reward categories")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *rewardsApi) queryByCategory(ctx echo.Context) error {
	r, err := api.svc.RewardsByCategory(ctx.Request().Context(), contextToken(ctx), ctx.Param("name"))
	if err != nil {
		return errors.Wrap(err, "querying rewards by category")
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *rewardsApi) redeem(ctx echo.Context) error {
	var data rewards.RedeemRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RedeemRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	r, err := api.svc.Redeem(ctx.Request().Context(), contextToken(ctx), data)
	if err != nil {
		return errors.Wrap(err, "redeeming reward")
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *rewardsApi) myRedemptions(ctx echo.Context) error {
	r, err := api.svc.MyRedemptions(ctx.Request().Context(), contextToken(ctx))
	if err != nil {
		return errors.Wrap(err, "querying redemptions")
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *rewardsApi) redemption(ctx echo.Context) error {
	r, err := api.svc.Redemption(ctx.Request().Context(), contextToken(ctx), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "retrieving redemption")
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *rewardsApi) myPoints(ctx echo.Context) error {
	p, err := api.svc.MyPoints(ctx.Request().Context(), contextToken(ctx))
	if err != nil {
		return errors.Wrap(err, "retrieving points")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *rewardsApi) leaderboard(ctx echo.Context) error {
	l, err := api.svc.Leaderboard(ctx.Request().Context(), contextToken(ctx))
	if err != nil {
		return errors.Wrap(err, "querying leaderboard")
	}
	return ctx.JSON(http.StatusOK, l)
}

func (api *rewardsApi) userRank(ctx echo.Context) error {
	e, err := api.svc.UserRank(ctx.Request().Context(), contextToken(ctx), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "retrieving user rank")
	}
	return ctx.JSON(http.StatusOK, e)
}

func (api *rewardsApi) badges(ctx echo.Context) error {
	b, err := api.svc.Badges(ctx.Request().Context(), contextToken(ctx), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying badges")
	}
	return ctx.JSON(http.StatusOK, b)
}
