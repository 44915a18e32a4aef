package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/ecowaste/dashboard/core"
	"github.com/ecowaste/dashboard/core/classify"
)

const (
	maxImageSize = "10M"
	imageField   = "file"
)

var errImageRequired = "an image file is required"

type classifyApi struct {
	svc      *classify.Service
	validate *validator.Validate
}

func registerClassifyAPI(g *echo.Group, auth echo.MiddlewareFunc, svc *classify.Service, validate *validator.Validate) {
	api := classifyApi{svc: svc, validate: validate}

	cg := g.Group("/classify", auth)
	cg.POST("", api.classifyText)
	cg.POST("/image", api.classifyImage, middleware.BodyLimit(maxImageSize))

	g.POST("/guide", api.guide, auth)
}

// Handlers

func (api *classifyApi) classifyText(ctx echo.Context) error {
	var data classify.ClassifyRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ClassifyRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	c, err := api.svc.ClassifyText(ctx.Request().Context(), contextToken(ctx), data)
	if err != nil {
		return errors.Wrap(err, "classifying item")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *classifyApi) classifyImage(ctx echo.Context) error {
	fh, err := ctx.FormFile(imageField)
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: imageField, Error: errImageRequired})
	}
	file, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded image")
	}
	defer file.Close()

	c, err := api.svc.ClassifyImage(ctx.Request().Context(), contextToken(ctx), fh.Filename, file)
	if err != nil {
		return errors.Wrap(err, "classifying image")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *classifyApi) guide(ctx echo.Context) error {
	var data classify.GuideRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GuideRequest")
	}

	guide, err := api.svc.Guide(ctx.Request().Context(), contextToken(ctx), data)
	if err != nil {
		return errors.Wrap(err, "fetching recycling guide")
	}
	return ctx.JSON(http.StatusOK, guide)
}
