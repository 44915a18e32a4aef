package echoapi

import (
	"io"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/ecowaste/dashboard/core/quiz"
)

const maxRawQuizSize = "1M"

type quizApi struct {
	svc        *quiz.Service
	recorder   quiz.Recorder
	validate   *validator.Validate
	translator ut.Translator
}

func registerQuizAPI(
	g *echo.Group,
	auth echo.MiddlewareFunc,
	svc *quiz.Service,
	recorder quiz.Recorder,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := quizApi{
		svc:        svc,
		recorder:   recorder,
		validate:   validate,
		translator: translator,
	}

	qg := g.Group("/quiz")

	// un-authed endpoints
	qg.POST("/normalize", api.normalize, middleware.BodyLimit(maxRawQuizSize))

	// authed endpoints
	qg.GET("", api.fetch, auth)
	qg.POST("/answer", api.answer, auth)
	g.GET("/awareness", api.awareness, auth)
}

// Handlers

func (api *quizApi) fetch(ctx echo.Context) error {
	fetched, err := api.svc.Fetch(ctx.Request().Context(), contextToken(ctx), ctx.QueryParam("topic"))
	if err != nil {
		return errors.Wrap(err, "fetching quiz")
	}
	return ctx.JSON(http.StatusOK, fetched)
}

// normalize turns whatever quiz payload was posted into the canonical quiz, without asking the backend.
func (api *quizApi) normalize(ctx echo.Context) error {
	raw, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return errors.Wrap(err, "reading quiz payload")
	}

	res := quiz.Parse(raw)
	fetched := quiz.Inspect(res)
	if api.recorder != nil {
		api.recorder.QuizParsed(res.Method, fetched.Issues)
	}
	return ctx.JSON(http.StatusOK, fetched)
}

func (api *quizApi) answer(ctx echo.Context) error {
	var data quiz.AnswerRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AnswerRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	res, err := api.svc.Submit(ctx.Request().Context(), contextToken(ctx), data)
	if err != nil {
		return errors.Wrap(err, "submitting answer")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *quizApi) awareness(ctx echo.Context) error {
	aw, err := api.svc.Awareness(ctx.Request().Context(), contextToken(ctx), ctx.QueryParam("topic"))
	if err != nil {
		return errors.Wrap(err, "fetching awareness tip")
	}
	return ctx.JSON(http.StatusOK, aw)
}
