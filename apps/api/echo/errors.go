package echoapi

import (
	"fmt"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ecowaste/dashboard/core"
	"github.com/ecowaste/dashboard/core/classify"
	"github.com/ecowaste/dashboard/core/quiz"
	backendsvc "github.com/ecowaste/dashboard/services/backend"
	metricsvc "github.com/ecowaste/dashboard/services/metrics"
)

// statusClientClosedRequest is used when the caller went away before the backend answered.
const statusClientClosedRequest = 499

var (
	errMissingToken = echo.NewHTTPError(http.StatusUnauthorized, "missing or malformed bearer token")

	msgBackendUnavailable = "The backend is unavailable. Please try again."
	msgBackendTimeout     = "The backend took too long to answer. Please try again."
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
func newAppHTTPErrorHandler(
	logger core.Logger,
	translator ut.Translator,
	metrics *metricsvc.Service,
) echo.HTTPErrorHandler {
	upstreamFailed := func(kind string) {
		if metrics != nil {
			metrics.UpstreamFailed(kind)
		}
	}

	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		cause := errors.Cause(err)
		if msg, ok := emptyReplyMessage(cause); ok {
			upstreamFailed("empty_reply")
			logger.Warn(cause.Error(), logArgs(ctx, map[string]interface{}{"path": ctx.Path()})...)
			respond(ctx, err, http.StatusBadGateway, msg)
			return
		}

		switch origErr := cause.(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				if translator != nil {
					fldErrs[vErr.Field()] = vErr.Translate(translator)
				} else {
					fldErrs[vErr.Field()] = vErr.Error()
				}
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		case *backendsvc.APIError:
			code, message = upstreamStatus(origErr)
			if code >= http.StatusInternalServerError {
				upstreamFailed(fmt.Sprintf("status_%d", origErr.Status))
				logger.Warn("backend error", logArgs(ctx, errors.Wrap(err, "backend error"))...)
			}
		case *backendsvc.TransportError:
			switch {
			case origErr.Canceled():
				code = statusClientClosedRequest
				message = http.StatusText(http.StatusRequestTimeout)
			case origErr.Timeout():
				upstreamFailed("timeout")
				code = http.StatusGatewayTimeout
				message = msgBackendTimeout
			default:
				upstreamFailed("unavailable")
				logger.Warn("backend unreachable", logArgs(ctx, errors.Wrap(err, "backend unreachable"))...)
				code = http.StatusBadGateway
				message = msgBackendUnavailable
			}
		default: // any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			logger.Error(msg, logArgs(ctx, errors.Wrap(err, msg))...)
		}

		respond(ctx, err, code, message)
	}
}

// emptyReplyMessage tells the user what was missing from a backend reply with nothing usable in it.
func emptyReplyMessage(err error) (string, bool) {
	switch err {
	case quiz.ErrNoQuiz:
		return "No quiz data received from backend. Please try again.", true
	case quiz.ErrNoAwareness:
		return "No awareness tip received from backend. Please try again.", true
	case classify.ErrNoClassification:
		return "No classification received from backend. Please try again.", true
	}
	return "", false
}

// upstreamStatus maps a backend error status onto the one the gateway answers with.
func upstreamStatus(err *backendsvc.APIError) (int, interface{}) {
	detail := err.Detail
	switch err.Status {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound, http.StatusConflict:
		if detail == "" {
			detail = http.StatusText(err.Status)
		}
		return err.Status, detail
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if detail == "" {
			detail = http.StatusText(http.StatusBadRequest)
		}
		return http.StatusBadRequest, detail
	case http.StatusTooManyRequests:
		return http.StatusTooManyRequests, msgBackendUnavailable
	}
	return http.StatusBadGateway, msgBackendUnavailable
}

// logArgs adds the user the request is made for, when known.
func logArgs(ctx echo.Context, args ...interface{}) []interface{} {
	if person, ok := contextPerson(ctx); ok {
		args = append(args, person)
	}
	return args
}

func respond(ctx echo.Context, err error, code int, message interface{}) {
	if ctx.Echo().Debug {
		message = err.Error()
	}
	if m, ok := message.(string); ok {
		message = echo.Map{"error": m}
	}

	// Send response
	if !ctx.Response().Committed {
		if ctx.Request().Method == http.MethodHead { // Issue #608
			err = ctx.NoContent(code)
		} else {
			err = ctx.JSON(code, message)
		}
		if err != nil {
			ctx.Echo().Logger.Error(err)
		}
	}
}
