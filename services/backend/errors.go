package backendsvc

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

const maxDetailLen = 512

var (
	// errors
	ErrUnauthorized = errors.New("backend: unauthorized")
	ErrForbidden    = errors.New("backend: forbidden")
	ErrNotFound     = errors.New("backend: not found")
)

// APIError is an error status returned by the backend.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("backend: %d %s", e.Status, e.Detail)
}

// Is matches the sentinel errors of the statuses they stand for.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// Temporary reports whether trying again later may succeed.
func (e *APIError) Temporary() bool {
	return e.Status >= http.StatusInternalServerError || e.Status == http.StatusTooManyRequests
}

// TransportError is a request that got no reply at all.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backend: %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Canceled reports whether the caller gave up on the request.
func (e *TransportError) Canceled() bool {
	return errors.Is(e.Err, context.Canceled)
}

// Timeout reports whether the request ran out of time.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(e.Err, &t) && t.Timeout()
}

func handleResponse(resp *resty.Response) error {
	if !resp.IsError() {
		return nil
	}
	return &APIError{Status: resp.StatusCode(), Detail: errorDetail(resp.Body())}
}

// errorDetail reads the message of an error body: {"detail": "..."}, {"detail": {"error": "..."}},
// {"error": "..."} or {"message": "..."}. Anything else is kept as text, truncated.
func errorDetail(body []byte) string {
	var detail string
	if gjson.ValidBytes(body) {
		v := gjson.ParseBytes(body)
		for _, path := range []string{"detail.detail", "detail.error", "detail", "error", "message"} {
			if d := v.Get(path); d.Exists() && d.Type != gjson.Null {
				if d.Type == gjson.String {
					detail = d.Str
				} else {
					detail = d.Raw
				}
				break
			}
		}
	}
	if detail == "" {
		detail = string(body)
	}

	detail = strings.TrimSpace(detail)
	if len(detail) > maxDetailLen {
		cut := maxDetailLen
		for cut > 0 && !utf8.RuneStart(detail[cut]) {
			cut--
		}
		detail = detail[:cut] + "..."
	}
	return detail
}
