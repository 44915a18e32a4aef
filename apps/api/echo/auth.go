package echoapi

import (
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"

	"github.com/ecowaste/dashboard/core"
)

const (
	contextTokenKey  = "token"
	contextClaimsKey = "claims"

	bearerScheme = "Bearer"
)

// Claims are the parts of the session token the gateway reads.
// Tokens are verified by the backend; the gateway only uses them to label logs.
type Claims struct {
	jwt.StandardClaims
	Email string `json:"email,omitempty"`
}

// bearerAuth stores the bearer token of the request, and its claims when it is a JWT.
// A missing token is rejected when required.
func bearerAuth(required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			token, ok := bearerToken(ctx.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				if required {
					return errMissingToken
				}
				return next(ctx)
			}

			ctx.Set(contextTokenKey, token)
			claims := new(Claims)
			if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err == nil {
				ctx.Set(contextClaimsKey, claims)
			}
			return next(ctx)
		}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}
	if token = strings.TrimSpace(token); token == "" {
		return "", false
	}
	return token, true
}

func contextToken(ctx echo.Context) string {
	token, _ := ctx.Get(contextTokenKey).(string)
	return token
}

func getContextClaims(ctx echo.Context) (Claims, bool) {
	if claims, ok := ctx.Get(contextClaimsKey).(*Claims); ok {
		return *claims, true
	}
	return Claims{}, false
}

// contextPerson is the user a request is made for, as far as its token tells.
func contextPerson(ctx echo.Context) (core.Person, bool) {
	claims, ok := getContextClaims(ctx)
	if !ok || claims.Subject == "" {
		return core.Person{}, false
	}
	return core.Person{ID: claims.Subject, Email: claims.Email}, true
}
