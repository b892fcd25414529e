package auth

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"libstack/internal/errors"
	"libstack/internal/model"
	"libstack/internal/repository"
)

// accountContextKey is where LoadAccount stores the resolved *model.User.
const accountContextKey = "account"

func unauthorized() error {
	return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
		Error: "Invalid or expired token. Please log in again.",
		Code:  "UNAUTHENTICATED",
	})
}

// Guard returns middleware that extracts the bearer token and validates it
// through the JWT service. The parsed *Claims end up in the request context
// for LoadAccount. Every failure mode yields the same 401 response.
func Guard(jwtService *JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey: accountContextKey,
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			return jwtService.ValidateToken(tokenString)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return unauthorized()
		},
	})
}

// LoadAccount resolves the validated token subject to an active User and
// replaces the claims in the context with the account. Missing or
// deactivated accounts get the same 401 as a bad token.
func LoadAccount(users repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(accountContextKey).(*Claims)
			if !ok {
				return unauthorized()
			}

			user, err := users.FindByUsername(c.Request().Context(), claims.Username)
			if err != nil || !user.IsActive {
				return unauthorized()
			}

			c.Set(accountContextKey, user)
			return next(c)
		}
	}
}

// AccountFromContext returns the authenticated account placed by LoadAccount.
func AccountFromContext(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(accountContextKey).(*model.User)
	return user, ok
}
