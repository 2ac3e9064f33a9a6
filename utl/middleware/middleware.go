package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/swagftw/minichain/utl/common"
	"github.com/swagftw/minichain/utl/jwt"
	"github.com/swagftw/minichain/utl/server/fault"
)

// JwtMiddleware makes JWT implement the JwtMiddleware interface.
func JwtMiddleware(tokenParser jwt.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tk := c.Request().Header.Get("Authorization")
			if tk == "" {
				tk = "Bearer " + c.QueryParam("token")
			}

			token, err := tokenParser.ParseToken(tk)
			if err != nil || !token.Valid {
				return fault.New(fault.CodeUnauthorized, "invalid token", http.StatusUnauthorized)
			}

			c = common.MapJwtClaimToEchoContext(c, token)

			return next(c)
		}
	}
}
