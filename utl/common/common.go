package common

import (
	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
)

// SubjectKey is the echo context key holding the authenticated subject.
const SubjectKey = "subject"

func MapJwtClaimToEchoContext(c echo.Context, token *jwt.Token) echo.Context {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c
	}

	subject, ok := claims["sub"].(string)
	if ok {
		c.Set(SubjectKey, subject)
	}

	return c
}

// Subject returns the authenticated subject, or "" for anonymous requests.
func Subject(c echo.Context) string {
	subject, _ := c.Get(SubjectKey).(string)

	return subject
}
