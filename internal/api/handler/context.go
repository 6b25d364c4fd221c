package handler

import (
	"github.com/labstack/echo/v4"
)

// ctxOperator returns the caller injected by the Auth middleware. Both values
// are empty when the gateway runs without JWT_SECRET.
func ctxOperator(c echo.Context) (username, role string) {
	username, _ = c.Get("username").(string)
	role, _ = c.Get("role").(string)
	return username, role
}
