package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// OperatorClaims is the token payload issued by AuthService.Login.
type OperatorClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Auth verifies an HS256 bearer token and stores the operator's username,
// role and id on the echo context.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	keyFunc := func(*jwt.Token) (interface{}, error) { return []byte(jwtSecret), nil }

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			scheme, raw, found := strings.Cut(c.Request().Header.Get(echo.HeaderAuthorization), " ")
			if scheme == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}
			if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(raw) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			var claims OperatorClaims
			tkn, err := parser.ParseWithClaims(strings.TrimSpace(raw), &claims, keyFunc)
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			if claims.Username == "" || claims.Role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing operator identity")
			}

			c.Set("username", claims.Username)
			c.Set("role", claims.Role)
			c.Set("operator_id", claims.Subject)

			return next(c)
		}
	}
}
