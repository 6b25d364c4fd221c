package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tweetfi/tweetfi-service/internal/api/handler"
	"github.com/tweetfi/tweetfi-service/internal/api/middleware"
	"github.com/tweetfi/tweetfi-service/internal/core/domain"
	"github.com/tweetfi/tweetfi-service/internal/core/ports"
)

const banner = "TweetFi service is running"

// Deps carries everything the router needs. JWTSecret empty leaves the
// write routes open and disables /auth.
type Deps struct {
	Log          zerolog.Logger
	JWTSecret    string
	Auth         ports.AuthService
	Actions      ports.ActionService
	Queue        ports.ActionQueue
	Accounts     ports.AccountRepository
	Source       string
	HealthChecks map[string]handler.HealthCheck
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))

	// --- Probes and metrics (no auth required) ---
	health := handler.NewHealthHandler(d.HealthChecks)
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, banner) })
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	twitter := handler.NewTwitterHandler(d.Actions, d.Queue, d.Accounts, d.Source, d.Log)

	// Reads stay public; writes need an operator token once a secret is set.
	api := e.Group("/api/twitter")
	api.GET("/latest/:username", twitter.Latest)
	api.GET("/summary", twitter.Summary)

	var guard []echo.MiddlewareFunc
	if d.JWTSecret != "" {
		guard = []echo.MiddlewareFunc{middleware.Auth(d.JWTSecret), middleware.RBAC(domain.RoleAdmin, domain.RoleOperator)}

		auth := handler.NewAuthHandler(d.Auth)
		e.POST("/auth/login", auth.Login)
		e.POST("/auth/register", auth.Register, middleware.Auth(d.JWTSecret), middleware.RBAC(domain.RoleAdmin))
	} else {
		d.Log.Warn().Msg("JWT_SECRET not set, write routes are unauthenticated")
	}
	api.POST("/like/:tweetId", twitter.Like, guard...)
	api.POST("/retweet/:tweetId", twitter.Retweet, guard...)
	api.POST("/reply/:tweetId", twitter.Reply, guard...)
	api.POST("/actions/batch", twitter.Batch, guard...)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency.Round(time.Microsecond)).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
