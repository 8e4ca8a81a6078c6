package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"csei-backend/internal/adapter/middleware"
	"csei-backend/internal/infrastructure/observability"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"golang.org/x/time/rate"
)

type RouterConfig struct {
	Health        *Handler
	Prospects     *ProspectHandler
	Loans         *LoanHandler
	Notifications *NotificationHandler

	JWTSecret []byte
	// Redis backs the idempotency middleware; nil disables it.
	Redis               *redis.Client
	IdempotencyTTL      time.Duration
	IntakeRatePerMinute int
}

func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = errorHandler

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(requestLogger())
	e.Use(instrument)

	e.GET("/health", cfg.Health.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	auth := middleware.RequireAuth(cfg.JWTSecret)
	admin := []echo.MiddlewareFunc{auth, middleware.RequireAdmin}

	e.POST("/prospects", cfg.Prospects.Submit, intakeLimiter(cfg.IntakeRatePerMinute))
	e.PATCH("/prospects/:id", cfg.Prospects.Review, admin...)

	submit := []echo.MiddlewareFunc{auth}
	if cfg.Redis != nil {
		submit = append(submit, middleware.Idempotency(cfg.Redis, cfg.IdempotencyTTL))
	}
	loans := e.Group("/loan-applications")
	loans.POST("", cfg.Loans.Submit, submit...)
	loans.GET("/my-applications", cfg.Loans.ListMine, auth)
	loans.POST("/engagement-letter", cfg.Loans.UploadEngagementLetter, auth)
	loans.GET("/:id/engagement-letter", cfg.Loans.EngagementLetterLink, auth)
	loans.GET("", cfg.Loans.List, admin...)
	loans.GET("/stats", cfg.Loans.Stats, admin...)
	loans.GET("/:id", cfg.Loans.Get, admin...)
	loans.PUT("/:id/review", cfg.Loans.Review, admin...)

	e.POST("/notifications/balance-sweep", cfg.Notifications.BalanceSweep, admin...)
	return e
}

// errorHandler renders echo errors (404, 405, 401 from handlers) in the
// same payload shape as domain errors.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code, msg := http.StatusInternalServerError, "internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	} else {
		observability.Logger.ErrorContext(c.Request().Context(), "unhandled error", "path", c.Path(), "error", err)
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, ErrorResponse{Error: msg})
}

func requestLogger() echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
				"request_id", v.RequestID,
				"remote_ip", v.RemoteIP,
			}
			if v.Error != nil {
				observability.Logger.ErrorContext(c.Request().Context(), "request", append(attrs, "error", v.Error)...)
				return nil
			}
			observability.Logger.InfoContext(c.Request().Context(), "request", attrs...)
			return nil
		},
	})
}

// instrument opens a server span and records request metrics per route.
func instrument(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		ctx := otel.GetTextMapPropagator().Extract(req.Context(), propagation.HeaderCarrier(req.Header))
		route := c.Path()
		if route == "" {
			route = "unmatched"
		}
		ctx, span := observability.StartSpan(ctx, req.Method+" "+route,
			attribute.String("http.request.method", req.Method),
			attribute.String("http.route", route),
		)
		c.SetRequest(req.WithContext(ctx))

		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		status := c.Response().Status
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		var spanErr error
		if status >= http.StatusInternalServerError {
			spanErr = fmt.Errorf("http %d", status)
		}
		observability.EndSpan(span, spanErr)
		observability.HTTPRequests.WithLabelValues(req.Method, route, strconv.Itoa(status)).Inc()
		observability.HTTPDuration.WithLabelValues(req.Method, route).Observe(time.Since(start).Seconds())
		return nil
	}
}

// intakeLimiter throttles the public intake endpoint per client IP.
func intakeLimiter(perMinute int) echo.MiddlewareFunc {
	if perMinute <= 0 {
		perMinute = 20
	}
	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(perMinute) / 60),
		Burst:     perMinute,
		ExpiresIn: 3 * time.Minute,
	})
	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, ErrorResponse{Error: "cannot identify client"})
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "too many requests"})
		},
	})
}
