package http

import (
	"context"
	"net/http"
	"time"

	"csei-backend/internal/usecase/balance"

	"github.com/labstack/echo/v4"
)

// Pinger reports whether a dependency is reachable.
type Pinger func(ctx context.Context) error

type Handler struct {
	checks map[string]Pinger
}

func NewHandler(checks map[string]Pinger) *Handler { return &Handler{checks: checks} }

func (h *Handler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status, code := "ok", http.StatusOK
	deps := map[string]string{}
	for name, ping := range h.checks {
		if err := ping(ctx); err != nil {
			deps[name] = "down"
			status, code = "degraded", http.StatusServiceUnavailable
			continue
		}
		deps[name] = "up"
	}
	body := map[string]any{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	}
	if len(deps) > 0 {
		body["dependencies"] = deps
	}
	return c.JSON(code, body)
}

// BalanceSweeper runs one balance-change sweep on demand.
type BalanceSweeper interface {
	SweepOnce(ctx context.Context) (balance.SweepReport, error)
}

type NotificationHandler struct{ sweeper BalanceSweeper }

func NewNotificationHandler(s BalanceSweeper) *NotificationHandler {
	return &NotificationHandler{sweeper: s}
}

func (h *NotificationHandler) BalanceSweep(c echo.Context) error {
	report, err := h.sweeper.SweepOnce(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}
