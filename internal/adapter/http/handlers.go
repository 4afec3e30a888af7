package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	started time.Time
	now     func() time.Time
}

func NewHandler(started time.Time) *Handler {
	return &Handler{started: started, now: time.Now}
}

func (h *Handler) Health(c echo.Context) error {
	now := h.now().UTC()
	return c.JSON(http.StatusOK, map[string]any{
		"status":    "OK",
		"timestamp": now.Format(time.RFC3339Nano),
		"uptime":    now.Sub(h.started).Seconds(),
	})
}
