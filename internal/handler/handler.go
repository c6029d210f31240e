package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"slot-booking-api/internal/booking"
)

const greeting = "Booking backend is running."

type ErrorResponse struct {
	Error string `json:"error"`
}

type Handler struct {
	svc    *booking.Service
	health func(context.Context) error
}

// New wires the HTTP handlers. health reports whether the store is
// reachable; nil means always healthy.
func New(svc *booking.Service, health func(context.Context) error) *Handler {
	if health == nil {
		health = func(context.Context) error { return nil }
	}
	return &Handler{svc: svc, health: health}
}

func (h *Handler) Root(c *gin.Context) {
	c.String(http.StatusOK, greeting)
}

func (h *Handler) Health(c *gin.Context) {
	if err := h.health(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// fail maps client errors to 400 and everything else to 500, passing the
// underlying message through.
func fail(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	if booking.IsClientError(err) {
		code = http.StatusBadRequest
	}
	_ = c.Error(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}
