package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"slot-booking-api/internal/booking"
	"slot-booking-api/internal/model"
)

var errInvalidBody = errors.New("Invalid request body.")

type BookRequest struct {
	Service string `json:"service" binding:"required"`
	Date    string `json:"date" binding:"required"`
	Time    string `json:"time" binding:"required"`
	UserID  string `json:"user_id" binding:"required"`
}

type BookResponse struct {
	Message   string `json:"message"`
	BookingID int64  `json:"bookingId"`
}

func (h *Handler) ListBookings(c *gin.Context) {
	out, err := h.svc.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) Availability(c *gin.Context) {
	slots, err := h.svc.Availability(c.Request.Context(), c.Query("date"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

func (h *Handler) Book(c *gin.Context) {
	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var verr validator.ValidationErrors
		switch {
		case errors.As(err, &verr), errors.Is(err, io.EOF):
			// an empty body is just a request with every field missing
			fail(c, booking.ErrMissingFields)
		default:
			_ = c.Error(err)
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: errInvalidBody.Error()})
		}
		return
	}

	b, err := h.svc.Create(c.Request.Context(), model.NewBooking{
		UserID:  req.UserID,
		Service: req.Service,
		Date:    req.Date,
		Time:    req.Time,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, BookResponse{Message: booking.CreatedMessage, BookingID: b.ID})
}
