// Package booking implements the booking operations shared by the HTTP and
// gRPC transports.
package booking

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"slot-booking-api/internal/catalog"
	"slot-booking-api/internal/metrics"
	"slot-booking-api/internal/model"
)

// Client input errors. The messages are part of the HTTP contract.
var (
	ErrDateRequired  = errors.New("A date query parameter is required.")
	ErrMissingFields = errors.New("Missing data. Please provide service, date, time, and user_id.")
)

// CreatedMessage is returned to the caller alongside the new booking id.
const CreatedMessage = "Booking received and saved successfully!"

type Store interface {
	ListBookings(ctx context.Context) ([]model.Booking, error)
	BookedTimes(ctx context.Context, date string) ([]string, error)
	CreateBooking(ctx context.Context, nb model.NewBooking) (model.Booking, error)
}

type Publisher interface {
	BookingCreated(ctx context.Context, b model.Booking) error
}

type Service struct {
	store Store
	pub   Publisher
	log   *zap.Logger
}

func NewService(st Store, pub Publisher, log *zap.Logger) *Service {
	return &Service{store: st, pub: pub, log: log}
}

func (s *Service) List(ctx context.Context) ([]model.Booking, error) {
	out, err := s.store.ListBookings(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Booking{}
	}
	return out, nil
}

func (s *Service) Availability(ctx context.Context, date string) ([]model.Slot, error) {
	if date == "" {
		return nil, ErrDateRequired
	}
	booked, err := s.store.BookedTimes(ctx, date)
	if err != nil {
		return nil, err
	}
	metrics.RecordAvailability()
	return catalog.Available(booked), nil
}

// Create persists a booking. Two bookings for the same date and time are
// both accepted.
func (s *Service) Create(ctx context.Context, nb model.NewBooking) (model.Booking, error) {
	if nb.Service == "" || nb.Date == "" || nb.Time == "" || nb.UserID == "" {
		metrics.RecordBooking("invalid")
		return model.Booking{}, ErrMissingFields
	}

	b, err := s.store.CreateBooking(ctx, nb)
	if err != nil {
		metrics.RecordBooking("failed")
		return model.Booking{}, err
	}
	metrics.RecordBooking("created")
	s.log.Info("booking saved",
		zap.Int64("booking_id", b.ID),
		zap.String("user_id", b.UserID),
	)

	// event delivery never fails the booking
	if err := s.pub.BookingCreated(ctx, b); err != nil {
		s.log.Warn("publish booking.created", zap.Int64("booking_id", b.ID), zap.Error(err))
	}
	return b, nil
}

// IsClientError reports whether err was caused by the caller's input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrDateRequired) || errors.Is(err, ErrMissingFields)
}
