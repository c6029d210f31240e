package store

import (
	"context"
	"fmt"

	"slot-booking-api/internal/model"
)

// ListBookings returns every booking. date and time are compared byte-wise,
// so "02:00 PM" sorts before "08:00 AM".
func (s *Store) ListBookings(ctx context.Context) ([]model.Booking, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, service, date, time, created_at
		 FROM bookings
		 ORDER BY date COLLATE "C", time COLLATE "C", created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	out := []model.Booking{}
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.Service, &b.Date, &b.Time, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return out, nil
}

// BookedTimes returns the distinct times booked on date (exact match).
func (s *Store) BookedTimes(ctx context.Context, date string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT DISTINCT time FROM bookings WHERE date = $1`, date)
	if err != nil {
		return nil, fmt.Errorf("booked times: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan time: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("booked times: %w", err)
	}
	return out, nil
}

func (s *Store) CreateBooking(ctx context.Context, nb model.NewBooking) (model.Booking, error) {
	b := model.Booking{
		UserID:  nb.UserID,
		Service: nb.Service,
		Date:    nb.Date,
		Time:    nb.Time,
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO bookings (service, date, time, user_id)
		 VALUES ($1,$2,$3,$4)
		 RETURNING id, created_at`,
		nb.Service, nb.Date, nb.Time, nb.UserID,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return model.Booking{}, fmt.Errorf("insert booking: %w", err)
	}
	return b, nil
}
