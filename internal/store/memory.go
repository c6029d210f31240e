package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"slot-booking-api/internal/model"
)

// Memory is an in-process booking store with the same ordering rules as
// Store. Contents are lost when the process exits.
type Memory struct {
	mu     sync.RWMutex
	rows   []model.Booking
	nextID int64
	now    func() time.Time
}

func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) ListBookings(ctx context.Context) ([]model.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	out := make([]model.Booking, len(m.rows))
	copy(out, m.rows)
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out, nil
}

func (m *Memory) BookedTimes(ctx context.Context, date string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := map[string]bool{}
	var out []string
	for _, b := range m.rows {
		if b.Date != date || seen[b.Time] {
			continue
		}
		seen[b.Time] = true
		out = append(out, b.Time)
	}
	return out, nil
}

func (m *Memory) CreateBooking(ctx context.Context, nb model.NewBooking) (model.Booking, error) {
	if err := ctx.Err(); err != nil {
		return model.Booking{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	b := model.Booking{
		ID:        m.nextID,
		UserID:    nb.UserID,
		Service:   nb.Service,
		Date:      nb.Date,
		Time:      nb.Time,
		CreatedAt: m.now().UTC(),
	}
	m.rows = append(m.rows, b)
	return b, nil
}
