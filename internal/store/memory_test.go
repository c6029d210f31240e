package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slot-booking-api/internal/model"
)

func TestMemoryListEmpty(t *testing.T) {
	m := NewMemory()
	got, err := m.ListBookings(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMemoryCreateAssignsIncreasingIDs(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	a, err := m.CreateBooking(ctx, model.NewBooking{UserID: "u1", Service: "Haircut", Date: "2024-05-01", Time: "10:00 AM"})
	require.NoError(t, err)
	b, err := m.CreateBooking(ctx, model.NewBooking{UserID: "u2", Service: "Shave", Date: "2024-05-01", Time: "10:00 AM"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)
	assert.False(t, a.CreatedAt.IsZero())
	assert.Equal(t, "u1", a.UserID)
	assert.Equal(t, "Haircut", a.Service)
}

func TestMemoryListOrdering(t *testing.T) {
	m := NewMemory()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	m.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	ctx := context.Background()

	for _, nb := range []model.NewBooking{
		{UserID: "a", Service: "s", Date: "2024-05-02", Time: "08:00 AM"},
		{UserID: "b", Service: "s", Date: "2024-05-01", Time: "10:00 AM"},
		{UserID: "c", Service: "s", Date: "2024-05-01", Time: "08:00 AM"},
		{UserID: "d", Service: "s", Date: "2024-05-01", Time: "02:00 PM"},
		{UserID: "e", Service: "s", Date: "2024-05-01", Time: "08:00 AM"},
	} {
		_, err := m.CreateBooking(ctx, nb)
		require.NoError(t, err)
	}

	got, err := m.ListBookings(ctx)
	require.NoError(t, err)

	var users []string
	for _, b := range got {
		users = append(users, b.UserID)
	}
	// byte-wise time order, creation order breaks ties
	assert.Equal(t, []string{"d", "c", "e", "b", "a"}, users)
}

func TestMemoryBookedTimes(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	for _, nb := range []model.NewBooking{
		{UserID: "a", Service: "s", Date: "2024-05-01", Time: "08:00 AM"},
		{UserID: "b", Service: "s", Date: "2024-05-01", Time: "08:00 AM"},
		{UserID: "c", Service: "s", Date: "2024-05-01", Time: "03:00 PM"},
		{UserID: "d", Service: "s", Date: "2024-05-02", Time: "11:00 AM"},
	} {
		_, err := m.CreateBooking(ctx, nb)
		require.NoError(t, err)
	}

	got, err := m.BookedTimes(ctx, "2024-05-01")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"08:00 AM", "03:00 PM"}, got)

	got, err = m.BookedTimes(ctx, "2024-5-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryCancelledContext(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.CreateBooking(ctx, model.NewBooking{UserID: "u", Service: "s", Date: "d", Time: "t"})
	assert.ErrorIs(t, err, context.Canceled)
	_, err = m.ListBookings(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = m.BookedTimes(ctx, "d")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryConcurrentCreate(t *testing.T) {
	m := NewMemory()
	const n = 20

	var wg sync.WaitGroup
	ids := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := m.CreateBooking(context.Background(), model.NewBooking{
				UserID: "u", Service: "s", Date: "2024-05-01", Time: "10:00 AM",
			})
			if err != nil {
				t.Errorf("create: %v", err)
				return
			}
			ids <- b.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int64]bool{}
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}
