package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordBooking(t *testing.T) {
	before := testutil.ToFloat64(BookingsTotal.WithLabelValues("created"))
	RecordBooking("created")
	RecordBooking("created")
	assert.Equal(t, before+2, testutil.ToFloat64(BookingsTotal.WithLabelValues("created")))
}

func TestRecordAvailability(t *testing.T) {
	before := testutil.ToFloat64(AvailabilityRequestsTotal)
	RecordAvailability()
	assert.Equal(t, before+1, testutil.ToFloat64(AvailabilityRequestsTotal))
}

func TestRecordHTTPRequest(t *testing.T) {
	c := HTTPRequestsTotal.WithLabelValues("GET", "/bookings", "200")
	before := testutil.ToFloat64(c)
	RecordHTTPRequest("GET", "/bookings", "200", 0.01)
	assert.Equal(t, before+1, testutil.ToFloat64(c))
}

func TestRecordGRPCRequest(t *testing.T) {
	c := GRPCRequestsTotal.WithLabelValues("/booking.v1.BookingService/ListBookings", "OK")
	before := testutil.ToFloat64(c)
	RecordGRPCRequest("/booking.v1.BookingService/ListBookings", "OK")
	assert.Equal(t, before+1, testutil.ToFloat64(c))
}

func TestSetStoreReady(t *testing.T) {
	SetStoreReady(true)
	assert.Equal(t, float64(1), testutil.ToFloat64(StoreReady))
	SetStoreReady(false)
	assert.Equal(t, float64(0), testutil.ToFloat64(StoreReady))
}
