// Package rpc exposes the booking operations over gRPC. Messages are
// google.protobuf.Struct values carrying the same field names as the HTTP
// JSON API, so no generated stubs are needed on either side.
package rpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"slot-booking-api/internal/booking"
	"slot-booking-api/internal/model"
)

const ServiceName = "booking.v1.BookingService"

const (
	MethodListBookings    = "/" + ServiceName + "/ListBookings"
	MethodGetAvailability = "/" + ServiceName + "/GetAvailability"
	MethodCreateBooking   = "/" + ServiceName + "/CreateBooking"
)

type BookingServer interface {
	ListBookings(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAvailability(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateBooking(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func Register(s grpc.ServiceRegistrar, srv BookingServer) {
	s.RegisterService(&serviceDesc, srv)
}

type Server struct {
	svc *booking.Service
	log *zap.Logger
}

func NewServer(svc *booking.Service, log *zap.Logger) *Server {
	return &Server{svc: svc, log: log}
}

func (s *Server) ListBookings(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	out, err := s.svc.List(ctx)
	if err != nil {
		return nil, s.toStatus(err)
	}
	rows := make([]any, len(out))
	for i, b := range out {
		rows[i] = bookingFields(b)
	}
	return build(map[string]any{"bookings": rows})
}

func (s *Server) GetAvailability(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	slots, err := s.svc.Availability(ctx, field(in, "date"))
	if err != nil {
		return nil, s.toStatus(err)
	}
	out := make([]any, len(slots))
	for i, sl := range slots {
		out[i] = map[string]any{"id": sl.ID, "time": sl.Time}
	}
	return build(map[string]any{"slots": out})
}

func (s *Server) CreateBooking(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	b, err := s.svc.Create(ctx, model.NewBooking{
		UserID:  field(in, "user_id"),
		Service: field(in, "service"),
		Date:    field(in, "date"),
		Time:    field(in, "time"),
	})
	if err != nil {
		return nil, s.toStatus(err)
	}
	return build(map[string]any{
		"message":   booking.CreatedMessage,
		"bookingId": b.ID,
	})
}

// store details stay in the server log
func (s *Server) toStatus(err error) error {
	if booking.IsClientError(err) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	s.log.Error("booking rpc failed", zap.Error(err))
	return status.Error(codes.Internal, "internal error")
}

// field reads a string field; missing or non-string values read as "".
func field(in *structpb.Struct, name string) string {
	return in.GetFields()[name].GetStringValue()
}

func bookingFields(b model.Booking) map[string]any {
	return map[string]any{
		"id":         b.ID,
		"user_id":    b.UserID,
		"service":    b.Service,
		"date":       b.Date,
		"time":       b.Time,
		"created_at": b.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func build(m map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, "encode response")
	}
	return out, nil
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BookingServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListBookings", Handler: unary(MethodListBookings, BookingServer.ListBookings)},
		{MethodName: "GetAvailability", Handler: unary(MethodGetAvailability, BookingServer.GetAvailability)},
		{MethodName: "CreateBooking", Handler: unary(MethodCreateBooking, BookingServer.CreateBooking)},
	},
	Streams: []grpc.StreamDesc{},
}

type method func(BookingServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// unary adapts a BookingServer method to grpc's handler signature, the way
// protoc-gen-go-grpc output does.
func unary(fullMethod string, m method) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return m(srv.(BookingServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return m(srv.(BookingServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
