package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "tradeledger.v1.LedgerService"

// LedgerServiceServer is the server API for the ledger service.
// Requests and responses are JSON-shaped structpb.Struct messages.
type LedgerServiceServer interface {
	GetDailyPnl(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAttribution(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetCapitalAtDate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListCashEvents(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListTradeEvents(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RecordCashEvent(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateCashEvent(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteCashEvent(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RecordTradeEvent(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateTradeEvent(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteTradeEvent(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateProfile(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(LedgerServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func methodDesc(name string, call unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(LedgerServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + name,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(LedgerServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// LedgerServiceDesc describes the ledger service for grpc.Server.RegisterService
var LedgerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LedgerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		methodDesc("GetDailyPnl", LedgerServiceServer.GetDailyPnl),
		methodDesc("GetAttribution", LedgerServiceServer.GetAttribution),
		methodDesc("GetCapitalAtDate", LedgerServiceServer.GetCapitalAtDate),
		methodDesc("ListCashEvents", LedgerServiceServer.ListCashEvents),
		methodDesc("ListTradeEvents", LedgerServiceServer.ListTradeEvents),
		methodDesc("RecordCashEvent", LedgerServiceServer.RecordCashEvent),
		methodDesc("UpdateCashEvent", LedgerServiceServer.UpdateCashEvent),
		methodDesc("DeleteCashEvent", LedgerServiceServer.DeleteCashEvent),
		methodDesc("RecordTradeEvent", LedgerServiceServer.RecordTradeEvent),
		methodDesc("UpdateTradeEvent", LedgerServiceServer.UpdateTradeEvent),
		methodDesc("DeleteTradeEvent", LedgerServiceServer.DeleteTradeEvent),
		methodDesc("UpdateProfile", LedgerServiceServer.UpdateProfile),
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterLedgerServiceServer registers srv on s
func RegisterLedgerServiceServer(s grpc.ServiceRegistrar, srv LedgerServiceServer) {
	s.RegisterService(&LedgerServiceDesc, srv)
}

// LedgerClient calls the ledger service over a client connection
type LedgerClient struct {
	cc grpc.ClientConnInterface
}

// NewLedgerClient creates a client for the ledger service
func NewLedgerClient(cc grpc.ClientConnInterface) *LedgerClient {
	return &LedgerClient{cc: cc}
}

// Call invokes method (e.g. "GetDailyPnl") with in
func (c *LedgerClient) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
