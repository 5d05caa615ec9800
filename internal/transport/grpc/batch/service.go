package batch

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "procat.batch.v1.BatchService"

const (
	methodStartBatch      = "/" + ServiceName + "/StartBatch"
	methodGetProductStats = "/" + ServiceName + "/GetProductStats"
)

// BatchServiceServer is the server API for BatchService. Messages are the
// well-known Empty and Struct types so no generated code is needed.
type BatchServiceServer interface {
	StartBatch(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetProductStats(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// RegisterBatchServiceServer registers srv on s.
func RegisterBatchServiceServer(s grpc.ServiceRegistrar, srv BatchServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc describes BatchService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BatchServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "StartBatch",
			Handler:    startBatchHandler,
		},
		{
			MethodName: "GetProductStats",
			Handler:    getProductStatsHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "procat/batch/v1/batch.proto",
}

func startBatchHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BatchServiceServer).StartBatch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodStartBatch}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BatchServiceServer).StartBatch(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func getProductStatsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BatchServiceServer).GetProductStats(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetProductStats}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BatchServiceServer).GetProductStats(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// Client is the client API for BatchService.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a BatchService client over cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// StartBatch triggers one pipeline run.
func (c *Client) StartBatch(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodStartBatch, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProductStats returns the loyalty breakdown of the products table.
func (c *Client) GetProductStats(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodGetProductStats, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
