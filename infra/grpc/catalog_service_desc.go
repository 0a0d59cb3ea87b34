package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The catalog service speaks protobuf well-known types only, so it is
// described by hand instead of from generated code.
const (
	CatalogServiceName       = "isletmenum.catalog.v1.CatalogService"
	getMenuMethod            = "/" + CatalogServiceName + "/GetMenu"
	listBusinessesMethod     = "/" + CatalogServiceName + "/ListBusinesses"
	catalogServiceProtoIndex = "isletmenum/catalog/v1/catalog.proto"
)

type CatalogServer interface {
	GetMenu(ctx context.Context, menuID *wrapperspb.Int64Value) (*structpb.Struct, error)
	ListBusinesses(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error)
}

func RegisterCatalogServer(registrar grpc.ServiceRegistrar, srv CatalogServer) {
	registrar.RegisterService(&catalogServiceDesc, srv)
}

var catalogServiceDesc = grpc.ServiceDesc{
	ServiceName: CatalogServiceName,
	HandlerType: (*CatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetMenu", Handler: getMenuHandler},
		{MethodName: "ListBusinesses", Handler: listBusinessesHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: catalogServiceProtoIndex,
}

func getMenuHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.Int64Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServer).GetMenu(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getMenuMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CatalogServer).GetMenu(ctx, req.(*wrapperspb.Int64Value))
	}
	return interceptor(ctx, in, info, handler)
}

func listBusinessesHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServer).ListBusinesses(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: listBusinessesMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CatalogServer).ListBusinesses(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// CatalogClient calls the catalog service over conn.
type CatalogClient struct {
	conn grpc.ClientConnInterface
}

func NewCatalogClient(conn grpc.ClientConnInterface) *CatalogClient {
	return &CatalogClient{conn: conn}
}

func (c *CatalogClient) GetMenu(ctx context.Context, menuID int64, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, getMenuMethod, wrapperspb.Int64(menuID), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CatalogClient) ListBusinesses(ctx context.Context, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.conn.Invoke(ctx, listBusinessesMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
