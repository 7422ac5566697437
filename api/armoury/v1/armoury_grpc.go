// Package armouryv1 holds the gRPC bindings of the armoury.v1.Armoury
// service described in armoury.proto. Messages are protobuf well-known types.
package armouryv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// This is a compile-time assertion to ensure that this file
// is compatible with the grpc package it is being compiled against.
const _ = grpc.SupportPackageIsVersion9

const ServiceName = "armoury.v1.Armoury"

const (
	Armoury_Ping_FullMethodName               = "/armoury.v1.Armoury/Ping"
	Armoury_GetVersion_FullMethodName         = "/armoury.v1.Armoury/GetVersion"
	Armoury_GetStatus_FullMethodName          = "/armoury.v1.Armoury/GetStatus"
	Armoury_SetPowerProfile_FullMethodName    = "/armoury.v1.Armoury/SetPowerProfile"
	Armoury_SetChargeLimit_FullMethodName     = "/armoury.v1.Armoury/SetChargeLimit"
	Armoury_ApplySystemProfile_FullMethodName = "/armoury.v1.Armoury/ApplySystemProfile"
	Armoury_GetSessionSummary_FullMethodName  = "/armoury.v1.Armoury/GetSessionSummary"
)

// ArmouryClient is the client API for the Armoury service.
type ArmouryClient interface {
	Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	GetVersion(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	GetStatus(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	SetPowerProfile(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	SetChargeLimit(ctx context.Context, in *wrapperspb.Int32Value, opts ...grpc.CallOption) (*structpb.Struct, error)
	ApplySystemProfile(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetSessionSummary(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type armouryClient struct {
	cc grpc.ClientConnInterface
}

func NewArmouryClient(cc grpc.ClientConnInterface) ArmouryClient {
	return &armouryClient{cc}
}

func (c *armouryClient) Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(wrapperspb.StringValue)
	err := c.cc.Invoke(ctx, Armoury_Ping_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *armouryClient) GetVersion(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(wrapperspb.StringValue)
	err := c.cc.Invoke(ctx, Armoury_GetVersion_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *armouryClient) GetStatus(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(structpb.Struct)
	err := c.cc.Invoke(ctx, Armoury_GetStatus_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *armouryClient) SetPowerProfile(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(structpb.Struct)
	err := c.cc.Invoke(ctx, Armoury_SetPowerProfile_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *armouryClient) SetChargeLimit(ctx context.Context, in *wrapperspb.Int32Value, opts ...grpc.CallOption) (*structpb.Struct, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(structpb.Struct)
	err := c.cc.Invoke(ctx, Armoury_SetChargeLimit_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *armouryClient) ApplySystemProfile(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(structpb.Struct)
	err := c.cc.Invoke(ctx, Armoury_ApplySystemProfile_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *armouryClient) GetSessionSummary(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(structpb.Struct)
	err := c.cc.Invoke(ctx, Armoury_GetSessionSummary_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ArmouryServer is the server API for the Armoury service.
// All implementations must embed UnimplementedArmouryServer
// for forward compatibility.
type ArmouryServer interface {
	Ping(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error)
	GetVersion(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error)
	GetStatus(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	SetPowerProfile(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	SetChargeLimit(context.Context, *wrapperspb.Int32Value) (*structpb.Struct, error)
	ApplySystemProfile(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	GetSessionSummary(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	mustEmbedUnimplementedArmouryServer()
}

// UnimplementedArmouryServer must be embedded to have forward compatible
// implementations. It should be embedded by value.
type UnimplementedArmouryServer struct{}

func (UnimplementedArmouryServer) Ping(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Ping not implemented")
}

func (UnimplementedArmouryServer) GetVersion(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetVersion not implemented")
}

func (UnimplementedArmouryServer) GetStatus(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetStatus not implemented")
}

func (UnimplementedArmouryServer) SetPowerProfile(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SetPowerProfile not implemented")
}

func (UnimplementedArmouryServer) SetChargeLimit(context.Context, *wrapperspb.Int32Value) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SetChargeLimit not implemented")
}

func (UnimplementedArmouryServer) ApplySystemProfile(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ApplySystemProfile not implemented")
}

func (UnimplementedArmouryServer) GetSessionSummary(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetSessionSummary not implemented")
}

func (UnimplementedArmouryServer) mustEmbedUnimplementedArmouryServer() {}

// UnsafeArmouryServer may be embedded to opt out of forward compatibility
// for this service.
type UnsafeArmouryServer interface {
	mustEmbedUnimplementedArmouryServer()
}

func RegisterArmouryServer(s grpc.ServiceRegistrar, srv ArmouryServer) {
	s.RegisterService(&Armoury_ServiceDesc, srv)
}

func _Armoury_Ping_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ArmouryServer).Ping(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Armoury_Ping_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ArmouryServer).Ping(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _Armoury_GetVersion_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ArmouryServer).GetVersion(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Armoury_GetVersion_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ArmouryServer).GetVersion(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _Armoury_GetStatus_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ArmouryServer).GetStatus(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Armoury_GetStatus_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ArmouryServer).GetStatus(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _Armoury_SetPowerProfile_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ArmouryServer).SetPowerProfile(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Armoury_SetPowerProfile_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ArmouryServer).SetPowerProfile(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _Armoury_SetChargeLimit_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.Int32Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ArmouryServer).SetChargeLimit(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Armoury_SetChargeLimit_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ArmouryServer).SetChargeLimit(ctx, req.(*wrapperspb.Int32Value))
	}
	return interceptor(ctx, in, info, handler)
}

func _Armoury_ApplySystemProfile_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ArmouryServer).ApplySystemProfile(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Armoury_ApplySystemProfile_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ArmouryServer).ApplySystemProfile(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _Armoury_GetSessionSummary_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ArmouryServer).GetSessionSummary(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Armoury_GetSessionSummary_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ArmouryServer).GetSessionSummary(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// Armoury_ServiceDesc is the grpc.ServiceDesc for the Armoury service.
var Armoury_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ArmouryServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Ping",
			Handler:    _Armoury_Ping_Handler,
		},
		{
			MethodName: "GetVersion",
			Handler:    _Armoury_GetVersion_Handler,
		},
		{
			MethodName: "GetStatus",
			Handler:    _Armoury_GetStatus_Handler,
		},
		{
			MethodName: "SetPowerProfile",
			Handler:    _Armoury_SetPowerProfile_Handler,
		},
		{
			MethodName: "SetChargeLimit",
			Handler:    _Armoury_SetChargeLimit_Handler,
		},
		{
			MethodName: "ApplySystemProfile",
			Handler:    _Armoury_ApplySystemProfile_Handler,
		},
		{
			MethodName: "GetSessionSummary",
			Handler:    _Armoury_GetSessionSummary_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "armoury.proto",
}
