// Package rpc serves the cipher toolkit over gRPC as the cipherlab.v1.Cipher
// service. Requests and responses are protobuf well-known types so no
// generated code is needed: structured payloads travel as
// google.protobuf.Struct and parameterless calls take google.protobuf.Empty.
//
// Request and response shapes:
//
//	Execute        {operation|pipeline, input, params?, reverse?} -> {output, operation, steps}
//	ListOperations Empty -> {operations: [{name, type, description, inverse}]}
//	SolveCRT       {moduli: [...], remainders: [...]} -> {solution, modulus, lcm, warning?}
//	ModInverse     {a, m} -> {inverse}
//	Detect         {input} -> {results: [{family, confidence, reasoning, operation, period?}]}
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "cipherlab.v1.Cipher"

// Full method names.
const (
	MethodExecute        = "/" + ServiceName + "/Execute"
	MethodListOperations = "/" + ServiceName + "/ListOperations"
	MethodSolveCRT       = "/" + ServiceName + "/SolveCRT"
	MethodModInverse     = "/" + ServiceName + "/ModInverse"
	MethodDetect         = "/" + ServiceName + "/Detect"
)

// CipherServer is the server API for the Cipher service.
type CipherServer interface {
	Execute(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListOperations(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	SolveCRT(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ModInverse(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Detect(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterCipherServer registers srv on s.
func RegisterCipherServer(s grpc.ServiceRegistrar, srv CipherServer) {
	s.RegisterService(&CipherServiceDesc, srv)
}

// CipherServiceDesc describes the Cipher service for grpc.ServiceRegistrar.
var CipherServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CipherServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Execute", Handler: structHandler(MethodExecute, CipherServer.Execute)},
		{MethodName: "ListOperations", Handler: listOperationsHandler},
		{MethodName: "SolveCRT", Handler: structHandler(MethodSolveCRT, CipherServer.SolveCRT)},
		{MethodName: "ModInverse", Handler: structHandler(MethodModInverse, CipherServer.ModInverse)},
		{MethodName: "Detect", Handler: structHandler(MethodDetect, CipherServer.Detect)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "cipherlab/v1/cipher.proto",
}

type structMethod func(CipherServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func structHandler(fullMethod string, call structMethod) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CipherServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(CipherServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func listOperationsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CipherServer).ListOperations(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodListOperations}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CipherServer).ListOperations(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}
