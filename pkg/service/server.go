package service

import (
	"context"
	"errors"
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/chazu/clove/pkg/ast"
	"github.com/chazu/clove/pkg/transpiler"
)

// handler is the interface registered for the service. It has no
// exported methods because requests are dispatched through method tables.
type handler interface {
	translatorService()
}

// rpcFunc fills out from in.
type rpcFunc func(ctx context.Context, in, out *dynamicpb.Message) error

// Server answers translation requests.
type Server struct {
	translator *transpiler.Translator
	schema     *Schema
	grpc       *grpc.Server
}

// NewServer creates a Server around t. opts are passed to grpc.NewServer.
func NewServer(t *transpiler.Translator, opts ...grpc.ServerOption) (*Server, error) {
	schema, err := LoadSchema()
	if err != nil {
		return nil, err
	}
	s := &Server{translator: t, schema: schema}

	desc, err := s.serviceDesc()
	if err != nil {
		return nil, err
	}
	s.grpc = grpc.NewServer(opts...)
	s.grpc.RegisterService(desc, s)
	reflection.Register(s.grpc)
	return s, nil
}

func (s *Server) translatorService() {}

// Serve accepts connections on lis until Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	return s.grpc.Serve(lis)
}

// Stop finishes pending requests and closes all listeners.
func (s *Server) Stop() {
	s.grpc.GracefulStop()
}

func (s *Server) serviceDesc() (*grpc.ServiceDesc, error) {
	rpcs := map[string]rpcFunc{
		"Translate": s.translate,
		"Tree":      s.tree,
	}

	desc := &grpc.ServiceDesc{
		ServiceName: ServiceName,
		HandlerType: (*handler)(nil),
		Metadata:    protoPath,
	}
	for name, fn := range rpcs {
		md, err := s.schema.Method(name)
		if err != nil {
			return nil, err
		}
		desc.Methods = append(desc.Methods, grpc.MethodDesc{
			MethodName: name,
			Handler:    unary(md, fn),
		})
	}
	return desc, nil
}

// unary adapts fn to a gRPC method handler that decodes requests into
// dynamic messages of md's input type.
func unary(md protoreflect.MethodDescriptor, fn rpcFunc) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	fullMethod := fmt.Sprintf("/%s/%s", ServiceName, md.Name())

	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := dynamicpb.NewMessage(md.Input())
		if err := dec(in); err != nil {
			return nil, err
		}
		call := func(ctx context.Context, req any) (any, error) {
			out := dynamicpb.NewMessage(md.Output())
			if err := fn(ctx, req.(*dynamicpb.Message), out); err != nil {
				return nil, err
			}
			return out, nil
		}
		if interceptor == nil {
			return call(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, call)
	}
}

func (s *Server) translate(ctx context.Context, in, out *dynamicpb.Message) error {
	output, err := s.translator.Translate(getString(in, "source"))
	if err != nil {
		return statusError(getString(in, "name"), err)
	}
	setString(out, "output", output)
	return nil
}

func (s *Server) tree(ctx context.Context, in, out *dynamicpb.Message) error {
	root, err := s.translator.Tree(getString(in, "source"))
	if err != nil {
		return statusError(getString(in, "name"), err)
	}
	data, err := ast.MarshalIndent(root)
	if err != nil {
		return status.Error(codes.Internal, err.Error())
	}
	setString(out, "tree", string(data))
	return nil
}

// statusError maps pipeline failures to gRPC codes: bad input is
// InvalidArgument, a broken cache is Internal.
func statusError(name string, err error) error {
	if name != "" {
		err = fmt.Errorf("%s: %w", name, err)
	}
	var se *transpiler.StageError
	if errors.As(err, &se) && se.Stage != transpiler.StageCache {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

func getString(m *dynamicpb.Message, field protoreflect.Name) string {
	fd := m.Descriptor().Fields().ByName(field)
	if fd == nil {
		return ""
	}
	return m.Get(fd).String()
}

func setString(m *dynamicpb.Message, field protoreflect.Name, value string) {
	fd := m.Descriptor().Fields().ByName(field)
	m.Set(fd, protoreflect.ValueOfString(value))
}
