// Package service serves the translation pipeline over gRPC.
//
// The wire schema lives in translator.proto and is compiled when first
// needed instead of through generated stubs. The server handles requests
// as dynamic messages built from the compiled descriptors and registers the
// schema with server reflection, so generic gRPC tools can discover it.
package service

import (
	"context"
	_ "embed"
	"fmt"
	"sync"

	"github.com/bufbuild/protocompile"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
)

// ServiceName is the fully qualified name of the translation service.
const ServiceName = "clove.Translator"

const protoPath = "clove/translator.proto"

//go:embed translator.proto
var protoSource string

// Schema holds the compiled descriptors of the translation service.
type Schema struct {
	File    protoreflect.FileDescriptor
	Service protoreflect.ServiceDescriptor
}

// Method returns the descriptor of the named RPC.
func (s *Schema) Method(name string) (protoreflect.MethodDescriptor, error) {
	md := s.Service.Methods().ByName(protoreflect.Name(name))
	if md == nil {
		return nil, fmt.Errorf("method %s not found in service %s", name, ServiceName)
	}
	return md, nil
}

var (
	schemaOnce sync.Once
	schema     *Schema
	schemaErr  error
)

// LoadSchema compiles the service schema and registers it with the global
// registry. Later calls return the same result.
func LoadSchema() (*Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = compileSchema()
	})
	return schema, schemaErr
}

func compileSchema() (*Schema, error) {
	compiler := protocompile.Compiler{
		Resolver: &protocompile.SourceResolver{
			Accessor: protocompile.SourceAccessorFromMap(map[string]string{
				protoPath: protoSource,
			}),
		},
	}
	files, err := compiler.Compile(context.Background(), protoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s: %w", protoPath, err)
	}
	fd := files[0]

	sd := fd.Services().ByName(protoreflect.FullName(ServiceName).Name())
	if sd == nil {
		return nil, fmt.Errorf("service %s not found in %s", ServiceName, protoPath)
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		return nil, fmt.Errorf("failed to register %s: %w", protoPath, err)
	}

	return &Schema{File: fd, Service: sd}, nil
}
