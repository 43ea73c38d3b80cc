package service

import (
	"context"
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"
	"github.com/jhump/protoreflect/dynamic/grpcdynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Client calls a translation server.
type Client struct {
	conn    *grpc.ClientConn
	stub    grpcdynamic.Stub
	service *desc.ServiceDescriptor
}

// Dial connects to the server at addr. Connections are plaintext unless
// opts carry other transport credentials.
func Dial(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	c, err := clientFor(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

func clientFor(conn *grpc.ClientConn) (*Client, error) {
	schema, err := LoadSchema()
	if err != nil {
		return nil, err
	}
	fd, err := desc.WrapFile(schema.File)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap %s: %w", protoPath, err)
	}
	sd := fd.FindService(ServiceName)
	if sd == nil {
		return nil, fmt.Errorf("service %s not found in %s", ServiceName, protoPath)
	}
	return &Client{conn: conn, stub: grpcdynamic.NewStub(conn), service: sd}, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Translate asks the server to translate src. name labels the input in
// error messages and may be empty.
func (c *Client) Translate(ctx context.Context, name, src string) (string, error) {
	return c.call(ctx, "Translate", name, src, "output")
}

// Tree asks the server for the syntax tree of src as JSON.
func (c *Client) Tree(ctx context.Context, name, src string) (string, error) {
	return c.call(ctx, "Tree", name, src, "tree")
}

func (c *Client) call(ctx context.Context, method, name, src, result string) (string, error) {
	mtd := c.service.FindMethodByName(method)
	if mtd == nil {
		return "", fmt.Errorf("method %s not found in service %s", method, ServiceName)
	}

	req := dynamic.NewMessage(mtd.GetInputType())
	if err := req.TrySetFieldByName("source", src); err != nil {
		return "", err
	}
	if err := req.TrySetFieldByName("name", name); err != nil {
		return "", err
	}

	resp, err := c.stub.InvokeRpc(ctx, mtd, req)
	if err != nil {
		return "", err
	}
	out, err := dynamic.AsDynamicMessage(resp)
	if err != nil {
		return "", fmt.Errorf("failed to read %s response: %w", method, err)
	}
	v, err := out.TryGetFieldByName(result)
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return s, nil
}
