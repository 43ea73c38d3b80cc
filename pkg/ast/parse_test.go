package ast

import (
	"errors"
	"strings"
	"testing"
)

func sampleTree() *Node {
	return New(Namespace, "Demo",
		New(Method, "Add",
			New(MethodArgument, "a"),
			New(MethodArgument, "b"),
			New(Assignment, "",
				New(Assignment, "x", New(Literal, "1")),
				New(Assignment, "y", New(Literal, "2")),
			),
			New(Expression, "+", New(Literal, "a"), New(Literal, "b")),
		),
		New(Expression, "Print", New(Literal, "1")),
	)
}

func TestParseBytes(t *testing.T) {
	input := `{
		"kind": "Namespace",
		"value": "Demo",
		"children": [
			{"kind": "Method", "value": "F", "children": [{"kind": "Literal", "value": "1"}]}
		]
	}`
	root, err := ParseBytes([]byte(input))
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	if root.Kind != Namespace || root.Value != "Demo" {
		t.Errorf("root = %s %s", root.Kind, root.Value)
	}
	if len(root.Children) != 1 || root.Children[0].Kind != Method {
		t.Fatalf("children = %v", root.Children)
	}
	if err := root.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestParse_Reader(t *testing.T) {
	data, err := MarshalIndent(sampleTree())
	if err != nil {
		t.Fatalf("MarshalIndent() error = %v", err)
	}
	root, err := Parse(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got, want := root.String(), sampleTree().String(); got != want {
		t.Errorf("decoded tree differs\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestParseBytes_Invalid(t *testing.T) {
	if _, err := ParseBytes([]byte("{not json")); err == nil {
		t.Fatal("ParseBytes() expected error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		root *Node
		want error
	}{
		{"valid", sampleTree(), nil},
		{"nil root", nil, ErrInvalidTree},
		{"root not namespace", New(Method, "F"), ErrInvalidTree},
		{"unnamed namespace", New(Namespace, ""), ErrInvalidTree},
		{"class", New(Namespace, "N", New(Class, "C")), ErrUnsupportedNode},
		{"nested class", New(Namespace, "N", New(Method, "F", New(Class, "C"))), ErrUnsupportedNode},
		{"literal at top level", New(Namespace, "N", New(Literal, "1")), ErrInvalidTree},
		{"argument after body", New(Namespace, "N",
			New(Method, "F", New(Literal, "1"), New(MethodArgument, "a"))), ErrInvalidTree},
		{"group of one", New(Namespace, "N",
			New(Method, "F", New(Assignment, "", New(Assignment, "x", New(Literal, "1"))))), ErrInvalidTree},
		{"assignment without value", New(Namespace, "N",
			New(Method, "F", New(Assignment, "x"))), ErrInvalidTree},
		{"bad branch", New(Namespace, "N",
			New(Method, "F", New(Branch, "while", New(Literal, "x")))), ErrInvalidTree},
		{"if without condition", New(Namespace, "N",
			New(Method, "F", New(Branch, "if"))), ErrInvalidTree},
		{"unknown kind", New(Namespace, "N",
			New(Method, "F", New(NodeKind("Loop"), "x"))), ErrInvalidTree},
		{"literal with children", New(Namespace, "N",
			New(Method, "F", New(Literal, "1", New(Literal, "2")))), ErrInvalidTree},
		{"empty comment", New(Namespace, "N",
			New(Method, "F", New(Comment, ""))), nil},
		{"comment in branch body", New(Namespace, "N",
			New(Method, "F", New(Branch, BranchIf, New(Literal, "x"), New(Comment, " c"), New(Literal, "1")))), nil},
		{"comment in collection", New(Namespace, "N",
			New(Method, "F", New(Collection, "", New(Literal, "1"), New(Comment, " c")))), ErrInvalidTree},
		{"comment as operand", New(Namespace, "N",
			New(Method, "F", New(Expression, "+", New(Literal, "1"), New(Comment, " c")))), ErrInvalidTree},
		{"comment in equality check", New(Namespace, "N",
			New(Method, "F", New(EqualityCheck, "=", New(Comment, " c"), New(Literal, "1")))), ErrInvalidTree},
		{"comment as assigned value", New(Namespace, "N",
			New(Method, "F", New(Assignment, "x", New(Comment, " c")))), ErrInvalidTree},
		{"comment in grouped binding", New(Namespace, "N",
			New(Method, "F", New(Assignment, "",
				New(Assignment, "x", New(Literal, "1")),
				New(Assignment, "y", New(Comment, " c"))))), ErrInvalidTree},
		{"comment as condition", New(Namespace, "N",
			New(Method, "F", New(Branch, BranchIf, New(Comment, " c"), New(Literal, "1")))), ErrInvalidTree},
		{"comment in nested call", New(Namespace, "N",
			New(Expression, "Print", New(Expression, "Add", New(Comment, " c")))), ErrInvalidTree},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.root.Validate()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNode_Helpers(t *testing.T) {
	method := sampleTree().Children[0]
	if got := len(method.Arguments()); got != 2 {
		t.Errorf("Arguments() = %d, want 2", got)
	}
	body := method.Body()
	if len(body) != 2 {
		t.Fatalf("Body() = %d, want 2", len(body))
	}
	if !body[0].IsGrouped() {
		t.Error("IsGrouped() = false for unnamed assignment")
	}
	if body[0].Children[0].IsGrouped() {
		t.Error("IsGrouped() = true for single assignment")
	}
}

func TestNode_String(t *testing.T) {
	root := New(Namespace, "N", New(Expression, "f", New(Literal, "1")))
	want := "Namespace N\n  Expression f\n    Literal 1\n"
	if got := root.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
