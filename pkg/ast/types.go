// Package ast defines the syntax tree produced by the parser and consumed by
// the code generator.
package ast

import "strings"

// NodeKind identifies what a syntax tree node represents.
type NodeKind string

// Node kinds.
const (
	Namespace      NodeKind = "Namespace"      // root; Value is the namespace name
	Class          NodeKind = "Class"          // recognized, not supported
	Method         NodeKind = "Method"         // Value is the method name
	MethodArgument NodeKind = "MethodArgument" // leaf; Value is the parameter name
	Literal        NodeKind = "Literal"        // leaf; Value is the literal text
	Expression     NodeKind = "Expression"     // Value is the operator or callee
	Assignment     NodeKind = "Assignment"     // Value is the bound name, empty for a group
	EqualityCheck  NodeKind = "EqualityCheck"  // binary comparison
	Branch         NodeKind = "Branch"         // Value is "if" or "else"
	Comment        NodeKind = "Comment"        // leaf; Value is the comment text
	Collection     NodeKind = "Collection"     // children are the elements
)

// Branch values.
const (
	BranchIf   = "if"
	BranchElse = "else"
)

// Node is a syntax tree node. Each node exclusively owns its children, and
// nodes are not modified once the parser has built them.
type Node struct {
	Kind     NodeKind `json:"kind"`
	Value    string   `json:"value,omitempty"`
	Children []*Node  `json:"children,omitempty"`
}

// New creates a node.
func New(kind NodeKind, value string, children ...*Node) *Node {
	return &Node{Kind: kind, Value: value, Children: children}
}

// Arguments returns the MethodArgument children of a method.
func (n *Node) Arguments() []*Node {
	var args []*Node
	for _, c := range n.Children {
		if c.Kind == MethodArgument {
			args = append(args, c)
		}
	}
	return args
}

// Body returns the non-argument children of a method.
func (n *Node) Body() []*Node {
	var body []*Node
	for _, c := range n.Children {
		if c.Kind != MethodArgument {
			body = append(body, c)
		}
	}
	return body
}

// IsGrouped reports whether an Assignment wraps a run of assignments. A
// group carries no bound name of its own.
func (n *Node) IsGrouped() bool {
	return n.Kind == Assignment && n.Value == ""
}

// String renders the tree as an indented outline, one node per line.
func (n *Node) String() string {
	var sb strings.Builder
	n.outline(&sb, 0)
	return sb.String()
}

func (n *Node) outline(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(string(n.Kind))
	if n.Value != "" {
		sb.WriteString(" ")
		sb.WriteString(n.Value)
	}
	sb.WriteString("\n")
	for _, c := range n.Children {
		c.outline(sb, depth+1)
	}
}
