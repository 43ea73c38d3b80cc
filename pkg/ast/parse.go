package ast

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrInvalidTree is returned when a tree breaks a structural invariant.
	ErrInvalidTree = errors.New("invalid syntax tree")

	// ErrUnsupportedNode is returned for node kinds the generator cannot render.
	ErrUnsupportedNode = errors.New("unsupported node kind")
)

// Parse reads tree JSON from a reader and returns its root.
func Parse(r io.Reader) (*Node, error) {
	var root Node
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&root); err != nil {
		return nil, fmt.Errorf("failed to parse AST: %w", err)
	}
	return &root, nil
}

// ParseBytes parses tree JSON from a byte slice.
func ParseBytes(data []byte) (*Node, error) {
	var root Node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse AST: %w", err)
	}
	return &root, nil
}

// MarshalIndent encodes the tree as indented JSON.
func MarshalIndent(root *Node) ([]byte, error) {
	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal AST: %w", err)
	}
	return data, nil
}

// Validate checks that n is a well-formed root: a Namespace whose subtree
// satisfies the invariants the code generator relies on.
func (n *Node) Validate() error {
	if n == nil || n.Kind != Namespace {
		return fmt.Errorf("%w: root must be a Namespace", ErrInvalidTree)
	}
	if n.Value == "" {
		return fmt.Errorf("%w: namespace has no name", ErrInvalidTree)
	}
	for _, c := range n.Children {
		switch c.Kind {
		case Method, Expression:
		case Class:
			return fmt.Errorf("%w: %s", ErrUnsupportedNode, c.Kind)
		default:
			return fmt.Errorf("%w: %s is not allowed at namespace level", ErrInvalidTree, c.Kind)
		}
		if err := c.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (n *Node) validate() error {
	if n == nil {
		return fmt.Errorf("%w: nil node", ErrInvalidTree)
	}
	switch n.Kind {
	case Method:
		if n.Value == "" {
			return fmt.Errorf("%w: method has no name", ErrInvalidTree)
		}
		inArgs := true
		for _, c := range n.Children {
			if c.Kind == MethodArgument {
				if !inArgs {
					return fmt.Errorf("%w: method %s has an argument after its body", ErrInvalidTree, n.Value)
				}
				if err := c.validateLeaf(); err != nil {
					return err
				}
				continue
			}
			inArgs = false
			if err := c.validateStatement(); err != nil {
				return err
			}
		}
		return nil

	case Literal, Comment, MethodArgument:
		return n.validateLeaf()

	case Expression:
		if n.Value == "" {
			return fmt.Errorf("%w: expression has no operator", ErrInvalidTree)
		}
		return n.validateValues(n.Children)

	case EqualityCheck:
		if n.Value == "" || len(n.Children) != 2 {
			return fmt.Errorf("%w: equality check needs an operator and two operands", ErrInvalidTree)
		}
		return n.validateValues(n.Children)

	case Assignment:
		if n.IsGrouped() {
			if len(n.Children) < 2 {
				return fmt.Errorf("%w: grouped assignment needs at least two bindings", ErrInvalidTree)
			}
			for _, c := range n.Children {
				if c.Kind != Assignment || c.IsGrouped() {
					return fmt.Errorf("%w: grouped assignment may only hold single assignments", ErrInvalidTree)
				}
				if err := c.validate(); err != nil {
					return err
				}
			}
			return nil
		}
		if len(n.Children) != 1 {
			return fmt.Errorf("%w: assignment %s needs exactly one value", ErrInvalidTree, n.Value)
		}
		return n.validateValues(n.Children)

	case Branch:
		switch n.Value {
		case BranchIf:
			if len(n.Children) == 0 {
				return fmt.Errorf("%w: if without condition", ErrInvalidTree)
			}
			if err := n.validateValues(n.Children[:1]); err != nil {
				return err
			}
		case BranchElse:
		default:
			return fmt.Errorf("%w: branch %q", ErrInvalidTree, n.Value)
		}
		return n.validateChildren()

	case Collection:
		if n.Value != "" {
			return fmt.Errorf("%w: collection with value %q", ErrInvalidTree, n.Value)
		}
		return n.validateValues(n.Children)

	case Class:
		return fmt.Errorf("%w: %s", ErrUnsupportedNode, n.Kind)
	}
	return fmt.Errorf("%w: unknown kind %q", ErrInvalidTree, n.Kind)
}

func (n *Node) validateLeaf() error {
	if len(n.Children) != 0 {
		return fmt.Errorf("%w: %s cannot have children", ErrInvalidTree, n.Kind)
	}
	if n.Kind != Comment && n.Value == "" {
		return fmt.Errorf("%w: %s has no value", ErrInvalidTree, n.Kind)
	}
	return nil
}

func (n *Node) validateStatement() error {
	if n == nil {
		return n.validate()
	}
	switch n.Kind {
	case Namespace, Method, MethodArgument:
		return fmt.Errorf("%w: %s is not a statement", ErrInvalidTree, n.Kind)
	}
	return n.validate()
}

// validateValues checks nodes that appear inside one of n's forms. A
// comment there would swallow the closer that follows it.
func (n *Node) validateValues(values []*Node) error {
	for _, c := range values {
		if c != nil && c.Kind == Comment {
			return fmt.Errorf("%w: comment inside %s", ErrInvalidTree, n.Kind)
		}
		if err := c.validateStatement(); err != nil {
			return err
		}
	}
	return nil
}

func (n *Node) validateChildren() error {
	for _, c := range n.Children {
		if err := c.validateStatement(); err != nil {
			return err
		}
	}
	return nil
}
