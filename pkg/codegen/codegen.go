// Package codegen renders syntax trees as S-expression text.
//
// Output is produced without indentation; pkg/format lays it out. The
// generator assumes a tree that passed (*ast.Node).Validate and panics on
// node kinds it does not know.
package codegen

import (
	"fmt"
	"strings"

	"github.com/chazu/clove/pkg/ast"
)

// Result contains the generated text.
type Result struct {
	Code string
}

// Generate produces the translation of a Namespace tree.
func Generate(root *ast.Node) *Result {
	return &Result{Code: render(root).String()}
}

func render(n *ast.Node) *fragment {
	switch n.Kind {
	case ast.Namespace:
		return renderNamespace(n)
	case ast.Method:
		return renderMethod(n)
	case ast.Expression, ast.EqualityCheck:
		return renderCall(n)
	case ast.Assignment:
		return renderAssignment(n)
	case ast.Branch:
		return renderBranch(n)
	case ast.Collection:
		return renderCollection(n)
	case ast.Literal:
		f := &fragment{}
		f.write(targetLiteral(n.Value))
		return f
	case ast.Comment:
		f := &fragment{}
		f.write(";;" + n.Value)
		return f
	}
	panic(fmt.Sprintf("codegen: cannot render node kind %q", n.Kind))
}

// renderClosed renders n with every form it opens closed again. Values
// nested inside other forms use it.
func renderClosed(n *ast.Node) *fragment {
	f := render(n)
	f.closeTo(0)
	return f
}

func renderNamespace(n *ast.Node) *fragment {
	f := &fragment{}
	f.write("(ns " + n.Value + ")\n\n")
	for _, c := range n.Children {
		f.add(renderClosed(c))
		if c.Kind == ast.Method {
			f.write("\n\n")
		} else {
			f.write("\n")
		}
	}
	return f
}

func renderMethod(n *ast.Node) *fragment {
	args := make([]string, 0, len(n.Children))
	for _, a := range n.Arguments() {
		args = append(args, a.Value)
	}

	f := &fragment{}
	f.openForm("defn " + n.Value + " [" + strings.Join(args, " ") + "]")

	body := n.Body()
	if len(body) == 1 && body[0].Kind != ast.Comment {
		if only := render(body[0]); only.singleLine() {
			f.write(" ")
			f.add(only)
			f.closeTo(0)
			return f
		}
	}
	for _, stmt := range body {
		f.write("\n")
		f.add(render(stmt))
	}
	f.closeTo(0)
	return f
}

func renderCall(n *ast.Node) *fragment {
	f := &fragment{}
	f.openForm(targetOperator(n.Value))
	for _, c := range n.Children {
		f.write(" ")
		f.add(renderClosed(c))
	}
	f.closeTo(0)
	return f
}

// renderAssignment opens a let form and leaves it open: the statements
// that follow become its body.
func renderAssignment(n *ast.Node) *fragment {
	f := &fragment{}
	f.openForm("let [")
	if !n.IsGrouped() {
		f.write(n.Value + " ")
		f.add(renderClosed(n.Children[0]))
	} else {
		for i, b := range n.Children {
			if i > 0 {
				f.write("\n  ")
			}
			f.write(b.Value + " ")
			f.add(renderClosed(b.Children[0]))
		}
	}
	f.write("]")
	return f
}

// renderBranch leaves exactly one form open so a following else branch
// lands inside the if.
func renderBranch(n *ast.Node) *fragment {
	f := &fragment{}
	body := n.Children
	if n.Value == ast.BranchIf {
		f.openForm("if ")
		f.add(renderClosed(n.Children[0]))
		f.write("\n")
		body = n.Children[1:]
	}

	if len(body) == 1 {
		f.add(render(body[0]))
	} else {
		f.openForm("do")
		for _, stmt := range body {
			f.write("\n")
			f.add(render(stmt))
		}
	}

	f.closeTo(1)
	return f
}

func renderCollection(n *ast.Node) *fragment {
	elems := make([]string, len(n.Children))
	for i, c := range n.Children {
		elems[i] = renderClosed(c).String()
	}
	f := &fragment{}
	f.write("[" + strings.Join(elems, " ") + "]")
	return f
}
