package codegen

import (
	"strings"
	"testing"

	"github.com/chazu/clove/pkg/ast"
)

func lit(v string) *ast.Node { return ast.New(ast.Literal, v) }

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		node *ast.Node
		want string
		open int
	}{
		{"literal", lit("x"), "x", 0},
		{"null", lit("null"), "nil", 0},
		{"double suffix", lit("3d"), "3", 0},
		{"identifier ending in d", lit("speed"), "speed", 0},
		{"string", lit(`"a;b"`), `"a;b"`, 0},
		{"comment", ast.New(ast.Comment, " hi"), ";; hi", 0},
		{"call without args", ast.New(ast.Expression, "f"), "(f)", 0},
		{"operator", ast.New(ast.Expression, "||", lit("a"), lit("b")), "(or a b)", 0},
		{"equality", ast.New(ast.EqualityCheck, "=", lit("a"), lit("b")), "(= a b)", 0},
		{"collection", ast.New(ast.Collection, "", lit("1"), ast.New(ast.Collection, "")), "[1 []]", 0},
		{"assignment", ast.New(ast.Assignment, "x", lit("1")), "(let [x 1]", 1},
		{
			name: "grouped assignment",
			node: ast.New(ast.Assignment, "",
				ast.New(ast.Assignment, "x", lit("1")),
				ast.New(ast.Assignment, "y", ast.New(ast.Expression, "f", lit("x")))),
			want: "(let [x 1\n  y (f x)]",
			open: 1,
		},
		{
			name: "if with one statement",
			node: ast.New(ast.Branch, ast.BranchIf, lit("c"), lit("1")),
			want: "(if c\n1",
			open: 1,
		},
		{
			name: "if with several statements",
			node: ast.New(ast.Branch, ast.BranchIf, lit("c"),
				ast.New(ast.Assignment, "x", lit("1")), lit("x")),
			want: "(if c\n(do\n(let [x 1]\nx))",
			open: 1,
		},
		{
			name: "else with several statements",
			node: ast.New(ast.Branch, ast.BranchElse, ast.New(ast.Expression, "f"), lit("2")),
			want: "(do\n(f)\n2",
			open: 1,
		},
		{
			name: "else with one value",
			node: ast.New(ast.Branch, ast.BranchElse, lit("2")),
			want: "2",
			open: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := render(tt.node)
			if got := f.String(); got != tt.want {
				t.Errorf("render() = %q, want %q", got, tt.want)
			}
			if f.open != tt.open {
				t.Errorf("open = %d, want %d", f.open, tt.open)
			}
		})
	}
}

func TestRender_MethodClosesEverything(t *testing.T) {
	tests := []struct {
		name string
		node *ast.Node
		want string
	}{
		{
			name: "one-line body",
			node: ast.New(ast.Method, "F", lit("1")),
			want: "(defn F [] 1)",
		},
		{
			name: "empty body",
			node: ast.New(ast.Method, "F", ast.New(ast.MethodArgument, "a")),
			want: "(defn F [a])",
		},
		{
			name: "open let",
			node: ast.New(ast.Method, "F", ast.New(ast.MethodArgument, "a"),
				ast.New(ast.Assignment, "x", lit("a")), lit("x")),
			want: "(defn F [a]\n(let [x a]\nx))",
		},
		{
			name: "if and else",
			node: ast.New(ast.Method, "F",
				ast.New(ast.Branch, ast.BranchIf, lit("c"), lit("1")),
				ast.New(ast.Branch, ast.BranchElse, lit("2"))),
			want: "(defn F []\n(if c\n1\n2))",
		},
		{
			name: "closer after comment",
			node: ast.New(ast.Method, "F",
				ast.New(ast.Assignment, "x", lit("1")),
				ast.New(ast.Comment, " done")),
			want: "(defn F []\n(let [x 1]\n;; done\n))",
		},
		{
			name: "lone comment",
			node: ast.New(ast.Method, "F", ast.New(ast.Comment, " todo")),
			want: "(defn F []\n;; todo\n)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := render(tt.node)
			if got := f.String(); got != tt.want {
				t.Errorf("render() = %q, want %q", got, tt.want)
			}
			if f.open != 0 {
				t.Errorf("open = %d, want 0", f.open)
			}
		})
	}
}

func TestGenerate_Namespace(t *testing.T) {
	root := ast.New(ast.Namespace, "App",
		ast.New(ast.Method, "F", lit("1")),
		ast.New(ast.Expression, "F"),
		ast.New(ast.Expression, "G", lit("2")))

	want := "(ns App)\n\n(defn F [] 1)\n\n(F)\n(G 2)\n"
	if got := Generate(root).Code; got != want {
		t.Errorf("Generate() = %q, want %q", got, want)
	}
}

func TestGenerate_NestedValuesAreClosed(t *testing.T) {
	// an assignment used as an argument must not leak its let form
	root := ast.New(ast.Namespace, "N",
		ast.New(ast.Expression, "f", ast.New(ast.Assignment, "x", lit("1"))))
	got := Generate(root).Code
	if strings.Count(got, "(") != strings.Count(got, ")") {
		t.Errorf("unbalanced output %q", got)
	}
}

func TestGenerate_UnknownKindPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Generate() did not panic")
		}
	}()
	Generate(ast.New(ast.Namespace, "N", ast.New(ast.NodeKind("Loop"), "x")))
}

func TestEndsInComment(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"(a b", false},
		{"(a\n;; c", true},
		{";; c\n(a", false},
		{`(f ";" x`, false},
		{`(f "\";" x ; y`, true},
	}
	for _, tt := range tests {
		if got := endsInComment(tt.in); got != tt.want {
			t.Errorf("endsInComment(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
