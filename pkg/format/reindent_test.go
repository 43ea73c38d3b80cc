package format

import (
	"testing"
)

func TestReindent(t *testing.T) {
	tests := []struct {
		name  string
		ch    rune
		width int
		input string
		want  string
	}{
		{
			name:  "flat text untouched",
			ch:    ' ',
			width: 4,
			input: "(ns Demo)\n\n(defn F [] 1)\n",
			want:  "(ns Demo)\n\n(defn F [] 1)\n",
		},
		{
			name:  "nested levels",
			ch:    ' ',
			width: 2,
			input: "(a\n(b\nc)\nd)",
			want:  "(a\n  (b\n    c)\n  d)",
		},
		{
			name:  "existing indentation replaced",
			ch:    ' ',
			width: 4,
			input: "(a\n\t\t  b)",
			want:  "(a\n    b)",
		},
		{
			name:  "tabs",
			ch:    '\t',
			width: 1,
			input: "(a\n(b\nc))",
			want:  "(a\n\t(b\n\t\tc))",
		},
		{
			name:  "whitespace before closer dropped",
			ch:    ' ',
			width: 4,
			input: "(a b   \n  )",
			want:  "(a b)",
		},
		{
			name:  "closer kept off comment line",
			ch:    ' ',
			width: 4,
			input: "(a\n;; note\n)",
			want:  "(a\n    ;; note\n)",
		},
		{
			name:  "parens in comment ignored",
			ch:    ' ',
			width: 4,
			input: "(a\n;; (((\nb)\nc",
			want:  "(a\n    ;; (((\n    b)\nc",
		},
		{
			name:  "parens in string ignored",
			ch:    ' ',
			width: 4,
			input: "(f \"(\\\"(\"\nx)",
			want:  "(f \"(\\\"(\"\n    x)",
		},
		{
			name:  "semicolon in string is not a comment",
			ch:    ' ',
			width: 4,
			input: "(f \";\" x\n)",
			want:  "(f \";\" x)",
		},
		{
			name:  "blank lines stay empty",
			ch:    ' ',
			width: 4,
			input: "(a\n\nb)",
			want:  "(a\n\n    b)",
		},
		{
			name:  "unbalanced closers",
			ch:    ' ',
			width: 4,
			input: "a))\n(b\nc",
			want:  "a))\n(b\n    c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.ch, tt.width).Reindent(tt.input)
			if got != tt.want {
				t.Errorf("Reindent() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReindent_Idempotent(t *testing.T) {
	inputs := []string{
		"(ns Flow)\n\n(defn Classify [x]\n;; pick a bucket\n(if (= x 0)\n0\n(do\n(let [y (* x 2)]\ny))))\n",
		"(defn F [a b]\n(let [x (+ a 1)\n  y (* b 2)]\n(Print \"a;b\" x y)))",
		"(a\n;; trailing\n)",
		"  (a\n      b\n\n  c  )  ",
		"(f \"multi\nline (\" x\n y)",
	}
	f := New(' ', 4)

	for _, input := range inputs {
		once := f.Reindent(input)
		twice := f.Reindent(once)
		if once != twice {
			t.Errorf("Reindent not idempotent for %q\n once: %q\ntwice: %q", input, once, twice)
		}
	}
}

func TestNew_NegativeWidth(t *testing.T) {
	got := New(' ', -3).Reindent("(a\nb)")
	if got != "(a\nb)" {
		t.Errorf("Reindent() = %q", got)
	}
}
