package codegen_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/clove/pkg/codegen"
	"github.com/chazu/clove/pkg/format"
	"github.com/chazu/clove/pkg/lexer"
	"github.com/chazu/clove/pkg/parser"
)

func TestCodegenAcceptance(t *testing.T) {
	// Each directory under testdata holds one source file and its translation
	testdataDir := "../../testdata"
	entries, err := os.ReadDir(testdataDir)
	if err != nil {
		t.Fatalf("Failed to read testdata directory: %v", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		testName := entry.Name()
		t.Run(testName, func(t *testing.T) {
			testDir := filepath.Join(testdataDir, testName)

			inputData, err := os.ReadFile(filepath.Join(testDir, "input.cs"))
			if err != nil {
				t.Fatalf("Failed to read input.cs: %v", err)
			}

			tokens, err := lexer.New(string(inputData)).Tokenize()
			if err != nil {
				t.Fatalf("Failed to tokenize: %v", err)
			}
			root, err := parser.Parse(tokens)
			if err != nil {
				t.Fatalf("Failed to parse: %v", err)
			}
			if err := root.Validate(); err != nil {
				t.Fatalf("Invalid tree: %v", err)
			}

			result := codegen.Generate(root)
			actual := format.New(' ', 4).Reindent(result.Code)

			expectedData, err := os.ReadFile(filepath.Join(testDir, "expected.clj"))
			if err != nil {
				t.Fatalf("Failed to read expected.clj: %v", err)
			}
			expected := string(expectedData)

			// Compare (normalize whitespace for comparison)
			if normalizeWhitespace(actual) != normalizeWhitespace(expected) {
				t.Errorf("Generated code does not match expected.\n\n=== EXPECTED ===\n%s\n\n=== ACTUAL ===\n%s", expected, actual)
			}
		})
	}
}

func normalizeWhitespace(s string) string {
	// Trim trailing whitespace from each line and normalize line endings
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
