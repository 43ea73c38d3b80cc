package codegen

import "strings"

// operatorSymbols maps source operators whose spelling differs in the
// target language. Operators not listed are emitted unchanged.
var operatorSymbols = map[string]string{
	"%":  "mod",
	"&&": "and",
	"||": "or",
	"&":  "bit-and",
	"|":  "bit-or",
	"!=": "not=",
}

// targetOperator returns the target spelling of an operator or callee name.
func targetOperator(op string) string {
	if sym, ok := operatorSymbols[op]; ok {
		return sym
	}
	return op
}

// targetLiteral converts a literal's source text. null becomes nil and
// numeric literals lose a trailing f or d type suffix.
func targetLiteral(value string) string {
	if value == "null" {
		return "nil"
	}
	if value != "" && value[0] >= '0' && value[0] <= '9' {
		return strings.TrimRight(value, "fd")
	}
	return value
}
