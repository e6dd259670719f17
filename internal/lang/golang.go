package lang

import (
	"strings"

	"github.com/smacker/go-tree-sitter/golang"
)

type goStrategy struct{}

func (goStrategy) Name() string { return "go" }

// goStatementKinds are substantive inside a function body. The wrapped
// parse hosts the fragment in a throwaway func, so declaration kinds the
// wrapper itself introduces must not appear here.
var goStatementKinds = map[string]bool{
	"call_expression":           true,
	"short_var_declaration":     true,
	"var_declaration":           true,
	"const_declaration":         true,
	"assignment_statement":      true,
	"return_statement":          true,
	"if_statement":              true,
	"for_statement":             true,
	"go_statement":              true,
	"defer_statement":           true,
	"selector_expression":       true,
	"composite_literal":         true,
	"keyed_element":             true,
	"function_literal":          true,
	"type_switch_statement":     true,
	"range_clause":              true,
	"binary_expression":         true,
	"labeled_statement":         true,
	"select_statement":          true,
	"send_statement":            true,
	"index_expression":          true,
	"slice_expression":          true,
	"type_assertion_expression": true,
}

// goDeclarationKinds cover middles that are themselves top-level syntax.
var goDeclarationKinds = map[string]bool{
	"function_declaration": true,
	"method_declaration":   true,
	"type_declaration":     true,
	"import_declaration":   true,
	"field_declaration":    true,
	"interface_type":       true,
	"struct_type":          true,
	"var_declaration":      true,
	"const_declaration":    true,
}

// MeaningfulMiddle for Go leans on the parser: a fragment is completable
// when it yields at least one substantive statement or declaration node.
func (goStrategy) MeaningfulMiddle(middle string) bool {
	s := strings.TrimSpace(middle)
	if s == "" {
		return false
	}
	// A bare brace run or punctuation never parses into anything named.
	if !hasWord(s) {
		return false
	}
	// Statement fragments only parse once hosted in a function body; the
	// raw parse covers middles that are themselves declarations.
	wrapped := "package p\n\nfunc _() {\n" + middle + "\n}\n"
	if hasSubstantiveNode(golang.GetLanguage(), []byte(wrapped), goStatementKinds) {
		return true
	}
	return hasSubstantiveNode(golang.GetLanguage(), []byte(middle), goDeclarationKinds)
}
