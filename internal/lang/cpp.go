package lang

import (
	"regexp"
	"strings"

	"github.com/smacker/go-tree-sitter/cpp"
)

type cppStrategy struct{}

func (cppStrategy) Name() string { return "cpp" }

var (
	cppAccessSpecRe = regexp.MustCompile(`^\s*(public|private|protected)\s*:\s*$`)
	cppMeaningfulRe = regexp.MustCompile(
		`\w+\s*\([^)]*\)|` + // call or signature
			`\w+\s*=\s*\S|` + // assignment
			`(class|struct|enum|namespace)\s+\w+|` +
			`(if|for|while|switch)\s*\(|` +
			`return\s+\S|` +
			`#include\s*[<"]|` +
			`\w+::\w+`, // scope resolution
	)
	cppKeywordRe = regexp.MustCompile(
		`\b(const|static|virtual|override|inline|typedef|template|typename|` +
			`int|double|float|char|bool|void|using)\b`)
)

var cppSubstantiveKinds = map[string]bool{
	"call_expression":       true,
	"function_definition":   true,
	"function_declarator":   true,
	"declaration":           true,
	"field_declaration":     true,
	"init_declarator":       true,
	"assignment_expression": true,
	"return_statement":      true,
	"if_statement":          true,
	"for_statement":         true,
	"while_statement":       true,
	"switch_statement":      true,
	"class_specifier":       true,
	"struct_specifier":      true,
	"enum_specifier":        true,
	"namespace_definition":  true,
	"preproc_include":       true,
	"preproc_def":           true,
}

// MeaningfulMiddle judges whether a C/C++ middle represents a completion
// worth training on. Trailing commas, lone access specifiers and dangling
// scope operators are the dominant junk classes in raw extractions.
func (cppStrategy) MeaningfulMiddle(middle string) bool {
	s := strings.TrimSpace(middle)
	if s == "" {
		return false
	}

	if strings.HasSuffix(s, ",") {
		return false
	}
	if cppAccessSpecRe.MatchString(s) {
		return false
	}
	// Dangling member/scope access with nothing of substance behind it.
	if len(s) < 15 {
		for _, suf := range []string{"::", "->", ".", "("} {
			if strings.HasSuffix(s, suf) {
				return false
			}
		}
	}
	// A middle that is nothing but preprocessor lines is only acceptable
	// when it carries includes or definitions.
	if strings.HasPrefix(s, "#") &&
		!strings.Contains(s, "#include") && !strings.Contains(s, "#define") &&
		!strings.Contains(s, "#ifdef") && !strings.Contains(s, "#ifndef") {
		return false
	}

	if cppMeaningfulRe.MatchString(s) || cppKeywordRe.MatchString(s) {
		return true
	}
	return hasSubstantiveNode(cpp.GetLanguage(), []byte(middle), cppSubstantiveKinds)
}
