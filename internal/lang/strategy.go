// Package lang holds the per-language heuristics used by the content
// quality phase. Adding a language means adding a Strategy here; the
// filter chain itself stays untouched.
package lang

import (
	"context"
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"
)

// Strategy decides whether a middle span is meaningfully completable for
// one language. Implementations must be safe for concurrent use.
type Strategy interface {
	Name() string
	MeaningfulMiddle(middle string) bool
}

// ForLanguage selects the strategy for a language tag. Unknown tags fall
// back to the generic token heuristic.
func ForLanguage(tag string) Strategy {
	switch tag {
	case "cpp":
		return cppStrategy{}
	case "go":
		return goStrategy{}
	}
	return genericStrategy{}
}

// hasSubstantiveNode parses a fragment and reports whether the tree holds
// at least one named node of a substantive kind. Fragments rarely parse
// cleanly, so ERROR nodes are expected and recursion descends into them.
func hasSubstantiveNode(language *sitter.Language, src []byte, kinds map[string]bool) bool {
	parser := sitter.NewParser()
	parser.SetLanguage(language)
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil || tree == nil {
		return false
	}

	var walk func(n *sitter.Node) bool
	walk = func(n *sitter.Node) bool {
		if n == nil {
			return false
		}
		if kinds[n.Type()] && hasWord(n.Content(src)) {
			return true
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if walk(n.NamedChild(i)) {
				return true
			}
		}
		return false
	}
	return walk(tree.RootNode())
}

// hasWord reports whether s contains a run of at least two letters or
// digits, i.e. something beyond punctuation and whitespace.
func hasWord(s string) bool {
	run := 0
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			run++
			if run >= 2 {
				return true
			}
		} else {
			run = 0
		}
	}
	return false
}

type genericStrategy struct{}

func (genericStrategy) Name() string { return "generic" }

// MeaningfulMiddle for unmapped languages: at least one word-like token.
func (genericStrategy) MeaningfulMiddle(middle string) bool {
	return hasWord(strings.TrimSpace(middle))
}
