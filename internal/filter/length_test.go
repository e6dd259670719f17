package filter

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fimcorpus/internal/directive"
)

func TestLengthPhase_UnderBudgetPassesThrough(t *testing.T) {
	c := makeCandidate("int a = 1;\nint b = 2;\nint c = 3;\n", "cpp", 0, 11, 22, 33)
	p := &lengthPhase{tokenBudget: 500, opts: directive.Options{RequireVisibleOpener: true}}

	v, out := p.Evaluate(c)
	assert.True(t, v.Accepted)
	assert.Same(t, c, out)
}

func TestLengthPhase_TruncatesPrefixToFit(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&b, "int x%d = %d;\n", i, i)
	}
	prefix := b.String() // 4 tokens per line
	middle := "int mid = 0;\n"
	suffix := "int fin = 0;\n"
	content := prefix + middle + suffix
	c := makeCandidate(content, "cpp", 0, len(prefix), len(prefix)+len(middle), len(content))

	p := &lengthPhase{tokenBudget: 20, opts: directive.Options{RequireVisibleOpener: true}}
	v, out := p.Evaluate(c)
	require.True(t, v.Accepted)
	require.NotSame(t, c, out)

	assert.True(t, out.Contiguous())
	assert.LessOrEqual(t, tokens(out.Prefix)+tokens(out.Middle)+tokens(out.Suffix), 20)
	assert.Equal(t, c.Prefix, string(c.File.Content[:c.Offset]), "input candidate stays untouched")
	assert.True(t, strings.HasSuffix(c.Prefix, out.Prefix), "truncation drops leading lines only")
}

func TestLengthPhase_RejectsWhenTruncationBreaksDirectivePairing(t *testing.T) {
	// Fitting the budget would drop the #ifdef line while its #else stays
	// in the prefix. Truncation must not buy budget at the price of a
	// structural defect.
	src := "#ifdef X\nint a1 = 1;\nint a2 = 2;\nint a3 = 3;\nint a4 = 4;\n#else\nint b1 = 1;\nint b2 = 2;\n#endif\n"
	offset := strings.Index(src, "int b2")
	middleEnd := strings.Index(src, "#endif")
	c := makeCandidate(src, "cpp", 0, offset, middleEnd, len(src))

	p := &lengthPhase{tokenBudget: 15, opts: directive.Options{RequireVisibleOpener: true}}
	v, _ := p.Evaluate(c)
	require.False(t, v.Accepted)
	assert.Equal(t, ReasonOverBudget, v.Reason)
	assert.Equal(t, "token budget", v.Detail)
}

func TestLengthPhase_RejectsWhenMiddleAndSuffixAloneExceedBudget(t *testing.T) {
	c := makeCandidate("int a = 1;\nint b = 2;\nint c = 3;\n", "cpp", 0, 11, 22, 33)
	p := &lengthPhase{tokenBudget: 5, opts: directive.Options{}}
	v, _ := p.Evaluate(c)
	require.False(t, v.Accepted)
	assert.Equal(t, ReasonOverBudget, v.Reason)
}

func TestRatioTooLarge_AdaptiveCaps(t *testing.T) {
	cases := []struct {
		prefixLen, middleLen int
		over                 bool
		limit                float64
	}{
		{100, 110, false, 1.2},
		{100, 130, true, 1.2},
		{200, 150, false, 0.8},
		{200, 170, true, 0.8},
		{400, 230, false, 0.6},
		{400, 250, true, 0.6},
		{600, 230, false, 0.4},
		{600, 250, true, 0.4},
	}
	for _, tc := range cases {
		prefix := strings.Repeat("a", tc.prefixLen)
		middle := strings.Repeat("b", tc.middleLen)
		over, limit := ratioTooLarge(prefix, middle)
		assert.Equal(t, tc.over, over, "prefix %d middle %d", tc.prefixLen, tc.middleLen)
		assert.Equal(t, tc.limit, limit)
	}

	over, _ := ratioTooLarge("", "anything")
	assert.True(t, over, "empty prefix can never satisfy a ratio")
}

func TestLengthPhase_RejectsOversizedMiddleRatio(t *testing.T) {
	prefix := strings.Repeat("long_prefix_line_of_code();\n", 25) // 700 chars
	middle := strings.Repeat("middle_code_line_here();\n", 12)    // 300 chars
	suffix := "done();\n"
	content := prefix + middle + suffix
	c := makeCandidate(content, "cpp", 0, len(prefix), len(prefix)+len(middle), len(content))

	p := &lengthPhase{tokenBudget: 500, opts: directive.Options{}}
	v, _ := p.Evaluate(c)
	require.False(t, v.Accepted)
	assert.Equal(t, ReasonOverBudget, v.Reason)
	assert.Contains(t, v.Detail, "ratio")
}
