package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForLanguage(t *testing.T) {
	assert.Equal(t, "cpp", ForLanguage("cpp").Name())
	assert.Equal(t, "go", ForLanguage("go").Name())
	assert.Equal(t, "generic", ForLanguage("fortran").Name())
}

func TestCppStrategy_MeaningfulMiddle(t *testing.T) {
	s := ForLanguage("cpp")

	accept := []string{
		"int sum = a + b;\n",
		"result.push_back(compute(x));\n",
		"if (count > 0) {\n    total += count;\n}\n",
		"return values[i];\n",
		"#include <vector>\n",
		"std::string name;\n",
		"class Widget {\n",
	}
	for _, m := range accept {
		assert.True(t, s.MeaningfulMiddle(m), "should accept %q", m)
	}

	reject := []string{
		"",
		"    \n",
		"kTimeoutMs,\n", // trailing comma
		"private:\n",
		"public:\n",
		"obj->\n", // dangling member access
		"ns::\n",  // dangling scope operator
		"#pragma once\n",
	}
	for _, m := range reject {
		assert.False(t, s.MeaningfulMiddle(m), "should reject %q", m)
	}
}

func TestGoStrategy_MeaningfulMiddle(t *testing.T) {
	s := ForLanguage("go")

	accept := []string{
		"x := compute(a, b)\n",
		"if err != nil {\n\treturn err\n}\n",
		"for i := range items {\n\ttotal += items[i]\n}\n",
		"defer f.Close()\n",
		"return nil\n",
	}
	for _, m := range accept {
		assert.True(t, s.MeaningfulMiddle(m), "should accept %q", m)
	}

	reject := []string{
		"",
		"}\n",
		"})\n",
		"   \n\t\n",
	}
	for _, m := range reject {
		assert.False(t, s.MeaningfulMiddle(m), "should reject %q", m)
	}
}

func TestGoStrategy_AcceptsTopLevelDeclarations(t *testing.T) {
	// Declarations do not parse inside a function body; the raw parse
	// covers them.
	s := ForLanguage("go")
	assert.True(t, s.MeaningfulMiddle("func Add(a, b int) int {\n\treturn a + b\n}\n"))
	assert.True(t, s.MeaningfulMiddle("type Point struct {\n\tX, Y int\n}\n"))
}

func TestGenericStrategy_MeaningfulMiddle(t *testing.T) {
	s := ForLanguage("generic")
	assert.True(t, s.MeaningfulMiddle("value = 42\n"))
	assert.False(t, s.MeaningfulMiddle("(){};\n"))
	assert.False(t, s.MeaningfulMiddle(""))
}

func TestHasWord(t *testing.T) {
	assert.True(t, hasWord("ab"))
	assert.True(t, hasWord("_x"))
	assert.False(t, hasWord("a b"))
	assert.False(t, hasWord(")("))
}
