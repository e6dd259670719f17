package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan_ClassifiesKinds(t *testing.T) {
	src := []byte(`#include <stdio.h>
#if FOO > 1
#ifdef BAR
#ifndef BAZ
#elif FOO == 2
#else
#endif
#define QUX 1
`)
	events, warnings := Scan(src, len(src))
	require.Empty(t, warnings)
	require.Len(t, events, 6, "#include and #define are not conditional directives")

	kinds := make([]Kind, 0, len(events))
	for _, ev := range events {
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, []Kind{If, Ifdef, Ifndef, Elif, Else, Endif}, kinds)

	assert.Equal(t, "FOO > 1", events[0].Condition)
	assert.Equal(t, "BAR", events[1].Condition)
	assert.Equal(t, 2, events[0].Line)
}

func TestScan_IndentedAndSpacedDirectives(t *testing.T) {
	src := []byte("   #  ifdef FOO\n\t#endif\n")
	events, warnings := Scan(src, len(src))
	require.Empty(t, warnings)
	require.Len(t, events, 2)
	assert.Equal(t, Ifdef, events[0].Kind)
	assert.Equal(t, Endif, events[1].Kind)
}

func TestScan_MalformedDirectivesWarnAndSkip(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"endif with stray tokens", "#endif FOO\n"},
		{"else with stray tokens", "#else 1\n"},
		{"if without condition", "#if\n"},
		{"ifdef with two names", "#ifdef FOO BAR\n"},
		{"ifdef without name", "#ifdef\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			events, warnings := Scan([]byte(tc.src), len(tc.src))
			assert.Empty(t, events, "malformed line must be skipped for stack purposes")
			require.Len(t, warnings, 1)
			assert.Equal(t, 1, warnings[0].Line)
		})
	}
}

func TestScan_TrailingCommentsTolerated(t *testing.T) {
	src := []byte("#ifdef FOO // enables foo\n#endif /* FOO */\n")
	events, warnings := Scan(src, len(src))
	require.Empty(t, warnings)
	require.Len(t, events, 2)
	assert.Equal(t, "FOO", events[0].Condition)
}

func TestScan_RespectsLimit(t *testing.T) {
	src := []byte("#ifdef A\nint x;\n#endif\n")
	limit := len("#ifdef A\nint x;\n") // scan stops before the #endif line
	events, _ := Scan(src, limit)
	require.Len(t, events, 1)
	assert.Equal(t, Ifdef, events[0].Kind)
}
