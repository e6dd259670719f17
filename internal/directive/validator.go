package directive

// Failure classifies why a window was rejected.
type Failure int

const (
	// FailNone means the window is structurally sound.
	FailNone Failure = iota
	// FailOrphan is an #else/#elif with no enclosing open conditional
	// visible to the model.
	FailOrphan
	// FailUnmatchedEndif is an #endif with no open conditional at all.
	FailUnmatchedEndif
)

func (f Failure) String() string {
	switch f {
	case FailOrphan:
		return "orphan_directive"
	case FailUnmatchedEndif:
		return "unmatched_endif"
	}
	return "ok"
}

// Options control the window-visibility policy. Both rules are policy
// choices surfaced in the configuration.
type Options struct {
	// RequireVisibleOpener rejects an #else/#elif/#endif inside the window
	// whose opener lies before the window start. When false such directives
	// are tolerated as enclosing scope the model is not expected to see.
	RequireVisibleOpener bool
	// CheckSuffix applies the mirrored rule through middle and suffix:
	// the scan continues to suffixEnd instead of stopping at prefixEnd.
	CheckSuffix bool
}

// Result is the verdict of a window check.
type Result struct {
	Failure Failure
	// Offset of the failing directive line, -1 when ok.
	Offset int
	// ResidualDepth is the number of frames still open at prefixEnd:
	// the window's conditional nesting level.
	ResidualDepth int
	Warnings      []Warning
}

// Ok reports whether the window passed.
func (r Result) Ok() bool { return r.Failure == FailNone }

type frame struct {
	kind      Kind
	offset    int
	condition string
	sawBranch bool // an #elif/#else divider was seen for this frame
}

// Check validates the directive state of a candidate window. The scan
// always starts at offset 0 of the full file text: a window-local scan
// cannot tell a genuinely orphaned directive from one whose opener merely
// lies outside the window. prefixStart and prefixEnd bound the retained
// prefix; suffixEnd bounds the retained suffix (prefix+middle+suffix is a
// contiguous slice, so a single forward scan covers the mirror rule).
//
// Failure rules:
//   - #else/#elif (or #endif) with an empty stack anywhere in scan range
//     is a genuine defect and always fails;
//   - #else/#elif/#endif inside the window whose opener precedes
//     prefixStart fails only under RequireVisibleOpener. The retained
//     prefix therefore always validates on its own: every directive it
//     carries pairs against an opener it also carries.
func Check(text []byte, prefixStart, prefixEnd, suffixEnd int, opts Options) Result {
	scanEnd := prefixEnd
	if opts.CheckSuffix && suffixEnd > scanEnd {
		scanEnd = suffixEnd
	}

	events, warnings := Scan(text, scanEnd)

	// Explicit slice-backed stack: nesting depth is unbounded and must
	// not ride the call stack.
	stack := make([]frame, 0, 8)
	residual := -1

	fail := func(f Failure, off int) Result {
		return Result{Failure: f, Offset: off, ResidualDepth: depthAt(residual, len(stack)), Warnings: warnings}
	}

	for _, ev := range events {
		if residual < 0 && ev.Offset >= prefixEnd {
			residual = len(stack)
		}

		switch ev.Kind {
		case If, Ifdef, Ifndef:
			stack = append(stack, frame{kind: ev.Kind, offset: ev.Offset, condition: ev.Condition})

		case Elif, Else:
			if len(stack) == 0 {
				return fail(FailOrphan, ev.Offset)
			}
			top := &stack[len(stack)-1]
			if opts.RequireVisibleOpener && ev.Offset >= prefixStart && top.offset < prefixStart {
				return fail(FailOrphan, ev.Offset)
			}
			top.sawBranch = true

		case Endif:
			if len(stack) == 0 {
				return fail(FailUnmatchedEndif, ev.Offset)
			}
			// Same visibility rule as #elif/#else: a closer inside the
			// window (or past it, under the suffix scan) whose opener was
			// truncated away asks the model to pair against scope it
			// cannot see.
			top := stack[len(stack)-1]
			if opts.RequireVisibleOpener && ev.Offset >= prefixStart && top.offset < prefixStart {
				return fail(FailUnmatchedEndif, ev.Offset)
			}
			stack = stack[:len(stack)-1]
		}
	}

	if residual < 0 {
		residual = len(stack)
	}
	return Result{Failure: FailNone, Offset: -1, ResidualDepth: residual, Warnings: warnings}
}

func depthAt(residual, current int) int {
	if residual >= 0 {
		return residual
	}
	return current
}

// Balanced checks a whole file: it passes iff every #elif/#else/#endif has
// a preceding unmatched opener. Frames left open at end of file are fine.
func Balanced(text []byte) Result {
	return Check(text, 0, len(text), len(text), Options{RequireVisibleOpener: true})
}
