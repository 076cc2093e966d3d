package adforge

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// ScriptDiff returns a unified diff from one script revision to the next.
// It returns an empty string when the text did not change.
func ScriptDiff(previous, revised *Script, contextLines int) (string, error) {
	var a, b string
	var fromRev, toRev int
	if previous != nil {
		a, fromRev = previous.Text, previous.Revision
	}
	if revised != nil {
		b, toRev = revised.Text, revised.Revision
	}
	if a == b {
		return "", nil
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(ensureNewline(a)),
		B:        difflib.SplitLines(ensureNewline(b)),
		FromFile: fmt.Sprintf("script (revision %d)", fromRev),
		ToFile:   fmt.Sprintf("script (revision %d)", toRev),
		Context:  contextLines,
	}
	return difflib.GetUnifiedDiffString(diff)
}

func ensureNewline(s string) string {
	if s == "" || s[len(s)-1] == '\n' {
		return s
	}
	return s + "\n"
}
