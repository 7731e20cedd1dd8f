// Package diff renders the unified diffs shown by dry runs.
package diff

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Unified returns a unified diff between before and after, labelled with path.
// It returns an empty string when the two are equal.
func Unified(path, before, after string) (string, error) {
	if before == after {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	})
}
