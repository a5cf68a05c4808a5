package render

import (
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/toninf/sqalchemy-deepdiff/canon"
)

// TextDiff produces a line-oriented textual diff of two snapshots'
// pretty forms, with -/+ prefixes, for human review.
func TextDiff(a, b *canon.Value) string {
	dmp := diffpatch.New()
	aTxt, bTxt := Pretty(a), Pretty(b)
	ra, rb, lines := dmp.DiffLinesToRunes(aTxt, bTxt)
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(ra, rb, false), lines)

	buf := strings.Builder{}
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffpatch.DiffDelete:
			prefix = "- "
		case diffpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range splitLines(d.Text) {
			buf.WriteString(prefix)
			buf.WriteString(line)
			buf.WriteByte('\n')
		}
	}
	return buf.String()
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
