// Package render turns change sets and canonical values into terminal
// output. Nothing here feeds back into the reversible pipeline.
package render

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/toninf/sqalchemy-deepdiff/diff"
)

type Renderer struct {
	Color bool

	changed func(format string, a ...any) string
	added   func(format string, a ...any) string
	removed func(format string, a ...any) string
}

// New builds a renderer for w, colorizing when w is a terminal.
func New(w io.Writer) *Renderer {
	colorize := false
	if f, ok := w.(*os.File); ok {
		colorize = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return NewColor(colorize)
}

func NewColor(colorize bool) *Renderer {
	r := &Renderer{Color: colorize}
	if colorize {
		r.changed = color.YellowString
		r.added = color.GreenString
		r.removed = color.RedString
	} else {
		r.changed = fmt.Sprintf
		r.added = fmt.Sprintf
		r.removed = fmt.Sprintf
	}
	return r
}

// ChangeSet writes one line per operation:
//
//	~ $.records[0].date: @2025-05-05 -> @2027-07-07
//	+ $.tags: "spare" (x2)
//	- $.plate: "ABC123"
func (r *Renderer) ChangeSet(w io.Writer, cs diff.ChangeSet) error {
	for i := range cs {
		op := &cs[i]
		var line string
		switch op.Kind {
		case diff.Changed:
			line = r.changed("%s", op.String())
		case diff.Added:
			line = r.added("%s", op.String())
		case diff.Removed:
			line = r.removed("%s", op.String())
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
