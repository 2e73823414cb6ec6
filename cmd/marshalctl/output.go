package main

import (
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	nameColor      = forced(color.FgGreen)
	converterColor = forced(color.FgCyan)
	excludedColor  = forced(color.FgHiBlack)
	errColor       = forced(color.FgRed)
)

// forced returns a color that ignores fatih/color's global stdout detection;
// painter decides per writer instead.
func forced(attr color.Attribute) *color.Color {
	c := color.New(attr)
	c.EnableColor()
	return c
}

// useColor reports whether w is a terminal that should get colored output.
func useColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) && os.Getenv("NO_COLOR") == ""
}

// painter colors text only when writing to a terminal.
type painter struct {
	enabled bool
}

func newPainter(w io.Writer) painter {
	return painter{enabled: useColor(w)}
}

func (p painter) paint(c *color.Color, s string) string {
	if !p.enabled {
		return s
	}
	return c.Sprint(s)
}
