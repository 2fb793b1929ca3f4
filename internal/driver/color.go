package driver

import (
	"io"
	"os"

	"github.com/muesli/termenv"
	"github.com/xltrail/git-xl/internal/config"
	"golang.org/x/term"
)

// Colorizer decorates output lines with ANSI styles, or leaves them alone
// when colors are off.
type Colorizer struct {
	out     *termenv.Output
	enabled bool
}

// NewColorizer returns a Colorizer for w. In auto mode, colors are on when
// w is a terminal.
func NewColorizer(w io.Writer, mode string) *Colorizer {
	enabled := false
	switch mode {
	case config.ColorAlways:
		enabled = true
	case config.ColorAuto:
		if f, ok := w.(*os.File); ok {
			enabled = term.IsTerminal(int(f.Fd()))
		}
	}
	return &Colorizer{
		out:     termenv.NewOutput(w, termenv.WithProfile(termenv.ANSI)),
		enabled: enabled,
	}
}

// NoColors returns a Colorizer that leaves text alone.
func NoColors() *Colorizer {
	return &Colorizer{}
}

func (c *Colorizer) style(s string, apply func(termenv.Style) termenv.Style) string {
	if c == nil || !c.enabled {
		return s
	}
	return apply(c.out.String(s)).String()
}

func (c *Colorizer) Bold(s string) string {
	return c.style(s, termenv.Style.Bold)
}

func (c *Colorizer) Faint(s string) string {
	return c.style(s, termenv.Style.Faint)
}

func (c *Colorizer) foreground(s string, color termenv.ANSIColor) string {
	return c.style(s, func(st termenv.Style) termenv.Style {
		return st.Foreground(color)
	})
}

func (c *Colorizer) Red(s string) string {
	return c.foreground(s, termenv.ANSIRed)
}

func (c *Colorizer) Green(s string) string {
	return c.foreground(s, termenv.ANSIGreen)
}

func (c *Colorizer) Cyan(s string) string {
	return c.foreground(s, termenv.ANSICyan)
}

func (c *Colorizer) Yellow(s string) string {
	return c.foreground(s, termenv.ANSIYellow)
}

// DiffLine colors a line of a unified diff by its prefix.
func (c *Colorizer) DiffLine(line string) string {
	switch {
	case line == "":
		return line
	case line[0] == '-':
		return c.Red(line)
	case line[0] == '+':
		return c.Green(line)
	case line[0] == '@':
		return c.Cyan(line)
	default:
		return line
	}
}
