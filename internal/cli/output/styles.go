package output

import (
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles are the text-mode styles of a renderer. Writers that are not
// terminals get no colors.
type Styles struct {
	Heading lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style
	Failure lipgloss.Style
	Muted   lipgloss.Style
}

func newStyles(w io.Writer, isTTY bool) Styles {
	lr := lipgloss.NewRenderer(w, termenv.WithColorCache(true))
	if !isTTY {
		lr.SetColorProfile(termenv.Ascii)
	}
	return Styles{
		Heading: lr.NewStyle().Bold(true),
		Warning: lr.NewStyle().Foreground(lipgloss.Color("214")),
		Success: lr.NewStyle().Foreground(lipgloss.Color("42")),
		Failure: lr.NewStyle().Foreground(lipgloss.Color("203")),
		Muted:   lr.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// Styles returns the styles of the result writer.
func (r *Renderer) Styles() Styles {
	return r.styles
}

// Heading writes text as a heading line.
func (r *Renderer) Heading(text string) {
	r.Println(r.styles.Heading.Render(text))
}

// Bool renders v colored by outcome.
func (r *Renderer) Bool(v bool) string {
	if v {
		return r.styles.Success.Render(strconv.FormatBool(v))
	}
	return r.styles.Failure.Render(strconv.FormatBool(v))
}

// renderLine styles a message, keeping a trailing newline outside the
// styled text.
func renderLine(style lipgloss.Style, msg string) string {
	trimmed := strings.TrimRight(msg, "\n")
	return style.Render(trimmed) + msg[len(trimmed):]
}
