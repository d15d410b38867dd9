package diagnostics

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	errorColor = lipgloss.Color("#EF4444")
	mutedColor = lipgloss.Color("#6B7280")

	locationStyle = lipgloss.NewStyle().Bold(true)
	kindStyle     = lipgloss.NewStyle().Foreground(mutedColor)
	summaryStyle  = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
)

// Emitter prints diagnostics one per line followed by a summary.
type Emitter struct {
	w     io.Writer
	color bool
}

func NewEmitter(w io.Writer, color bool) *Emitter {
	return &Emitter{w: w, color: color}
}

func (e *Emitter) Emit(diags []Diagnostic) error {
	for _, d := range diags {
		if _, err := fmt.Fprintln(e.w, e.line(d)); err != nil {
			return err
		}
	}
	if len(diags) == 0 {
		return nil
	}
	_, err := fmt.Fprintln(e.w, e.summary(len(diags)))
	return err
}

func (e *Emitter) line(d Diagnostic) string {
	if !e.color {
		return d.String()
	}
	return fmt.Sprintf("%s %s %s",
		locationStyle.Render(d.Location().String()+":"),
		d.Message,
		kindStyle.Render("["+d.Kind.String()+"]"))
}

func (e *Emitter) summary(n int) string {
	noun := "errors"
	if n == 1 {
		noun = "error"
	}
	text := fmt.Sprintf("Compilation halted due to %d static semantic %s.", n, noun)
	if !e.color {
		return text
	}
	return summaryStyle.Render(text)
}
