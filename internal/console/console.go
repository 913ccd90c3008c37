package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ANSI colors for message kinds
const (
	InfoColor    = "2" // green
	WarningColor = "3" // yellow
	ErrorColor   = "1" // red
)

// Console prints styled messages: informational ones to Out, warnings and
// errors to Err. Styles degrade to plain text when a writer is not a terminal.
type Console struct {
	Out io.Writer
	Err io.Writer

	info    lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
}

// New creates a console writing to out and errOut
func New(out, errOut io.Writer) *Console {
	outRenderer := lipgloss.NewRenderer(out)
	errRenderer := lipgloss.NewRenderer(errOut)

	return &Console{
		Out:     out,
		Err:     errOut,
		info:    outRenderer.NewStyle().Foreground(lipgloss.Color(InfoColor)),
		warning: errRenderer.NewStyle().Foreground(lipgloss.Color(WarningColor)),
		failure: errRenderer.NewStyle().Foreground(lipgloss.Color(ErrorColor)),
	}
}

// Stdio returns a console bound to the process streams
func Stdio() *Console {
	return New(os.Stdout, os.Stderr)
}

// Info prints msg to Out
func (c *Console) Info(msg string) {
	c.print(c.Out, c.info, msg)
}

// Warning prints msg to Err
func (c *Console) Warning(msg string) {
	c.print(c.Err, c.warning, msg)
}

// Error prints msg to Err
func (c *Console) Error(msg string) {
	c.print(c.Err, c.failure, msg)
}

func (c *Console) print(w io.Writer, style lipgloss.Style, msg string) {
	fmt.Fprintln(w, style.Render(strings.TrimRight(msg, "\n")))
}
