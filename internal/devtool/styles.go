package devtool

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	kindStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
)

// Printer writes styled status lines.
type Printer struct {
	w io.Writer
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) line(style lipgloss.Style, format string, args ...any) {
	fmt.Fprintln(p.w, style.Render(fmt.Sprintf(format, args...)))
}

func (p *Printer) Heading(format string, args ...any) { p.line(headingStyle, format, args...) }
func (p *Printer) Info(format string, args ...any)    { p.line(infoStyle, format, args...) }
func (p *Printer) Success(format string, args ...any) { p.line(successStyle, "✔ "+format, args...) }
func (p *Printer) Error(format string, args ...any)   { p.line(errorStyle, "✖ "+format, args...) }
func (p *Printer) Muted(format string, args ...any)   { p.line(mutedStyle, format, args...) }

// ErrorLine renders err the way the CLI reports fatal errors.
func ErrorLine(err error) string {
	return errorStyle.Render("✖ " + err.Error())
}
