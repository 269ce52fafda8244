// Package console prints user-facing messages for the command-line tools.
//
// Styling goes through a lipgloss renderer bound to the destination writer,
// so plain files and buffers receive unstyled text.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	Name    = "OpenMMDL"
	Version = "1.2.0"
)

type Console struct {
	out io.Writer

	panel   lipgloss.Style
	title   lipgloss.Style
	subtle  lipgloss.Style
	header  lipgloss.Style
	errText lipgloss.Style
	warn    lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
}

func New(out io.Writer) *Console {
	r := lipgloss.NewRenderer(out)
	return &Console{
		out: out,
		panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 2),
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ffff")),
		subtle:  r.NewStyle().Foreground(lipgloss.Color("#666688")),
		header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")),
		errText: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444")),
		warn:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00")),
		label:   r.NewStyle().Foreground(lipgloss.Color("#888899")),
		value:   r.NewStyle().Foreground(lipgloss.Color("#00ccff")),
	}
}

func (c *Console) Writer() io.Writer {
	return c.out
}

// Banner prints the tool logo with a one-line description.
func (c *Console) Banner(tagline string) {
	body := lipgloss.JoinVertical(lipgloss.Center,
		c.title.Render(Name),
		tagline,
		c.subtle.Render("Version "+Version),
	)
	fmt.Fprintln(c.out, c.panel.Render(body))
}

// Header prints title between two rules.
func (c *Console) Header(title string) {
	rule := strings.Repeat("=", 70)
	fmt.Fprintln(c.out, rule)
	fmt.Fprintln(c.out, c.header.Render(title))
	fmt.Fprintln(c.out, rule)
}

func (c *Console) Rule() {
	fmt.Fprintln(c.out, c.subtle.Render(strings.Repeat("-", 70)))
}

func (c *Console) Println(a ...any) {
	fmt.Fprintln(c.out, a...)
}

func (c *Console) Printf(format string, a ...any) {
	fmt.Fprintf(c.out, format, a...)
}

// Field prints "label: value".
func (c *Console) Field(label, value string) {
	fmt.Fprintf(c.out, "%s %s\n", c.label.Render(label+":"), c.value.Render(value))
}

func (c *Console) Warn(msg string) {
	lines := strings.Split(msg, "\n")
	fmt.Fprintln(c.out, c.warn.Render("Warning: "+lines[0]))
	for _, l := range lines[1:] {
		fmt.Fprintln(c.out, "         "+l)
	}
}

func (c *Console) Error(msg string) {
	fmt.Fprintln(c.out, c.errText.Render(msg))
}
