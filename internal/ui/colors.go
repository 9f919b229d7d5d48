package ui

import (
	"fmt"
	"io"

	"github.com/bluesky21/spotify/internal/tasks"
	"github.com/charmbracelet/lipgloss"
)

// Default palette colors: title, success, error, warning, help.
const (
	TitleColor   = "#1DB954"
	SuccessColor = "#04B575"
	ErrorColor   = "#FF0000"
	WarningColor = "#FFA500"
	HelpColor    = "#626262"
)

// Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

// NewPalette creates a [Palette] with the default colors for w.
func NewPalette(w io.Writer) *Palette {
	return NewPaletteWithColors(w, TitleColor, SuccessColor, ErrorColor, WarningColor, HelpColor)
}

// NewPaletteWithColors creates a [Palette] for w. The color profile is detected from w.
func NewPaletteWithColors(w io.Writer, t, s, e, wn, h string) *Palette {
	r := lipgloss.NewRenderer(w)
	return &Palette{
		title: newStyle(r, t).Bold(true),
		ok:    newStyle(r, s).Bold(true),
		err:   newStyle(r, e).Bold(true),
		warn:  newStyle(r, wn),
		help:  newStyle(r, h).Italic(true),
	}
}

func newStyle(r *lipgloss.Renderer, fg string) lipgloss.Style {
	return r.NewStyle().Foreground(lipgloss.Color(fg))
}

func (p *Palette) Title(s string) string { return p.title.Render(s) }
func (p *Palette) Help(s string) string  { return p.help.Render(s) }

// OK renders s behind a check mark.
func (p *Palette) OK(s string) string { return p.ok.Render("✓ " + s) }

// Warn renders s behind a warning sign.
func (p *Palette) Warn(s string) string { return p.warn.Render("⚠ " + s) }

// Err renders s behind a cross.
func (p *Palette) Err(s string) string { return p.err.Render("✗ " + s) }

// Progress formats u as a step line, e.g. "[2/5] Resolved 2 artist seeds".
func (p *Palette) Progress(u tasks.ProgressUpdate) string {
	step := p.help.Render(fmt.Sprintf("[%d/%d]", u.Step, u.Total))
	return fmt.Sprintf("%s %s", step, u.Message)
}
