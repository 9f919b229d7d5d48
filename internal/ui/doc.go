// Package ui styles terminal output with lipgloss.
//
// A [Palette] is bound to the writer it renders for, so output piped to a file or another
// program carries no escape codes. [Palette.Progress] formats engine progress updates as
// numbered step lines.
package ui
