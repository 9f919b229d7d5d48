package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bluesky21/spotify/internal/tasks"
)

func TestPalette(t *testing.T) {
	// a bytes.Buffer is not a terminal, so nothing is colored
	p := NewPalette(&bytes.Buffer{})

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"title", p.Title("Heading"), "Heading"},
		{"help", p.Help("hint"), "hint"},
		{"ok", p.OK("done"), "✓ done"},
		{"warn", p.Warn("careful"), "⚠ careful"},
		{"err", p.Err("failed"), "✗ failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, tt.got)
			}
		})
	}

	t.Run("progress", func(t *testing.T) {
		line := p.Progress(tasks.ProgressUpdate{Phase: tasks.ResolveSeeds, Step: 2, Total: 5, Message: "Resolved 2 artist seeds"})
		if line != "[2/5] Resolved 2 artist seeds" {
			t.Errorf("unexpected progress line %q", line)
		}
		if strings.Contains(line, "\x1b[") {
			t.Errorf("expected no escape codes, got %q", line)
		}
	})
}
