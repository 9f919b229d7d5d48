// package formatter renders the outcome of a playlist run as a summary or as an export file (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bluesky21/spotify/internal/models"
	"github.com/bluesky21/spotify/internal/shared"
)

const trackURLPrefix = "https://open.spotify.com/track/"

// Report is the printable outcome of a run.
type Report struct {
	Playlist    *models.Playlist
	Description string
	Seeds       models.SeedSet
	Tracks      []models.Track
}

// Format is an export file format.
type Format string

const (
	CSV      Format = "csv"
	Markdown Format = "markdown"
	Text     Format = "text"
)

// FormatFor picks the export format from a file extension: .csv, .md/.markdown, anything else is text.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return CSV
	case ".md", ".markdown":
		return Markdown
	default:
		return Text
	}
}

func trackLine(t models.Track) string {
	artists := strings.Join(t.ArtistNames(), ", ")
	if artists == "" {
		return t.Name
	}
	return fmt.Sprintf("%s - %s", artists, t.Name)
}

func playlistName(r Report) string {
	if r.Playlist == nil {
		return "(not created)"
	}
	return r.Playlist.Name
}

// Summary renders a short plain-text account of the run.
func Summary(r Report) string {
	var buf bytes.Buffer

	if r.Playlist != nil {
		fmt.Fprintf(&buf, "Playlist: %s (%s)\n", r.Playlist.Name, shared.VisibilityString(r.Playlist.Public))
		fmt.Fprintf(&buf, "ID: %s\n", r.Playlist.ID)
		if r.Playlist.URL != "" {
			fmt.Fprintf(&buf, "URL: %s\n", r.Playlist.URL)
		}
	}
	if r.Description != "" {
		fmt.Fprintf(&buf, "Description: %s\n", r.Description)
	}

	if len(r.Seeds.Artists) > 0 {
		buf.WriteString("Seeds:\n")
		for _, a := range r.Seeds.Artists {
			fmt.Fprintf(&buf, "  %s (%s)\n", a.Name, a.ID)
		}
	} else if r.Seeds.Len() > 0 {
		fmt.Fprintf(&buf, "Seeds: %d %s seeds\n", r.Seeds.Len(), r.Seeds.Kind)
	}

	fmt.Fprintf(&buf, "Tracks: %d\n", len(r.Tracks))
	for i, t := range r.Tracks {
		fmt.Fprintf(&buf, "%3d. %s\n", i+1, trackLine(t))
	}

	return buf.String()
}

// ExportToCSV converts the recommended tracks to CSV with columns: ID, Title, Artists, Album, URL
func ExportToCSV(r Report) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"ID", "Title", "Artists", "Album", "URL"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, t := range r.Tracks {
		record := []string{t.ID, t.Name, strings.Join(t.ArtistNames(), "; "), t.Album, trackURLPrefix + t.ID}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts the run to a Markdown document with a linked track list
func ExportToMarkdown(r Report) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", playlistName(r))

	if r.Description != "" {
		fmt.Fprintf(&buf, "**Description**: %s\n\n", r.Description)
	}

	fmt.Fprintf(&buf, "**Tracks**: %d\n", len(r.Tracks))
	if r.Playlist != nil {
		fmt.Fprintf(&buf, "**Visibility**: %s\n", shared.VisibilityString(r.Playlist.Public))
		if r.Playlist.URL != "" {
			fmt.Fprintf(&buf, "**Link**: %s\n", r.Playlist.URL)
		}
	}
	buf.WriteString("\n## Tracks\n\n")

	for i, t := range r.Tracks {
		album := ""
		if t.Album != "" {
			album = fmt.Sprintf(" (%s)", t.Album)
		}
		fmt.Fprintf(&buf, "%d. [%s](%s%s)%s\n", i+1, trackLine(t), trackURLPrefix, t.ID, album)
	}

	return buf.Bytes(), nil
}

// ExportToText converts the run to plain text
func ExportToText(r Report) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", playlistName(r))
	if r.Description != "" {
		fmt.Fprintf(&buf, "Description: %s\n", r.Description)
	}
	fmt.Fprintf(&buf, "Tracks: %d\n\n", len(r.Tracks))

	for i, t := range r.Tracks {
		fmt.Fprintf(&buf, "%d. %s\n", i+1, trackLine(t))
	}

	return buf.Bytes(), nil
}

// WriteExport renders r in the format implied by path's extension and writes it to path.
func WriteExport(r Report, path string) (Format, error) {
	if path == "" {
		return "", fmt.Errorf("%w: export path", shared.ErrMissingArgument)
	}

	format := FormatFor(path)

	var data []byte
	var err error
	switch format {
	case CSV:
		data, err = ExportToCSV(r)
	case Markdown:
		data, err = ExportToMarkdown(r)
	default:
		data, err = ExportToText(r)
	}
	if err != nil {
		return format, fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return format, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return format, fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return format, nil
}
