// package formatter provides functions to export the album library to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/desertthunder/vinyl/internal/services"
	"github.com/desertthunder/vinyl/internal/shared"
)

// ExportToCSV converts a list of albums to CSV format with columns: ID, Name, Artist, Released, Tracks, URI
func ExportToCSV(albums []services.Album) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Artist", "Released", "Tracks", "URI"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, album := range albums {
		record := []string{
			album.ID,
			album.Name,
			album.Artist,
			album.ReleaseDate,
			strconv.Itoa(album.TotalTracks),
			album.URI,
		}
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

// ExportToMarkdown converts a list of albums to Markdown format under the given title
func ExportToMarkdown(albums []services.Album, title string) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "Saved Albums"
	}

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Albums**: %d\n\n", len(albums)))

	buf.WriteString("## Albums\n\n")
	for i, album := range albums {
		releasePart := ""
		if album.ReleaseDate != "" {
			releasePart = fmt.Sprintf(" (%s)", album.ReleaseDate)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%d tracks]\n", i+1, album.Artist, album.Name, releasePart, album.TotalTracks))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a list of albums to plain text format
func ExportToText(albums []services.Album, title string) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "Saved Albums"
	}

	buf.WriteString(fmt.Sprintf("%s\n", title))
	buf.WriteString(fmt.Sprintf("Albums: %d\n\n", len(albums)))

	for i, album := range albums {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, album.Artist, album.Name))
	}

	return buf.Bytes(), nil
}

// ToMetadataJSON generates a JSON representation of the library summary (without album rows)
func ToMetadataJSON(title string, count int) ([]byte, error) {
	return shared.MarshalJSON(map[string]any{
		"title": title,
		"count": count,
	}, true)
}

// Format identifies an export format by name.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// Render produces the export payload for the given format.
func Render(albums []services.Album, format Format, title string) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(albums)
	case FormatMarkdown:
		return ExportToMarkdown(albums, title)
	case FormatText:
		return ExportToText(albums, title)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// DefaultFilename returns the conventional filename for a format.
func DefaultFilename(format Format) string {
	switch format {
	case FormatCSV:
		return "library.csv"
	case FormatMarkdown:
		return "library.md"
	default:
		return "library.txt"
	}
}

// WriteExport renders the library in the given format and writes it to path.
//
// An empty path defaults to [DefaultFilename]. The written path is returned.
func WriteExport(albums []services.Album, format Format, title, path string) (string, error) {
	data, err := Render(albums, format, title)
	if err != nil {
		return "", err
	}

	if path == "" {
		path = DefaultFilename(format)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
