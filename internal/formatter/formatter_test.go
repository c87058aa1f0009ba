package formatter

import (
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/vinyl/internal/services"
	th "github.com/desertthunder/vinyl/internal/testing"
)

func sampleLibrary() []services.Album {
	return []services.Album{
		{
			ID:          "alb1",
			Name:        "Blue Train",
			Artist:      "John Coltrane",
			ReleaseDate: "1958-01-15",
			TotalTracks: 5,
			URI:         "spotify:album:alb1",
		},
		{
			ID:          "alb2",
			Name:        "Kind of Blue",
			Artist:      "Miles Davis",
			ReleaseDate: "1959-08-17",
			TotalTracks: 5,
			URI:         "spotify:album:alb2",
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleLibrary())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("expected parseable CSV, got %v", err)
		}

		if len(records) != 3 {
			t.Fatalf("expected header plus 2 rows, got %d", len(records))
		}
		if records[0][0] != "ID" || records[0][2] != "Artist" {
			t.Errorf("unexpected header %v", records[0])
		}
		if records[1][1] != "Blue Train" || records[1][4] != "5" {
			t.Errorf("unexpected row %v", records[1])
		}
	})

	t.Run("ExportToCSV Empty Library", func(t *testing.T) {
		data, err := ExportToCSV(nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if lines := strings.Count(strings.TrimSpace(string(data)), "\n"); lines != 0 {
			t.Errorf("expected only a header line, got %q", data)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleLibrary(), "My Records")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := string(data)
		if !strings.HasPrefix(out, "# My Records") {
			t.Errorf("expected the title heading, got %q", out)
		}
		if !strings.Contains(out, "**Albums**: 2") {
			t.Error("expected the album count")
		}
		if !strings.Contains(out, "1. John Coltrane - Blue Train (1958-01-15) [5 tracks]") {
			t.Errorf("unexpected album line in %q", out)
		}
	})

	t.Run("ExportToMarkdown Default Title", func(t *testing.T) {
		data, err := ExportToMarkdown(nil, "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.HasPrefix(string(data), "# Saved Albums") {
			t.Errorf("expected the default title, got %q", data)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleLibrary(), "My Records")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := string(data)
		if !strings.Contains(out, "Albums: 2") {
			t.Error("expected the album count")
		}
		if !strings.Contains(out, "2. Miles Davis - Kind of Blue") {
			t.Errorf("unexpected album line in %q", out)
		}
	})

	t.Run("ToMetadataJSON", func(t *testing.T) {
		data, err := ToMetadataJSON("My Records", 2)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(string(data), `"count": 2`) {
			t.Errorf("unexpected metadata %q", data)
		}
	})
}

func TestRender(t *testing.T) {
	cases := []struct {
		name   string
		format Format
		marker string
	}{
		{"CSV", FormatCSV, "ID,Name,Artist"},
		{"Markdown", FormatMarkdown, "# Saved Albums"},
		{"Text", FormatText, "Albums: 2"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			data, err := Render(sampleLibrary(), c.format, "")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(string(data), c.marker) {
				t.Errorf("expected %q in output, got %q", c.marker, data)
			}
		})
	}

	t.Run("Unknown Format", func(t *testing.T) {
		if _, err := Render(sampleLibrary(), Format("yaml"), ""); err == nil {
			t.Error("expected error for an unknown format")
		}
	})
}

func TestWriteExport(t *testing.T) {
	t.Run("Writes To Given Path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "records.csv")

		written, err := WriteExport(sampleLibrary(), FormatCSV, "", path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if written != path {
			t.Errorf("expected %s, got %s", path, written)
		}

		th.AssertFileExists(t, path)
		if !strings.Contains(th.MustReadFile(t, path), "Blue Train") {
			t.Error("expected album data in the file")
		}
	})

	t.Run("Defaults The Filename", func(t *testing.T) {
		wd := th.MustGetwd(t)
		th.MustChdir(t, t.TempDir())
		defer th.MustChdir(t, wd)

		written, err := WriteExport(sampleLibrary(), FormatMarkdown, "", "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if written != "library.md" {
			t.Errorf("expected library.md, got %s", written)
		}
		th.AssertFileExists(t, written)
	})

	t.Run("Unknown Format Writes Nothing", func(t *testing.T) {
		if _, err := WriteExport(nil, Format("yaml"), "", ""); err == nil {
			t.Error("expected error for an unknown format")
		}
	})
}
