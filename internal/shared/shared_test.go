package shared

import (
	"bytes"
	"strings"
	"testing"
)

func TestNormalizeSongKey(t *testing.T) {
	tc := []struct {
		name   string
		title  string
		artist string
		want   string
	}{
		{
			name:   "basic normalization",
			title:  "Bésame Mucho",
			artist: "Consuelo Velázquez",
			want:   "bésame mucho|consuelo velázquez",
		},
		{
			name:   "extra whitespace",
			title:  "  Song   Title  ",
			artist: "  Artist   Name  ",
			want:   "song title|artist name",
		},
		{
			name:   "mixed case",
			title:  "SoNg TiTlE",
			artist: "ArTiSt NaMe",
			want:   "song title|artist name",
		},
		{
			name:   "missing artist",
			title:  "La Vie en Rose",
			artist: "",
			want:   "la vie en rose|",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeSongKey(tt.title, tt.artist)
			if got != tt.want {
				t.Errorf("NormalizeSongKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	t.Run("WithLogger adds fields", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WithLogger(NewLogger(&buf), "request_id", "abc123")
		logger.Info("hello")

		if !strings.Contains(buf.String(), "request_id=abc123") {
			t.Errorf("expected request_id field in output, got %q", buf.String())
		}
	})

	t.Run("GenerateID is unique", func(t *testing.T) {
		a, b := GenerateID(), GenerateID()
		if a == "" || a == b {
			t.Errorf("expected distinct non-empty IDs, got %q and %q", a, b)
		}
	})

	t.Run("MarshalJSON pretty", func(t *testing.T) {
		data, err := MarshalJSON(map[string]string{"front": "Te quiero"}, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(string(data), "\n  \"front\"") {
			t.Errorf("expected indented JSON, got %s", data)
		}
	})
}

func TestDSN(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{":memory:", ":memory:"},
		{"file:cache?mode=memory&cache=shared", "file:cache?mode=memory&cache=shared"},
		{"./lyrx.db", "./lyrx.db?" + fileDSNParams},
		{"file:lyrx.db?cache=shared", "file:lyrx.db?cache=shared&" + fileDSNParams},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			if got := dsn(tc.path); got != tc.want {
				t.Errorf("dsn(%q) = %q, want %q", tc.path, got, tc.want)
			}
		})
	}
}
