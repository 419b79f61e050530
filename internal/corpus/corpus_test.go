package corpus

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadText(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "corpus.txt", "  ایک دن <EOS>\n")
	got, err := LoadText(path)
	if err != nil {
		t.Fatalf("LoadText: %v", err)
	}
	if got != "ایک دن <EOS>" {
		t.Fatalf("LoadText = %q", got)
	}
}

func TestLoadStories(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		json    string
		want    string
		wantErr bool
	}{
		{
			name: "array of strings",
			json: `["ایک دن", "بچہ خوش ہوا"]`,
			want: "ایک دن بچہ خوش ہوا",
		},
		{
			name: "objects with mixed keys",
			json: `[{"full_text": "پہلی کہانی"}, {"story": "دوسری کہانی"}, {"text": "تیسری کہانی"}]`,
			want: "پہلی کہانی دوسری کہانی تیسری کہانی",
		},
		{
			name: "objects without text are skipped",
			json: `[{"title": "untitled"}, "ایک دن"]`,
			want: "ایک دن",
		},
		{
			name:    "top-level object rejected",
			json:    `{"stories": []}`,
			wantErr: true,
		},
		{
			name:    "malformed json rejected",
			json:    `[`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "stories.json", tt.json)
			got, err := LoadStories(path)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadStories: %v", err)
			}
			if got != tt.want {
				t.Fatalf("LoadStories = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadDispatch(t *testing.T) {
	t.Parallel()
	jsonPath := writeFile(t, "stories.json", `["ایک دن"]`)
	got, err := Load(jsonPath)
	if err != nil {
		t.Fatalf("Load(.json): %v", err)
	}
	if got != "ایک دن" {
		t.Fatalf("Load(.json) = %q", got)
	}

	txtPath := writeFile(t, "corpus.txt", "ایک دن")
	got, err = Load(txtPath)
	if err != nil {
		t.Fatalf("Load(.txt): %v", err)
	}
	if got != "ایک دن" {
		t.Fatalf("Load(.txt) = %q", got)
	}
}
