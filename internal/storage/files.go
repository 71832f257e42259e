package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

type Files struct {
	dir string
	now func() time.Time
}

func NewFiles(dir string) (*Files, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create files dir: %w", err)
	}
	return &Files{dir: dir, now: time.Now}, nil
}

func (f *Files) Dir() string { return f.dir }

// SaveTextFile writes content to dir/<sanitized filename>.txt and returns
// the full path. An empty filename becomes note_YYYYMMDD_HHMMSS.txt.
func (f *Files) SaveTextFile(content, filename string) (string, error) {
	if filename == "" {
		filename = "note_" + f.now().Format("20060102_150405") + ".txt"
	}
	filename = SanitizeFilename(filename)
	if !strings.HasSuffix(strings.ToLower(filename), ".txt") {
		filename += ".txt"
	}

	path := filepath.Join(f.dir, filename)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", filename, err)
	}
	return path, nil
}

var (
	reservedRe   = regexp.MustCompile(`[\\/:*?"<>|]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

func SanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	name = reservedRe.ReplaceAllString(name, "_")
	name = whitespaceRe.ReplaceAllString(name, "_")
	if name == "" {
		return "untitled"
	}
	return name
}
