package history

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileSink 把历史行以 CSV 追加写入单个文件。
type FileSink struct {
	f *os.File
}

// NewFileSink opens (or creates) the file for appending.
func NewFileSink(path string) (*FileSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("history: mkdir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	return &FileSink{f: f}, nil
}

// Persist appends one CSV row.
func (s *FileSink) Persist(row []string) error {
	if _, err := fmt.Fprintln(s.f, strings.Join(row, ",")); err != nil {
		return fmt.Errorf("history: write %s: %w", s.f.Name(), err)
	}
	return nil
}

// Close closes the underlying file.
func (s *FileSink) Close() error {
	return s.f.Close()
}
