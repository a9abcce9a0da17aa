package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/penwyp/go-claude-sessions/internal/util"
)

const transcriptExt = ".jsonl"

// TranscriptFile is a transcript found in a project directory.
type TranscriptFile struct {
	Path string
	// ModTime is the zero time when the file's metadata could not be read.
	ModTime time.Time
}

// HasModTime reports whether the modification time was captured.
func (f TranscriptFile) HasModTime() bool {
	return !f.ModTime.IsZero()
}

// FileScanner lists the transcript files directly inside one project directory.
type FileScanner struct {
	dir string
}

// NewFileScanner creates a new FileScanner instance
func NewFileScanner(dir string) *FileScanner {
	return &FileScanner{dir: dir}
}

// Scan returns every *.jsonl file in the directory (non-recursive), in name
// order, with its modification time captured best-effort.
func (s *FileScanner) Scan() ([]TranscriptFile, error) {
	start := time.Now()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read project directory: %w", err)
	}

	files := make([]TranscriptFile, 0, len(entries))
	for _, entry := range entries {
		if !IsTranscript(entry.Name()) {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		info, err := util.GetFileInfo(path)
		if err != nil {
			util.LogDebug("Cannot stat transcript", util.F("file", path), util.F("error", err))
			files = append(files, TranscriptFile{Path: path})
			continue
		}
		if info.IsDir {
			continue
		}
		files = append(files, TranscriptFile{Path: path, ModTime: info.ModTime})
	}

	util.LogDebug("Transcript scan completed",
		util.F("dir", s.dir), util.F("files", len(files)), util.F("duration", time.Since(start)))
	return files, nil
}

// IsTranscript reports whether name carries the transcript extension.
func IsTranscript(name string) bool {
	return strings.EqualFold(filepath.Ext(name), transcriptExt)
}
