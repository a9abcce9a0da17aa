package util

import (
	"os"
	"time"
)

// FileInfo holds the metadata the scanners need about a transcript file.
type FileInfo struct {
	ModTime time.Time
	Size    int64
	IsDir   bool
}

// GetFileInfo stats path, following symlinks.
func GetFileInfo(path string) (*FileInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	return &FileInfo{
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
		IsDir:   stat.IsDir(),
	}, nil
}
