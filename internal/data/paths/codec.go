// Package paths locates Claude Code's on-disk data and maps project paths to the
// flattened directory names Claude Code uses under ~/.claude/projects.
package paths

import (
	"path/filepath"
	"strings"
)

// FlattenChar replaces every path separator in an encoded project directory name.
const FlattenChar = "-"

var separator = string(filepath.Separator)

// Encode maps a project path to its directory name:
// /Users/kasun/work/foo -> -Users-kasun-work-foo
func Encode(path string) string {
	return strings.ReplaceAll(path, separator, FlattenChar)
}

// Decode maps a project directory name back to its path:
// -Users-kasun-work-foo -> /Users/kasun/work/foo
//
// The encoding is lossy for paths that themselves contain FlattenChar.
func Decode(token string) string {
	if strings.HasPrefix(token, FlattenChar) {
		leading := strings.Replace(token, FlattenChar, separator, 1)
		return strings.ReplaceAll(leading, FlattenChar, separator)
	}
	return strings.ReplaceAll(token, FlattenChar, separator)
}

// ProjectName returns the last segment of a project path.
func ProjectName(projectPath string) string {
	if i := strings.LastIndex(projectPath, separator); i >= 0 {
		return projectPath[i+1:]
	}
	return projectPath
}
