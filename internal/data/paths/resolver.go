package paths

import (
	"errors"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/penwyp/go-claude-sessions/internal/core/model"
	"github.com/penwyp/go-claude-sessions/internal/util"
)

const (
	claudeDirName   = ".claude"
	projectsDirName = "projects"
	statsCacheName  = "stats-cache.json"
	historyName     = "history.jsonl"
	settingsName    = "settings.json"
)

// ErrHomeUnavailable means no home directory could be determined.
var ErrHomeUnavailable = errors.New("home directory unavailable")

// Resolver derives Claude Code's file locations from a user home directory.
// A Resolver with an empty home reports every location as unavailable.
type Resolver struct {
	home string
}

// NewResolver creates a resolver rooted at home.
func NewResolver(home string) *Resolver {
	return &Resolver{home: home}
}

// NewDefaultResolver uses the current user's home directory. Failure to find it
// yields an unavailable resolver rather than an error.
func NewDefaultResolver() *Resolver {
	home, err := os.UserHomeDir()
	if err != nil {
		util.LogWarn("Could not determine home directory", util.F("error", err))
		return &Resolver{}
	}
	return &Resolver{home: home}
}

// Home returns the configured home directory ("" when unavailable).
func (r *Resolver) Home() string {
	return r.home
}

// ClaudeHome returns ~/.claude.
func (r *Resolver) ClaudeHome() (string, bool) {
	if r.home == "" {
		return "", false
	}
	return filepath.Join(r.home, claudeDirName), true
}

func (r *Resolver) join(parts ...string) (string, bool) {
	root, ok := r.ClaudeHome()
	if !ok {
		return "", false
	}
	return filepath.Join(append([]string{root}, parts...)...), true
}

// ProjectsDir returns ~/.claude/projects.
func (r *Resolver) ProjectsDir() (string, bool) {
	return r.join(projectsDirName)
}

// StatsCachePath returns ~/.claude/stats-cache.json.
func (r *Resolver) StatsCachePath() (string, bool) {
	return r.join(statsCacheName)
}

// HistoryPath returns ~/.claude/history.jsonl.
func (r *Resolver) HistoryPath() (string, bool) {
	return r.join(historyName)
}

// SettingsPath returns ~/.claude/settings.json.
func (r *Resolver) SettingsPath() (string, bool) {
	return r.join(settingsName)
}

// FindProjectDir returns the log directory of projectPath if it exists on disk.
func (r *Resolver) FindProjectDir(projectPath string) (string, bool) {
	projectsDir, ok := r.ProjectsDir()
	if !ok {
		return "", false
	}
	dir := filepath.Join(projectsDir, Encode(projectPath))
	if _, err := os.Stat(dir); err != nil {
		return "", false
	}
	return dir, true
}

// ListProjects enumerates the immediate subdirectories of the projects directory,
// ordered by directory name. It never fails: an absent or unreadable root yields
// an empty list.
func (r *Resolver) ListProjects() []model.ProjectDir {
	projectsDir, ok := r.ProjectsDir()
	if !ok {
		return []model.ProjectDir{}
	}

	entries, err := os.ReadDir(projectsDir)
	if err != nil {
		util.LogDebug("Cannot read projects directory", util.F("dir", projectsDir), util.F("error", err))
		return []model.ProjectDir{}
	}

	projects := make([]model.ProjectDir, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !utf8.ValidString(name) {
			continue
		}
		dir := filepath.Join(projectsDir, name)
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		projects = append(projects, model.ProjectDir{
			Path: Decode(name),
			Dir:  dir,
		})
	}
	return projects
}
