package aggregator

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/penwyp/go-claude-sessions/internal/core/model"
	"github.com/penwyp/go-claude-sessions/internal/data/parser"
	"github.com/penwyp/go-claude-sessions/internal/data/paths"
	"github.com/penwyp/go-claude-sessions/internal/data/scanner"
	"github.com/penwyp/go-claude-sessions/internal/util"
)

var (
	// ErrProjectNotFound means Claude Code has no log directory for the project.
	ErrProjectNotFound = errors.New("no Claude data found for project")
	// ErrProjectsDirNotFound means ~/.claude/projects is missing or unresolvable.
	ErrProjectsDirNotFound = errors.New("claude projects directory not found")
	// ErrSessionNotFound means no transcript contains the requested session.
	ErrSessionNotFound = errors.New("session not found")
)

// Aggregator rebuilds sessions from the transcripts under a Claude home. It holds
// no state between calls; every query re-reads the files it needs.
type Aggregator struct {
	resolver *paths.Resolver
}

// NewAggregator creates an aggregator reading through resolver.
func NewAggregator(resolver *paths.Resolver) *Aggregator {
	return &Aggregator{resolver: resolver}
}

// ProjectSessions summarizes every session found in the project's transcripts,
// most recently active first.
func (a *Aggregator) ProjectSessions(projectPath string) ([]model.SessionSummary, error) {
	dir, ok := a.resolver.FindProjectDir(projectPath)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, projectPath)
	}

	files, err := scanner.NewFileScanner(dir).Scan()
	if err != nil {
		util.LogWarn("Cannot list project transcripts", util.F("dir", dir), util.F("error", err))
		return []model.SessionSummary{}, nil
	}

	grouped := make(map[string][]model.Message)
	latest := make(map[string]time.Time)
	var order []string

	for _, file := range files {
		messages, err := parser.ParseFile(file.Path)
		if err != nil {
			util.LogDebug("Skip unreadable transcript", util.F("file", file.Path), util.F("error", err))
			continue
		}
		for _, msg := range messages {
			if _, seen := grouped[msg.SessionId]; !seen {
				order = append(order, msg.SessionId)
			}
			grouped[msg.SessionId] = append(grouped[msg.SessionId], msg)

			if file.HasModTime() && file.ModTime.After(latest[msg.SessionId]) {
				latest[msg.SessionId] = file.ModTime
			}
		}
	}

	sessions := make([]model.SessionSummary, 0, len(order))
	for _, sessionId := range order {
		messages := grouped[sessionId]
		if len(messages) == 0 {
			continue
		}
		summary := Summarize(sessionId, projectPath, messages)
		if mtime, ok := latest[sessionId]; ok && mtime.Unix() >= 0 {
			summary.LastActivity = util.FormatModTime(mtime)
		}
		sessions = append(sessions, summary)
	}

	SortByRecency(sessions)

	util.LogDebug("Project sessions aggregated",
		util.F("project", projectPath), util.F("files", len(files)), util.F("sessions", len(sessions)))
	return sessions, nil
}

// SessionsForProjects merges the sessions of several projects, skipping any
// project that has no data, and returns the limit most recent ones.
// A negative limit returns everything.
func (a *Aggregator) SessionsForProjects(projectPaths []string, limit int) []model.SessionSummary {
	all := []model.SessionSummary{}
	for _, projectPath := range projectPaths {
		sessions, err := a.ProjectSessions(projectPath)
		if err != nil {
			util.LogDebug("Skip project", util.F("project", projectPath), util.F("error", err))
			continue
		}
		all = append(all, sessions...)
	}

	SortByRecency(all)
	if limit >= 0 && len(all) > limit {
		all = all[:limit]
	}
	return all
}

// SessionMessages collects the messages of one session from every transcript of
// every project, oldest first. A record repeated across files (same uuid) is
// returned once.
func (a *Aggregator) SessionMessages(sessionId string) ([]model.Message, error) {
	projectsDir, ok := a.resolver.ProjectsDir()
	if !ok {
		return nil, fmt.Errorf("%w: %w", ErrProjectsDirNotFound, paths.ErrHomeUnavailable)
	}
	if _, err := os.Stat(projectsDir); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProjectsDirNotFound, projectsDir)
	}

	var matched []model.Message
	seen := make(map[string]bool)

	for _, project := range a.resolver.ListProjects() {
		files, err := scanner.NewFileScanner(project.Dir).Scan()
		if err != nil {
			util.LogDebug("Skip project directory", util.F("dir", project.Dir), util.F("error", err))
			continue
		}
		for _, file := range files {
			messages, err := parser.ParseFile(file.Path)
			if err != nil {
				util.LogDebug("Skip unreadable transcript", util.F("file", file.Path), util.F("error", err))
				continue
			}
			for _, msg := range messages {
				if msg.SessionId != sessionId {
					continue
				}
				if msg.Uuid != "" {
					if seen[msg.Uuid] {
						continue
					}
					seen[msg.Uuid] = true
				}
				matched = append(matched, msg)
			}
		}
	}

	if len(matched) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionId)
	}

	parser.SortByTimestamp(matched)
	return matched, nil
}

// Summarize derives a session summary from its messages, which are ordered
// chronologically first.
func Summarize(sessionId, projectPath string, messages []model.Message) model.SessionSummary {
	ordered := make([]model.Message, len(messages))
	copy(ordered, messages)
	parser.SortByTimestamp(ordered)

	summary := model.SessionSummary{
		Id:           sessionId,
		ProjectPath:  projectPath,
		ProjectName:  paths.ProjectName(projectPath),
		FirstMessage: model.NoMessagesPlaceholder,
		MessageCount: uint32(len(ordered)),
	}

	firstUserFound := false
	for _, msg := range ordered {
		if !firstUserFound && msg.Type == model.EntryUser {
			summary.FirstMessage = TruncateFirstMessage(msg.Content, model.FirstMessageMaxLen)
			firstUserFound = true
		}
		if summary.Model == nil && msg.Model != nil && *msg.Model != "" {
			m := *msg.Model
			summary.Model = &m
		}
		summary.TotalTokens += msg.TotalTokens()
	}

	if len(ordered) > 0 {
		summary.StartedAt = ordered[0].Timestamp
		summary.LastActivity = ordered[len(ordered)-1].Timestamp
	}
	return summary
}

// TruncateFirstMessage trims s, turns each newline into a space and cuts it to
// maxLen runes, appending "..." when cut.
func TruncateFirstMessage(s string, maxLen int) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), "\n", " ")
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

// SortByRecency orders sessions by last activity, most recent first.
func SortByRecency(sessions []model.SessionSummary) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return util.CompareTimestamps(sessions[i].LastActivity, sessions[j].LastActivity) > 0
	})
}

// Projects lists every project directory Claude Code has written to, with its
// transcript count and newest transcript mtime, most recently modified first.
func (a *Aggregator) Projects() []model.ProjectInfo {
	dirs := a.resolver.ListProjects()
	projects := make([]model.ProjectInfo, 0, len(dirs))

	for _, dir := range dirs {
		info := model.ProjectInfo{
			Path: dir.Path,
			Name: paths.ProjectName(dir.Path),
			Dir:  dir.Dir,
		}

		files, err := scanner.NewFileScanner(dir.Dir).Scan()
		if err != nil {
			util.LogDebug("Skip project directory", util.F("dir", dir.Dir), util.F("error", err))
		}
		var newest time.Time
		for _, file := range files {
			if file.HasModTime() && file.ModTime.After(newest) {
				newest = file.ModTime
			}
		}
		info.Transcripts = len(files)
		if !newest.IsZero() {
			info.LastModified = util.FormatModTime(newest)
		}
		projects = append(projects, info)
	}

	sort.SliceStable(projects, func(i, j int) bool {
		return util.CompareTimestamps(projects[i].LastModified, projects[j].LastModified) > 0
	})
	return projects
}
