// Package fixtures builds synthetic ~/.claude trees for tests.
package fixtures

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// ClaudeHome is a fake user home containing a .claude directory.
type ClaudeHome struct {
	Home string
}

// NewClaudeHome creates the .claude/projects skeleton under home.
func NewClaudeHome(home string) (*ClaudeHome, error) {
	if err := os.MkdirAll(filepath.Join(home, ".claude", "projects"), 0755); err != nil {
		return nil, err
	}
	return &ClaudeHome{Home: home}, nil
}

// ProjectDir returns the encoded log directory for projectPath.
func (h *ClaudeHome) ProjectDir(projectPath string) string {
	encoded := strings.ReplaceAll(projectPath, string(filepath.Separator), "-")
	return filepath.Join(h.Home, ".claude", "projects", encoded)
}

// WriteTranscript writes lines to <project dir>/<fileName> and returns its path.
func (h *ClaudeHome) WriteTranscript(projectPath, fileName string, lines ...string) (string, error) {
	dir := h.ProjectDir(projectPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fileName)
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	return path, os.WriteFile(path, []byte(content), 0644)
}

// Touch sets a file's modification time.
func Touch(path string, mtime time.Time) error {
	return os.Chtimes(path, mtime, mtime)
}

// WriteStatsCache writes the raw stats-cache.json document.
func (h *ClaudeHome) WriteStatsCache(document string) (string, error) {
	path := filepath.Join(h.Home, ".claude", "stats-cache.json")
	return path, os.WriteFile(path, []byte(document), 0644)
}

// Entry describes one transcript record.
type Entry struct {
	Type         string
	Uuid         string
	ParentUuid   string
	SessionId    string
	Timestamp    time.Time
	Content      string
	Model        string
	InputTokens  int
	OutputTokens int
	WithUsage    bool
}

type jsonlUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type jsonlMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
	Model   string      `json:"model,omitempty"`
	Usage   *jsonlUsage `json:"usage,omitempty"`
}

type jsonlEntry struct {
	Type       string       `json:"type"`
	Uuid       string       `json:"uuid"`
	ParentUuid *string      `json:"parentUuid"`
	SessionId  string       `json:"sessionId"`
	Timestamp  string       `json:"timestamp"`
	Cwd        string       `json:"cwd"`
	UserType   string       `json:"userType"`
	Version    string       `json:"version"`
	Message    jsonlMessage `json:"message"`
}

// Line renders an entry the way Claude Code writes it. Assistant content is
// written as a text block array, user content as a plain string.
func (e Entry) Line() string {
	out := jsonlEntry{
		Type:      e.Type,
		Uuid:      e.Uuid,
		SessionId: e.SessionId,
		Timestamp: e.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z"),
		Cwd:       "/",
		UserType:  "external",
		Version:   "1.0.0",
		Message: jsonlMessage{
			Role:    e.Type,
			Content: e.Content,
			Model:   e.Model,
		},
	}
	if e.ParentUuid != "" {
		p := e.ParentUuid
		out.ParentUuid = &p
	}
	if e.Type == "assistant" {
		out.Message.Content = []map[string]string{{"type": "text", "text": e.Content}}
	}
	if e.WithUsage {
		out.Message.Usage = &jsonlUsage{InputTokens: e.InputTokens, OutputTokens: e.OutputTokens}
	}

	data, err := sonic.Marshal(out)
	if err != nil {
		panic(fmt.Sprintf("fixtures: marshal entry: %v", err))
	}
	return string(data)
}

// User builds a user turn.
func User(uuid, sessionId string, ts time.Time, content string) string {
	return Entry{Type: "user", Uuid: uuid, SessionId: sessionId, Timestamp: ts, Content: content}.Line()
}

// Assistant builds an assistant turn with usage.
func Assistant(uuid, sessionId string, ts time.Time, content, model string, in, out int) string {
	return Entry{
		Type:         "assistant",
		Uuid:         uuid,
		SessionId:    sessionId,
		Timestamp:    ts,
		Content:      content,
		Model:        model,
		InputTokens:  in,
		OutputTokens: out,
		WithUsage:    true,
	}.Line()
}
