package model

// Transcript record keys. They are matched exactly.
const (
	KeyUuid         = "uuid"
	KeyParentUuid   = "parentUuid"
	KeySessionId    = "sessionId"
	KeyType         = "type"
	KeyTimestamp    = "timestamp"
	KeyMessage      = "message"
	KeyContent      = "content"
	KeyModel        = "model"
	KeyUsage        = "usage"
	KeyText         = "text"
	KeyInputTokens  = "input_tokens"
	KeyOutputTokens = "output_tokens"
)

// Message is one decoded user or assistant turn.
type Message struct {
	Uuid         string  `json:"uuid"`
	ParentUuid   *string `json:"parent_uuid"`
	SessionId    string  `json:"session_id"`
	Type         string  `json:"msg_type"`
	Content      string  `json:"content"`
	Model        *string `json:"model"`
	InputTokens  *uint64 `json:"input_tokens"`
	OutputTokens *uint64 `json:"output_tokens"`
	Timestamp    string  `json:"timestamp"`
}

// TotalTokens returns input+output, counting unreported values as zero.
func (m Message) TotalTokens() uint64 {
	var total uint64
	if m.InputTokens != nil {
		total += *m.InputTokens
	}
	if m.OutputTokens != nil {
		total += *m.OutputTokens
	}
	return total
}

// SessionSummary describes one logical conversation inside a project.
type SessionSummary struct {
	Id           string  `json:"id"`
	ProjectPath  string  `json:"project_path"`
	ProjectName  string  `json:"project_name"`
	FirstMessage string  `json:"first_message"`
	MessageCount uint32  `json:"message_count"`
	TotalTokens  uint64  `json:"total_tokens"`
	Model        *string `json:"model"`
	StartedAt    string  `json:"started_at"`
	LastActivity string  `json:"last_activity"`
}

// ProjectDir is a project known to Claude Code: its decoded filesystem path and
// the encoded log directory holding its transcripts.
type ProjectDir struct {
	Path string `json:"path"`
	Dir  string `json:"dir"`
}

// ProjectInfo describes a project log directory for listing.
type ProjectInfo struct {
	Path        string `json:"path"`
	Name        string `json:"name"`
	Dir         string `json:"dir"`
	Transcripts int    `json:"transcripts"`
	// LastModified is the newest transcript mtime, or "" when there is none.
	LastModified string `json:"last_modified"`
}
