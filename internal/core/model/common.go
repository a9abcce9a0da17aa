package model

// Transcript record kinds that carry conversation turns. Every other kind
// (summary, system, file-history-snapshot, ...) is dropped at decode time.
const (
	EntryUser      = "user"
	EntryAssistant = "assistant"
)

// Content block types
const (
	BlockText = "text"
)

// NoMessagesPlaceholder is the first-message text of a session without any user turn
const NoMessagesPlaceholder = "No messages"

// FirstMessageMaxLen is the rune budget for a session's first user message
const FirstMessageMaxLen = 100
