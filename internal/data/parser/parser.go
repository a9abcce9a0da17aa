package parser

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-claude-sessions/internal/core/model"
	"github.com/penwyp/go-claude-sessions/internal/util"
)

// transcriptJSON decodes transcript records. Keys are looked up in decoded
// objects by exact name, since "TYPE" or "UUID" are not keys Claude Code writes.
var transcriptJSON = sonic.Config{CaseSensitive: true}.Froze()

// object is a decoded JSON object whose values are left raw so a wrong shape in
// one field does not reject the whole record.
type object map[string]json.RawMessage

func decodeObject(data json.RawMessage) (object, bool) {
	if isAbsent(data) {
		return nil, false
	}
	var obj object
	if err := transcriptJSON.Unmarshal(data, &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// optionalString reads key as a string. A missing or null key yields nil; any
// other non-string value reports false.
func (o object) optionalString(key string) (*string, bool) {
	raw, found := o[key]
	if !found || isAbsent(raw) {
		return nil, true
	}
	s, ok := rawString(raw)
	if !ok {
		return nil, false
	}
	return &s, true
}

// DecodeLine decodes one transcript line into a Message. It reports false for
// lines that are not valid JSON, lack a uuid, or are not user/assistant turns.
func DecodeLine(line []byte) (model.Message, bool) {
	record, ok := decodeObject(line)
	if !ok {
		return model.Message{}, false
	}

	var fields [5]*string
	for i, key := range []string{model.KeyUuid, model.KeyParentUuid, model.KeySessionId, model.KeyType, model.KeyTimestamp} {
		if fields[i], ok = record.optionalString(key); !ok {
			return model.Message{}, false
		}
	}
	uuid, parentUuid, sessionId, timestamp := fields[0], fields[1], fields[2], fields[4]
	msgType := deref(fields[3])
	if uuid == nil {
		return model.Message{}, false
	}
	if msgType != model.EntryUser && msgType != model.EntryAssistant {
		return model.Message{}, false
	}

	msg := model.Message{
		Uuid:       *uuid,
		ParentUuid: parentUuid,
		SessionId:  deref(sessionId),
		Type:       msgType,
		Timestamp:  deref(timestamp),
	}

	if payload, ok := decodeObject(record[model.KeyMessage]); ok {
		msg.Content = ExtractContent(payload[model.KeyContent])
		if m, ok := rawString(payload[model.KeyModel]); ok {
			msg.Model = &m
		}
		msg.InputTokens, msg.OutputTokens = extractTokens(payload[model.KeyUsage])
	}

	return msg, true
}

// ExtractContent returns a plain-string content verbatim, or the text blocks of
// an array content joined by newlines. Any other shape yields "".
func ExtractContent(content json.RawMessage) string {
	if text, ok := rawString(content); ok {
		return text
	}

	var blocks []json.RawMessage
	if err := transcriptJSON.Unmarshal(content, &blocks); err != nil {
		return ""
	}

	texts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		block, ok := decodeObject(b)
		if !ok {
			continue
		}
		if blockType, ok := rawString(block[model.KeyType]); !ok || blockType != model.BlockText {
			continue
		}
		if text, ok := rawString(block[model.KeyText]); ok {
			texts = append(texts, text)
		}
	}
	return strings.Join(texts, "\n")
}

func extractTokens(usage json.RawMessage) (*uint64, *uint64) {
	counters, ok := decodeObject(usage)
	if !ok {
		return nil, nil
	}
	return rawUint(counters[model.KeyInputTokens]), rawUint(counters[model.KeyOutputTokens])
}

// ParseFile decodes every line of a transcript file and returns the messages
// sorted by timestamp. Undecodable lines are skipped; only failing to open or
// read the file is an error.
func ParseFile(path string) ([]model.Message, error) {
	util.LogDebug("Start parsing file", util.F("file", path))

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session file: %w", err)
	}
	defer file.Close()

	messages := []model.Message{}
	reader := bufio.NewReaderSize(file, 64*1024)
	lineCount := 0
	for {
		line, readErr := reader.ReadBytes('\n')
		if len(line) > 0 {
			lineCount++
			line = bytes.TrimSuffix(bytes.TrimSuffix(line, []byte("\n")), []byte("\r"))
			if utf8.Valid(line) {
				if msg, ok := DecodeLine(line); ok {
					messages = append(messages, msg)
				}
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read session file: %w", readErr)
		}
	}

	SortByTimestamp(messages)

	util.LogDebug("Finished parsing file",
		util.F("file", path), util.F("lines", lineCount), util.F("messages", len(messages)))
	return messages, nil
}

// SortByTimestamp orders messages oldest first, keeping file order for ties.
func SortByTimestamp(messages []model.Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		return util.CompareTimestamps(messages[i].Timestamp, messages[j].Timestamp) < 0
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func rawString(raw json.RawMessage) (string, bool) {
	if isAbsent(raw) {
		return "", false
	}
	var s string
	if err := transcriptJSON.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// rawUint accepts only non-negative JSON integers.
func rawUint(raw json.RawMessage) *uint64 {
	if isAbsent(raw) {
		return nil
	}
	n, err := strconv.ParseUint(string(bytes.TrimSpace(raw)), 10, 64)
	if err != nil {
		return nil
	}
	return &n
}
