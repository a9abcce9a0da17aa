package formatter

import (
	"fmt"
	"io"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-claude-sessions/internal/config"
	"github.com/penwyp/go-claude-sessions/internal/core/model"
	"github.com/penwyp/go-claude-sessions/internal/store"
)

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (f *JSONFormatter) write(w io.Writer, v interface{}) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func (f *JSONFormatter) FormatSessions(w io.Writer, sessions []model.SessionSummary) error {
	if sessions == nil {
		sessions = []model.SessionSummary{}
	}
	return f.write(w, sessions)
}

func (f *JSONFormatter) FormatMessages(w io.Writer, messages []model.Message) error {
	if messages == nil {
		messages = []model.Message{}
	}
	return f.write(w, messages)
}

func (f *JSONFormatter) FormatStats(w io.Writer, report *StatsReport) error {
	return f.write(w, report)
}

func (f *JSONFormatter) FormatProjects(w io.Writer, projects []model.ProjectInfo) error {
	if projects == nil {
		projects = []model.ProjectInfo{}
	}
	return f.write(w, projects)
}

func (f *JSONFormatter) FormatTracked(w io.Writer, projects []store.Project) error {
	if projects == nil {
		projects = []store.Project{}
	}
	return f.write(w, projects)
}

func (f *JSONFormatter) FormatTasks(w io.Writer, tasks []store.Task) error {
	if tasks == nil {
		tasks = []store.Task{}
	}
	return f.write(w, tasks)
}

func (f *JSONFormatter) FormatConfig(w io.Writer, cfg config.Config) error {
	return f.write(w, cfg)
}
