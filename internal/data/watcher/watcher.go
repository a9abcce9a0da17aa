// Package watcher reports writes to Claude Code transcripts.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/penwyp/go-claude-sessions/internal/data/scanner"
	"github.com/penwyp/go-claude-sessions/internal/util"
)

// Event is a change to one transcript file.
type Event struct {
	Path      string
	Operation string
}

// TranscriptWatcher watches the projects directory and each project directory
// in it. Project directories created later are picked up as they appear.
type TranscriptWatcher struct {
	watcher *fsnotify.Watcher
	root    string
	events  chan Event
	done    chan struct{}
}

// New starts watching root (normally ~/.claude/projects).
func New(root string) (*TranscriptWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	tw := &TranscriptWatcher{
		watcher: watcher,
		root:    filepath.Clean(root),
		events:  make(chan Event, 100),
		done:    make(chan struct{}),
	}

	if err := tw.addTree(); err != nil {
		watcher.Close()
		return nil, err
	}

	go tw.processEvents()
	return tw, nil
}

// addTree watches the root and its immediate subdirectories. Transcripts are
// never nested deeper than one level.
func (tw *TranscriptWatcher) addTree() error {
	if err := tw.watcher.Add(tw.root); err != nil {
		return err
	}
	entries, err := os.ReadDir(tw.root)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			tw.addDir(filepath.Join(tw.root, entry.Name()))
		}
	}
	return nil
}

func (tw *TranscriptWatcher) addDir(dir string) {
	if err := tw.watcher.Add(dir); err != nil {
		util.LogWarn("Cannot watch project directory", util.F("dir", dir), util.F("error", err))
		return
	}
	util.LogDebug("Watching project directory", util.F("dir", dir))
}

func (tw *TranscriptWatcher) processEvents() {
	defer close(tw.events)

	for {
		select {
		case <-tw.done:
			return

		case event, ok := <-tw.watcher.Events:
			if !ok {
				return
			}

			if event.Has(fsnotify.Create) && filepath.Dir(event.Name) == tw.root {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					tw.addDir(event.Name)
				}
				continue
			}

			if !scanner.IsTranscript(filepath.Base(event.Name)) {
				continue
			}
			select {
			case tw.events <- Event{Path: event.Name, Operation: event.Op.String()}:
			case <-tw.done:
				return
			}

		case err, ok := <-tw.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("File monitoring error", util.F("error", err))
		}
	}
}

// Events delivers transcript changes. The channel is closed by Close.
func (tw *TranscriptWatcher) Events() <-chan Event {
	return tw.events
}

func (tw *TranscriptWatcher) Close() error {
	select {
	case <-tw.done:
		return nil
	default:
	}
	close(tw.done)
	return tw.watcher.Close()
}

// Debounce calls fn with each burst of events once no new event has arrived
// for window. It returns when ctx is done or events is closed; a pending burst
// is flushed when events closes.
func Debounce(ctx context.Context, events <-chan Event, window time.Duration, fn func([]Event)) {
	var (
		pending []Event
		timer   *time.Timer
		fire    <-chan time.Time
	)
	stop := func() {
		if timer != nil {
			timer.Stop()
		}
	}
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-events:
			if !ok {
				if len(pending) > 0 {
					fn(pending)
				}
				return
			}
			pending = append(pending, ev)
			stop()
			timer = time.NewTimer(window)
			fire = timer.C

		case <-fire:
			batch := pending
			pending = nil
			fire = nil
			fn(batch)
		}
	}
}
