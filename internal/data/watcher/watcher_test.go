package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitEvent(t *testing.T, events <-chan Event, want string) Event {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			require.True(t, ok, "events closed before %s", want)
			if ev.Path == want {
				return ev
			}
		case <-timeout:
			t.Fatalf("no event for %s", want)
		}
	}
}

func TestWatcherReportsTranscriptWrites(t *testing.T) {
	root := t.TempDir()
	project := filepath.Join(root, "-work-api")
	require.NoError(t, os.Mkdir(project, 0755))

	tw, err := New(root)
	require.NoError(t, err)
	defer tw.Close()

	transcript := filepath.Join(project, "s1.jsonl")
	require.NoError(t, os.WriteFile(transcript, []byte("{}\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(project, "notes.txt"), []byte("x"), 0644))

	ev := waitEvent(t, tw.Events(), transcript)
	assert.NotEmpty(t, ev.Operation)
}

func TestWatcherPicksUpNewProjectDirectories(t *testing.T) {
	root := t.TempDir()

	tw, err := New(root)
	require.NoError(t, err)
	defer tw.Close()

	project := filepath.Join(root, "-work-new")
	require.NoError(t, os.Mkdir(project, 0755))

	transcript := filepath.Join(project, "s1.jsonl")
	require.Eventually(t, func() bool {
		_ = os.WriteFile(transcript, []byte("{}\n"), 0644)
		select {
		case ev := <-tw.Events():
			return ev.Path == transcript
		case <-time.After(200 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
}

func TestWatcherMissingRoot(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestWatcherCloseClosesEvents(t *testing.T) {
	tw, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, tw.Close())
	require.NoError(t, tw.Close())

	select {
	case _, ok := <-tw.Events():
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("events channel not closed")
	}
}

func TestDebounceBatchesBursts(t *testing.T) {
	events := make(chan Event)
	batches := make(chan []Event, 10)

	done := make(chan struct{})
	go func() {
		Debounce(context.Background(), events, 50*time.Millisecond, func(b []Event) { batches <- b })
		close(done)
	}()

	events <- Event{Path: "a"}
	events <- Event{Path: "b"}
	events <- Event{Path: "c"}

	select {
	case batch := <-batches:
		assert.Len(t, batch, 3)
	case <-time.After(5 * time.Second):
		t.Fatal("no batch delivered")
	}

	events <- Event{Path: "d"}
	close(events)

	<-done
	require.Len(t, batches, 1)
	assert.Equal(t, []Event{{Path: "d"}}, <-batches)
}

func TestDebounceStopsOnContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Debounce(ctx, make(chan Event), time.Second, func([]Event) { t.Error("unexpected batch") })
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Debounce did not return")
	}
}
