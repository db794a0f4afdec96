package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Clock abstracts the two time operations the reload gate needs, so the
// races around self-write suppression and debouncing are testable with a
// fake clock.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is the stoppable handle returned by Clock.AfterFunc.
type Timer interface {
	Stop() bool
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

const (
	// selfWriteWindow outlasts the file system's own notification latency
	// so the store's write is not misread as an external change.
	selfWriteWindow = 100 * time.Millisecond
	// reloadDebounce coalesces notification storms from editors that save
	// in multiple syscalls. Trailing edge.
	reloadDebounce = 500 * time.Millisecond
)

type gateState int

const (
	gateIdle gateState = iota
	gateSuppressed
	gatePending
)

// reloadGate decides whether a file-change notification turns into a reload.
// It is a three-state machine: idle, suppressed while one of our own writes
// is in flight, and pending while a debounced reload is scheduled. A self
// write cancels a pending reload: the write just rewrote the whole file from
// memory, which makes the scheduled reload redundant (last writer wins).
type reloadGate struct {
	mu       sync.Mutex
	clk      Clock
	state    gateState
	suppress Timer
	debounce Timer
	veto     func() bool
	fire     func()
}

func newReloadGate(clk Clock, fire func()) *reloadGate {
	return &reloadGate{clk: clk, fire: fire}
}

func (g *reloadGate) setVeto(fn func() bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.veto = fn
}

func (g *reloadGate) beginSelfWrite() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.debounce != nil {
		g.debounce.Stop()
		g.debounce = nil
	}
	if g.suppress != nil {
		g.suppress.Stop()
	}
	g.state = gateSuppressed
	g.suppress = g.clk.AfterFunc(selfWriteWindow, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if g.state == gateSuppressed {
			g.state = gateIdle
		}
	})
}

func (g *reloadGate) fileChanged() {
	g.mu.Lock()
	if g.state == gateSuppressed {
		g.mu.Unlock()
		return
	}
	if g.veto != nil && g.veto() {
		g.mu.Unlock()
		return
	}
	if g.debounce != nil {
		g.debounce.Stop()
	}
	g.state = gatePending
	g.debounce = g.clk.AfterFunc(reloadDebounce, func() {
		g.mu.Lock()
		if g.state != gatePending {
			g.mu.Unlock()
			return
		}
		g.state = gateIdle
		g.debounce = nil
		g.mu.Unlock()
		g.fire()
	})
	g.mu.Unlock()
}

func (g *reloadGate) stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.suppress != nil {
		g.suppress.Stop()
	}
	if g.debounce != nil {
		g.debounce.Stop()
	}
	g.state = gateIdle
}

type watcher struct {
	fsw  *fsnotify.Watcher
	done chan struct{}
}

// Watch subscribes the store to file-change notifications until ctx is
// cancelled. The parent directory is watched rather than the file itself so
// editors that save via rename-replace keep the subscription alive.
func (s *Store) Watch(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("store: create watcher: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("store: ensure %s: %w", dir, err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("store: watch %s: %w", dir, err)
	}

	w := &watcher{fsw: fsw, done: make(chan struct{})}
	s.mu.Lock()
	s.watcher = w
	s.mu.Unlock()

	go func() {
		defer close(w.done)
		defer func() {
			if err := fsw.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "tempo: watcher close: %v\n", err)
			}
		}()
		defer s.gate.stop()

		target := filepath.Clean(s.path)
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				fmt.Fprintf(os.Stderr, "tempo: watcher: %v\n", err)
			case evt, ok := <-fsw.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != target {
					continue
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				s.gate.fileChanged()
			}
		}
	}()

	return nil
}
