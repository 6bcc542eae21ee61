package sub

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

type stubWatcher struct {
	mu    sync.Mutex
	ops   []string
	chans map[string]chan Event[string]
}

func newStubWatcher() *stubWatcher {
	return &stubWatcher{chans: make(map[string]chan Event[string])}
}

func (s *stubWatcher) Watch(ctx context.Context, id string) (<-chan Event[string], func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = append(s.ops, "watch:"+id)
	ch := make(chan Event[string], 8)
	s.chans[id] = ch
	return ch, func() {
		s.mu.Lock()
		s.ops = append(s.ops, "cancel:"+id)
		s.mu.Unlock()
	}, nil
}

func (s *stubWatcher) push(id, val string) {
	s.mu.Lock()
	ch := s.chans[id]
	s.mu.Unlock()
	ch <- Event[string]{ID: id, Value: &val}
}

func (s *stubWatcher) pushDelete(id string) {
	s.mu.Lock()
	ch := s.chans[id]
	s.mu.Unlock()
	ch <- Event[string]{ID: id}
}

func (s *stubWatcher) opLog() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join(s.ops, ",")
}

// 读快照流直到满足条件，超时即失败
func waitSnap(t *testing.T, out <-chan map[string]string, ok func(map[string]string) bool) map[string]string {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap, open := <-out:
			if !open {
				t.Fatal("out closed before condition met")
			}
			if ok(snap) {
				return snap
			}
		case <-deadline:
			t.Fatal("timed out waiting for snapshot")
		}
	}
}

func startComposer(t *testing.T, w Watcher[string]) (*Composer[string], context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	c := NewComposer[string](w)
	go c.Run(ctx)
	return c, cancel
}

func TestComposerMergesChildUpdates(t *testing.T) {
	w := newStubWatcher()
	c, cancel := startComposer(t, w)
	defer cancel()

	c.SetParents([]string{"a", "b"})
	waitSnap(t, c.Out(), func(m map[string]string) bool { return len(m) == 0 })

	w.push("a", "A1")
	w.push("b", "B1")
	snap := waitSnap(t, c.Out(), func(m map[string]string) bool {
		return m["a"] == "A1" && m["b"] == "B1"
	})
	if len(snap) != 2 {
		t.Fatalf("snapshot size = %d, want 2", len(snap))
	}

	w.push("a", "A2")
	waitSnap(t, c.Out(), func(m map[string]string) bool {
		return m["a"] == "A2" && m["b"] == "B1"
	})
}

func TestComposerTeardownBeforeResubscribe(t *testing.T) {
	w := newStubWatcher()
	c, cancel := startComposer(t, w)
	defer cancel()

	c.SetParents([]string{"a"})
	waitSnap(t, c.Out(), func(m map[string]string) bool { return true })

	c.SetParents([]string{"b"})
	waitSnap(t, c.Out(), func(m map[string]string) bool { return true })

	got := w.opLog()
	if got != "watch:a,cancel:a,watch:b" {
		t.Fatalf("op order = %q, want watch:a,cancel:a,watch:b", got)
	}
}

func TestComposerPrunesRemovedParents(t *testing.T) {
	w := newStubWatcher()
	c, cancel := startComposer(t, w)
	defer cancel()

	c.SetParents([]string{"a", "b"})
	waitSnap(t, c.Out(), func(m map[string]string) bool { return len(m) == 0 })
	w.push("a", "A1")
	w.push("b", "B1")
	waitSnap(t, c.Out(), func(m map[string]string) bool {
		return m["a"] == "A1" && m["b"] == "B1"
	})

	c.SetParents([]string{"a"})
	snap := waitSnap(t, c.Out(), func(m map[string]string) bool {
		_, has := m["b"]
		return !has
	})
	if snap["a"] != "A1" {
		t.Fatalf("kept parent lost: %v", snap)
	}

	// 旧订阅的残留推送不能把已移除的条目塞回来
	w.push("b", "B2")
	w.push("a", "A2")
	snap = waitSnap(t, c.Out(), func(m map[string]string) bool {
		return m["a"] == "A2"
	})
	if _, has := snap["b"]; has {
		t.Fatalf("ghost entry resurrected: %v", snap)
	}
}

func TestComposerDeleteRemovesEntry(t *testing.T) {
	w := newStubWatcher()
	c, cancel := startComposer(t, w)
	defer cancel()

	c.SetParents([]string{"a"})
	waitSnap(t, c.Out(), func(m map[string]string) bool { return len(m) == 0 })
	w.push("a", "A1")
	waitSnap(t, c.Out(), func(m map[string]string) bool { return m["a"] == "A1" })

	w.pushDelete("a")
	waitSnap(t, c.Out(), func(m map[string]string) bool {
		_, has := m["a"]
		return !has
	})
}

func TestComposerSnapshotsAreCopies(t *testing.T) {
	w := newStubWatcher()
	c, cancel := startComposer(t, w)
	defer cancel()

	c.SetParents([]string{"a", "b"})
	waitSnap(t, c.Out(), func(m map[string]string) bool { return len(m) == 0 })
	w.push("a", "A1")
	first := waitSnap(t, c.Out(), func(m map[string]string) bool { return m["a"] == "A1" })

	delete(first, "a") // 消费方改自己那份，不影响后续快照

	w.push("b", "B1")
	second := waitSnap(t, c.Out(), func(m map[string]string) bool { return m["b"] == "B1" })
	if second["a"] != "A1" {
		t.Fatalf("later snapshot affected by consumer mutation: %v", second)
	}
}
