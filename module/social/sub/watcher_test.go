package sub

import (
	"context"
	"testing"
	"time"
)

// fakeStream 固定事件序列，放完后挂起到 ctx 结束
type fakeStream struct {
	events []rawChange[string]
	i      int
}

func (f *fakeStream) Next(ctx context.Context) bool {
	if f.i < len(f.events) {
		f.i++
		return true
	}
	<-ctx.Done()
	return false
}

func (f *fakeStream) Decode(val any) error {
	*(val.(*rawChange[string])) = f.events[f.i-1]
	return nil
}

func (f *fakeStream) Close(context.Context) error { return nil }

func strp(s string) *string { return &s }

func collectEvents(t *testing.T, ch <-chan Event[string], n int) []Event[string] {
	t.Helper()
	out := make([]Event[string], 0, n)
	deadline := time.After(2 * time.Second)
	for len(out) < n {
		select {
		case e, open := <-ch:
			if !open {
				t.Fatalf("channel closed after %d of %d events", len(out), n)
			}
			out = append(out, e)
		case <-deadline:
			t.Fatalf("timed out after %d of %d events", len(out), n)
		}
	}
	return out
}

func TestWatchOpensStreamBeforeInitialRead(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var order []string
	w := &CollectionWatcher[string]{}
	w.openStream = func(context.Context, string) (changeStream, error) {
		order = append(order, "stream")
		return &fakeStream{}, nil
	}
	w.readOne = func(context.Context, string) (*string, error) {
		order = append(order, "read")
		return strp("v1"), nil
	}

	ch, dispose, err := w.Watch(ctx, "doc")
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer dispose()

	collectEvents(t, ch, 1)
	if len(order) != 2 || order[0] != "stream" || order[1] != "read" {
		t.Fatalf("stream must be opened before the point read, got %v", order)
	}
}

// 开流和点读之间落盘的写：点读可能已经看到它，流里也会再来一条。
// 两条都必须到达通道，消费方按最新覆盖后收敛到新值。
func TestWatchDeliversWriteLandedDuringStartup(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := &CollectionWatcher[string]{}
	w.openStream = func(context.Context, string) (changeStream, error) {
		return &fakeStream{events: []rawChange[string]{
			{OperationType: "update", FullDocument: strp("v2")},
		}}, nil
	}
	// 点读仍看到旧值，v2 在流就位之后才提交
	w.readOne = func(context.Context, string) (*string, error) {
		return strp("v1"), nil
	}

	ch, dispose, err := w.Watch(ctx, "doc")
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer dispose()

	got := collectEvents(t, ch, 2)
	if got[0].Value == nil || *got[0].Value != "v1" {
		t.Fatalf("first event must be the initial read, got %+v", got[0])
	}
	if got[1].Value == nil || *got[1].Value != "v2" {
		t.Fatalf("startup-window write must follow on the stream, got %+v", got[1])
	}
}

func TestWatchDeleteEventYieldsNilValue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := &CollectionWatcher[string]{}
	w.openStream = func(context.Context, string) (changeStream, error) {
		return &fakeStream{events: []rawChange[string]{
			{OperationType: "delete"},
		}}, nil
	}
	w.readOne = func(context.Context, string) (*string, error) {
		return strp("v1"), nil
	}

	ch, dispose, err := w.Watch(ctx, "doc")
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer dispose()

	got := collectEvents(t, ch, 2)
	if got[1].Value != nil {
		t.Fatalf("delete must push a nil-value event, got %+v", got[1])
	}
}
