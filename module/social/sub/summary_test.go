package sub

import (
	"context"
	"testing"
	"time"

	socialmodel "SocialCore/module/social/model"
)

type stubLoader struct {
	latest map[string]*socialmodel.Message
	unread map[string]int64
}

func (l *stubLoader) LatestMessage(_ context.Context, convID string) (*socialmodel.Message, error) {
	return l.latest[convID], nil
}

func (l *stubLoader) UnreadCount(_ context.Context, convID, _ string) (int64, error) {
	return l.unread[convID], nil
}

func TestConversationListSortedAndComplete(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	loader := &stubLoader{
		latest: map[string]*socialmodel.Message{
			"a_b": {ID: "m1", Text: "hi"},
			"a_c": {ID: "m2", Text: "yo"},
		},
		unread: map[string]int64{"a_b": 3},
	}
	list := NewConversationList(loader, "a")

	in := make(chan map[string]socialmodel.Conversation, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go list.Run(ctx, in)

	in <- map[string]socialmodel.Conversation{
		"a_b": {ID: "a_b", LastActivity: base},
		"a_c": {ID: "a_c", LastActivity: base.Add(time.Minute)},
	}

	select {
	case rows := <-list.Out():
		if len(rows) != 2 {
			t.Fatalf("rows = %d, want 2", len(rows))
		}
		// 最近活跃在前
		if rows[0].Conversation.ID != "a_c" || rows[1].Conversation.ID != "a_b" {
			t.Fatalf("order = %s,%s", rows[0].Conversation.ID, rows[1].Conversation.ID)
		}
		if rows[0].Latest == nil || rows[0].Latest.ID != "m2" {
			t.Fatalf("latest of a_c = %+v", rows[0].Latest)
		}
		if rows[1].Unread != 3 {
			t.Fatalf("unread of a_b = %d, want 3", rows[1].Unread)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for conversation list")
	}
}

func TestConversationListClosesWithInput(t *testing.T) {
	list := NewConversationList(&stubLoader{}, "a")
	in := make(chan map[string]socialmodel.Conversation)
	go list.Run(context.Background(), in)
	close(in)

	select {
	case _, open := <-list.Out():
		if open {
			t.Fatal("expected closed output after input closed")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for close")
	}
}
