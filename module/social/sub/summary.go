package sub

import (
	"context"
	"sort"
	"sync"

	"SocialCore/logger"
	"SocialCore/module/social/model"
)

// ConversationSummary 会话列表里的一行：会话本体 + 最新一条消息 + 未读数
type ConversationSummary struct {
	Conversation model.Conversation
	Latest       *model.Message
	Unread       int64
}

// Loader 汇总每个会话需要的两次附加点读
type Loader interface {
	LatestMessage(ctx context.Context, conversationID string) (*model.Message, error)
	UnreadCount(ctx context.Context, conversationID string, userID string) (int64, error)
}

// ConversationList 把会话快照流加工成排好序的列表视图。
// 每份快照要对全部会话并发补读（最新消息、未读数），
// 必须等这一批全部读完才发列表，不允许半成品视图。
type ConversationList struct {
	loader Loader
	userID string
	out    chan []ConversationSummary
}

func NewConversationList(loader Loader, userID string) *ConversationList {
	return &ConversationList{
		loader: loader,
		userID: userID,
		out:    make(chan []ConversationSummary, 4),
	}
}

func (l *ConversationList) Out() <-chan []ConversationSummary {
	return l.out
}

// Run 消费 Composer 的会话快照流，in 关闭或 ctx 结束时退出
func (l *ConversationList) Run(ctx context.Context, in <-chan map[string]model.Conversation) {
	defer close(l.out)

	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-in:
			if !ok {
				return
			}
			// 补读耗时，处理期间可能又堆了新快照，只加工最新那份
			snap = drainLatest(in, snap)
			list := l.assemble(ctx, snap)
			select {
			case l.out <- list:
			case <-ctx.Done():
				return
			}
		}
	}
}

func drainLatest[T any](in <-chan T, cur T) T {
	for {
		select {
		case next, ok := <-in:
			if !ok {
				return cur
			}
			cur = next
		default:
			return cur
		}
	}
}

// assemble 对快照内每个会话并发补读，凑齐后按最近活跃倒序返回
func (l *ConversationList) assemble(ctx context.Context, snap map[string]model.Conversation) []ConversationSummary {
	list := make([]ConversationSummary, 0, len(snap))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, conv := range snap {
		conv := conv
		wg.Add(1)
		go func() {
			defer wg.Done()
			row := ConversationSummary{Conversation: conv}

			msg, err := l.loader.LatestMessage(ctx, conv.ID)
			if err != nil {
				logger.Warnf("[convlist] latest message conv=%s: %v", conv.ID, err)
			} else {
				row.Latest = msg
			}

			n, err := l.loader.UnreadCount(ctx, conv.ID, l.userID)
			if err != nil {
				logger.Warnf("[convlist] unread count conv=%s: %v", conv.ID, err)
			} else {
				row.Unread = n
			}

			mu.Lock()
			list = append(list, row)
			mu.Unlock()
		}()
	}
	wg.Wait()

	sort.Slice(list, func(i, j int) bool {
		a, b := list[i].Conversation, list[j].Conversation
		if !a.LastActivity.Equal(b.LastActivity) {
			return a.LastActivity.After(b.LastActivity)
		}
		return a.ID < b.ID
	})
	return list
}
