package sub

import (
	"context"

	"SocialCore/logger"
)

// Composer 把动态父ID集合展开成一组子订阅（fan-out），
// 把每个子订阅的推送合并进 keyed 快照（fan-in），
// 任何子更新都整份重发合并结果：发的是完整值，不是增量。
//
// 不变式：父集合变化时必须先拆干净全部旧子订阅再建新订阅，
// 否则失效ID的回调会往合并结果里塞幽灵条目。
type Composer[T any] struct {
	watcher Watcher[T]

	parents chan []string
	events  chan childEvent[T]
	out     chan map[string]T

	cancels map[string]func()
	merged  map[string]T
	gen     int // 订阅代数，旧代事件一律丢弃
}

type childEvent[T any] struct {
	gen int
	ev  Event[T]
}

func NewComposer[T any](watcher Watcher[T]) *Composer[T] {
	return &Composer[T]{
		watcher: watcher,
		parents: make(chan []string, 1),
		events:  make(chan childEvent[T], 64),
		out:     make(chan map[string]T, 8),
		cancels: make(map[string]func()),
		merged:  make(map[string]T),
	}
}

// Out 合并快照流。每个值都是独立副本，消费方可随意持有。
func (c *Composer[T]) Out() <-chan map[string]T {
	return c.out
}

// SetParents 替换父ID集合（好友列表变化、会话成员变化时调用）
func (c *Composer[T]) SetParents(ids []string) {
	// 只保留最新一份待处理集合
	for {
		select {
		case c.parents <- ids:
			return
		default:
			select {
			case <-c.parents:
			default:
			}
		}
	}
}

// Run 事件循环，阻塞直到 ctx 结束；结束时拆掉全部子订阅
func (c *Composer[T]) Run(ctx context.Context) {
	defer c.teardownAll()
	defer close(c.out)

	for {
		select {
		case <-ctx.Done():
			return
		case ids := <-c.parents:
			c.resubscribe(ctx, ids)
			c.emit(ctx) // 剪掉失效条目后的快照也要推一份
		case ce := <-c.events:
			if ce.gen != c.gen {
				continue // 旧代残留事件
			}
			if ce.ev.Value == nil {
				delete(c.merged, ce.ev.ID)
			} else {
				c.merged[ce.ev.ID] = *ce.ev.Value
			}
			c.emit(ctx)
		}
	}
}

// resubscribe 先全量拆旧，再按当前集合逐个建新
func (c *Composer[T]) resubscribe(ctx context.Context, ids []string) {
	c.teardownAll()
	c.gen++

	keep := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		keep[id] = struct{}{}
	}
	for id := range c.merged {
		if _, ok := keep[id]; !ok {
			delete(c.merged, id)
		}
	}

	gen := c.gen
	for _, id := range ids {
		ch, cancel, err := c.watcher.Watch(ctx, id)
		if err != nil {
			logger.Warnf("[composer] watch id=%s failed: %v", id, err)
			continue
		}
		c.cancels[id] = cancel
		go c.forward(ctx, gen, ch)
	}
}

func (c *Composer[T]) forward(ctx context.Context, gen int, ch <-chan Event[T]) {
	for ev := range ch {
		select {
		case c.events <- childEvent[T]{gen: gen, ev: ev}:
		case <-ctx.Done():
			return
		}
	}
}

func (c *Composer[T]) teardownAll() {
	for id, cancel := range c.cancels {
		cancel()
		delete(c.cancels, id)
	}
}

func (c *Composer[T]) emit(ctx context.Context) {
	snap := make(map[string]T, len(c.merged))
	for k, v := range c.merged {
		snap[k] = v
	}
	select {
	case c.out <- snap:
	case <-ctx.Done():
	default:
		// 消费方跟不上：丢最旧的一份，通道里始终是较新状态
		select {
		case <-c.out:
		default:
		}
		select {
		case c.out <- snap:
		case <-ctx.Done():
		default:
		}
	}
}
