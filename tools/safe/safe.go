package safe

import (
	"context"
	"math/rand"
	"time"

	"SocialCore/logger"
	"SocialCore/tools/errs"
)

// SafeGo starts a new goroutine that recovers from panic,
// so that panics don't crash the entire program.
func SafeGo(f func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("[SafeGo] panic recovered: %+v", errs.ErrPanic(r))
			}
		}()
		f()
	}()
}

// RetryLoop runs f periodically until ctx is done. A failed run backs off
// exponentially (with jitter) instead of waiting the normal interval,
// up to maxBackoff. Used by background sync (reconcile, notification redelivery).
func RetryLoop(ctx context.Context, name string, every, maxBackoff time.Duration, f func(context.Context) error) {
	backoff := every
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := f(ctx); err != nil {
			logger.Warnf("[%s] run failed, backing off %v: %v", name, backoff, err)
			sleepCtx(ctx, withJitter(backoff))
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}
		backoff = every
		sleepCtx(ctx, every)
	}
}

// withJitter 减去 0~20% 抖动，避免多个客户端同拍重试
func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return d
	}
	j := time.Duration(rand.Int63n(int64(d / 5)))
	return d - j
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
