package tx

import "context"

// Tx 单文档事务入口。fn 可能被驱动因写冲突自动重试，
// 必须保持可重入：除最终写意图外不得有外部副作用。
type Tx interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
