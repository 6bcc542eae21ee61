package mongoutil

import (
	"context"
	"errors"

	"SocialCore/data/database/utils/tx"
	"SocialCore/tools/errs"

	"go.mongodb.org/mongo-driver/mongo"
)

// NewMongoTx 基于 client session 的事务包装。
// 单节点（无副本集）环境不支持事务时退化为直接执行。
func NewMongoTx(ctx context.Context, client *mongo.Client) (tx.Tx, error) {
	mtx := mongoTx{
		client: client,
	}
	if err := mtx.init(ctx); err != nil {
		return nil, err
	}
	return &mtx, nil
}

type mongoTx struct {
	client *mongo.Client
	tx     func(context.Context, func(ctx context.Context) error) error
}

func (m *mongoTx) init(ctx context.Context) error {
	var res map[string]any
	if err := m.client.Database("admin").RunCommand(ctx, map[string]any{"isMaster": 1}).Decode(&res); err != nil {
		return errs.WrapMsg(err, "check whether mongo is deployed in a cluster")
	}
	if _, allowTx := res["setName"]; !allowTx {
		return nil // 单机部署：Transaction 直接执行 fn
	}
	m.tx = func(fnctx context.Context, fn func(ctx context.Context) error) error {
		sess, err := m.client.StartSession()
		if err != nil {
			return errs.WrapMsg(err, "start mongo session")
		}
		defer sess.EndSession(fnctx)
		// WithTransaction 对 TransientTransactionError 自动重试 fn
		_, err = sess.WithTransaction(fnctx, func(sc mongo.SessionContext) (any, error) {
			return nil, fn(sc)
		})
		if err == nil {
			return nil
		}
		// 业务错误原样返回；驱动层冲突（重试耗尽）归到 Conflict
		var codeErr errs.CodeError
		if errors.As(errs.Unwrap(err), &codeErr) {
			return err
		}
		if cmdErr, ok := errs.Unwrap(err).(mongo.CommandError); ok &&
			(cmdErr.HasErrorLabel("TransientTransactionError") || cmdErr.HasErrorLabel("UnknownTransactionCommitResult")) {
			return errs.ErrConflict.WrapMsg(cmdErr.Error())
		}
		return err
	}
	return nil
}

func (m *mongoTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.tx == nil {
		return fn(ctx)
	}
	return m.tx(ctx, fn)
}
