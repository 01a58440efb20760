package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User       UserRepository
	VerifyCode VerifyCodeRepository
	InviteCode InviteCodeRepository

	db *gorm.DB
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:       NewUserRepo(db),
		VerifyCode: NewVerifyCodeRepo(db),
		InviteCode: NewInviteCodeRepo(db),
		db:         db,
	}
}

// Transaction 在单个数据库事务内执行 fn，fn 内通过传入的 Repository 访问数据
// fn 返回错误时整体回滚。多步读写必须观察一致状态时使用（如邀请签发 + 余量扣减）。
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		// 单测中以字面量构造的 mock 聚合没有底层连接，退化为直接执行
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

// WithTx 返回绑定到指定事务连接的 Repository 视图
// 多步读写必须在同一事务内执行时使用（如邀请码签发 + 余量扣减）
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{
		User:       NewUserRepo(tx),
		VerifyCode: NewVerifyCodeRepo(tx),
		InviteCode: NewInviteCodeRepo(tx),
		db:         tx,
	}
}
