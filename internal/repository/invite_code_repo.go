package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/stiendat/osuvnfc-discord-bot/internal/model"
)

// InviteCodeRepository 邀请码数据访问接口
type InviteCodeRepository interface {
	// Create 插入新邀请码；码值撞库时返回 gorm.ErrDuplicatedKey
	Create(ctx context.Context, code *model.InviteCode) error
	GetByCode(ctx context.Context, code string) (*model.InviteCode, error)
	// MarkUsed 标记邀请码已被某账号使用；仅首次标记生效，已被使用时返回 false
	MarkUsed(ctx context.Context, code string, usedBy int) (bool, error)
	CountIssued(ctx context.Context) (int64, error)
	CountUsed(ctx context.Context) (int64, error)
}

type inviteCodeRepo struct {
	db *gorm.DB
}

// NewInviteCodeRepo 创建 InviteCodeRepository 实例
func NewInviteCodeRepo(db *gorm.DB) InviteCodeRepository {
	return &inviteCodeRepo{db: db}
}

func (r *inviteCodeRepo) Create(ctx context.Context, code *model.InviteCode) error {
	return r.db.WithContext(ctx).Create(code).Error
}

func (r *inviteCodeRepo) GetByCode(ctx context.Context, code string) (*model.InviteCode, error) {
	var invite model.InviteCode
	err := r.db.WithContext(ctx).
		Where("invite_code = ?", code).
		First(&invite).Error
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

// MarkUsed 条件化 UPDATE（used_by IS NULL），并发兑换时先到先得
func (r *inviteCodeRepo) MarkUsed(ctx context.Context, code string, usedBy int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.InviteCode{}).
		Where("invite_code = ? AND used_by IS NULL", code).
		Update("used_by", usedBy)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *inviteCodeRepo) CountIssued(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.InviteCode{}).Count(&total).Error
	return total, err
}

func (r *inviteCodeRepo) CountUsed(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.InviteCode{}).
		Where("used_by IS NOT NULL").
		Count(&total).Error
	return total, err
}
