package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/stiendat/osuvnfc-discord-bot/internal/model"
)

// VerifyCodeRepository 验证码数据访问接口
type VerifyCodeRepository interface {
	// Create 插入新验证码；同一 Discord 身份已有记录时返回 gorm.ErrDuplicatedKey
	Create(ctx context.Context, code *model.VerifyCode) error
	GetByDiscordID(ctx context.Context, discordID int64) (*model.VerifyCode, error)
	Count(ctx context.Context) (int64, error)
}

type verifyCodeRepo struct {
	db *gorm.DB
}

// NewVerifyCodeRepo 创建 VerifyCodeRepository 实例
func NewVerifyCodeRepo(db *gorm.DB) VerifyCodeRepository {
	return &verifyCodeRepo{db: db}
}

func (r *verifyCodeRepo) Create(ctx context.Context, code *model.VerifyCode) error {
	return r.db.WithContext(ctx).Create(code).Error
}

func (r *verifyCodeRepo) GetByDiscordID(ctx context.Context, discordID int64) (*model.VerifyCode, error) {
	var vc model.VerifyCode
	err := r.db.WithContext(ctx).
		Where("discord_id = ?", discordID).
		First(&vc).Error
	if err != nil {
		return nil, err
	}
	return &vc, nil
}

func (r *verifyCodeRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.VerifyCode{}).Count(&total).Error
	return total, err
}
