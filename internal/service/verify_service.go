package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stiendat/osuvnfc-discord-bot/internal/model"
	"github.com/stiendat/osuvnfc-discord-bot/internal/repository"
)

// VerifyService 验证码签发业务接口
type VerifyService interface {
	// IssueCode 为未绑定的 Discord 身份签发验证码
	// pending=true 表示该身份已有待用验证码，返回的是既有码而非新码（幂等）。
	IssueCode(ctx context.Context, discordID int64) (code string, pending bool, err error)
}

type verifyService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewVerifyService 创建 VerifyService 实例
func NewVerifyService(repo *repository.Repository, logger *zap.Logger) VerifyService {
	return &verifyService{repo: repo, logger: logger}
}

func (s *verifyService) IssueCode(ctx context.Context, discordID int64) (string, bool, error) {
	// 1. 已绑定账号则拒绝签发
	_, err := s.repo.User.GetByDiscordID(ctx, discordID)
	if err == nil {
		return "", false, ErrAlreadyVerified
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询账号绑定失败", zap.Int64("discord_id", discordID), zap.Error(err))
		return "", false, err
	}

	// 2. 尝试插入新验证码；主键冲突说明已有待用码，改为取回既有码
	vc := &model.VerifyCode{
		DiscordID: discordID,
		Time:      time.Now(),
		VerifyKey: GenerateCode(),
	}
	if err := s.repo.VerifyCode.Create(ctx, vc); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, err := s.repo.VerifyCode.GetByDiscordID(ctx, discordID)
			if err != nil {
				return "", false, fmt.Errorf("取回既有验证码失败: %w", err)
			}
			return existing.VerifyKey, true, nil
		}
		s.logger.Error("写入验证码失败", zap.Int64("discord_id", discordID), zap.Error(err))
		return "", false, err
	}

	s.logger.Info("签发验证码", zap.Int64("discord_id", discordID))
	return vc.VerifyKey, false, nil
}
