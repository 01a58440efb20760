package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stiendat/osuvnfc-discord-bot/internal/model"
	"github.com/stiendat/osuvnfc-discord-bot/internal/repository"
)

// UnlimitedInvites IssueCode 在请求者享有无限邀请特权时返回的余量标记
const UnlimitedInvites = -1

// inviteCodeAttempts 码值撞库时的重试上限（纳秒时间戳摘要，冲突概率可忽略但非零）
const inviteCodeAttempts = 3

// InviteService 邀请码签发业务接口
type InviteService interface {
	// IssueCode 为已验证的请求者签发邀请码
	// unlimited 为 Permission Classifier 的判定结果；无特权时在同一事务内扣减余量。
	// remaining 为扣减后余量，特权请求者固定为 UnlimitedInvites。
	IssueCode(ctx context.Context, discordID int64, unlimited bool) (code string, remaining int, err error)
}

type inviteService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewInviteService 创建 InviteService 实例
func NewInviteService(repo *repository.Repository, logger *zap.Logger) InviteService {
	return &inviteService{repo: repo, logger: logger}
}

// IssueCode 签发与扣减在单个事务内完成：
// 行级锁定账号 → 校验余量 → 插入邀请码 → 条件扣减，任一步失败整体回滚，
// 不会出现"码已签发但余量未扣"的中间状态。
func (s *inviteService) IssueCode(ctx context.Context, discordID int64, unlimited bool) (string, int, error) {
	var code string
	remaining := UnlimitedInvites

	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		user, err := txRepo.User.GetByDiscordIDForUpdate(ctx, discordID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotVerified
			}
			s.logger.Error("锁定账号失败", zap.Int64("discord_id", discordID), zap.Error(err))
			return err
		}

		if user.AvailableInvite <= 0 && !unlimited {
			return ErrNoInvitesLeft
		}

		// 码值唯一约束冲突是预期内的可恢复条件，换码重试
		var created bool
		for i := 0; i < inviteCodeAttempts; i++ {
			code = GenerateCode()
			err = txRepo.InviteCode.Create(ctx, &model.InviteCode{
				UserID:     user.ID,
				Time:       time.Now(),
				InviteCode: code,
			})
			if err == nil {
				created = true
				break
			}
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				s.logger.Error("写入邀请码失败", zap.Int64("discord_id", discordID), zap.Error(err))
				return err
			}
		}
		if !created {
			return err
		}

		if !unlimited {
			ok, err := txRepo.User.DecrementInvites(ctx, user.ID)
			if err != nil {
				s.logger.Error("扣减邀请余量失败", zap.Int("user_id", user.ID), zap.Error(err))
				return err
			}
			if !ok {
				// 行锁下余量不会被并发扣空；到达此处说明锁未生效，回滚整次签发
				return ErrNoInvitesLeft
			}
			remaining = user.AvailableInvite - 1
		}
		return nil
	})
	if err != nil {
		return "", 0, err
	}

	s.logger.Info("签发邀请码",
		zap.Int64("discord_id", discordID),
		zap.Bool("unlimited", unlimited),
		zap.Int("remaining", remaining),
	)
	return code, remaining, nil
}
