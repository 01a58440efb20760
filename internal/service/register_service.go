package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stiendat/osuvnfc-discord-bot/internal/gameapi"
	"github.com/stiendat/osuvnfc-discord-bot/internal/repository"
)

// AccountCreator 外部账号创建接口（gameapi.Client 的抽象，便于单测替换）
type AccountCreator interface {
	CreateAccount(ctx context.Context, username, password, email, inviteCode string) error
}

// RegisterService 注册流程业务接口
// 会话状态机本身位于 bot 层；此处承载每一步的校验与最终提交。
type RegisterService interface {
	// CheckInviteCode 校验邀请码存在且未被兑换
	CheckInviteCode(ctx context.Context, code string) error
	// CheckUsername 校验请求者未注册且用户名（按规范化形式）未被占用
	CheckUsername(ctx context.Context, discordID int64, username string) error
	// Submit 调用外部接口创建账号；成功后将邀请码标记为已兑换
	Submit(ctx context.Context, discordID int64, username, password, email, inviteCode string) error
}

type registerService struct {
	repo    *repository.Repository
	creator AccountCreator
	logger  *zap.Logger
}

// NewRegisterService 创建 RegisterService 实例
func NewRegisterService(repo *repository.Repository, creator AccountCreator, logger *zap.Logger) RegisterService {
	return &registerService{repo: repo, creator: creator, logger: logger}
}

func (s *registerService) CheckInviteCode(ctx context.Context, code string) error {
	invite, err := s.repo.InviteCode.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidInviteCode
		}
		s.logger.Error("查询邀请码失败", zap.Error(err))
		return err
	}
	if invite.UsedBy != nil {
		return ErrInviteAlreadyUsed
	}
	return nil
}

func (s *registerService) CheckUsername(ctx context.Context, discordID int64, username string) error {
	// 请求者已绑定账号则不允许再注册
	_, err := s.repo.User.GetByDiscordID(ctx, discordID)
	if err == nil {
		return ErrAlreadyRegistered
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询账号绑定失败", zap.Int64("discord_id", discordID), zap.Error(err))
		return err
	}

	// 用户名查重按规范化形式，大小写不敏感
	_, err = s.repo.User.GetBySafeName(ctx, MakeSafeName(username))
	if err == nil {
		return ErrNameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("用户名查重失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *registerService) Submit(ctx context.Context, discordID int64, username, password, email, inviteCode string) error {
	if err := s.creator.CreateAccount(ctx, username, password, email, inviteCode); err != nil {
		return err
	}

	// 注册成功后标记兑换人。游戏服务器刚创建的账号按规范化名回查；
	// 标记失败只记日志，不影响已完成的注册。
	user, err := s.repo.User.GetBySafeName(ctx, MakeSafeName(username))
	if err != nil {
		s.logger.Warn("回查新建账号失败，邀请码未标记兑换",
			zap.String("username", username), zap.Error(err))
		return nil
	}
	marked, err := s.repo.InviteCode.MarkUsed(ctx, inviteCode, user.ID)
	if err != nil {
		s.logger.Warn("标记邀请码兑换失败", zap.String("invite_code", inviteCode), zap.Error(err))
		return nil
	}
	if !marked {
		s.logger.Warn("邀请码已被并发兑换", zap.String("invite_code", inviteCode))
	}

	s.logger.Info("注册完成",
		zap.Int64("discord_id", discordID),
		zap.String("username", username),
	)
	return nil
}

// 确保 gameapi.Client 满足 AccountCreator
var _ AccountCreator = (*gameapi.Client)(nil)
