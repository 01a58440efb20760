package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stiendat/osuvnfc-discord-bot/internal/model"
	"github.com/stiendat/osuvnfc-discord-bot/internal/repository"
)

// namePattern 用户名规则：2-15 个字符，仅限字母/数字/空格/方括号/连字符/下划线
var namePattern = regexp.MustCompile(`^[\w \[\]-]{2,15}$`)

// ValidateName 校验候选用户名
// 空格与下划线不能同时出现（两者在规范化名中折叠为同一字符）。
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return ErrInvalidName
	}
	if strings.Contains(name, "_") && strings.Contains(name, " ") {
		return ErrInvalidName
	}
	return nil
}

// AccountService 账号查询与改名业务接口
type AccountService interface {
	// GetByDiscordID 查询请求者绑定的账号；未绑定返回 ErrNotVerified
	GetByDiscordID(ctx context.Context, discordID int64) (*model.User, error)
	// Rename 改名：先本地校验命名规则，再查重（沿用大小写敏感的精确比较），最后原子更新
	Rename(ctx context.Context, discordID int64, newName string) error
	// FindByEmail 按邮箱精确匹配找回用户名
	FindByEmail(ctx context.Context, email string) (string, error)
}

type accountService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAccountService 创建 AccountService 实例
func NewAccountService(repo *repository.Repository, logger *zap.Logger) AccountService {
	return &accountService{repo: repo, logger: logger}
}

func (s *accountService) GetByDiscordID(ctx context.Context, discordID int64) (*model.User, error) {
	user, err := s.repo.User.GetByDiscordID(ctx, discordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotVerified
		}
		s.logger.Error("查询账号绑定失败", zap.Int64("discord_id", discordID), zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (s *accountService) Rename(ctx context.Context, discordID int64, newName string) error {
	// 命名规则校验在任何存储访问之前
	if err := ValidateName(newName); err != nil {
		return err
	}

	user, err := s.GetByDiscordID(ctx, discordID)
	if err != nil {
		return err
	}

	// 改名查重沿用展示名的精确比较（与注册流程的规范化查重不同，保留既有行为）
	_, err = s.repo.User.GetByName(ctx, newName)
	if err == nil {
		return ErrNameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("改名查重失败", zap.Error(err))
		return err
	}

	if err := s.repo.User.UpdateName(ctx, user.ID, newName, MakeSafeName(newName)); err != nil {
		s.logger.Error("更新用户名失败", zap.Int("user_id", user.ID), zap.Error(err))
		return err
	}

	s.logger.Info("用户改名",
		zap.Int("user_id", user.ID),
		zap.String("old_name", user.Name),
		zap.String("new_name", newName),
	)
	return nil
}

func (s *accountService) FindByEmail(ctx context.Context, email string) (string, error) {
	user, err := s.repo.User.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNoAccountFound
		}
		s.logger.Error("按邮箱查询账号失败", zap.Error(err))
		return "", err
	}
	return user.Name, nil
}
