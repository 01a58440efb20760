package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/stiendat/osuvnfc-discord-bot/internal/repository"
)

// Stats 运维概览计数
type Stats struct {
	Users         int64 `json:"users"`
	VerifyPending int64 `json:"verify_pending"`
	InvitesIssued int64 `json:"invites_issued"`
	InvitesUsed   int64 `json:"invites_used"`
}

// StatsService 运维统计业务接口
type StatsService interface {
	Overview(ctx context.Context) (*Stats, error)
}

type statsService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStatsService 创建 StatsService 实例
func NewStatsService(repo *repository.Repository, logger *zap.Logger) StatsService {
	return &statsService{repo: repo, logger: logger}
}

func (s *statsService) Overview(ctx context.Context) (*Stats, error) {
	users, err := s.repo.User.Count(ctx)
	if err != nil {
		s.logger.Error("统计账号数失败", zap.Error(err))
		return nil, err
	}
	pending, err := s.repo.VerifyCode.Count(ctx)
	if err != nil {
		s.logger.Error("统计验证码数失败", zap.Error(err))
		return nil, err
	}
	issued, err := s.repo.InviteCode.CountIssued(ctx)
	if err != nil {
		s.logger.Error("统计邀请码数失败", zap.Error(err))
		return nil, err
	}
	used, err := s.repo.InviteCode.CountUsed(ctx)
	if err != nil {
		s.logger.Error("统计已用邀请码数失败", zap.Error(err))
		return nil, err
	}

	return &Stats{
		Users:         users,
		VerifyPending: pending,
		InvitesIssued: issued,
		InvitesUsed:   used,
	}, nil
}
