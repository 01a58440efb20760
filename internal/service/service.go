package service

import (
	"go.uber.org/zap"

	"github.com/stiendat/osuvnfc-discord-bot/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Verify   VerifyService
	Invite   InviteService
	Register RegisterService
	Account  AccountService
	Stats    StatsService
}

// NewService 创建 Service 聚合
func NewService(
	repo *repository.Repository,
	creator AccountCreator,
	logger *zap.Logger,
) *Service {
	return &Service{
		Verify:   NewVerifyService(repo, logger),
		Invite:   NewInviteService(repo, logger),
		Register: NewRegisterService(repo, creator, logger),
		Account:  NewAccountService(repo, logger),
		Stats:    NewStatsService(repo, logger),
	}
}
