package bot

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/stiendat/osuvnfc-discord-bot/internal/gameapi"
	"github.com/stiendat/osuvnfc-discord-bot/internal/service"
)

// registerState 注册会话所处的步骤
type registerState int

const (
	stateAwaitInviteCode registerState = iota
	stateAwaitUsername
	stateAwaitPassword
	stateAwaitEmail
)

// registerFlow 注册会话状态机
// 依次收集邀请码、用户名、密码、邮箱，最后提交外部账号创建接口。
// 校验失败立即终结会话，不提供重试（与既有交互约定一致）。
type registerFlow struct {
	svc       service.RegisterService
	discordID int64
	logger    *zap.Logger

	state      registerState
	inviteCode string
	username   string
	password   string
}

func newRegisterFlow(svc service.RegisterService, discordID int64, logger *zap.Logger) *registerFlow {
	return &registerFlow{
		svc:       svc,
		discordID: discordID,
		logger:    logger,
		state:     stateAwaitInviteCode,
	}
}

func (f *registerFlow) Step(ctx context.Context, input string) ([]string, bool) {
	switch f.state {
	case stateAwaitInviteCode:
		if err := f.svc.CheckInviteCode(ctx, input); err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidInviteCode):
				return []string{"Invalid invite code."}, true
			case errors.Is(err, service.ErrInviteAlreadyUsed):
				return []string{"Invite code already used."}, true
			default:
				return []string{msgGenericError}, true
			}
		}
		f.inviteCode = input
		f.state = stateAwaitUsername
		return []string{"Please enter your username."}, false

	case stateAwaitUsername:
		if err := f.svc.CheckUsername(ctx, f.discordID, input); err != nil {
			switch {
			case errors.Is(err, service.ErrAlreadyRegistered):
				return []string{"You are already registered"}, true
			case errors.Is(err, service.ErrNameTaken):
				return []string{"Username already taken."}, true
			default:
				return []string{msgGenericError}, true
			}
		}
		f.username = input
		f.state = stateAwaitPassword
		return []string{"Please enter your password."}, false

	case stateAwaitPassword:
		// 密码与邮箱原样收集，格式校验交由外部接口
		f.password = input
		f.state = stateAwaitEmail
		return []string{"Please enter your email."}, false

	case stateAwaitEmail:
		err := f.svc.Submit(ctx, f.discordID, f.username, f.password, input, f.inviteCode)
		if err != nil {
			var rejection *gameapi.RejectionError
			if errors.As(err, &rejection) {
				// 游戏服务器给出的拒绝原因原样转发
				return []string{rejection.Reason}, true
			}
			f.logger.Warn("注册提交失败", zap.Int64("discord_id", f.discordID), zap.Error(err))
			return []string{msgGenericError}, true
		}
		return []string{"Your account has been created. Please use !verify to verify your account."}, true
	}

	return nil, true
}
