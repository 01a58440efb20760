package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/stiendat/osuvnfc-discord-bot/internal/service"
)

// renameFlow 改名会话：等待一条合规的新用户名
// 候选名不合规时留在会话中重试，由会话闲置时限兜底。
type renameFlow struct {
	svc       service.AccountService
	discordID int64
}

func newRenameFlow(svc service.AccountService, discordID int64) *renameFlow {
	return &renameFlow{svc: svc, discordID: discordID}
}

func (f *renameFlow) Step(ctx context.Context, input string) ([]string, bool) {
	err := f.svc.Rename(ctx, f.discordID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidName):
			return []string{"That username doesn't follow the rules. Please try another one."}, false
		case errors.Is(err, service.ErrNameTaken):
			return []string{"Username already taken."}, true
		case errors.Is(err, service.ErrNotVerified):
			return []string{"You are not verified. Please verify yourself before renaming."}, true
		default:
			return []string{msgGenericError}, true
		}
	}
	return []string{fmt.Sprintf("Your username has been changed to %s.", input)}, true
}
