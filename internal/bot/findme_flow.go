package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/stiendat/osuvnfc-discord-bot/internal/service"
)

// findmeFlow 找回用户名会话：等待一条邮箱并按精确匹配查询
type findmeFlow struct {
	svc service.AccountService
}

func newFindmeFlow(svc service.AccountService) *findmeFlow {
	return &findmeFlow{svc: svc}
}

func (f *findmeFlow) Step(ctx context.Context, input string) ([]string, bool) {
	name, err := f.svc.FindByEmail(ctx, input)
	if err != nil {
		if errors.Is(err, service.ErrNoAccountFound) {
			return []string{"No account found."}, true
		}
		return []string{msgGenericError}, true
	}
	return []string{fmt.Sprintf("Your username is %s", name)}, true
}
