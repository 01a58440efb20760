package handler

import "github.com/stiendat/osuvnfc-discord-bot/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Ops *OpsHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Ops: NewOpsHandler(svc.Stats, svc.Register),
	}
}
