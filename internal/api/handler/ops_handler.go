package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/stiendat/osuvnfc-discord-bot/internal/service"
	"github.com/stiendat/osuvnfc-discord-bot/pkg/response"
)

// OpsHandler 运维只读接口：概览统计与邀请码状态
// 签发与兑换只发生在机器人侧，此处不暴露任何写操作。
type OpsHandler struct {
	statsSvc    service.StatsService
	registerSvc service.RegisterService
}

// NewOpsHandler 创建 OpsHandler
func NewOpsHandler(statsSvc service.StatsService, registerSvc service.RegisterService) *OpsHandler {
	return &OpsHandler{statsSvc: statsSvc, registerSvc: registerSvc}
}

// Stats 概览统计
// GET /api/v1/stats
func (h *OpsHandler) Stats(c *gin.Context) {
	stats, err := h.statsSvc.Overview(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, stats)
}

// InviteStatus 查询邀请码状态
// GET /api/v1/invites/:code
func (h *OpsHandler) InviteStatus(c *gin.Context) {
	code := c.Param("code")

	err := h.registerSvc.CheckInviteCode(c.Request.Context(), code)
	switch {
	case err == nil:
		response.OK(c, gin.H{"code": code, "used": false})
	case errors.Is(err, service.ErrInviteAlreadyUsed):
		response.OK(c, gin.H{"code": code, "used": true})
	case errors.Is(err, service.ErrInvalidInviteCode):
		response.NotFound(c, 20001, "邀请码不存在")
	default:
		response.InternalError(c)
	}
}
