package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/stiendat/osuvnfc-discord-bot/config"
	"github.com/stiendat/osuvnfc-discord-bot/internal/service"
)

// Message 入站消息：稳定的请求者身份 + 文本 + 身份组集合
type Message struct {
	DiscordID int64
	Content   string
	Roles     []service.Role
}

// Cooldown 命令冷却抽象（pkg/redis 实现）；为 nil 时不限流
type Cooldown interface {
	AcquireCooldown(ctx context.Context, command string, discordID int64, ttl time.Duration) (bool, error)
}

// 通用用户提示
const (
	msgGenericError = "Something went wrong. Please try again later."
	msgCooldown     = "Please wait a moment before using this command again."
)

// Dispatcher 命令分发器
// 前缀命令路由到对应处理函数；非命令消息路由到发送者的活跃会话。
type Dispatcher struct {
	cfg      *config.BotConfig
	svc      *service.Service
	sessions *SessionManager
	cooldown Cooldown
	logger   *zap.Logger
}

// NewDispatcher 创建命令分发器
func NewDispatcher(cfg *config.BotConfig, svc *service.Service, sessions *SessionManager, cooldown Cooldown, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		cfg:      cfg,
		svc:      svc,
		sessions: sessions,
		cooldown: cooldown,
		logger:   logger,
	}
}

// HandleMessage 处理一条入站消息，返回要私信给发送者的回复序列
func (d *Dispatcher) HandleMessage(ctx context.Context, msg Message) []string {
	content := strings.TrimSpace(msg.Content)

	if strings.HasPrefix(content, d.cfg.Prefix) {
		rest := strings.TrimSpace(content[len(d.cfg.Prefix):])
		if rest == "" {
			return nil
		}
		command := strings.ToLower(strings.Fields(rest)[0])
		return d.dispatch(ctx, command, msg)
	}

	// 非命令消息：驱动发送者的活跃会话（若有）
	replies, handled := d.sessions.Advance(ctx, msg.DiscordID, content)
	if !handled {
		return nil
	}
	return replies
}

func (d *Dispatcher) dispatch(ctx context.Context, command string, msg Message) []string {
	switch command {
	case "helpme":
		return d.handleHelpme(msg)
	case "verify":
		return d.handleVerify(ctx, msg)
	case "invite":
		return d.handleInvite(ctx, msg)
	case "register":
		return d.handleRegister(msg)
	case "rename":
		return d.handleRename(ctx, msg)
	case "findme":
		return d.handleFindme(msg)
	default:
		// 未知命令不回应
		return nil
	}
}

// onCooldown verify/invite 的单用户冷却；Redis 不可用或出错时放行
func (d *Dispatcher) onCooldown(ctx context.Context, command string, discordID int64) bool {
	if d.cooldown == nil || d.cfg.CommandCooldown <= 0 {
		return false
	}
	ok, err := d.cooldown.AcquireCooldown(ctx, command, discordID, d.cfg.CommandCooldown)
	if err != nil {
		d.logger.Warn("冷却检查失败，放行", zap.String("command", command), zap.Error(err))
		return false
	}
	return !ok
}

func (d *Dispatcher) handleHelpme(msg Message) []string {
	d.logger.Info("收到 helpme 命令", zap.Int64("discord_id", msg.DiscordID))
	p := d.cfg.Prefix
	return []string{fmt.Sprintf(
		"Welcome to the osuVNFC discord server. Here is a list of commands you can use:\n"+
			"%shelpme - Show this message\n"+
			"%sverify - Verify your osu! account\n"+
			"%sinvite - Generate invite code for your friends\n"+
			"%sregister - Register a new game account using your friend's invite code\n"+
			"%srename - Change your osu! username\n"+
			"%sfindme - Find your username",
		p, p, p, p, p, p)}
}

func (d *Dispatcher) handleVerify(ctx context.Context, msg Message) []string {
	d.logger.Info("收到 verify 命令", zap.Int64("discord_id", msg.DiscordID))
	if d.onCooldown(ctx, "verify", msg.DiscordID) {
		return []string{msgCooldown}
	}

	code, pending, err := d.svc.Verify.IssueCode(ctx, msg.DiscordID)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyVerified) {
			return []string{"You are already verified"}
		}
		return []string{msgGenericError}
	}

	codeMsg := fmt.Sprintf("Your verify code is %s. Use !verify <verify_code> in game to verify."+
		"\nDo not let anyone know your verify code.", code)
	if pending {
		return []string{"You already have a verify code. Please use that one.", codeMsg}
	}
	return []string{codeMsg}
}

func (d *Dispatcher) handleInvite(ctx context.Context, msg Message) []string {
	d.logger.Info("收到 invite 命令", zap.Int64("discord_id", msg.DiscordID))
	if d.onCooldown(ctx, "invite", msg.DiscordID) {
		return []string{msgCooldown}
	}

	unlimited := service.HasUnlimitedInvite(msg.Roles, d.cfg.DonorRoleID, d.cfg.ModRoleID)

	code, remaining, err := d.svc.Invite.IssueCode(ctx, msg.DiscordID, unlimited)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotVerified):
			return []string{"You are not verified. Please verify yourself before getting invite code."}
		case errors.Is(err, service.ErrNoInvitesLeft):
			return []string{"You have no invite available."}
		default:
			return []string{msgGenericError}
		}
	}

	replies := []string{fmt.Sprintf(
		"Your invite code is %s. The code is generated and issued only once,"+
			" and it can be used for a single account."+
			" It's crucial to keep the code confidential and share it privately."+
			" Cheating may lead to consequences,"+
			" including a ban for both the person who provided the code and the person who used it.",
		code)}
	if remaining == service.UnlimitedInvites {
		replies = append(replies, "Thanks to your generous. You have unlimited invites.")
	} else {
		replies = append(replies, fmt.Sprintf("You have %d invites left.", remaining))
	}
	return replies
}

func (d *Dispatcher) handleRegister(msg Message) []string {
	d.logger.Info("收到 register 命令", zap.Int64("discord_id", msg.DiscordID))
	d.sessions.Start(msg.DiscordID, newRegisterFlow(d.svc.Register, msg.DiscordID, d.logger))
	return []string{"Please enter your invite code."}
}

func (d *Dispatcher) handleRename(ctx context.Context, msg Message) []string {
	d.logger.Info("收到 rename 命令", zap.Int64("discord_id", msg.DiscordID))

	// 未验证用户直接拒绝，不开启会话
	if _, err := d.svc.Account.GetByDiscordID(ctx, msg.DiscordID); err != nil {
		if errors.Is(err, service.ErrNotVerified) {
			return []string{"You are not verified. Please verify yourself before renaming."}
		}
		return []string{msgGenericError}
	}

	d.sessions.Start(msg.DiscordID, newRenameFlow(d.svc.Account, msg.DiscordID))
	return []string{"Please enter your new username.\n" +
		" + Your username must be between 2 and 15 characters long,\n" +
		" + and can only contain letters, numbers, spaces, dashes and underscores.\n" +
		" + You can only use either space or underscore, not both."}
}

func (d *Dispatcher) handleFindme(msg Message) []string {
	d.logger.Info("收到 findme 命令", zap.Int64("discord_id", msg.DiscordID))
	d.sessions.Start(msg.DiscordID, newFindmeFlow(d.svc.Account))
	return []string{"Please enter your email."}
}
