package discord

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/stiendat/osuvnfc-discord-bot/config"
	"github.com/stiendat/osuvnfc-discord-bot/internal/bot"
	"github.com/stiendat/osuvnfc-discord-bot/internal/service"
)

// Adapter Discord 传输适配层
// 只做消息进出的搬运与身份组解析，业务全部在 Dispatcher 之后。
type Adapter struct {
	session    *discordgo.Session
	dispatcher *bot.Dispatcher
	cfg        *config.BotConfig
	logger     *zap.Logger
}

// New 创建 Discord 适配器
func New(cfg *config.BotConfig, dispatcher *bot.Dispatcher, logger *zap.Logger) (*Adapter, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("创建 Discord 会话失败: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentMessageContent

	a := &Adapter{
		session:    session,
		dispatcher: dispatcher,
		cfg:        cfg,
		logger:     logger,
	}
	session.AddHandler(a.onReady)
	session.AddHandler(a.onMessageCreate)
	return a, nil
}

// Start 建立网关连接
func (a *Adapter) Start() error {
	if err := a.session.Open(); err != nil {
		return fmt.Errorf("连接 Discord 网关失败: %w", err)
	}
	return nil
}

// Close 断开网关连接
func (a *Adapter) Close() error {
	return a.session.Close()
}

func (a *Adapter) onReady(s *discordgo.Session, r *discordgo.Ready) {
	a.logger.Info("Discord 已就绪", zap.String("user", r.User.Username))
	if err := s.UpdateGameStatus(0, "osu!"); err != nil {
		a.logger.Warn("设置状态失败", zap.Error(err))
	}
}

func (a *Adapter) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.Author.ID == s.State.User.ID {
		return
	}

	discordID, err := strconv.ParseInt(m.Author.ID, 10, 64)
	if err != nil {
		a.logger.Warn("无法解析用户 ID", zap.String("author_id", m.Author.ID))
		return
	}

	replies := a.dispatcher.HandleMessage(context.Background(), bot.Message{
		DiscordID: discordID,
		Content:   m.Content,
		Roles:     a.resolveRoles(m),
	})

	for _, reply := range replies {
		if err := a.sendDM(m.Author.ID, reply); err != nil {
			a.logger.Warn("私信发送失败",
				zap.String("author_id", m.Author.ID), zap.Error(err))
			return
		}
	}
}

// resolveRoles 解析发送者在配置服务器内的身份组
// 私信消息不携带 Member，按配置的 guild 反查；助力状态以附加角色形式给到分类器。
func (a *Adapter) resolveRoles(m *discordgo.MessageCreate) []service.Role {
	member := m.Member
	if member == nil && a.cfg.GuildID != "" {
		var err error
		member, err = a.session.GuildMember(a.cfg.GuildID, m.Author.ID)
		if err != nil {
			a.logger.Debug("查询服务器成员失败",
				zap.String("author_id", m.Author.ID), zap.Error(err))
			return nil
		}
	}
	if member == nil {
		return nil
	}

	roles := make([]service.Role, 0, len(member.Roles)+1)
	for _, id := range member.Roles {
		roles = append(roles, service.Role{ID: id})
	}
	if member.PremiumSince != nil {
		roles = append(roles, service.Role{Booster: true})
	}
	return roles
}

// sendDM 通过私聊频道发送一条回复
func (a *Adapter) sendDM(userID, content string) error {
	channel, err := a.session.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("创建私聊频道失败: %w", err)
	}
	if _, err := a.session.ChannelMessageSend(channel.ID, content); err != nil {
		return fmt.Errorf("发送消息失败: %w", err)
	}
	return nil
}
