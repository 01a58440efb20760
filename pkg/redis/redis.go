package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/stiendat/osuvnfc-discord-bot/config"
)

// Client Redis 客户端封装
// 当前用于命令冷却与运维接口限流；后续可扩展缓存等场景
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── 命令冷却 ──

const cooldownPrefix = "cooldown:"

// AcquireCooldown 尝试为 <命令, 用户> 建立一次冷却窗口
// SET NX：首次调用成功并返回 true；窗口内重复调用返回 false
func (c *Client) AcquireCooldown(ctx context.Context, command string, discordID int64, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return true, nil
	}
	key := fmt.Sprintf("%s%s:%d", cooldownPrefix, command, discordID)
	return c.rdb.SetNX(ctx, key, "1", ttl).Result()
}

// ── 滑动窗口限流（运维 HTTP 接口） ──

// CheckRateLimit 固定 key 的窗口计数限流；首次计数时设置窗口过期
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	n, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return n <= int64(limit), nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
