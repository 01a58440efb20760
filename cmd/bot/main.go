package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/stiendat/osuvnfc-discord-bot/config"
	"github.com/stiendat/osuvnfc-discord-bot/internal/api/handler"
	"github.com/stiendat/osuvnfc-discord-bot/internal/api/router"
	"github.com/stiendat/osuvnfc-discord-bot/internal/bot"
	"github.com/stiendat/osuvnfc-discord-bot/internal/bot/discord"
	"github.com/stiendat/osuvnfc-discord-bot/internal/gameapi"
	"github.com/stiendat/osuvnfc-discord-bot/internal/repository"
	"github.com/stiendat/osuvnfc-discord-bot/internal/service"
	"github.com/stiendat/osuvnfc-discord-bot/pkg/database"
	applogger "github.com/stiendat/osuvnfc-discord-bot/pkg/logger"
	"github.com/stiendat/osuvnfc-discord-bot/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("机器人启动中...",
		zap.String("prefix", cfg.Bot.Prefix),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，命令冷却与限流不可用）
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，命令冷却功能将不可用", zap.Error(err))
		rdb = nil
	}

	// 5. 依赖注入: Repository → Service → Dispatcher
	repo := repository.NewRepository(db)
	creator := gameapi.NewClient(&cfg.GameAPI)
	svc := service.NewService(repo, creator, logger)

	sessions := bot.NewSessionManager(cfg.Bot.SessionTTL)
	var cooldown bot.Cooldown
	if rdb != nil {
		cooldown = rdb
	}
	dispatcher := bot.NewDispatcher(&cfg.Bot, svc, sessions, cooldown, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sessions.RunSweeper(ctx, time.Minute)

	// 6. 连接 Discord
	adapter, err := discord.New(&cfg.Bot, dispatcher, logger)
	if err != nil {
		logger.Fatal("初始化 Discord 适配器失败", zap.Error(err))
	}
	if err := adapter.Start(); err != nil {
		logger.Fatal("Discord 连接失败", zap.Error(err))
	}
	logger.Info("Discord 连接成功")

	// 7. 启动运维 HTTP 服务器（可选）
	var srv *http.Server
	if cfg.Ops.Enabled {
		h := handler.NewHandler(svc)
		engine := router.Setup(h, rdb, logger)
		srv = &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Ops.Port),
			Handler:      engine,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			logger.Info("运维 HTTP 服务器已启动", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Fatal("运维 HTTP 服务器异常", zap.Error(err))
			}
		}()
	}

	// 8. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))
	cancel()

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("运维服务器关闭异常", zap.Error(err))
		}
	}

	if err := adapter.Close(); err != nil {
		logger.Error("Discord 连接关闭异常", zap.Error(err))
	}

	// 关闭数据库连接
	closeDB, _ := db.DB()
	if closeDB != nil {
		closeDB.Close()
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("机器人已关闭")
}
