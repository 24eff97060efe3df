package main

import (
	"context"
	"time"

	"unscramble-be/internal/api/http"
	"unscramble-be/internal/config"
	"unscramble-be/internal/leaderboard"
	"unscramble-be/internal/logger"
	"unscramble-be/internal/metrics"
	"unscramble-be/internal/service"
	"unscramble-be/internal/state"
	"unscramble-be/internal/words"

	"go.uber.org/zap"
)

func main() {
	// 加载配置
	cfg := config.InitConfig()

	// 初始化日志器
	logger.InitLogger(cfg.LogLevel)
	defer zap.L().Sync()

	metrics.Init()

	// 加载词库
	bank, err := words.LoadBank(cfg.WordListFile)
	if err != nil {
		zap.L().Fatal("加载词库失败", zap.Error(err))
	}

	board := newLeaderboard(cfg)
	defer board.Close()

	sessionSvc, err := service.NewSessionService(bank, board, service.Options{
		MaxNoOfWords:  cfg.MaxNoOfWords,
		ScoreIncrease: cfg.ScoreIncrease,
		SessionTTL:    cfg.SessionTTL,
	})
	if err != nil {
		zap.L().Fatal("创建会话服务失败", zap.Error(err))
	}
	defer sessionSvc.Close()

	// 组装应用状态
	appState := state.NewAppState(
		cfg,
		sessionSvc,
	)

	// 启动服务器
	if err := http.RunServer(appState); err != nil {
		zap.L().Error("服务器异常退出", zap.Error(err))
	}
}

// newLeaderboard 配置了 Redis 时使用 Redis，连接失败则退回内存存储
func newLeaderboard(cfg *config.AppConfig) leaderboard.Store {
	if cfg.RedisAddr == "" {
		return leaderboard.NewMemoryStore(cfg.LeaderboardSize)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := leaderboard.NewRedisStore(ctx, leaderboard.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, cfg.LeaderboardSize)
	if err != nil {
		zap.L().Warn(
			"Redis 不可用，排行榜改用内存存储",
			zap.String("addr", cfg.RedisAddr),
			zap.Error(err),
		)
		return leaderboard.NewMemoryStore(cfg.LeaderboardSize)
	}

	return store
}
