// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"gamertales-api/internal/config"
	"gamertales-api/internal/domain/repository"
	"gamertales-api/internal/gamification"
	"gamertales-api/internal/highlight"
	"gamertales-api/internal/infrastructure/llm"
	"gamertales-api/internal/infrastructure/messaging"
	"gamertales-api/internal/infrastructure/persistence/postgres"
	"gamertales-api/internal/infrastructure/persistence/redis"
	"gamertales-api/internal/interfaces/http/handler"
	"gamertales-api/internal/interfaces/http/middleware"
	"gamertales-api/internal/interfaces/http/router"
	"gamertales-api/internal/suggestion"
)

// PostgresSet PostgreSQL 提供者集合
var PostgresSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewTxManager,
	postgres.NewUserRepository,
	postgres.NewChapterRepository,
	postgres.NewGamerProfileRepository,
)

// RepoSet 整合了具体实现与接口绑定的集合
var RepoSet = wire.NewSet(
	PostgresSet,
	wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
	wire.Bind(new(repository.UserRepository), new(*postgres.UserRepository)),
	wire.Bind(new(repository.ChapterRepository), new(*postgres.ChapterRepository)),
	wire.Bind(new(repository.GamerProfileRepository), new(*postgres.GamerProfileRepository)),
	wire.Bind(new(gamification.ProfileStore), new(*postgres.GamerProfileRepository)),
	wire.Bind(new(gamification.ChapterStats), new(*postgres.ChapterRepository)),
)

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	redis.NewCache,
	redis.NewRateLimiter,
	wire.Bind(new(handler.StatsInvalidator), new(*redis.Cache)),
	wire.Bind(new(handler.StatsCache), new(*redis.Cache)),
	wire.Bind(new(middleware.RateLimiter), new(*redis.RateLimiter)),
)

// MessagingSet 消息队列提供者集合
var MessagingSet = wire.NewSet(
	ProvideMessagingProducer,
	ProvideNotificationFeed,
	wire.Bind(new(gamification.Notifier), new(*messaging.Producer)),
	wire.Bind(new(suggestion.ErrorNotifier), new(*messaging.Producer)),
)

// LLMSet Gemini 提供者集合
var LLMSet = wire.NewSet(
	ProvideLLMClient,
	wire.Bind(new(suggestion.Provider), new(*llm.Client)),
	wire.Bind(new(handler.TaleGenerator), new(*llm.Client)),
)

// EngineSet 写作引擎提供者集合
var EngineSet = wire.NewSet(
	ProvideScheduler,
	ProvideSessionManager,
	wire.Bind(new(suggestion.ProfileSource), new(*gamification.Scheduler)),
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideJWTConfig,
	handler.NewHealthHandler,
	handler.NewAuthHandler,
	handler.NewChapterHandler,
	ProvideEditorHandler,
	handler.NewProfileHandler,
	handler.NewTaleHandler,
	handler.NewNotificationHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)

// ProvidePostgresClient 提供 PostgreSQL 客户端
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideMessagingProducer 提供通知生产者
func ProvideMessagingProducer(redisClient *redis.Client, cfg *config.Config) *messaging.Producer {
	maxLen := cfg.Messaging.RedisStream.MaxLen
	if maxLen <= 0 {
		maxLen = 1000
	}
	return messaging.NewProducer(redisClient.Redis(), int64(maxLen))
}

// ProvideNotificationFeed 提供通知流读取端
func ProvideNotificationFeed(redisClient *redis.Client) *messaging.Feed {
	return messaging.NewFeed(redisClient.Redis())
}

// ProvideLLMClient 提供 Gemini 客户端
func ProvideLLMClient(ctx context.Context, cfg *config.Config) (*llm.Client, func(), error) {
	client, err := llm.NewClient(ctx, &cfg.LLM.Gemini)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideScheduler 提供游戏化调度器
func ProvideScheduler(cfg *config.Config, profiles gamification.ProfileStore, chapters gamification.ChapterStats, notifier gamification.Notifier) *gamification.Scheduler {
	return gamification.NewScheduler(gamification.Options{
		RecomputeDebounce: cfg.Engine.Gamification.RecomputeDebounce,
		PersistDebounce:   cfg.Engine.Gamification.PersistDebounce,
	}, profiles, chapters, notifier)
}

// ProvideSessionManager 提供建议会话注册表
func ProvideSessionManager(cfg *config.Config, provider suggestion.Provider, notifier suggestion.ErrorNotifier, profiles suggestion.ProfileSource) *suggestion.Manager {
	opts := suggestion.Options{
		TriggerWords:    cfg.Engine.Suggestion.TriggerWords,
		TriggerDebounce: cfg.Engine.Suggestion.TriggerDebounce,
		MaxCandidates:   cfg.Engine.Suggestion.MaxCandidates,
		ProviderTimeout: cfg.LLM.Gemini.Timeout,
	}
	hcfg := highlight.Config{
		CharStagger:  cfg.Engine.Highlight.CharStagger,
		CharDuration: cfg.Engine.Highlight.CharDuration,
		Hold:         cfg.Engine.Highlight.Hold,
	}
	return suggestion.NewManager(opts, hcfg, cfg.Engine.Suggestion.SessionTTL, provider, notifier, profiles)
}

// ProvideEditorHandler 提供编辑器处理器
func ProvideEditorHandler(cfg *config.Config, chapterRepo repository.ChapterRepository, sessions *suggestion.Manager, scheduler *gamification.Scheduler, cache handler.StatsInvalidator) *handler.EditorHandler {
	return handler.NewEditorHandler(chapterRepo, sessions, scheduler, cache, cfg.Engine.Autosave.ContentDebounce)
}

// ProvideJWTConfig 提供 JWT 配置
func ProvideJWTConfig(cfg *config.Config) config.JWTConfig {
	return cfg.Security.JWT
}
