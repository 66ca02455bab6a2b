// Package wire 提供依赖注入配置
package wire

import (
	"gamertales-api/internal/gamification"
	"gamertales-api/internal/infrastructure/llm"
	"gamertales-api/internal/infrastructure/persistence/postgres"
	"gamertales-api/internal/infrastructure/persistence/redis"
	"gamertales-api/internal/interfaces/http/handler"
	"gamertales-api/internal/interfaces/http/router"
	"gamertales-api/internal/suggestion"
)

// App 应用顶层依赖容器
//
// main 通过它拿到需要参与优雅停机的组件。
type App struct {
	Router    *router.Router
	PgClient  *postgres.Client
	Redis     *redis.Client
	Sessions  *suggestion.Manager
	Scheduler *gamification.Scheduler
	Editor    *handler.EditorHandler
	LLM       *llm.Client
}
