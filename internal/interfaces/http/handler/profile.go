// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"

	"gamertales-api/internal/domain/repository"
	"gamertales-api/internal/gamification"
	"gamertales-api/internal/infrastructure/persistence/redis"
	"gamertales-api/internal/interfaces/http/dto"
	"gamertales-api/pkg/logger"
)

// statsCacheTTL 写作统计缓存时长，写入路径上会主动失效
const statsCacheTTL = 30 * time.Second

// StatsCache 写作统计的 Read-Through 缓存能力
// redis.Cache 天然满足
type StatsCache interface {
	GetOrLoadSafe(ctx context.Context, key string, ttl time.Duration, loader func() (interface{}, error)) ([]byte, error)
}

// ProfileHandler 玩家档案处理器
type ProfileHandler struct {
	scheduler   *gamification.Scheduler
	chapterRepo repository.ChapterRepository
	cache       StatsCache
}

// NewProfileHandler 创建玩家档案处理器
func NewProfileHandler(
	scheduler *gamification.Scheduler,
	chapterRepo repository.ChapterRepository,
	cache StatsCache,
) *ProfileHandler {
	return &ProfileHandler{
		scheduler:   scheduler,
		chapterRepo: chapterRepo,
		cache:       cache,
	}
}

// GetProfile 获取玩家档案
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	ctx := c.Request.Context()

	profile, err := h.scheduler.Profile(ctx, currentUserID(c))
	if err != nil {
		logger.Error(ctx, "failed to load gamer profile", err)
		dto.InternalError(c, "failed to load profile")
		return
	}

	dto.Success(c, dto.ToProfileResponse(profile))
}

// SaveProfile 保存角色设定字段
//
// 显式保存直接写库不走防抖；填满全部字段会解锁 worldbuilder。
func (h *ProfileHandler) SaveProfile(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	var req dto.SaveProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	profile, rewards, err := h.scheduler.SaveProfile(ctx, userID, req.ApplyToProfile)
	if err != nil {
		logger.Error(ctx, "failed to save gamer profile", err)
		dto.InternalError(c, "failed to save profile")
		return
	}

	dto.Success(c, &dto.SaveProfileResponse{
		Profile: dto.ToProfileResponse(profile),
		Rewards: dto.ToRewardResponses(rewards),
	})
}

// GetStats 获取写作统计
//
// 走 Read-Through 缓存，字数写入路径会主动失效。
func (h *ProfileHandler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	raw, err := h.cache.GetOrLoadSafe(ctx, redis.StatsKey(userID), statsCacheTTL, func() (interface{}, error) {
		return h.buildStats(ctx, userID)
	})
	if err != nil {
		logger.Error(ctx, "failed to load writing stats", err)
		dto.InternalError(c, "failed to load stats")
		return
	}

	var stats dto.StatsResponse
	if err := json.Unmarshal(raw, &stats); err != nil {
		logger.Error(ctx, "failed to decode cached stats", err)
		dto.InternalError(c, "failed to load stats")
		return
	}

	dto.Success(c, &stats)
}

// buildStats 汇总档案与章节仓储，生成统计视图
func (h *ProfileHandler) buildStats(ctx context.Context, userID string) (*dto.StatsResponse, error) {
	profile, err := h.scheduler.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	total, err := h.chapterRepo.TotalWordCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	count, err := h.chapterRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	rank := gamification.RankForXP(profile.XP)
	nextXP, hasNext := gamification.XPForNextLevel(rank.Level)

	wordsToday := profile.XP - profile.WordsAtDayStart
	if wordsToday < 0 {
		wordsToday = 0
	}

	return &dto.StatsResponse{
		XP:             profile.XP,
		Level:          rank.Level,
		RankName:       rank.Name,
		XPForNextLevel: nextXP,
		MaxLevel:       !hasNext,
		ArcaneCrystals: profile.ArcaneCrystals,
		WritingStreak:  profile.WritingStreak,
		WordsToday:     wordsToday,
		TotalWords:     total,
		ChapterCount:   int(count),
		Achievements:   dto.ToAchievementResponses(profile),
	}, nil
}
