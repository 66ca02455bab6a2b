// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"gamertales-api/internal/domain/entity"
	"gamertales-api/internal/gamification"
)

// SaveProfileRequest 保存玩家档案请求
type SaveProfileRequest struct {
	CharacterName  string `json:"character_name" binding:"max=255"`
	CharacterClass string `json:"character_class" binding:"max=255"`
	CharacterTrait string `json:"character_trait" binding:"max=255"`
	FavoriteGenres string `json:"favorite_genres" binding:"max=255"`
	StoryTone      string `json:"story_tone" binding:"max=255"`
	GameWorld      string `json:"game_world" binding:"max=255"`
}

// ApplyToProfile 将请求字段应用到档案实体
func (r *SaveProfileRequest) ApplyToProfile(p *entity.GamerProfile) {
	p.CharacterName = r.CharacterName
	p.CharacterClass = r.CharacterClass
	p.CharacterTrait = r.CharacterTrait
	p.FavoriteGenres = r.FavoriteGenres
	p.StoryTone = r.StoryTone
	p.GameWorld = r.GameWorld
}

// ProfileResponse 玩家档案响应
type ProfileResponse struct {
	CharacterName  string `json:"character_name"`
	CharacterClass string `json:"character_class"`
	CharacterTrait string `json:"character_trait"`
	FavoriteGenres string `json:"favorite_genres"`
	StoryTone      string `json:"story_tone"`
	GameWorld      string `json:"game_world"`

	XP                 int      `json:"xp"`
	Level              int      `json:"level"`
	ArcaneCrystals     int      `json:"arcane_crystals"`
	WritingStreak      int      `json:"writing_streak"`
	EarnedAchievements []string `json:"earned_achievements"`
}

// RewardResponse 奖励事件
type RewardResponse struct {
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// SaveProfileResponse 保存档案响应
type SaveProfileResponse struct {
	Profile *ProfileResponse  `json:"profile"`
	Rewards []*RewardResponse `json:"rewards,omitempty"`
}

// StatsResponse 写作统计响应
type StatsResponse struct {
	XP             int                    `json:"xp"`
	Level          int                    `json:"level"`
	RankName       string                 `json:"rank_name"`
	XPForNextLevel int                    `json:"xp_for_next_level"`
	MaxLevel       bool                   `json:"max_level"`
	ArcaneCrystals int                    `json:"arcane_crystals"`
	WritingStreak  int                    `json:"writing_streak"`
	WordsToday     int                    `json:"words_today"`
	TotalWords     int                    `json:"total_words"`
	ChapterCount   int                    `json:"chapter_count"`
	Achievements   []*AchievementResponse `json:"achievements"`
}

// AchievementResponse 成就及其解锁状态
type AchievementResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Earned      bool   `json:"earned"`
}

// ToProfileResponse 将档案实体转换为响应 DTO
func ToProfileResponse(p *entity.GamerProfile) *ProfileResponse {
	if p == nil {
		return nil
	}
	earned := p.EarnedAchievements
	if earned == nil {
		earned = []string{}
	}
	return &ProfileResponse{
		CharacterName:      p.CharacterName,
		CharacterClass:     p.CharacterClass,
		CharacterTrait:     p.CharacterTrait,
		FavoriteGenres:     p.FavoriteGenres,
		StoryTone:          p.StoryTone,
		GameWorld:          p.GameWorld,
		XP:                 p.XP,
		Level:              p.Level,
		ArcaneCrystals:     p.ArcaneCrystals,
		WritingStreak:      p.WritingStreak,
		EarnedAchievements: earned,
	}
}

// ToRewardResponses 将奖励事件转换为响应 DTO
func ToRewardResponses(rewards []gamification.Reward) []*RewardResponse {
	out := make([]*RewardResponse, 0, len(rewards))
	for _, r := range rewards {
		out = append(out, &RewardResponse{
			Kind:    r.Kind,
			Title:   r.Title,
			Message: r.Message,
		})
	}
	return out
}

// ToAchievementResponses 将成就表与档案合并为响应 DTO
func ToAchievementResponses(p *entity.GamerProfile) []*AchievementResponse {
	all := gamification.Achievements()
	out := make([]*AchievementResponse, 0, len(all))
	for _, a := range all {
		out = append(out, &AchievementResponse{
			ID:          a.ID,
			Name:        a.Name,
			Description: a.Description,
			Earned:      p != nil && p.HasAchievement(a.ID),
		})
	}
	return out
}
