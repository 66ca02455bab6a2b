// Package entity 定义领域实体
package entity

import (
	"time"
)

// GamerProfile 玩家档案实体
//
// 档案在用户首次保存时惰性创建，之后不会销毁。
// EarnedAchievements 只增不减。
type GamerProfile struct {
	UserID string `json:"user_id" gorm:"type:uuid;primaryKey"`

	// 角色设定字段，全部非空时解锁 worldbuilder 成就
	CharacterName  string `json:"character_name" gorm:"type:varchar(255)"`
	CharacterClass string `json:"character_class" gorm:"type:varchar(255)"`
	CharacterTrait string `json:"character_trait" gorm:"type:varchar(255)"`
	FavoriteGenres string `json:"favorite_genres" gorm:"type:varchar(255)"`
	StoryTone      string `json:"story_tone" gorm:"type:varchar(255)"`
	GameWorld      string `json:"game_world" gorm:"type:varchar(255)"`

	// 游戏化进度
	XP                 int        `json:"xp" gorm:"column:xp;default:0"`
	Level              int        `json:"level" gorm:"default:1"`
	ArcaneCrystals     int        `json:"arcane_crystals" gorm:"default:0"`
	WritingStreak      int        `json:"writing_streak" gorm:"default:0"`
	LastActiveDate     *time.Time `json:"last_active_date,omitempty"`
	EarnedAchievements []string   `json:"earned_achievements" gorm:"type:jsonb;serializer:json"`
	// WordsAtDayStart 当天第一次活跃时的总字数，用于推导"今日字数"
	WordsAtDayStart int `json:"words_at_day_start" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (GamerProfile) TableName() string {
	return "gamer_profiles"
}

// NewGamerProfile 创建新的玩家档案
func NewGamerProfile(userID string) *GamerProfile {
	now := time.Now()
	return &GamerProfile{
		UserID:             userID,
		Level:              1,
		EarnedAchievements: []string{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// HasAchievement 检查成就是否已解锁
func (p *GamerProfile) HasAchievement(id string) bool {
	for _, a := range p.EarnedAchievements {
		if a == id {
			return true
		}
	}
	return false
}

// UnlockAchievement 解锁成就，已解锁时返回 false
func (p *GamerProfile) UnlockAchievement(id string) bool {
	if p.HasAchievement(id) {
		return false
	}
	p.EarnedAchievements = append(p.EarnedAchievements, id)
	p.UpdatedAt = time.Now()
	return true
}

// ProfileComplete 检查六个角色设定字段是否全部填写
func (p *GamerProfile) ProfileComplete() bool {
	fields := []string{
		p.CharacterName,
		p.CharacterClass,
		p.CharacterTrait,
		p.FavoriteGenres,
		p.StoryTone,
		p.GameWorld,
	}
	for _, f := range fields {
		if f == "" {
			return false
		}
	}
	return true
}
