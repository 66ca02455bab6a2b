package gamification

import (
	"gamertales-api/internal/domain/entity"
)

// Snapshot 成就判定所需的写作状态快照
type Snapshot struct {
	Profile *entity.GamerProfile
	// TotalWords 所有章节的总字数
	TotalWords int
	// ChapterCount 章节数
	ChapterCount int
	// MaxChapterWords 单章最大字数
	MaxChapterWords int
}

// Achievement 静态成就定义
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// ProfileSaveOnly 仅在档案保存时判定（不参与字数重算）
	ProfileSaveOnly bool `json:"-"`

	check func(s Snapshot) bool
}

// Unlocked 判定成就条件是否满足
func (a Achievement) Unlocked(s Snapshot) bool {
	return a.check(s)
}

// achievements 静态成就表
var achievements = []Achievement{
	{
		ID: "first_steps", Name: "First Steps",
		Description: "Write your first 10 words.",
		check:       func(s Snapshot) bool { return s.TotalWords >= 10 },
	},
	{
		ID: "novice_scribe", Name: "Novice Scribe",
		Description: "Write 100 words.",
		check:       func(s Snapshot) bool { return s.TotalWords >= 100 },
	},
	{
		ID: "story_weaver", Name: "Story Weaver",
		Description: "Write 1,000 words.",
		check:       func(s Snapshot) bool { return s.TotalWords >= 1000 },
	},
	{
		ID: "epic_chronicler", Name: "Epic Chronicler",
		Description: "Write 10,000 words.",
		check:       func(s Snapshot) bool { return s.TotalWords >= 10000 },
	},
	{
		ID: "worldbuilder", Name: "Worldbuilder",
		Description:     "Fill out your entire character profile.",
		ProfileSaveOnly: true,
		check:           func(s Snapshot) bool { return s.Profile.ProfileComplete() },
	},
	{
		ID: "chapter_one", Name: "Chapter I",
		Description: "Finish your first chapter (at least 250 words).",
		check:       func(s Snapshot) bool { return s.MaxChapterWords >= 250 },
	},
	{
		ID: "trilogy", Name: "A Saga Begins",
		Description: "Create at least 3 chapters.",
		check:       func(s Snapshot) bool { return s.ChapterCount >= 3 },
	},
	{
		ID: "week_streak", Name: "Dedicated",
		Description: "Maintain a 7-day writing streak.",
		check:       func(s Snapshot) bool { return s.Profile.WritingStreak >= 7 },
	},
}

// Achievements 返回成就表副本
func Achievements() []Achievement {
	out := make([]Achievement, len(achievements))
	copy(out, achievements)
	return out
}

// AchievementByID 根据 ID 查找成就
func AchievementByID(id string) (Achievement, bool) {
	for _, a := range achievements {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}
