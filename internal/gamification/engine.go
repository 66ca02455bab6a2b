package gamification

import (
	"fmt"
	"time"

	"gamertales-api/internal/domain/entity"
	"gamertales-api/pkg/metrics"
)

// Reward 一次重算产生的奖励事件
type Reward struct {
	// Kind 奖励类型："level_up" 或 "achievement"
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Result 一次重算的结果
type Result struct {
	// Changed 档案是否有字段变化（决定是否需要落库）
	Changed bool
	// XPGained 本次获得的 XP
	XPGained int
	// LeveledUp 是否升级
	LeveledUp bool
	// Rank 重算后的段位
	Rank Rank
	// CrystalsAwarded 本次奖励的奥术水晶
	CrystalsAwarded int
	// Rewards 需要通知用户的奖励事件
	Rewards []Reward
}

// sameDay 判断两个时间是否为同一天（本地时区）
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// isYesterday 判断 a 是否为 b 的前一天
func isYesterday(a, b time.Time) bool {
	return sameDay(a, b.AddDate(0, 0, -1))
}

// Recompute 根据当前写作状态重算档案
//
// 顺序固定：连击 -> XP/等级/水晶 -> 成就。XP 与总字数挂钩且
// 只增不减；成就单调解锁，每个解锁恰好产生一条奖励事件。
// 仅限档案保存时判定的成就（worldbuilder）不在此处检查。
func Recompute(profile *entity.GamerProfile, snap Snapshot, now time.Time) Result {
	var res Result

	// 1. 写作连击
	switch {
	case profile.LastActiveDate != nil && sameDay(*profile.LastActiveDate, now):
		// 同一天内连击不变
	case profile.LastActiveDate != nil && isYesterday(*profile.LastActiveDate, now):
		profile.WritingStreak++
		stamp := now
		profile.LastActiveDate = &stamp
		// 新的一天，记录当天起始字数以推导"今日字数"
		profile.WordsAtDayStart = profile.XP
		res.Changed = true
	default:
		profile.WritingStreak = 1
		stamp := now
		profile.LastActiveDate = &stamp
		profile.WordsAtDayStart = profile.XP
		res.Changed = true
	}

	// 2. XP 与等级
	oldLevel := profile.Level
	if gained := snap.TotalWords - profile.XP; gained > 0 {
		profile.XP = snap.TotalWords
		res.XPGained = gained
		res.Changed = true
		metrics.XPGained.Observe(float64(gained))
	}
	rank := RankForXP(profile.XP)
	res.Rank = rank
	if rank.Level > oldLevel {
		awarded := (rank.Level - oldLevel) * CrystalsPerLevel
		profile.Level = rank.Level
		profile.ArcaneCrystals += awarded
		res.LeveledUp = true
		res.CrystalsAwarded = awarded
		res.Changed = true
		res.Rewards = append(res.Rewards, Reward{
			Kind:    "level_up",
			Title:   "Level Up!",
			Message: fmt.Sprintf("You are now Level %d: %s! +%d Arcane Crystals", rank.Level, rank.Name, awarded),
		})
		metrics.LevelUpsTotal.Inc()
	}

	// 3. 成就
	snap.Profile = profile
	for _, a := range achievements {
		if a.ProfileSaveOnly || profile.HasAchievement(a.ID) {
			continue
		}
		if a.Unlocked(snap) {
			profile.UnlockAchievement(a.ID)
			res.Changed = true
			res.Rewards = append(res.Rewards, achievementReward(a))
			metrics.AchievementUnlocksTotal.WithLabelValues(a.ID).Inc()
		}
	}

	return res
}

// CheckProfileSave 在档案保存时判定仅限保存的成就
func CheckProfileSave(profile *entity.GamerProfile) []Reward {
	var rewards []Reward
	snap := Snapshot{Profile: profile}
	for _, a := range achievements {
		if !a.ProfileSaveOnly || profile.HasAchievement(a.ID) {
			continue
		}
		if a.Unlocked(snap) {
			profile.UnlockAchievement(a.ID)
			rewards = append(rewards, achievementReward(a))
			metrics.AchievementUnlocksTotal.WithLabelValues(a.ID).Inc()
		}
	}
	return rewards
}

func achievementReward(a Achievement) Reward {
	return Reward{
		Kind:    "achievement",
		Title:   "Achievement Unlocked!",
		Message: fmt.Sprintf("%s: %s", a.Name, a.Description),
	}
}
