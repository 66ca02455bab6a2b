// Package gamification 提供写作进度的游戏化引擎
//
// XP 与总字数挂钩且只增不减，等级由静态段位表决定，
// 升级奖励奥术水晶，成就单调解锁。
package gamification

// Rank 写作段位
type Rank struct {
	Level int    `json:"level"`
	Name  string `json:"name"`
	MinXP int    `json:"min_xp"`
}

// writerRanks 静态段位表，minXp = (level-1)^2 × 100
var writerRanks = []Rank{
	{Level: 1, Name: "Scribe Initiate", MinXP: 0},
	{Level: 2, Name: "Apprentice Scribe", MinXP: 100},
	{Level: 3, Name: "Journeyman Scribe", MinXP: 400},
	{Level: 4, Name: "Adept Storyteller", MinXP: 900},
	{Level: 5, Name: "Master Storyteller", MinXP: 1600},
	{Level: 6, Name: "Chronicler", MinXP: 2500},
	{Level: 7, Name: "Lorekeeper", MinXP: 3600},
	{Level: 8, Name: "Master Lorekeeper", MinXP: 4900},
	{Level: 9, Name: "Sage of Ages", MinXP: 6400},
	{Level: 10, Name: "Living Legend", MinXP: 8100},
}

// CrystalsPerLevel 每升一级奖励的奥术水晶数
const CrystalsPerLevel = 100

// RankForXP 返回 xp 能达到的最高段位
func RankForXP(xp int) Rank {
	current := writerRanks[0]
	for i := len(writerRanks) - 1; i >= 0; i-- {
		if xp >= writerRanks[i].MinXP {
			current = writerRanks[i]
			break
		}
	}
	return current
}

// XPForNextLevel 返回下一级所需的 XP，已满级时返回 (0, false)
func XPForNextLevel(level int) (int, bool) {
	for _, r := range writerRanks {
		if r.Level == level+1 {
			return r.MinXP, true
		}
	}
	return 0, false
}

// Ranks 返回段位表副本
func Ranks() []Rank {
	out := make([]Rank, len(writerRanks))
	copy(out, writerRanks)
	return out
}
