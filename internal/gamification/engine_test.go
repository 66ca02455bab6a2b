package gamification

import (
	"testing"
	"time"

	"gamertales-api/internal/domain/entity"
)

func newProfile() *entity.GamerProfile {
	return entity.NewGamerProfile("user-1")
}

func TestRecomputeStreak(t *testing.T) {
	now := time.Date(2026, 8, 29, 15, 0, 0, 0, time.Local)
	yesterday := now.AddDate(0, 0, -1)
	lastWeek := now.AddDate(0, 0, -7)

	tests := []struct {
		name       string
		lastActive *time.Time
		streak     int
		wantStreak int
	}{
		{"first activity ever", nil, 0, 1},
		{"same day unchanged", &now, 3, 3},
		{"consecutive day increments", &yesterday, 3, 4},
		{"gap resets to one", &lastWeek, 9, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProfile()
			p.LastActiveDate = tt.lastActive
			p.WritingStreak = tt.streak

			Recompute(p, Snapshot{}, now)

			if p.WritingStreak != tt.wantStreak {
				t.Errorf("streak = %d, want %d", p.WritingStreak, tt.wantStreak)
			}
			if p.LastActiveDate == nil {
				t.Fatal("LastActiveDate not stamped")
			}
			if tt.streak != tt.wantStreak && !p.LastActiveDate.Equal(now) {
				t.Errorf("LastActiveDate = %v, want %v", p.LastActiveDate, now)
			}
		})
	}
}

func TestRecomputeXPAndLevel(t *testing.T) {
	now := time.Now()

	t.Run("xp follows total words", func(t *testing.T) {
		p := newProfile()
		res := Recompute(p, Snapshot{TotalWords: 50}, now)
		if p.XP != 50 || res.XPGained != 50 {
			t.Errorf("XP = %d gained %d, want 50/50", p.XP, res.XPGained)
		}
	})

	t.Run("xp never decreases", func(t *testing.T) {
		p := newProfile()
		p.XP = 200
		res := Recompute(p, Snapshot{TotalWords: 120}, now)
		if p.XP != 200 || res.XPGained != 0 {
			t.Errorf("XP = %d gained %d, want 200/0", p.XP, res.XPGained)
		}
	})

	t.Run("level up awards crystals", func(t *testing.T) {
		p := newProfile()
		p.XP = 90
		res := Recompute(p, Snapshot{TotalWords: 150}, now)
		if !res.LeveledUp {
			t.Fatal("expected level up")
		}
		if p.Level != 2 {
			t.Errorf("level = %d, want 2", p.Level)
		}
		if p.ArcaneCrystals != 100 || res.CrystalsAwarded != 100 {
			t.Errorf("crystals = %d awarded %d, want 100/100", p.ArcaneCrystals, res.CrystalsAwarded)
		}
		if len(res.Rewards) == 0 || res.Rewards[0].Kind != "level_up" {
			t.Errorf("expected level_up reward, got %+v", res.Rewards)
		}
	})

	t.Run("multi level jump awards per skipped level", func(t *testing.T) {
		p := newProfile()
		res := Recompute(p, Snapshot{TotalWords: 450}, now)
		// 0 -> 450 XP 跨过 L2(100) 与 L3(400)
		if p.Level != 3 {
			t.Errorf("level = %d, want 3", p.Level)
		}
		if res.CrystalsAwarded != 200 {
			t.Errorf("crystals awarded = %d, want 200", res.CrystalsAwarded)
		}
	})
}

func TestRecomputeAchievements(t *testing.T) {
	now := time.Now()

	t.Run("word count achievements unlock together", func(t *testing.T) {
		p := newProfile()
		Recompute(p, Snapshot{TotalWords: 150}, now)
		for _, id := range []string{"first_steps", "novice_scribe"} {
			if !p.HasAchievement(id) {
				t.Errorf("achievement %s not unlocked", id)
			}
		}
		if p.HasAchievement("story_weaver") {
			t.Error("story_weaver unlocked below threshold")
		}
	})

	t.Run("unlocks are monotonic", func(t *testing.T) {
		p := newProfile()
		res1 := Recompute(p, Snapshot{TotalWords: 15}, now)
		res2 := Recompute(p, Snapshot{TotalWords: 20}, now)

		count := func(rewards []Reward) int {
			n := 0
			for _, r := range rewards {
				if r.Kind == "achievement" {
					n++
				}
			}
			return n
		}
		if count(res1.Rewards) != 1 {
			t.Errorf("first recompute unlocked %d achievements, want 1", count(res1.Rewards))
		}
		if count(res2.Rewards) != 0 {
			t.Errorf("second recompute re-unlocked %d achievements, want 0", count(res2.Rewards))
		}
	})

	t.Run("chapter achievements", func(t *testing.T) {
		p := newProfile()
		Recompute(p, Snapshot{TotalWords: 300, ChapterCount: 3, MaxChapterWords: 260}, now)
		if !p.HasAchievement("chapter_one") {
			t.Error("chapter_one not unlocked")
		}
		if !p.HasAchievement("trilogy") {
			t.Error("trilogy not unlocked")
		}
	})

	t.Run("week streak", func(t *testing.T) {
		p := newProfile()
		yesterday := now.AddDate(0, 0, -1)
		p.LastActiveDate = &yesterday
		p.WritingStreak = 6
		Recompute(p, Snapshot{}, now)
		if !p.HasAchievement("week_streak") {
			t.Error("week_streak not unlocked at streak 7")
		}
	})

	t.Run("worldbuilder not checked on recompute", func(t *testing.T) {
		p := newProfile()
		p.CharacterName = "Kael"
		p.CharacterClass = "Ranger"
		p.CharacterTrait = "Curious"
		p.FavoriteGenres = "Fantasy"
		p.StoryTone = "Epic"
		p.GameWorld = "Eldoria"
		Recompute(p, Snapshot{TotalWords: 5}, now)
		if p.HasAchievement("worldbuilder") {
			t.Error("worldbuilder unlocked during word recompute")
		}
	})
}

func TestCheckProfileSave(t *testing.T) {
	p := newProfile()
	p.CharacterName = "Kael"
	p.CharacterClass = "Ranger"
	p.CharacterTrait = "Curious"
	p.FavoriteGenres = "Fantasy"
	p.StoryTone = "Epic"

	if rewards := CheckProfileSave(p); len(rewards) != 0 {
		t.Errorf("incomplete profile unlocked %d rewards", len(rewards))
	}

	p.GameWorld = "Eldoria"
	rewards := CheckProfileSave(p)
	if len(rewards) != 1 || rewards[0].Kind != "achievement" {
		t.Fatalf("expected one achievement reward, got %+v", rewards)
	}
	if !p.HasAchievement("worldbuilder") {
		t.Error("worldbuilder not unlocked")
	}

	// 二次保存不重复解锁
	if rewards := CheckProfileSave(p); len(rewards) != 0 {
		t.Errorf("worldbuilder re-unlocked: %+v", rewards)
	}
}
