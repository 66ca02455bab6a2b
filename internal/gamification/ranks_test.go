package gamification

import (
	"testing"
)

func TestRankForXP(t *testing.T) {
	tests := []struct {
		xp        int
		wantLevel int
		wantName  string
	}{
		{0, 1, "Scribe Initiate"},
		{99, 1, "Scribe Initiate"},
		{100, 2, "Apprentice Scribe"},
		{399, 2, "Apprentice Scribe"},
		{400, 3, "Journeyman Scribe"},
		{900, 4, "Adept Storyteller"},
		{1600, 5, "Master Storyteller"},
		{2500, 6, "Chronicler"},
		{3600, 7, "Lorekeeper"},
		{4900, 8, "Master Lorekeeper"},
		{6400, 9, "Sage of Ages"},
		{8100, 10, "Living Legend"},
		{999999, 10, "Living Legend"},
	}

	for _, tt := range tests {
		got := RankForXP(tt.xp)
		if got.Level != tt.wantLevel || got.Name != tt.wantName {
			t.Errorf("RankForXP(%d) = L%d %q, want L%d %q", tt.xp, got.Level, got.Name, tt.wantLevel, tt.wantName)
		}
	}
}

func TestXPForNextLevel(t *testing.T) {
	if xp, ok := XPForNextLevel(1); !ok || xp != 100 {
		t.Errorf("XPForNextLevel(1) = (%d, %v), want (100, true)", xp, ok)
	}
	if xp, ok := XPForNextLevel(9); !ok || xp != 8100 {
		t.Errorf("XPForNextLevel(9) = (%d, %v), want (8100, true)", xp, ok)
	}
	if _, ok := XPForNextLevel(10); ok {
		t.Error("XPForNextLevel(10) should report no next level")
	}
}
