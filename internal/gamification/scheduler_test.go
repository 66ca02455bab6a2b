package gamification

import (
	"context"
	"sync"
	"testing"
	"time"

	"gamertales-api/internal/domain/entity"
)

type fakeProfileStore struct {
	mu      sync.Mutex
	saved   *entity.GamerProfile
	saves   int
	loadErr error
	saveErr error
}

func (f *fakeProfileStore) GetByUserID(_ context.Context, _ string) (*entity.GamerProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saved, f.loadErr
}

func (f *fakeProfileStore) Save(_ context.Context, p *entity.GamerProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = p
	f.saves++
	return nil
}

func (f *fakeProfileStore) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

type fakeChapterStats struct {
	mu       sync.Mutex
	total    int
	count    int64
	maxWords int
}

func (f *fakeChapterStats) TotalWordCount(_ context.Context, _ string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.total, nil
}

func (f *fakeChapterStats) CountByUser(_ context.Context, _ string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count, nil
}

func (f *fakeChapterStats) MaxWordCount(_ context.Context, _ string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxWords, nil
}

func (f *fakeChapterStats) set(total int, count int64, maxWords int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.total, f.count, f.maxWords = total, count, maxWords
}

type fakeNotifier struct {
	mu      sync.Mutex
	rewards []Reward
}

func (f *fakeNotifier) Notify(_ context.Context, _ string, r Reward) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rewards = append(f.rewards, r)
	return nil
}

func (f *fakeNotifier) kinds() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.rewards))
	for i, r := range f.rewards {
		out[i] = r.Kind
	}
	return out
}

func testOptions() Options {
	return Options{
		RecomputeDebounce: 10 * time.Millisecond,
		PersistDebounce:   20 * time.Millisecond,
	}
}

func TestSchedulerRecomputeAndPersist(t *testing.T) {
	profiles := &fakeProfileStore{}
	chapters := &fakeChapterStats{}
	notifier := &fakeNotifier{}
	s := NewScheduler(testOptions(), profiles, chapters, notifier)

	chapters.set(150, 1, 150)
	s.WordsChanged("user-1")

	// 等待重算 + 落库两个防抖窗口走完
	time.Sleep(100 * time.Millisecond)

	if got := profiles.saveCount(); got != 1 {
		t.Fatalf("profile saved %d times, want 1", got)
	}
	p, err := s.Profile(context.Background(), "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if p.XP != 150 {
		t.Errorf("XP = %d, want 150", p.XP)
	}
	if p.Level != 2 {
		t.Errorf("level = %d, want 2", p.Level)
	}
}

func TestSchedulerDebouncesBursts(t *testing.T) {
	profiles := &fakeProfileStore{}
	chapters := &fakeChapterStats{}
	notifier := &fakeNotifier{}
	s := NewScheduler(testOptions(), profiles, chapters, notifier)

	chapters.set(50, 1, 50)
	for i := 0; i < 5; i++ {
		s.WordsChanged("user-1")
		time.Sleep(2 * time.Millisecond)
	}
	time.Sleep(100 * time.Millisecond)

	// 连续触发合并为一次重算、一次落库
	if got := profiles.saveCount(); got != 1 {
		t.Errorf("profile saved %d times, want 1", got)
	}
}

func TestSchedulerSaveProfileWorldbuilder(t *testing.T) {
	profiles := &fakeProfileStore{}
	chapters := &fakeChapterStats{}
	notifier := &fakeNotifier{}
	s := NewScheduler(testOptions(), profiles, chapters, notifier)

	p, rewards, err := s.SaveProfile(context.Background(), "user-1", func(p *entity.GamerProfile) {
		p.CharacterName = "Kael"
		p.CharacterClass = "Ranger"
		p.CharacterTrait = "Curious"
		p.FavoriteGenres = "Fantasy"
		p.StoryTone = "Epic"
		p.GameWorld = "Eldoria"
	})
	if err != nil {
		t.Fatal(err)
	}
	if !p.HasAchievement("worldbuilder") {
		t.Error("worldbuilder not unlocked on profile save")
	}
	if len(rewards) != 1 {
		t.Errorf("got %d rewards, want 1", len(rewards))
	}
	if got := profiles.saveCount(); got != 1 {
		t.Errorf("profile saved %d times, want 1", got)
	}
	if kinds := notifier.kinds(); len(kinds) != 1 || kinds[0] != "achievement" {
		t.Errorf("notified kinds = %v, want [achievement]", kinds)
	}
}

func TestSchedulerFlushWritesPending(t *testing.T) {
	profiles := &fakeProfileStore{}
	chapters := &fakeChapterStats{}
	notifier := &fakeNotifier{}
	s := NewScheduler(Options{
		RecomputeDebounce: time.Millisecond,
		PersistDebounce:   time.Hour, // 落库窗口足够长，只有 Flush 能写入
	}, profiles, chapters, notifier)

	chapters.set(30, 1, 30)
	s.WordsChanged("user-1")
	time.Sleep(50 * time.Millisecond)

	if got := profiles.saveCount(); got != 0 {
		t.Fatalf("profile saved %d times before flush, want 0", got)
	}

	s.Flush(context.Background(), "user-1")
	if got := profiles.saveCount(); got != 1 {
		t.Errorf("profile saved %d times after flush, want 1", got)
	}
}
