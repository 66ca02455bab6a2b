package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"gamertales-api/internal/domain/entity"
	"gamertales-api/internal/gamification"
	"gamertales-api/internal/highlight"
	"gamertales-api/internal/suggestion"
)

const testUserID = "11111111-1111-1111-1111-111111111111"

// fakeChapterRepo 内存章节仓储
type fakeChapterRepo struct {
	chapters map[string]*entity.Chapter
	nextID   int
}

func newFakeChapterRepo() *fakeChapterRepo {
	return &fakeChapterRepo{chapters: make(map[string]*entity.Chapter)}
}

func (r *fakeChapterRepo) Create(_ context.Context, chapter *entity.Chapter) error {
	if chapter.ID == "" {
		r.nextID++
		chapter.ID = fmt.Sprintf("chapter-%d", r.nextID)
	}
	cp := *chapter
	r.chapters[chapter.ID] = &cp
	return nil
}

func (r *fakeChapterRepo) GetByID(_ context.Context, id string) (*entity.Chapter, error) {
	c, ok := r.chapters[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeChapterRepo) Update(_ context.Context, chapter *entity.Chapter) error {
	cp := *chapter
	r.chapters[chapter.ID] = &cp
	return nil
}

func (r *fakeChapterRepo) Delete(_ context.Context, id string) error {
	delete(r.chapters, id)
	return nil
}

func (r *fakeChapterRepo) ListByUser(_ context.Context, userID string) ([]*entity.Chapter, error) {
	var out []*entity.Chapter
	for _, c := range r.chapters {
		if c.UserID == userID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (r *fakeChapterRepo) CountByUser(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, c := range r.chapters {
		if c.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *fakeChapterRepo) UpdateContent(_ context.Context, id, content string, wordCount int) error {
	if c, ok := r.chapters[id]; ok {
		c.Content = content
		c.WordCount = wordCount
	}
	return nil
}

func (r *fakeChapterRepo) UpdateName(_ context.Context, id, name string) error {
	if c, ok := r.chapters[id]; ok {
		c.Name = name
	}
	return nil
}

func (r *fakeChapterRepo) NextSortOrder(_ context.Context, userID string) (int, error) {
	max := -1
	for _, c := range r.chapters {
		if c.UserID == userID && c.SortOrder > max {
			max = c.SortOrder
		}
	}
	return max + 1, nil
}

func (r *fakeChapterRepo) TotalWordCount(_ context.Context, userID string) (int, error) {
	total := 0
	for _, c := range r.chapters {
		if c.UserID == userID {
			total += c.WordCount
		}
	}
	return total, nil
}

func (r *fakeChapterRepo) MaxWordCount(_ context.Context, userID string) (int, error) {
	max := 0
	for _, c := range r.chapters {
		if c.UserID == userID && c.WordCount > max {
			max = c.WordCount
		}
	}
	return max, nil
}

// fakeProfileStore 内存档案仓储
type fakeProfileStore struct {
	profiles map[string]*entity.GamerProfile
}

func (s *fakeProfileStore) GetByUserID(_ context.Context, userID string) (*entity.GamerProfile, error) {
	return s.profiles[userID], nil
}

func (s *fakeProfileStore) Save(_ context.Context, profile *entity.GamerProfile) error {
	if s.profiles == nil {
		s.profiles = make(map[string]*entity.GamerProfile)
	}
	s.profiles[profile.UserID] = profile
	return nil
}

// fakeNotifier 丢弃所有通知
type fakeNotifier struct{}

func (fakeNotifier) Notify(context.Context, string, gamification.Reward) error { return nil }
func (fakeNotifier) NotifyError(context.Context, string, string) error        { return nil }

// fakeProvider 固定候选
type fakeProvider struct{}

func (fakeProvider) Suggest(context.Context, suggestion.Request) ([]string, error) {
	return []string{"and the door creaked open", "then silence fell"}, nil
}

// fakeStatsCache 直通缓存
type fakeStatsCache struct{}

func (fakeStatsCache) InvalidateStats(context.Context, string) error { return nil }

func (fakeStatsCache) GetOrLoadSafe(_ context.Context, _ string, _ time.Duration, loader func() (interface{}, error)) ([]byte, error) {
	data, err := loader()
	if err != nil {
		return nil, err
	}
	return json.Marshal(data)
}

type testEnv struct {
	repo      *fakeChapterRepo
	sessions  *suggestion.Manager
	scheduler *gamification.Scheduler
	engine    *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newFakeChapterRepo()
	scheduler := gamification.NewScheduler(gamification.Options{
		RecomputeDebounce: time.Millisecond,
		PersistDebounce:   time.Millisecond,
	}, &fakeProfileStore{}, repo, fakeNotifier{})
	sessions := suggestion.NewManager(suggestion.Options{
		TriggerWords:    24,
		TriggerDebounce: 10 * time.Millisecond,
		MaxCandidates:   2,
		ProviderTimeout: time.Second,
	}, highlight.Config{
		CharStagger:  time.Millisecond,
		CharDuration: time.Millisecond,
		Hold:         time.Millisecond,
	}, 0, fakeProvider{}, fakeNotifier{}, scheduler)

	chapterHandler := NewChapterHandler(repo, sessions, scheduler, fakeStatsCache{})
	editorHandler := NewEditorHandler(repo, sessions, scheduler, fakeStatsCache{}, time.Millisecond)
	profileHandler := NewProfileHandler(scheduler, repo, fakeStatsCache{})

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set("user_id", testUserID)
	})
	engine.GET("/v1/chapters", chapterHandler.ListChapters)
	engine.POST("/v1/chapters", chapterHandler.CreateChapter)
	engine.GET("/v1/chapters/:cid", chapterHandler.GetChapter)
	engine.PUT("/v1/chapters/:cid", chapterHandler.UpdateChapter)
	engine.PUT("/v1/chapters/:cid/name", chapterHandler.RenameChapter)
	engine.DELETE("/v1/chapters/:cid", chapterHandler.DeleteChapter)
	engine.POST("/v1/chapters/:cid/editor/events", editorHandler.Events)
	engine.GET("/v1/chapters/:cid/cycle", editorHandler.CycleState)
	engine.POST("/v1/chapters/:cid/cycle/accept", editorHandler.Accept)
	engine.GET("/v1/profile/stats", profileHandler.GetStats)

	t.Cleanup(func() {
		sessions.CloseAll()
		scheduler.Close(context.Background())
	})

	return &testEnv{repo: repo, sessions: sessions, scheduler: scheduler, engine: engine}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func TestListChaptersCreatesFirstChapter(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/v1/chapters", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Data struct {
			Chapters []struct {
				Name string `json:"name"`
			} `json:"chapters"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data.Chapters) != 1 {
		t.Fatalf("chapters = %d, want 1", len(resp.Data.Chapters))
	}
	if resp.Data.Chapters[0].Name != entity.FirstChapterName {
		t.Errorf("name = %q, want %q", resp.Data.Chapters[0].Name, entity.FirstChapterName)
	}
}

func TestCreateAndRenameChapter(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/v1/chapters", map[string]string{"name": "Into the Mines"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", w.Code)
	}

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	w = env.do(t, http.MethodPut, "/v1/chapters/"+created.Data.ID+"/name", map[string]string{"name": "Out of the Mines"})
	if w.Code != http.StatusOK {
		t.Fatalf("rename status = %d, want 200", w.Code)
	}

	stored := env.repo.chapters[created.Data.ID]
	if stored.Name != "Out of the Mines" {
		t.Errorf("stored name = %q, want %q", stored.Name, "Out of the Mines")
	}
}

func TestUpdateChapterContent(t *testing.T) {
	env := newTestEnv(t)

	ch := entity.NewFirstChapter(testUserID)
	if err := env.repo.Create(context.Background(), ch); err != nil {
		t.Fatal(err)
	}

	w := env.do(t, http.MethodPut, "/v1/chapters/"+ch.ID, map[string]string{
		"content": "<p>Four little words here.</p>",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	stored := env.repo.chapters[ch.ID]
	if stored.WordCount != 4 {
		t.Errorf("word_count = %d, want 4", stored.WordCount)
	}
	if stored.Content != "<p>Four little words here.</p>" {
		t.Errorf("content not persisted: %q", stored.Content)
	}
}

func TestDeleteLastChapterRejected(t *testing.T) {
	env := newTestEnv(t)

	only := entity.NewFirstChapter(testUserID)
	if err := env.repo.Create(context.Background(), only); err != nil {
		t.Fatal(err)
	}

	w := env.do(t, http.MethodDelete, "/v1/chapters/"+only.ID, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
	if _, ok := env.repo.chapters[only.ID]; !ok {
		t.Error("chapter was deleted despite being the last one")
	}
}

func TestDeleteChapter(t *testing.T) {
	env := newTestEnv(t)

	first := entity.NewFirstChapter(testUserID)
	second := entity.NewChapter(testUserID, "Second", 1)
	for _, ch := range []*entity.Chapter{first, second} {
		if err := env.repo.Create(context.Background(), ch); err != nil {
			t.Fatal(err)
		}
	}

	w := env.do(t, http.MethodDelete, "/v1/chapters/"+second.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if _, ok := env.repo.chapters[second.ID]; ok {
		t.Error("chapter still present after delete")
	}
}

func TestGetChapterOfAnotherUserIsNotFound(t *testing.T) {
	env := newTestEnv(t)

	foreign := entity.NewChapter("someone-else", "Private", 0)
	if err := env.repo.Create(context.Background(), foreign); err != nil {
		t.Fatal(err)
	}

	w := env.do(t, http.MethodGet, "/v1/chapters/"+foreign.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestEditorEventsReturnWordCountAndCycle(t *testing.T) {
	env := newTestEnv(t)

	ch := entity.NewFirstChapter(testUserID)
	if err := env.repo.Create(context.Background(), ch); err != nil {
		t.Fatal(err)
	}

	w := env.do(t, http.MethodPost, "/v1/chapters/"+ch.ID+"/editor/events", map[string]string{
		"content": "<p>The dragon stirred in its sleep.</p>",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Data struct {
			WordCount int `json:"word_count"`
			Cycle     struct {
				Phase  string `json:"phase"`
				Locked bool   `json:"locked"`
			} `json:"cycle"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.WordCount != 6 {
		t.Errorf("word_count = %d, want 6", resp.Data.WordCount)
	}
	if resp.Data.Cycle.Phase != string(suggestion.PhaseIdle) {
		t.Errorf("phase = %q, want idle", resp.Data.Cycle.Phase)
	}
	if resp.Data.Cycle.Locked {
		t.Error("cycle should not be locked below the trigger threshold")
	}
}

func TestAcceptWithoutPresentingCycle(t *testing.T) {
	env := newTestEnv(t)

	ch := entity.NewFirstChapter(testUserID)
	if err := env.repo.Create(context.Background(), ch); err != nil {
		t.Fatal(err)
	}

	w := env.do(t, http.MethodPost, "/v1/chapters/"+ch.ID+"/cycle/accept", map[string]int{"choice": 1})
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
}

func TestGetStats(t *testing.T) {
	env := newTestEnv(t)

	ch := entity.NewFirstChapter(testUserID)
	ch.SetContent("words", 120)
	if err := env.repo.Create(context.Background(), ch); err != nil {
		t.Fatal(err)
	}

	w := env.do(t, http.MethodGet, "/v1/profile/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Data struct {
			TotalWords   int    `json:"total_words"`
			RankName     string `json:"rank_name"`
			ChapterCount int    `json:"chapter_count"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.TotalWords != 120 {
		t.Errorf("total_words = %d, want 120", resp.Data.TotalWords)
	}
	if resp.Data.RankName == "" {
		t.Error("rank_name is empty")
	}
	if resp.Data.ChapterCount != 1 {
		t.Errorf("chapter_count = %d, want 1", resp.Data.ChapterCount)
	}
}
