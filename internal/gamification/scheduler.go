package gamification

import (
	"context"
	"sync"
	"time"

	"gamertales-api/internal/domain/entity"
	"gamertales-api/pkg/debounce"
	"gamertales-api/pkg/logger"
	"gamertales-api/pkg/metrics"
)

// Notifier 奖励/错误通知出口
type Notifier interface {
	Notify(ctx context.Context, userID string, reward Reward) error
}

// ProfileStore 调度器需要的档案持久化能力
// repository.GamerProfileRepository 天然满足
type ProfileStore interface {
	GetByUserID(ctx context.Context, userID string) (*entity.GamerProfile, error)
	Save(ctx context.Context, profile *entity.GamerProfile) error
}

// ChapterStats 调度器需要的章节统计能力
// repository.ChapterRepository 天然满足
type ChapterStats interface {
	TotalWordCount(ctx context.Context, userID string) (int, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	MaxWordCount(ctx context.Context, userID string) (int, error)
}

// Options 调度器时序参数
type Options struct {
	// RecomputeDebounce 字数变化后重算的静默窗口
	RecomputeDebounce time.Duration
	// PersistDebounce 档案落库的静默窗口
	PersistDebounce time.Duration
}

// Scheduler 按用户防抖的游戏化调度器
//
// 字数变化后经过一个静默窗口才重算；档案变更再经过一个
// 静默窗口才落库，期间的新一轮重算会顺延待写入的落库。
// 落库失败只通知用户，内存中的乐观状态不回滚。
type Scheduler struct {
	opts     Options
	profiles ProfileStore
	chapters ChapterStats
	notifier Notifier

	mu     sync.Mutex
	states map[string]*userState
}

type userState struct {
	mu        sync.Mutex
	profile   *entity.GamerProfile
	recompute *debounce.Debouncer
	persist   *debounce.Debouncer
}

// NewScheduler 创建调度器
func NewScheduler(opts Options, profiles ProfileStore, chapters ChapterStats, notifier Notifier) *Scheduler {
	return &Scheduler{
		opts:     opts,
		profiles: profiles,
		chapters: chapters,
		notifier: notifier,
		states:   make(map[string]*userState),
	}
}

func (s *Scheduler) state(userID string) *userState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[userID]
	if !ok {
		st = &userState{
			recompute: debounce.New(),
			persist:   debounce.New(),
		}
		s.states[userID] = st
	}
	return st
}

// loadProfile 返回内存中的档案，必要时从仓储加载或新建
//
// 调用方必须持有 st.mu。
func (s *Scheduler) loadProfile(ctx context.Context, userID string, st *userState) (*entity.GamerProfile, error) {
	if st.profile != nil {
		return st.profile, nil
	}
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = entity.NewGamerProfile(userID)
	}
	st.profile = profile
	return profile, nil
}

// WordsChanged 通知调度器用户的总字数发生了变化
//
// 重算在静默窗口后执行，窗口内的后续变化会顺延重算。
func (s *Scheduler) WordsChanged(userID string) {
	st := s.state(userID)
	st.recompute.Schedule(s.opts.RecomputeDebounce, func() {
		s.recomputeNow(context.Background(), userID)
	})
}

// recomputeNow 立即执行一次重算
func (s *Scheduler) recomputeNow(ctx context.Context, userID string) {
	st := s.state(userID)
	st.mu.Lock()

	profile, err := s.loadProfile(ctx, userID, st)
	if err != nil {
		st.mu.Unlock()
		logger.Error(ctx, "failed to load gamer profile for recompute", err, "user_id", userID)
		return
	}

	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		st.mu.Unlock()
		logger.Error(ctx, "failed to load writing snapshot", err, "user_id", userID)
		return
	}

	res := Recompute(profile, snap, time.Now())
	st.mu.Unlock()

	for _, reward := range res.Rewards {
		if err := s.notifier.Notify(ctx, userID, reward); err != nil {
			logger.Warn(ctx, "failed to publish reward notification", "user_id", userID, "error", err.Error())
		}
	}

	if res.Changed {
		s.schedulePersist(userID)
	}
}

// snapshot 从章节仓储汇总成就判定所需的状态
func (s *Scheduler) snapshot(ctx context.Context, userID string) (Snapshot, error) {
	total, err := s.chapters.TotalWordCount(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}
	count, err := s.chapters.CountByUser(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}
	maxWords, err := s.chapters.MaxWordCount(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		TotalWords:      total,
		ChapterCount:    int(count),
		MaxChapterWords: maxWords,
	}, nil
}

// schedulePersist 防抖安排档案落库，新一轮变更会顺延待写入
func (s *Scheduler) schedulePersist(userID string) {
	st := s.state(userID)
	st.persist.Schedule(s.opts.PersistDebounce, func() {
		s.persistNow(context.Background(), userID)
	})
}

// persistNow 立即落库
func (s *Scheduler) persistNow(ctx context.Context, userID string) {
	st := s.state(userID)
	st.mu.Lock()
	profile := st.profile
	st.mu.Unlock()
	if profile == nil {
		return
	}

	if err := s.profiles.Save(ctx, profile); err != nil {
		metrics.ProfileWritesTotal.WithLabelValues("error").Inc()
		logger.Error(ctx, "failed to persist gamer profile", err, "user_id", userID)
		// 乐观状态保留，不回滚；向用户通知保存失败
		notifyErr := s.notifier.Notify(ctx, userID, Reward{
			Kind:    "error",
			Title:   "Save Failed",
			Message: "Your progress could not be saved. It will be retried on your next activity.",
		})
		if notifyErr != nil {
			logger.Warn(ctx, "failed to publish persistence error notification", "user_id", userID, "error", notifyErr.Error())
		}
		return
	}
	metrics.ProfileWritesTotal.WithLabelValues("ok").Inc()
}

// Profile 返回用户档案（内存视图优先），不存在时返回未保存的空档案
func (s *Scheduler) Profile(ctx context.Context, userID string) (*entity.GamerProfile, error) {
	st := s.state(userID)
	st.mu.Lock()
	defer st.mu.Unlock()
	return s.loadProfile(ctx, userID, st)
}

// SaveProfile 保存角色设定字段并判定仅限保存的成就
//
// 档案保存是显式动作，直接写库不走防抖。
func (s *Scheduler) SaveProfile(ctx context.Context, userID string, apply func(*entity.GamerProfile)) (*entity.GamerProfile, []Reward, error) {
	st := s.state(userID)
	st.mu.Lock()

	profile, err := s.loadProfile(ctx, userID, st)
	if err != nil {
		st.mu.Unlock()
		return nil, nil, err
	}
	apply(profile)
	rewards := CheckProfileSave(profile)
	st.mu.Unlock()

	if err := s.profiles.Save(ctx, profile); err != nil {
		metrics.ProfileWritesTotal.WithLabelValues("error").Inc()
		return nil, nil, err
	}
	metrics.ProfileWritesTotal.WithLabelValues("ok").Inc()

	for _, reward := range rewards {
		if err := s.notifier.Notify(ctx, userID, reward); err != nil {
			logger.Warn(ctx, "failed to publish reward notification", "user_id", userID, "error", err.Error())
		}
	}

	return profile, rewards, nil
}

// Flush 取消用户的待执行定时器并立即写入未落库的变更
func (s *Scheduler) Flush(ctx context.Context, userID string) {
	st := s.state(userID)
	st.recompute.Cancel()
	pending := st.persist.Pending()
	st.persist.Cancel()
	if pending {
		s.persistNow(ctx, userID)
	}
}

// Close 关闭调度器，写入所有待落库的档案
func (s *Scheduler) Close(ctx context.Context) {
	s.mu.Lock()
	ids := make([]string, 0, len(s.states))
	for id := range s.states {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	for _, id := range ids {
		s.Flush(ctx, id)
	}
}
