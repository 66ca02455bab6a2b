package suggestion

import (
	"context"
	"strings"
	"sync"
	"time"

	"gamertales-api/internal/domain/entity"
	"gamertales-api/internal/highlight"
	"gamertales-api/internal/writing"
	"gamertales-api/pkg/debounce"
	apperrors "gamertales-api/pkg/errors"
	"gamertales-api/pkg/logger"
	"gamertales-api/pkg/metrics"
)

// Phase 建议循环阶段
type Phase string

const (
	// PhaseIdle 空闲，正常编辑
	PhaseIdle Phase = "idle"
	// PhasePendingTrigger 达到词数阈值，静默窗口计时中
	PhasePendingTrigger Phase = "pending_trigger"
	// PhaseRequesting 建议请求在途，输入锁定
	PhaseRequesting Phase = "requesting"
	// PhasePresenting 候选呈现中，等待采纳或跳过，输入锁定
	PhasePresenting Phase = "presenting"
)

// Options 循环参数
type Options struct {
	// TriggerWords 距上次触发/采纳需新增的词数
	TriggerWords int
	// TriggerDebounce 达到阈值后的静默窗口
	TriggerDebounce time.Duration
	// MaxCandidates 呈现的候选上限，多余的丢弃
	MaxCandidates int
	// ProviderTimeout 单次建议请求的超时
	ProviderTimeout time.Duration
}

// ProfileSource 建议请求个性化所需的档案读取能力
type ProfileSource interface {
	Profile(ctx context.Context, userID string) (*entity.GamerProfile, error)
}

// State 循环状态快照，用于轮询接口
type State struct {
	Phase Phase `json:"phase"`
	// CycleWords 当前循环内累计的新增词数
	CycleWords int      `json:"cycle_words"`
	Candidates []string `json:"candidates,omitempty"`
	// Locked 输入是否锁定（请求在途、候选呈现或高亮动画进行中）
	Locked bool `json:"locked"`
	// Highlight 进行中的高亮动画排程
	Highlight *highlight.Sequence `json:"highlight,omitempty"`
}

// Session 单个用户在单个章节上的建议循环会话
//
// 状态机：Idle -> PendingTrigger -> Requesting -> Presenting -> Idle。
// 每条失败路径都有回到 Idle 的重置边，状态机不会卡死。
type Session struct {
	userID    string
	chapterID string
	opts      Options
	provider  Provider
	notifier  ErrorNotifier
	profiles  ProfileSource

	tracker     *writing.Tracker
	highlighter *highlight.Sequencer
	trigger     *debounce.Debouncer

	mu         sync.Mutex
	phase      Phase
	content    string
	candidates []string
	gen        uint64
	closed     bool
	lastActive time.Time
}

// NewSession 创建会话，tracker 以章节当前内容为基线
func NewSession(userID, chapterID, content string, opts Options, hcfg highlight.Config, provider Provider, notifier ErrorNotifier, profiles ProfileSource) *Session {
	return &Session{
		userID:      userID,
		chapterID:   chapterID,
		opts:        opts,
		provider:    provider,
		notifier:    notifier,
		profiles:    profiles,
		tracker:     writing.NewTracker(content),
		highlighter: highlight.NewSequencer(hcfg),
		trigger:     debounce.New(),
		phase:       PhaseIdle,
		content:     content,
		lastActive:  time.Now(),
	}
}

// ChapterID 返回会话绑定的章节
func (s *Session) ChapterID() string {
	return s.chapterID
}

// ContentChanged 处理一次内容变更事件并返回最新状态
//
// 锁定期内（请求在途、候选呈现、高亮进行中）事件只更新内容
// 镜像，不参与触发判定。增量达到阈值时武装静默窗口定时器，
// 后续合格变更会顺延定时器；增量回落则撤销武装。
func (s *Session) ContentChanged(content string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActive = time.Now()
	if s.closed {
		return s.stateLocked()
	}
	s.content = content

	if s.lockedLocked() {
		return s.stateLocked()
	}

	delta := s.tracker.Delta(content)
	if delta >= s.opts.TriggerWords {
		s.phase = PhasePendingTrigger
		s.trigger.Schedule(s.opts.TriggerDebounce, s.fire)
	} else {
		if s.phase == PhasePendingTrigger {
			s.phase = PhaseIdle
		}
		s.trigger.Cancel()
	}

	return s.stateLocked()
}

// fire 静默窗口走完，发出建议请求
func (s *Session) fire() {
	s.mu.Lock()
	if s.closed || s.phase != PhasePendingTrigger {
		s.mu.Unlock()
		return
	}
	s.phase = PhaseRequesting
	s.tracker.MarkTriggered(s.content)
	s.gen++
	gen := s.gen
	content := s.content
	s.mu.Unlock()

	metrics.SuggestionTriggersTotal.Inc()
	go s.request(gen, content)
}

// request 执行一次建议请求，单飞：同一会话同时至多一个在途请求
func (s *Session) request(gen uint64, content string) {
	ctx := logger.WithContext(context.Background(), logger.UserIDKey, s.userID)
	ctx = logger.WithContext(ctx, logger.ChapterIDKey, s.chapterID)
	ctx, cancel := context.WithTimeout(ctx, s.opts.ProviderTimeout)
	defer cancel()

	var profile *entity.GamerProfile
	if s.profiles != nil {
		p, err := s.profiles.Profile(ctx, s.userID)
		if err != nil {
			logger.Warn(ctx, "failed to load profile for suggestion request", "error", err.Error())
		} else {
			profile = p
		}
	}

	start := time.Now()
	candidates, err := s.provider.Suggest(ctx, Request{
		Content: writing.ToPlainText(content),
		Profile: profile,
	})
	metrics.SuggestionProviderDuration.Observe(time.Since(start).Seconds())

	s.mu.Lock()
	if s.closed || gen != s.gen || s.phase != PhaseRequesting {
		// 会话已关闭或循环被重置，过期响应直接丢弃
		s.mu.Unlock()
		return
	}

	if err != nil || len(candidates) == 0 {
		// 失败、空结果与畸形响应走同一条可恢复路径：
		// 通知用户并重置循环，快照推进到当前内容避免立即重触发
		s.tracker.Advance(s.content)
		s.phase = PhaseIdle
		s.mu.Unlock()

		metrics.SuggestionProviderErrors.Inc()
		metrics.SuggestionCyclesTotal.WithLabelValues("failed").Inc()
		logger.Error(ctx, "suggestion request failed", err)
		if nerr := s.notifier.NotifyError(ctx, s.userID, "The muse is silent right now. Keep writing and try again."); nerr != nil {
			logger.Warn(ctx, "failed to publish suggestion error notification", "error", nerr.Error())
		}
		return
	}

	if len(candidates) > s.opts.MaxCandidates {
		candidates = candidates[:s.opts.MaxCandidates]
	}
	s.candidates = candidates
	s.phase = PhasePresenting
	s.mu.Unlock()
}

// Accept 采纳指定候选（从 1 开始计数）
//
// 返回追加候选后的新章节内容和高亮动画排程；两个快照推进到
// 新内容，循环回到 Idle，高亮进行期间输入保持锁定。
func (s *Session) Accept(choice int) (string, *highlight.Sequence, error) {
	s.mu.Lock()
	if s.phase != PhasePresenting {
		s.mu.Unlock()
		return "", nil, apperrors.ErrNoCyclePresenting
	}
	if choice < 1 || choice > len(s.candidates) {
		s.mu.Unlock()
		return "", nil, apperrors.ErrInvalidCandidate
	}

	candidate := s.candidates[choice-1]
	newContent := s.content + " " + candidate

	// 高亮范围：循环起点之后用户输入的文本 + 被采纳的候选
	beforePlain := writing.ToPlainText(s.tracker.CycleStart())
	fullPlain := writing.ToPlainText(newContent)
	highlightText := strings.TrimSpace(strings.TrimPrefix(fullPlain, beforePlain))

	s.content = newContent
	s.candidates = nil
	s.tracker.Advance(newContent)
	s.phase = PhaseIdle
	s.lastActive = time.Now()
	s.mu.Unlock()

	seq := s.highlighter.Start(highlightText, beforePlain, nil)
	metrics.SuggestionCyclesTotal.WithLabelValues("accepted").Inc()
	return newContent, seq, nil
}

// Skip 跳过本轮候选，内容不变，快照推进到当前内容
func (s *Session) Skip() error {
	s.mu.Lock()
	if s.phase != PhasePresenting {
		s.mu.Unlock()
		return apperrors.ErrNoCyclePresenting
	}
	s.candidates = nil
	s.tracker.Advance(s.content)
	s.phase = PhaseIdle
	s.lastActive = time.Now()
	s.mu.Unlock()

	metrics.SuggestionCyclesTotal.WithLabelValues("skipped").Inc()
	return nil
}

// State 返回当前状态快照
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Locked 返回输入是否锁定
func (s *Session) Locked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lockedLocked()
}

// lockedLocked 调用方必须持有 s.mu
func (s *Session) lockedLocked() bool {
	return s.phase == PhaseRequesting || s.phase == PhasePresenting || s.highlighter.Active() != nil
}

// stateLocked 调用方必须持有 s.mu
func (s *Session) stateLocked() State {
	return State{
		Phase:      s.phase,
		CycleWords: s.tracker.Delta(s.content),
		Candidates: s.candidates,
		Locked:     s.lockedLocked(),
		Highlight:  s.highlighter.Active(),
	}
}

// Close 关闭会话，取消所有待执行定时器，在途响应作废
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.gen++
	s.candidates = nil
	s.phase = PhaseIdle
	s.mu.Unlock()

	s.trigger.Cancel()
	s.highlighter.Cancel()
}

// idleSince 返回最近一次活动时间
func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}
