// Package highlight 提供采纳文本的高亮动画排程
//
// 被采纳的文本（用户输入的前缀 + AI 候选）逐字符错峰点亮：
// 第 i 个字符延迟 i×CharStagger 开始，单字符过渡 CharDuration，
// 全部点亮后保持 Hold。完成信号只发出一次，新的排程会取消旧的。
package highlight

import (
	"sync"
	"time"
	"unicode/utf8"

	"gamertales-api/pkg/debounce"
)

// Config 动画时序配置
type Config struct {
	CharStagger  time.Duration
	CharDuration time.Duration
	Hold         time.Duration
}

// DefaultConfig 参考产品的动画时序
func DefaultConfig() Config {
	return Config{
		CharStagger:  20 * time.Millisecond,
		CharDuration: 400 * time.Millisecond,
		Hold:         time.Second,
	}
}

// Sequence 一次高亮动画的排程
type Sequence struct {
	// Text 被点亮的文本
	Text string `json:"text"`
	// TextBefore 点亮区域之前的上下文
	TextBefore string `json:"text_before"`
	// CharStagger 每个字符的错峰延迟
	CharStagger time.Duration `json:"char_stagger"`
	// CharDuration 单字符过渡时长
	CharDuration time.Duration `json:"char_duration"`
	// Total 动画总时长
	Total time.Duration `json:"total"`
	// StartedAt 动画开始时刻
	StartedAt time.Time `json:"started_at"`
}

// Sequencer 单飞的高亮动画排程器
type Sequencer struct {
	cfg Config

	mu     sync.Mutex
	active *Sequence
	timer  *debounce.Debouncer
}

// NewSequencer 创建排程器
func NewSequencer(cfg Config) *Sequencer {
	return &Sequencer{
		cfg:   cfg,
		timer: debounce.New(),
	}
}

// Duration 计算 text 的动画总时长
//
// n 个字符的总时长 = (n-1)×CharStagger + CharDuration + Hold。
// 空文本没有动画。
func (s *Sequencer) Duration(text string) time.Duration {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	return time.Duration(n-1)*s.cfg.CharStagger + s.cfg.CharDuration + s.cfg.Hold
}

// Start 开始一次新的动画排程，取消进行中的旧排程
//
// onDone 在动画走完后恰好调用一次；被新排程取消的动画不再回调。
func (s *Sequencer) Start(text, textBefore string, onDone func()) *Sequence {
	total := s.Duration(text)

	s.mu.Lock()
	seq := &Sequence{
		Text:         text,
		TextBefore:   textBefore,
		CharStagger:  s.cfg.CharStagger,
		CharDuration: s.cfg.CharDuration,
		Total:        total,
		StartedAt:    time.Now(),
	}
	s.active = seq
	s.mu.Unlock()

	s.timer.Schedule(total, func() {
		s.mu.Lock()
		if s.active != seq {
			s.mu.Unlock()
			return
		}
		s.active = nil
		s.mu.Unlock()
		if onDone != nil {
			onDone()
		}
	})

	return seq
}

// Cancel 取消进行中的动画，完成回调不会触发
func (s *Sequencer) Cancel() {
	s.mu.Lock()
	s.active = nil
	s.mu.Unlock()
	s.timer.Cancel()
}

// Active 返回进行中的排程，空闲时返回 nil
func (s *Sequencer) Active() *Sequence {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}
