package writing

import (
	"sync"
)

// Tracker 追踪自上次建议触发/采纳以来的字数增量
//
// 持有两个内容快照：cycleStartContent 是当前循环起点的内容，
// lastTriggeredContent 是上次触发时的内容。增量只按
// lastTriggeredContent 计算，且永不为负。
type Tracker struct {
	mu                   sync.Mutex
	cycleStartContent    string
	lastTriggeredContent string
}

// NewTracker 创建追踪器
func NewTracker(initialContent string) *Tracker {
	return &Tracker{
		cycleStartContent:    initialContent,
		lastTriggeredContent: initialContent,
	}
}

// Delta 计算当前内容相对上次触发点的新增词数
//
// 内容被清空时增量归零，两个快照同时重置为空。
func (t *Tracker) Delta(current string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if ToPlainText(current) == "" {
		t.cycleStartContent = ""
		t.lastTriggeredContent = ""
		return 0
	}

	delta := CountContentWords(current) - CountContentWords(t.lastTriggeredContent)
	if delta < 0 {
		return 0
	}
	return delta
}

// MarkTriggered 只推进触发快照，循环起点保持不变
//
// 请求发出时调用：增量从新基线重新累计，但高亮仍以循环
// 起点之后的全部文本为范围。
func (t *Tracker) MarkTriggered(current string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastTriggeredContent = current
}

// Advance 把两个快照推进到当前内容（采纳或跳过后调用）
func (t *Tracker) Advance(current string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cycleStartContent = current
	t.lastTriggeredContent = current
}

// CycleStart 返回当前循环起点的内容
func (t *Tracker) CycleStart() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cycleStartContent
}
