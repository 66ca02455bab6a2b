package writing

import (
	"testing"
)

func TestTrackerDelta(t *testing.T) {
	tr := NewTracker("")

	if got := tr.Delta("<p>one two three</p>"); got != 3 {
		t.Errorf("Delta = %d, want 3", got)
	}

	// 推进快照后，增量从新基线重新计算
	tr.Advance("<p>one two three</p>")
	if got := tr.Delta("<p>one two three</p>"); got != 0 {
		t.Errorf("Delta after Advance = %d, want 0", got)
	}
	if got := tr.Delta("<p>one two three four five</p>"); got != 2 {
		t.Errorf("Delta = %d, want 2", got)
	}
}

func TestTrackerDeltaNeverNegative(t *testing.T) {
	tr := NewTracker("<p>one two three four</p>")

	if got := tr.Delta("<p>one two</p>"); got != 0 {
		t.Errorf("Delta after deletion = %d, want 0", got)
	}
}

func TestTrackerEmptyContentResets(t *testing.T) {
	tr := NewTracker("<p>one two three</p>")

	if got := tr.Delta(""); got != 0 {
		t.Errorf("Delta on empty content = %d, want 0", got)
	}
	if got := tr.CycleStart(); got != "" {
		t.Errorf("CycleStart after reset = %q, want empty", got)
	}

	// 清空后基线为空，新输入从零开始计数
	if got := tr.Delta("<p>fresh start</p>"); got != 2 {
		t.Errorf("Delta after reset = %d, want 2", got)
	}
}

func TestTrackerMarkupOnlyContentResets(t *testing.T) {
	tr := NewTracker("<p>one two</p>")

	// 只剩标签没有文本，等同于空内容
	if got := tr.Delta("<p><br/></p>"); got != 0 {
		t.Errorf("Delta on markup-only content = %d, want 0", got)
	}
	if got := tr.CycleStart(); got != "" {
		t.Errorf("CycleStart after markup-only reset = %q, want empty", got)
	}
}
