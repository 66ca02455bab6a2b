package suggestion

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gamertales-api/internal/highlight"
	apperrors "gamertales-api/pkg/errors"
)

type fakeProvider struct {
	mu         sync.Mutex
	candidates []string
	err        error
	calls      int
}

func (f *fakeProvider) Suggest(_ context.Context, _ Request) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.candidates, f.err
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeErrNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakeErrNotifier) NotifyError(_ context.Context, _ string, msg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeErrNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

func testSessionOptions() Options {
	return Options{
		TriggerWords:    5,
		TriggerDebounce: 10 * time.Millisecond,
		MaxCandidates:   2,
		ProviderTimeout: time.Second,
	}
}

func testHighlightConfig() highlight.Config {
	return highlight.Config{
		CharStagger:  time.Millisecond,
		CharDuration: time.Millisecond,
		Hold:         5 * time.Millisecond,
	}
}

func newTestSession(provider Provider, notifier ErrorNotifier) *Session {
	return NewSession("user-1", "ch-1", "", testSessionOptions(), testHighlightConfig(), provider, notifier, nil)
}

func waitPhase(t *testing.T, s *Session, want Phase) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if s.State().Phase == want {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("phase = %s, want %s", s.State().Phase, want)
}

func TestBelowThresholdStaysIdle(t *testing.T) {
	provider := &fakeProvider{candidates: []string{"a suggestion"}}
	s := newTestSession(provider, &fakeErrNotifier{})

	st := s.ContentChanged("one two three four")
	if st.Phase != PhaseIdle {
		t.Errorf("phase = %s, want idle", st.Phase)
	}
	if st.CycleWords != 4 {
		t.Errorf("cycle words = %d, want 4", st.CycleWords)
	}

	time.Sleep(50 * time.Millisecond)
	if provider.callCount() != 0 {
		t.Error("provider called below threshold")
	}
}

func TestTriggerAndPresent(t *testing.T) {
	provider := &fakeProvider{candidates: []string{"first option", "second option", "third option"}}
	s := newTestSession(provider, &fakeErrNotifier{})

	st := s.ContentChanged("one two three four five")
	if st.Phase != PhasePendingTrigger {
		t.Fatalf("phase = %s, want pending_trigger", st.Phase)
	}

	waitPhase(t, s, PhasePresenting)
	st = s.State()
	if len(st.Candidates) != 2 {
		t.Errorf("candidates = %d, want 2 (extras discarded)", len(st.Candidates))
	}
	if !st.Locked {
		t.Error("input not locked while presenting")
	}
	if provider.callCount() != 1 {
		t.Errorf("provider called %d times, want 1", provider.callCount())
	}
}

func TestDeltaDropCancelsPending(t *testing.T) {
	provider := &fakeProvider{candidates: []string{"x"}}
	s := newTestSession(provider, &fakeErrNotifier{})

	s.ContentChanged("one two three four five")
	// 阈值回落，武装撤销
	st := s.ContentChanged("one two")
	if st.Phase != PhaseIdle {
		t.Errorf("phase = %s, want idle after delta drop", st.Phase)
	}

	time.Sleep(50 * time.Millisecond)
	if provider.callCount() != 0 {
		t.Error("provider called after pending trigger was disarmed")
	}
}

func TestProviderFailureResets(t *testing.T) {
	provider := &fakeProvider{err: errors.New("upstream down")}
	notifier := &fakeErrNotifier{}
	s := newTestSession(provider, notifier)

	s.ContentChanged("one two three four five")
	waitPhase(t, s, PhaseIdle)

	st := s.State()
	if st.Locked {
		t.Error("input locked after failure reset")
	}
	// 快照推进到当前内容，不会立即重触发
	if st.CycleWords != 0 {
		t.Errorf("cycle words = %d after reset, want 0", st.CycleWords)
	}
	if notifier.count() != 1 {
		t.Errorf("error notifications = %d, want 1", notifier.count())
	}
}

func TestEmptyCandidatesTreatedAsFailure(t *testing.T) {
	provider := &fakeProvider{candidates: nil}
	notifier := &fakeErrNotifier{}
	s := newTestSession(provider, notifier)

	s.ContentChanged("one two three four five")
	waitPhase(t, s, PhaseIdle)

	if notifier.count() != 1 {
		t.Errorf("error notifications = %d, want 1", notifier.count())
	}
}

func TestAcceptAppendsAndHighlights(t *testing.T) {
	provider := &fakeProvider{candidates: []string{"the dragon woke"}}
	s := newTestSession(provider, &fakeErrNotifier{})

	s.ContentChanged("one two three four five")
	waitPhase(t, s, PhasePresenting)

	newContent, seq, err := s.Accept(1)
	if err != nil {
		t.Fatal(err)
	}
	if want := "one two three four five the dragon woke"; newContent != want {
		t.Errorf("newContent = %q, want %q", newContent, want)
	}
	if seq == nil || seq.Text == "" {
		t.Fatal("no highlight sequence returned")
	}

	// 高亮进行中输入保持锁定，循环已回到 Idle
	st := s.State()
	if st.Phase != PhaseIdle {
		t.Errorf("phase = %s, want idle", st.Phase)
	}
	if !st.Locked {
		t.Error("input not locked during highlight")
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && s.Locked() {
		time.Sleep(2 * time.Millisecond)
	}
	if s.Locked() {
		t.Error("input still locked after highlight completed")
	}
	if got := s.State().CycleWords; got != 0 {
		t.Errorf("cycle words = %d after accept, want 0", got)
	}
}

func TestAcceptInvalidChoice(t *testing.T) {
	provider := &fakeProvider{candidates: []string{"only one"}}
	s := newTestSession(provider, &fakeErrNotifier{})

	if _, _, err := s.Accept(1); !errors.Is(err, apperrors.ErrNoCyclePresenting) {
		t.Errorf("Accept while idle = %v, want ErrNoCyclePresenting", err)
	}

	s.ContentChanged("one two three four five")
	waitPhase(t, s, PhasePresenting)

	if _, _, err := s.Accept(2); !errors.Is(err, apperrors.ErrInvalidCandidate) {
		t.Errorf("Accept(2) with one candidate = %v, want ErrInvalidCandidate", err)
	}
}

func TestSkipResetsWithoutMutation(t *testing.T) {
	provider := &fakeProvider{candidates: []string{"unused"}}
	s := newTestSession(provider, &fakeErrNotifier{})

	s.ContentChanged("one two three four five")
	waitPhase(t, s, PhasePresenting)

	if err := s.Skip(); err != nil {
		t.Fatal(err)
	}
	st := s.State()
	if st.Phase != PhaseIdle || st.Locked {
		t.Errorf("state after skip = %+v, want idle unlocked", st)
	}
	if st.CycleWords != 0 {
		t.Errorf("cycle words = %d after skip, want 0", st.CycleWords)
	}
	if err := s.Skip(); !errors.Is(err, apperrors.ErrNoCyclePresenting) {
		t.Errorf("second Skip = %v, want ErrNoCyclePresenting", err)
	}
}

func TestCloseCancelsPendingTrigger(t *testing.T) {
	provider := &fakeProvider{candidates: []string{"x"}}
	s := newTestSession(provider, &fakeErrNotifier{})

	s.ContentChanged("one two three four five")
	s.Close()

	time.Sleep(50 * time.Millisecond)
	if provider.callCount() != 0 {
		t.Error("provider called after session close")
	}
}

func TestManagerChapterSwitchTearsDownSession(t *testing.T) {
	provider := &fakeProvider{candidates: []string{"x"}}
	m := NewManager(testSessionOptions(), testHighlightConfig(), time.Minute, provider, &fakeErrNotifier{}, nil)

	s1 := m.Session("user-1", "ch-1", "")
	s1.ContentChanged("one two three four five")

	s2 := m.Session("user-1", "ch-2", "")
	if s1 == s2 {
		t.Fatal("chapter switch reused the old session")
	}

	// 旧会话的待触发定时器随切换取消
	time.Sleep(50 * time.Millisecond)
	if provider.callCount() != 0 {
		t.Error("old session fired after chapter switch")
	}

	if s3 := m.Session("user-1", "ch-2", ""); s3 != s2 {
		t.Error("same chapter did not reuse the session")
	}
}
