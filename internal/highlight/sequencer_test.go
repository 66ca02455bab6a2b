package highlight

import (
	"sync/atomic"
	"testing"
	"time"
)

func testConfig() Config {
	return Config{
		CharStagger:  time.Millisecond,
		CharDuration: 5 * time.Millisecond,
		Hold:         10 * time.Millisecond,
	}
}

func TestDuration(t *testing.T) {
	s := NewSequencer(DefaultConfig())

	tests := []struct {
		name string
		text string
		want time.Duration
	}{
		{"empty", "", 0},
		{"single char", "a", 400*time.Millisecond + time.Second},
		{"ten chars", "abcdefghij", 9*20*time.Millisecond + 400*time.Millisecond + time.Second},
		{"multibyte runes", "日本語", 2*20*time.Millisecond + 400*time.Millisecond + time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Duration(tt.text); got != tt.want {
				t.Errorf("Duration(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestStartCompletesOnce(t *testing.T) {
	s := NewSequencer(testConfig())
	var done atomic.Int32
	ch := make(chan struct{})

	seq := s.Start("hello", "before ", func() {
		done.Add(1)
		close(ch)
	})
	if seq.Total != s.Duration("hello") {
		t.Errorf("seq.Total = %v, want %v", seq.Total, s.Duration("hello"))
	}
	if s.Active() == nil {
		t.Fatal("Active() = nil while sequence is running")
	}

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("completion callback did not fire")
	}
	time.Sleep(20 * time.Millisecond)

	if got := done.Load(); got != 1 {
		t.Errorf("completion fired %d times, want 1", got)
	}
	if s.Active() != nil {
		t.Error("Active() != nil after completion")
	}
}

func TestNewStartCancelsPrior(t *testing.T) {
	s := NewSequencer(testConfig())
	var first atomic.Int32
	ch := make(chan struct{})

	s.Start("first sequence", "", func() { first.Add(1) })
	s.Start("second", "", func() { close(ch) })

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("second sequence did not complete")
	}
	time.Sleep(50 * time.Millisecond)

	if got := first.Load(); got != 0 {
		t.Errorf("canceled sequence fired %d times, want 0", got)
	}
}

func TestCancel(t *testing.T) {
	s := NewSequencer(testConfig())
	var done atomic.Int32

	s.Start("hello", "", func() { done.Add(1) })
	s.Cancel()

	if s.Active() != nil {
		t.Error("Active() != nil after Cancel")
	}
	time.Sleep(50 * time.Millisecond)
	if got := done.Load(); got != 0 {
		t.Errorf("completion fired %d times after Cancel, want 0", got)
	}
}
