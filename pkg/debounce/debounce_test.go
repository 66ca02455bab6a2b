package debounce

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestScheduleFires(t *testing.T) {
	d := New()
	done := make(chan struct{})

	d.Schedule(10*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callback did not fire")
	}
	if d.Pending() {
		t.Error("Pending() = true after callback fired")
	}
}

func TestOnlyLatestFires(t *testing.T) {
	d := New()
	var first, second atomic.Int32
	done := make(chan struct{})

	d.Schedule(20*time.Millisecond, func() { first.Add(1) })
	d.Schedule(20*time.Millisecond, func() {
		second.Add(1)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second callback did not fire")
	}
	// 给被作废的回调留出误触发的窗口
	time.Sleep(50 * time.Millisecond)

	if got := first.Load(); got != 0 {
		t.Errorf("first callback fired %d times, want 0", got)
	}
	if got := second.Load(); got != 1 {
		t.Errorf("second callback fired %d times, want 1", got)
	}
}

func TestCancel(t *testing.T) {
	d := New()
	var fired atomic.Int32

	d.Schedule(20*time.Millisecond, func() { fired.Add(1) })
	d.Cancel()

	if d.Pending() {
		t.Error("Pending() = true after Cancel")
	}
	time.Sleep(60 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Errorf("callback fired %d times after Cancel, want 0", got)
	}
}

func TestRescheduleAfterCancel(t *testing.T) {
	d := New()
	done := make(chan struct{})

	d.Schedule(10*time.Millisecond, func() { t.Error("canceled callback fired") })
	d.Cancel()
	d.Schedule(10*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("rescheduled callback did not fire")
	}
}
