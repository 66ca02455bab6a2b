// Package debounce 提供可取消的防抖定时器
//
// 同一个 Debouncer 上的多次 Schedule 只有最后一次会触发，
// 之前安排的回调全部作废。回调在独立 goroutine 中执行。
package debounce

import (
	"sync"
	"time"
)

// Debouncer 防抖定时器
type Debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// New 创建防抖定时器
func New() *Debouncer {
	return &Debouncer{}
}

// Schedule 在 delay 之后执行 fn，并作废之前安排的回调
func (d *Debouncer) Schedule(delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen

	d.timer = time.AfterFunc(delay, func() {
		d.mu.Lock()
		// 定时器触发和 Stop 之间存在竞争，代际号保证过期回调不执行
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
}

// Cancel 作废当前安排的回调
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

// Pending 返回是否有未触发的回调
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
