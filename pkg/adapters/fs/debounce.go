package fs

import (
	"sync"
	"time"
)

// debouncer coalesces bursts of changes for the same key.
// An atomic write produces create, write and rename events; only one is forwarded.
type debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	pending map[string]pendingCall
	seq     uint64
	stopped bool
	wg      sync.WaitGroup
}

// pendingCall is the scheduled call for a key. seq identifies it so a timer
// that fires late cannot clear its replacement.
type pendingCall struct {
	timer *time.Timer
	seq   uint64
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		pending: make(map[string]pendingCall),
	}
}

// add schedules fn for key, replacing any pending call for the same key.
func (d *debouncer) add(key string, fn func(string)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if p, ok := d.pending[key]; ok {
		if p.timer.Stop() {
			d.wg.Done()
		}
	}

	d.seq++
	seq := d.seq
	d.wg.Add(1)
	timer := time.AfterFunc(d.delay, func() {
		defer d.wg.Done()

		d.mu.Lock()
		if p, ok := d.pending[key]; ok && p.seq == seq {
			delete(d.pending, key)
		}
		d.mu.Unlock()

		fn(key)
	})
	d.pending[key] = pendingCall{timer: timer, seq: seq}
}

// stopAndWait cancels pending calls and waits for running ones, up to timeout.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for key, p := range d.pending {
		if p.timer.Stop() {
			d.wg.Done()
		}
		delete(d.pending, key)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
	}
}
