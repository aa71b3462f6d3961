package fs

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncer_CoalescesBursts(t *testing.T) {
	d := newDebouncer(30 * time.Millisecond)

	var mu sync.Mutex
	calls := map[string]int{}
	record := func(key string) {
		mu.Lock()
		calls[key]++
		mu.Unlock()
	}

	for i := 0; i < 5; i++ {
		d.add("a", record)
	}
	d.add("b", record)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls["a"] == 1 && calls["b"] == 1
	}, time.Second, 5*time.Millisecond)

	d.stopAndWait(time.Second)
	d.add("a", record)
	time.Sleep(60 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls["a"], "no calls after stop")
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := newDebouncer(time.Hour)
	fired := false
	d.add("a", func(string) { fired = true })

	d.stopAndWait(time.Second)
	assert.False(t, fired)
}

func TestDebouncer_ImmediateFire(t *testing.T) {
	d := newDebouncer(0)

	var mu sync.Mutex
	calls := 0
	for i := 0; i < 50; i++ {
		d.add("a", func(string) {
			mu.Lock()
			calls++
			mu.Unlock()
		})
	}

	assert.Eventually(t, func() bool {
		d.mu.Lock()
		defer d.mu.Unlock()
		return len(d.pending) == 0
	}, time.Second, time.Millisecond)

	d.stopAndWait(time.Second)
	mu.Lock()
	defer mu.Unlock()
	assert.GreaterOrEqual(t, calls, 1)
	assert.LessOrEqual(t, calls, 50)
}
