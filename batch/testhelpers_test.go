package batch_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MasterOfBinary/framebatch/batch"
	"github.com/MasterOfBinary/framebatch/tick"
)

var intItems = []int{0, 1, 2, 3, 4}

func times10(n int) (int, error) {
	return n * 10, nil
}

func times10Batch(items []int) ([]int, error) {
	out := make([]int, len(items))
	for i, n := range items {
		out[i] = n * 10
	}
	return out, nil
}

// newManualScheduler returns a Scheduler driven by a Manual ticker whose
// virtual clock also times the batches.
func newManualScheduler(values *batch.ConfigValues) (*batch.Scheduler, *tick.Manual) {
	m := tick.NewManual()
	return batch.New(m, batch.NewConstantConfig(values)).WithClock(m.Now), m
}

// costlyBatch returns a BatchFunc that multiplies by 10 and charges cost per
// item on the virtual clock. Every invocation's size is appended to sizes.
func costlyBatch(m *tick.Manual, cost time.Duration, sizes *[]int) batch.BatchFunc[int, int] {
	return batch.SyncBatch(func(items []int) ([]int, error) {
		if sizes != nil {
			*sizes = append(*sizes, len(items))
		}
		m.Advance(cost * time.Duration(len(items)))
		return times10Batch(items)
	})
}

// recorder captures the Outcome of a Run.
type recorder[Out any] struct {
	mu      sync.Mutex
	calls   int
	outcome batch.Outcome[Out]
}

func (r *recorder[Out]) callback(o batch.Outcome[Out]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.outcome = o
}

func (r *recorder[Out]) get() (int, batch.Outcome[Out]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls, r.outcome
}

func waitDone(t *testing.T, h *batch.Handle) {
	t.Helper()
	select {
	case <-h.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("run did not finish")
	}
}

// asyncTimes10 completes on another goroutine after a short delay.
func asyncTimes10(_ context.Context, n int, done func(int, error)) {
	go func() {
		time.Sleep(time.Millisecond)
		done(n*10, nil)
	}()
}

func asyncTimes10Batch(_ context.Context, items []int, done func([]int, error)) {
	go func() {
		time.Sleep(time.Millisecond)
		done(times10Batch(items))
	}()
}
