package processor_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/MasterOfBinary/framebatch/batch"
)

type captureLogger struct {
	mu       sync.Mutex
	messages []string
}

func (c *captureLogger) Log(level batch.LogLevel, format string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg := fmt.Sprintf(format, args...)
	c.messages = append(c.messages, level.String()+" "+msg)
}
func (c *captureLogger) Debug(format string, args ...interface{}) {
	c.Log(batch.LogLevelDebug, format, args...)
}
func (c *captureLogger) Info(format string, args ...interface{}) {
	c.Log(batch.LogLevelInfo, format, args...)
}
func (c *captureLogger) Warn(format string, args ...interface{}) {
	c.Log(batch.LogLevelWarn, format, args...)
}
func (c *captureLogger) Error(format string, args ...interface{}) {
	c.Log(batch.LogLevelError, format, args...)
}

func (c *captureLogger) getMessages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([]string, len(c.messages))
	copy(result, c.messages)
	return result
}

var double = batch.SyncBatch(func(items []int) ([]int, error) {
	out := make([]int, len(items))
	for i, n := range items {
		out[i] = n * 2
	}
	return out, nil
})

func failing(err error) batch.BatchFunc[int, int] {
	return func(_ context.Context, _ []int, done func([]int, error)) {
		done(nil, err)
	}
}

// call runs fn and waits for its continuation.
func call[In, Out any](fn batch.BatchFunc[In, Out], items []In) ([]Out, error) {
	type result struct {
		out []Out
		err error
	}
	ch := make(chan result, 1)
	fn(context.Background(), items, func(out []Out, err error) {
		ch <- result{out, err}
	})
	r := <-ch
	return r.out, r.err
}
