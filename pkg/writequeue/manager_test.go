package writequeue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 同一 key 的操作按提交顺序执行，即使先提交的操作更慢
func TestExecuteSameKeyFIFO(t *testing.T) {
	m := New(nil, nil)
	defer m.Shutdown(context.Background())

	var mu sync.Mutex
	var order []string

	started := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		err := m.Execute(context.Background(), 2, func() error {
			close(started)
			<-release
			mu.Lock()
			order = append(order, "edit")
			mu.Unlock()
			return nil
		})
		assert.NoError(t, err)
	}()

	<-started
	go func() {
		defer wg.Done()
		err := m.Execute(context.Background(), 2, func() error {
			mu.Lock()
			order = append(order, "delete")
			mu.Unlock()
			return nil
		})
		assert.NoError(t, err)
	}()

	// 确认第二个操作已经排队，再放行第一个
	require.Eventually(t, func() bool { return m.QueuedCount(2) == 2 }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, []string{"edit", "delete"}, order)
}

// 不同 key 互不阻塞
func TestExecuteDifferentKeysIndependent(t *testing.T) {
	m := New(nil, nil)
	defer m.Shutdown(context.Background())

	block := make(chan struct{})
	go func() {
		_ = m.Execute(context.Background(), 1, func() error {
			<-block
			return nil
		})
	}()
	require.Eventually(t, func() bool { return m.QueuedCount(1) == 1 }, time.Second, time.Millisecond)

	done := make(chan error, 1)
	go func() {
		done <- m.Execute(context.Background(), 2, func() error { return nil })
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("key 2 was blocked by key 1")
	}
	close(block)
}

func TestExecuteReturnsFnError(t *testing.T) {
	m := New(nil, nil)
	defer m.Shutdown(context.Background())

	boom := assert.AnError
	err := m.Execute(context.Background(), 9, func() error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestExecuteQueueFull(t *testing.T) {
	m := New(&Config{QueueCapacity: 1}, nil)
	defer m.Shutdown(context.Background())

	block := make(chan struct{})
	running := make(chan struct{})
	go func() {
		_ = m.Execute(context.Background(), 1, func() error {
			close(running)
			<-block
			return nil
		})
	}()
	<-running

	// worker 正在执行第一个操作，通道可再容纳一个
	go func() {
		_ = m.Execute(context.Background(), 1, func() error { return nil })
	}()
	require.Eventually(t, func() bool { return m.QueuedCount(1) == 2 }, time.Second, time.Millisecond)

	err := m.Execute(context.Background(), 1, func() error { return nil })
	assert.ErrorIs(t, err, ErrWriteQueueFull)
	close(block)
}

func TestExecuteTimeout(t *testing.T) {
	m := New(&Config{WriteTimeout: 20 * time.Millisecond}, nil)
	defer m.Shutdown(context.Background())

	block := make(chan struct{})
	defer close(block)

	err := m.Execute(context.Background(), 1, func() error {
		<-block
		return nil
	})
	assert.ErrorIs(t, err, ErrWriteTimeout)
}

func TestShutdown(t *testing.T) {
	m := New(nil, nil)
	require.NoError(t, m.Execute(context.Background(), 1, func() error { return nil }))
	assert.Equal(t, 1, m.QueueCount())

	require.NoError(t, m.Shutdown(context.Background()))
	assert.True(t, m.IsClosed())
	assert.True(t, m.GetMetrics().IsClosed)
	assert.Equal(t, 0, m.QueueCount())

	err := m.Execute(context.Background(), 1, func() error { return nil })
	assert.ErrorIs(t, err, ErrWriteQueueClosed)

	// 重复关闭无副作用
	assert.NoError(t, m.Shutdown(context.Background()))
}

func TestDoCleanupIdle(t *testing.T) {
	m := New(&Config{IdleTimeout: time.Hour}, nil)
	defer m.Shutdown(context.Background())

	require.NoError(t, m.Execute(context.Background(), 5, func() error { return nil }))
	assert.Equal(t, 1, m.QueueCount())
	require.Eventually(t, func() bool { return m.QueuedCount(5) == 0 }, time.Second, time.Millisecond)

	m.doCleanup(time.Now())
	assert.Equal(t, 1, m.QueueCount())

	m.doCleanup(time.Now().Add(2 * time.Hour))
	assert.Equal(t, 0, m.QueueCount())

	// 回收后同一 key 仍可使用
	require.NoError(t, m.Execute(context.Background(), 5, func() error { return nil }))
}

// 同一 key 上排队的操作，执行顺序与入队顺序一致
func TestProperty_SubmissionOrder(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30

	properties := gopter.NewProperties(parameters)

	properties.Property("execution order equals submission order", prop.ForAll(
		func(n int) bool {
			m := New(nil, nil)
			defer m.Shutdown(context.Background())

			gate := make(chan struct{})
			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = m.Execute(context.Background(), 1, func() error {
					<-gate
					return nil
				})
			}()
			waitQueued(m, 1, 1)

			var mu sync.Mutex
			var got []int
			for i := 0; i < n; i++ {
				i := i
				wg.Add(1)
				go func() {
					defer wg.Done()
					_ = m.Execute(context.Background(), 1, func() error {
						mu.Lock()
						got = append(got, i)
						mu.Unlock()
						return nil
					})
				}()
				// 等这一条入队后再提交下一条
				waitQueued(m, 1, i+2)
			}
			close(gate)
			wg.Wait()

			if len(got) != n {
				return false
			}
			for i, v := range got {
				if v != i {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 30),
	))

	properties.TestingRun(t)
}

func waitQueued(m *Manager, key int64, want int) {
	deadline := time.Now().Add(2 * time.Second)
	for m.QueuedCount(key) < want && time.Now().Before(deadline) {
		time.Sleep(50 * time.Microsecond)
	}
}
