// Package broadcast 提供按注册顺序回调的订阅列表
package broadcast

import (
	"sort"
	"sync"
)

// Hub fans a value out to its subscribers in registration order.
// Emit does not serialize concurrent callers; owners that need ordered
// delivery hold their own lock around Emit.
// Hub 按注册顺序把值分发给订阅者；并发 Emit 的顺序由调用方自行保证
type Hub[T any] struct {
	mu     sync.Mutex
	subs   map[int]func(T)
	nextID int
}

// Subscribe 注册回调，返回幂等的取消函数
func (h *Hub[T]) Subscribe(fn func(T)) (cancel func()) {
	h.mu.Lock()
	if h.subs == nil {
		h.subs = map[int]func(T){}
	}
	id := h.nextID
	h.nextID++
	h.subs[id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}

// Emit 依次调用当前全部回调，回调中可以订阅或取消订阅
func (h *Hub[T]) Emit(v T) {
	for _, fn := range h.snapshot() {
		fn(v)
	}
}

// Len 当前订阅数
func (h *Hub[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub[T]) snapshot() []func(T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]int, 0, len(h.subs))
	for id := range h.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]func(T), 0, len(ids))
	for _, id := range ids {
		out = append(out, h.subs[id])
	}
	return out
}
