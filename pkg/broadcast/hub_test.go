package broadcast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHub(t *testing.T) {
	var h Hub[int]
	var got []string

	cancelA := h.Subscribe(func(v int) { got = append(got, "a") })
	h.Subscribe(func(v int) { got = append(got, "b") })
	assert.Equal(t, 2, h.Len())

	h.Emit(1)
	assert.Equal(t, []string{"a", "b"}, got)

	cancelA()
	cancelA()
	got = nil
	h.Emit(2)
	assert.Equal(t, []string{"b"}, got)
	assert.Equal(t, 1, h.Len())
}

func TestHubSubscribeDuringEmit(t *testing.T) {
	var h Hub[int]
	calls := 0
	h.Subscribe(func(int) {
		h.Subscribe(func(int) { calls++ })
	})
	h.Emit(1)
	assert.Equal(t, 0, calls)
	h.Emit(2)
	assert.Equal(t, 1, calls)
}
