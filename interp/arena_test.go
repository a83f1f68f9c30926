package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaStackMarkPopDiscipline(t *testing.T) {
	a := newArena(1024)

	mark := a.StackMark()
	h1 := a.AllocStack("one", 8)
	h2 := a.AllocStack("two", 8)
	assert.Equal(t, "one", a.StackGet(h1))
	assert.Equal(t, "two", a.StackGet(h2))

	a.PopStack(mark)
	assert.Equal(t, mark, a.StackMark(), "popping to a mark restores that exact stack top")
}

func TestArenaPopPastTopPanics(t *testing.T) {
	a := newArena(1024)
	a.AllocStack("x", 8)
	mark := a.StackMark()

	assert.Panics(t, func() {
		a.PopStack(mark + 100)
	}, "popping past the recorded top indicates broken scope discipline")
}

func TestArenaHeapAllocAndFree(t *testing.T) {
	a := newArena(1024)
	h := a.AllocMem("payload", 16)
	require.Equal(t, "payload", a.HeapGet(h))
	a.HeapSet(h, "replaced")
	assert.Equal(t, "replaced", a.HeapGet(h))
	a.FreeMem(h)
}
