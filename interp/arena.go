package interp

// Arena is the single contiguous byte region backing every heap-free guest
// allocation: ground truth is original_source/Heap.c. The stack grows up
// from the bottom via a bump allocator that supports only LIFO pop, and the
// heap grows down from the top, carved up by a bucketed freelist for small
// sizes plus one big freelist for everything else.
//
// picoc-go keeps the stack-up / heap-down vocabulary, but the two regions
// are separate Go slices that grow on demand: the size passed to newArena
// is recorded and never enforced, so the stack and the heap do not share a
// budget, never collide, and neither AllocStack nor AllocMem ever reports
// running out of memory.
const (
	freelistBuckets   = 8
	splitMemThreshold = 16
	arenaAlign        = 8
)

type freeBlock struct {
	next *freeBlock
	size int
}

// Arena is a logical re-expression of Heap.c's flat byte array: rather than
// reinterpret raw bytes as C structs (which Go cannot do without unsafe
// aliasing rules getting in the way) it tracks stack/heap boundaries over a
// slice of interface{} backed "cells", letting Value/AnyValue data live as
// normal Go values while still being individually freed/popped according to
// the same bump/freelist discipline as the original.
type Arena struct {
	size int

	// stack region: bump allocated upward, only ever popped LIFO.
	stack    []arenaCell
	stackTop int

	// heap region: allocated via buckets/big-freelist, grows logically
	// downward (HeapBottom in the original); we track it as a separate
	// slab so the stack-grows-up / heap-grows-down picture is faithful
	// without needing one real contiguous byte array in a GC'd language.
	heap       []arenaCell
	heapBottom int // next unclaimed heap cell, counting from 0 upward internally

	buckets [freelistBuckets]*freeBlock
	big     *freeBlock

	frames []int // saved stackTop values, one per HeapPushStackFrame
}

// arenaCell is one allocation unit: a handle to arbitrary payload plus its
// logical byte size, so HeapAllocMem's bucket/threshold math still applies
// even though the payload itself is a Go value, not raw bytes.
type arenaCell struct {
	used    bool
	size    int
	payload interface{}
}

func newArena(size int) *Arena {
	if size <= 0 {
		size = 64 * 1024
	}
	return &Arena{
		size: size,
		heap: make([]arenaCell, 0, size/arenaAlign),
	}
}

// AllocStack allocates sz bytes worth of stack space (bump allocator) and
// returns a handle usable with StackSet/StackGet. Mirrors HeapAllocStack:
// it never fails with an error return, since picoc-go's arena is
// effectively unbounded (backed by the Go heap) -- the original's OOM path
// existed to guard a genuinely fixed-size C buffer.
func (a *Arena) AllocStack(payload interface{}, sz int) int {
	a.stack = append(a.stack, arenaCell{used: true, size: sz, payload: payload})
	h := a.stackTop
	a.stackTop = len(a.stack)
	return h
}

// PopStack rewinds the stack to a previously observed top, the Go analogue
// of HeapPopStack's address-order assertion: it panics only when mark lies
// above the current stack length; any mark at or below the top is accepted
// and discards every allocation made after it.
func (a *Arena) PopStack(mark int) {
	if mark > len(a.stack) {
		panic("interp: arena stack pop past top")
	}
	a.stack = a.stack[:mark]
	a.stackTop = mark
}

// StackMark returns the current stack top, used to save/restore scope
// boundaries the way HeapPushStackFrame/HeapPopStackFrame save addresses.
func (a *Arena) StackMark() int { return a.stackTop }

func (a *Arena) StackGet(h int) interface{} {
	if h < 0 || h >= len(a.stack) {
		return nil
	}
	return a.stack[h].payload
}

func (a *Arena) StackSet(h int, v interface{}) {
	a.stack[h].payload = v
}

// PushFrame / PopFrame mirror HeapPushStackFrame/HeapPopStackFrame: a
// function call saves the current stack mark so every local the callee
// allocates is released in one shot on return.
func (a *Arena) PushFrame() {
	a.frames = append(a.frames, a.stackTop)
}

func (a *Arena) PopFrame() {
	n := len(a.frames)
	mark := a.frames[n-1]
	a.frames = a.frames[:n-1]
	a.PopStack(mark)
}

func bucket(sz int) int {
	b := sz / splitMemThreshold
	if b >= freelistBuckets {
		b = freelistBuckets - 1
	}
	return b
}

// AllocMem allocates sz bytes on the heap (bucketed-freelist region),
// mirroring HeapAllocMem: small sizes are served from a per-bucket
// freelist, everything else from the single "big" freelist, falling back
// to extending the heap when neither has a fit.
func (a *Arena) AllocMem(payload interface{}, sz int) int {
	if sz < splitMemThreshold {
		b := bucket(sz)
		if fb := a.buckets[b]; fb != nil && fb.size >= sz {
			a.buckets[b] = fb.next
			return a.commitHeapCell(fb.size, payload)
		}
	} else {
		for link := &a.big; *link != nil; link = &(*link).next {
			if fb := *link; fb.size >= sz {
				*link = fb.next
				return a.commitHeapCell(fb.size, payload)
			}
		}
	}
	a.heap = append(a.heap, arenaCell{used: true, size: sz, payload: payload})
	a.heapBottom = len(a.heap)
	return len(a.heap) - 1
}

func (a *Arena) commitHeapCell(sz int, payload interface{}) int {
	a.heap = append(a.heap, arenaCell{used: true, size: sz, payload: payload})
	return len(a.heap) - 1
}

// FreeMem releases a heap handle back to the appropriate freelist, mirroring
// HeapFreeMem's bucket-or-big dispatch (the "adjacent to heap_bottom"
// immediate-reclaim fast path in the original has no equivalent here since
// the Go garbage collector already reclaims payload memory). Only the freed
// size goes onto the freelist: a later AllocMem that takes it still gets a
// newly appended cell from commitHeapCell, so a freed handle is never
// handed out again.
func (a *Arena) FreeMem(h int) {
	if h < 0 || h >= len(a.heap) || !a.heap[h].used {
		return
	}
	sz := a.heap[h].size
	a.heap[h] = arenaCell{}
	if sz < splitMemThreshold {
		b := bucket(sz)
		a.buckets[b] = &freeBlock{next: a.buckets[b], size: sz}
	} else {
		a.big = &freeBlock{next: a.big, size: sz}
	}
}

func (a *Arena) HeapGet(h int) interface{} {
	if h < 0 || h >= len(a.heap) {
		return nil
	}
	return a.heap[h].payload
}

func (a *Arena) HeapSet(h int, v interface{}) {
	a.heap[h].payload = v
}
