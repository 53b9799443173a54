package clock

import "container/heap"

// timerHeap orders pending fake timers by deadline, then by creation order
// so that timers armed for the same instant run FIFO.
type timerHeap []*fakeTimer

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].at.Equal(h[j].at) {
		return h[i].seq < h[j].seq
	}
	return h[i].at.Before(h[j].at)
}
func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*fakeTimer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// heapPush adds t to the heap, maintaining the heap invariant.
func heapPush(h *timerHeap, t *fakeTimer) {
	heap.Push(h, t)
}

// heapPop removes and returns the earliest timer.
// Panics if the heap is empty.
func heapPop(h *timerHeap) *fakeTimer {
	return heap.Pop(h).(*fakeTimer)
}

// heapRemove drops t from the heap. Returns false if t was not pending.
func heapRemove(h *timerHeap, t *fakeTimer) bool {
	if t.index < 0 || t.index >= h.Len() || (*h)[t.index] != t {
		return false
	}
	heap.Remove(h, t.index)
	return true
}
