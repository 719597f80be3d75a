package desim

import (
	"container/heap"
)

// EventList is the future-event list: a min-priority queue of pending
// events ordered by (fire_time ascending, sequence_number ascending).
// Sequence numbers give same-time events deterministic FIFO tie-break
// (§4.2).
type EventList interface {
	// Push adds an event to the list. O(log n).
	Push(e *Event)

	// Pop removes and returns the earliest event. O(log n). Pop on an
	// empty list panics; callers must check Empty first.
	Pop() *Event

	// Top returns, without removing, the earliest event.
	Top() *Event

	// Erase removes exactly one element with the given identity. It is a
	// no-op if the event is not currently queued.
	Erase(e *Event)

	// Clear removes every queued event. O(n).
	Clear()

	// Empty reports whether the list holds no events.
	Empty() bool

	// Len returns the number of queued events.
	Len() int
}

// eventHeap is a container/heap.Interface over *Event, ordered by
// (FireTime, seq). It tracks each event's current index so Erase can call
// heap.Remove in O(log n) instead of a linear scan, the same technique the
// teacher's eventHeap (sim/eventqueue.go) stops short of because it never
// needed arbitrary removal — this module's erase-by-identity contract (§4.2)
// requires it.
type eventHeap []*Event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].fireTime != h[j].fireTime {
		return h[i].fireTime < h[j].fireTime
	}

	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].heapIndex = i
	h[j].heapIndex = j
}

func (h *eventHeap) Push(x any) {
	e := x.(*Event)
	e.heapIndex = len(*h)
	*h = append(*h, e)
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.heapIndex = -1
	*h = old[:n-1]

	return e
}

// eventListImpl is the default EventList, a binary heap plus
// index-tracking on each Event (see eventHeap.Swap) to support O(log n)
// erase-by-identity, per the "binary-heap plus a handle→index map" option
// in §9's design notes. Since the index lives on the Event itself rather
// than a side map, no separate map is needed.
type eventListImpl struct {
	heap eventHeap
}

// NewEventList creates an empty EventList.
func NewEventList() EventList {
	l := &eventListImpl{heap: make(eventHeap, 0)}
	heap.Init(&l.heap)

	return l
}

func (l *eventListImpl) Push(e *Event) {
	heap.Push(&l.heap, e)
}

func (l *eventListImpl) Pop() *Event {
	return heap.Pop(&l.heap).(*Event)
}

func (l *eventListImpl) Top() *Event {
	return l.heap[0]
}

func (l *eventListImpl) Erase(e *Event) {
	idx := e.heapIndex
	if idx < 0 || idx >= len(l.heap) || l.heap[idx] != e {
		return
	}

	heap.Remove(&l.heap, idx)
}

func (l *eventListImpl) Clear() {
	l.heap = l.heap[:0]
}

func (l *eventListImpl) Empty() bool {
	return len(l.heap) == 0
}

func (l *eventListImpl) Len() int {
	return len(l.heap)
}
