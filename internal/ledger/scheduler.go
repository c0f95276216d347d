package ledger

// ─── Deferred Event Scheduler (Min-Heap) ────────────────────────────────────
// Binary min-heap of time-stamped future events.
//
// Operations:
//   Schedule: O(log n) — sift up
//   DrainDue: O(k log n) for k due events — repeated extract-min
//   Len:      O(1)
//
// Ordering key is (due, seq): seq increases monotonically at insertion and
// breaks exact-timestamp ties in FIFO creation order. The scheduler is not
// safe for concurrent use on its own; the Engine serializes all access.

// Event is a scheduled future effect. Value carries the payload the engine
// stored at insertion (a *domain.Transfer or *domain.Payment).
type Event struct {
	Due   int64
	Seq   uint64
	Value any
}

// Scheduler is the deferred-event min-priority-queue.
type Scheduler struct {
	heap []Event
	seq  uint64
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Schedule inserts an event due at the given timestamp. O(log n).
func (s *Scheduler) Schedule(due int64, value any) {
	s.seq++
	s.heap = append(s.heap, Event{Due: due, Seq: s.seq, Value: value})
	s.siftUp(len(s.heap) - 1)
}

// DrainDue pops every event with due <= now, in increasing (due, seq)
// order, and returns them for the engine to apply. Draining is destructive:
// with a non-decreasing now across calls, no event is ever returned twice.
func (s *Scheduler) DrainDue(now int64) []Event {
	var due []Event
	for len(s.heap) > 0 && s.heap[0].Due <= now {
		due = append(due, s.pop())
	}
	return due
}

// Len returns the number of pending events.
func (s *Scheduler) Len() int {
	return len(s.heap)
}

// pop removes and returns the minimum event. O(log n).
func (s *Scheduler) pop() Event {
	top := s.heap[0]
	last := len(s.heap) - 1
	s.heap[0] = s.heap[last]
	s.heap = s.heap[:last]
	if len(s.heap) > 0 {
		s.siftDown(0)
	}
	return top
}

// less returns true if event i fires before event j.
func (s *Scheduler) less(i, j int) bool {
	if s.heap[i].Due != s.heap[j].Due {
		return s.heap[i].Due < s.heap[j].Due
	}
	// Tie-break: earlier insertion first (FIFO within the same timestamp)
	return s.heap[i].Seq < s.heap[j].Seq
}

// siftUp restores the heap property after insertion.
func (s *Scheduler) siftUp(idx int) {
	for idx > 0 {
		parent := (idx - 1) / 2
		if s.less(idx, parent) {
			s.heap[idx], s.heap[parent] = s.heap[parent], s.heap[idx]
			idx = parent
		} else {
			break
		}
	}
}

// siftDown restores the heap property after extraction.
func (s *Scheduler) siftDown(idx int) {
	n := len(s.heap)
	for {
		smallest := idx
		left := 2*idx + 1
		right := 2*idx + 2

		if left < n && s.less(left, smallest) {
			smallest = left
		}
		if right < n && s.less(right, smallest) {
			smallest = right
		}
		if smallest == idx {
			break
		}
		s.heap[idx], s.heap[smallest] = s.heap[smallest], s.heap[idx]
		idx = smallest
	}
}
