package engine

import "sync"

// Queue collects intents from any number of producers. Only the frame
// driver drains it.
type Queue struct {
	mu      sync.Mutex
	pending []Intent
}

func (q *Queue) Push(in Intent) {
	q.mu.Lock()
	q.pending = append(q.pending, in)
	q.mu.Unlock()
}

// Drain returns every pending intent in arrival order and empties the
// queue.
func (q *Queue) Drain() []Intent {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil
	}
	out := q.pending
	q.pending = nil
	return out
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
