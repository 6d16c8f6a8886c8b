package engine

// Event is work handed to the frame-loop thread, typically an asset load
// completion.
type Event func()

// Queue carries events from background goroutines to the frame loop. Post
// may be called from any goroutine; Drain runs on the loop thread only, so
// handlers never run concurrently with a tick.
type Queue struct {
	events chan Event
}

func NewQueue(capacity int) *Queue {
	return &Queue{events: make(chan Event, capacity)}
}

// Post enqueues ev. It blocks while the queue is full, so it must not be
// called from the loop thread itself.
func (q *Queue) Post(ev func()) {
	q.events <- ev
}

// Drain runs the events that were pending when it was called, in the order
// they were posted, and returns how many ran. It never blocks.
func (q *Queue) Drain() int {
	n := len(q.events)
	for i := 0; i < n; i++ {
		(<-q.events)()
	}
	return n
}

// Pending reports how many events are waiting.
func (q *Queue) Pending() int {
	return len(q.events)
}
