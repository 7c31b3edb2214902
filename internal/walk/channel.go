package lazydir

import (
	"context"
	"sync"
)

// queue is the state shared by every handle of one channel.
type queue[T any] struct {
	mu      sync.Mutex
	items   []T
	head    int
	senders int
	closed  bool          // consumer went away
	ready   chan struct{} // wakes a blocked Recv; capacity 1
	done    chan struct{} // closed once no item can arrive any more
	once    sync.Once
}

func (q *queue[T]) finish() {
	q.once.Do(func() { close(q.done) })
}

// signal wakes the consumer without blocking. A pending token is enough
// since Recv re-checks the queue under the lock after every wake up.
func (q *queue[T]) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Sender is one producer handle of an unbounded multi-producer,
// single-consumer channel. The channel is complete once every Sender
// has been closed and the queue is drained.
type Sender[T any] struct {
	q    *queue[T]
	once sync.Once
	done bool
}

// Receiver is the consumer handle of a channel. Recv is safe for
// concurrent use, so a Receiver can also feed a pool of workers.
type Receiver[T any] struct {
	q *queue[T]
}

// NewChannel returns the first producer handle and the consumer handle of
// a new unbounded channel.
func NewChannel[T any]() (*Sender[T], *Receiver[T]) {
	q := &queue[T]{
		senders: 1,
		ready:   make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	return &Sender[T]{q: q}, &Receiver[T]{q: q}
}

// Send enqueues v. It never blocks and fails with ErrClosed once the
// Receiver has been closed or this handle has been closed.
func (s *Sender[T]) Send(v T) error {
	q := s.q
	q.mu.Lock()
	if q.closed || s.done {
		q.mu.Unlock()
		return ErrClosed
	}
	q.items = append(q.items, v)
	q.mu.Unlock()
	q.signal()
	return nil
}

// Clone returns a new producer handle on the same channel. The channel
// stays open until the clone is closed as well. Cloning a closed handle
// returns a closed handle.
func (s *Sender[T]) Clone() *Sender[T] {
	s.q.mu.Lock()
	defer s.q.mu.Unlock()
	if s.done {
		c := &Sender[T]{q: s.q, done: true}
		c.once.Do(func() {})
		return c
	}
	s.q.senders++
	return &Sender[T]{q: s.q}
}

// Close drops this producer handle. Closing twice is a no-op.
func (s *Sender[T]) Close() {
	s.once.Do(func() {
		q := s.q
		q.mu.Lock()
		s.done = true
		q.senders--
		last := q.senders == 0
		q.mu.Unlock()
		if last {
			q.finish()
		}
	})
}

// Recv blocks until an item is available, every Sender is closed and the
// queue is empty, or ctx is done. ok is false once the channel is complete.
func (r *Receiver[T]) Recv(ctx context.Context) (v T, ok bool, err error) {
	q := r.q
	for {
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			return v, false, nil
		}
		if q.head < len(q.items) {
			v = q.items[q.head]
			var zero T
			q.items[q.head] = zero
			q.head++
			more := q.head < len(q.items)
			if !more {
				q.items = q.items[:0]
				q.head = 0
			}
			q.mu.Unlock()
			if more {
				// Pass the wake up on to any other waiting receiver.
				q.signal()
			}
			return v, true, nil
		}
		if q.senders == 0 {
			q.mu.Unlock()
			return v, false, nil
		}
		q.mu.Unlock()

		select {
		case <-q.ready:
		case <-q.done:
		case <-ctx.Done():
			return v, false, ctx.Err()
		}
	}
}

// Len returns the number of buffered items.
func (r *Receiver[T]) Len() int {
	r.q.mu.Lock()
	defer r.q.mu.Unlock()
	return len(r.q.items) - r.q.head
}

// Close drops the consumer handle and discards buffered items. Subsequent
// sends fail with ErrClosed.
func (r *Receiver[T]) Close() {
	q := r.q
	q.mu.Lock()
	q.closed = true
	q.items = nil
	q.head = 0
	q.mu.Unlock()
	q.finish()
}
