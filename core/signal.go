package core

import "sync"

// Signal is a single-writer broadcast channel with current-value replay:
// a new subscriber immediately receives the value held at subscribe time,
// then every subsequent publish. The session manager is the only writer;
// any number of readers may subscribe.
//
// Delivery never blocks the publisher. When a subscriber's buffer is full
// the oldest pending value is dropped so the latest one always lands.
type Signal[T any] struct {
	mu      sync.Mutex
	current T
	subs    map[int]chan T
	nextID  int
	closed  bool
}

const signalBuffer = 16

func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{
		current: initial,
		subs:    make(map[int]chan T),
	}
}

// Current returns the most recently published value.
func (s *Signal[T]) Current() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe registers a new reader. The returned channel carries the
// current value immediately, then every publish until cancel is called or
// the signal is closed.
func (s *Signal[T]) Subscribe() (<-chan T, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan T, signalBuffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	ch <- s.current

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish stores v as the current value and fans it out to all
// subscribers.
func (s *Signal[T]) Publish(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.current = v
	for _, ch := range s.subs {
		send(ch, v)
	}
}

// Close tears the signal down, closing every subscriber channel. Publish
// and Subscribe become no-ops afterwards.
func (s *Signal[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

func send[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
		// Buffer full: evict the oldest pending value, then retry once.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- v:
		default:
		}
	}
}
