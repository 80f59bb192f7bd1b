// Package stream fans task activity events out to live subscribers (the SSE
// endpoint). Events are published on task mutations and filtered per owner at
// the edge.
package stream

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event types published on task mutations.
const (
	EventTaskCreated   = "task.created"
	EventTaskCompleted = "task.completed"
	EventTaskReopened  = "task.reopened"
	EventTaskDeleted   = "task.deleted"
)

// TaskEvent describes a single task mutation.
type TaskEvent struct {
	Type      string    `json:"type"`
	TaskID    uuid.UUID `json:"task_id"`
	OwnerID   uuid.UUID `json:"-"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	Timestamp time.Time `json:"timestamp"`
}

// Stream fan-outs task events to all active subscribers.
type Stream struct {
	mu   sync.RWMutex
	subs map[int]chan TaskEvent
	next int
}

// New initialises an empty stream.
func New() *Stream {
	return &Stream{subs: make(map[int]chan TaskEvent)}
}

// Subscribe registers a subscriber and returns a channel which will receive
// events. The channel is closed when the provided context ends.
func (s *Stream) Subscribe(ctx context.Context) <-chan TaskEvent {
	ch := make(chan TaskEvent, 16)

	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = ch
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, id)
		close(ch)
		s.mu.Unlock()
	}()

	return ch
}

// Publish fan-outs the event to all subscribers.
func (s *Stream) Publish(evt TaskEvent) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subs {
		select {
		case ch <- evt:
		default:
			// Drop when subscriber is slow to avoid blocking.
		}
	}
}
