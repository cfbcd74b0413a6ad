package chat

import (
	"sync"

	"finance-companion/internal/domain"
)

// subscriberBuffer is how many events a slow subscriber may lag before events are dropped.
const subscriberBuffer = 16

type conversation struct {
	messages      []domain.Message
	pending       bool
	marketContext *string
	subscribers   map[int]chan Event
}

// Store keeps every live conversation in memory. Messages are only ever appended;
// a reset swaps in a fresh sequence holding just the greeting.
type Store struct {
	mu            sync.RWMutex
	conversations map[string]*conversation
	nextSubID     int
}

func NewStore() *Store {
	return &Store{
		conversations: make(map[string]*conversation),
	}
}

// get must be called with the write lock held.
func (s *Store) get(id string) *conversation {
	c, ok := s.conversations[id]
	if !ok {
		c = &conversation{
			messages:    []domain.Message{greetingMessage()},
			subscribers: make(map[int]chan Event),
		}
		s.conversations[id] = c
	}
	return c
}

// Exists reports whether the conversation has in-memory state.
func (s *Store) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.conversations[id]
	return ok
}

// Seed creates the conversation as the greeting followed by persisted messages.
// It does nothing if the conversation already exists.
func (s *Store) Seed(id string, persisted []domain.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conversations[id]; ok {
		return false
	}
	c := s.get(id)
	c.messages = append(c.messages, persisted...)
	return true
}

// Messages returns a copy of the conversation. Unknown conversations hold only the greeting.
func (s *Store) Messages(id string) []domain.Message {
	s.mu.RLock()
	c, ok := s.conversations[id]
	if !ok {
		s.mu.RUnlock()
		return []domain.Message{greetingMessage()}
	}
	out := make([]domain.Message, len(c.messages))
	copy(out, c.messages)
	s.mu.RUnlock()
	return out
}

func (s *Store) Pending(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.conversations[id]
	return ok && c.pending
}

// BeginTurn appends the user message and marks the conversation pending.
// It returns the history as it was before the append.
func (s *Store) BeginTurn(id string, msg domain.Message) ([]domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.get(id)
	if c.pending {
		return nil, ErrReplyPending
	}
	prior := make([]domain.Message, len(c.messages))
	copy(prior, c.messages)

	c.messages = append(c.messages, msg)
	c.pending = true
	s.publish(c, Event{Type: EventMessageAppended, Message: &msg, Pending: true})
	s.publish(c, Event{Type: EventPendingChanged, Pending: true})
	return prior, nil
}

// CompleteTurn appends the assistant message and clears the pending flag.
func (s *Store) CompleteTurn(id string, msg domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.get(id)
	c.messages = append(c.messages, msg)
	c.pending = false
	s.publish(c, Event{Type: EventMessageAppended, Message: &msg})
	s.publish(c, Event{Type: EventPendingChanged})
}

// Reset replaces the conversation with the greeting. A turn already in flight still completes.
func (s *Store) Reset(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.get(id)
	c.messages = []domain.Message{greetingMessage()}
	s.publish(c, Event{Type: EventCleared, Pending: c.pending})
}

// MarketContext returns the snapshot cached for the conversation, if any.
func (s *Store) MarketContext(id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.conversations[id]
	if !ok || c.marketContext == nil {
		return "", false
	}
	return *c.marketContext, true
}

func (s *Store) SetMarketContext(id, snapshot string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(id).marketContext = &snapshot
}

// Notify pushes a transient notification to subscribers.
func (s *Store) Notify(id string, n Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.get(id)
	s.publish(c, Event{Type: EventNotification, Pending: c.pending, Notification: &n})
}

// Subscribe returns a channel of conversation events and a func that closes it.
func (s *Store) Subscribe(id string) (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.get(id)
	subID := s.nextSubID
	s.nextSubID++
	ch := make(chan Event, subscriberBuffer)
	c.subscribers[subID] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(c.subscribers, subID)
			close(ch)
		})
	}
}

// publish must be called with the write lock held. Full subscribers miss the event.
func (s *Store) publish(c *conversation, ev Event) {
	for _, ch := range c.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}
