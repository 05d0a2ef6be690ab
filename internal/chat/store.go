package chat

import (
	"context"
	"sort"
	"sync"
)

const defaultHistoryLimit = 20

// Store persists chat turns.
type Store interface {
	Append(ctx context.Context, messages ...Message) error
	// ListConversation returns the last limit messages of the user's
	// conversation, oldest first.
	ListConversation(ctx context.Context, userID, conversationID string, limit int) ([]Message, error)
}

// InMemoryStore keeps conversations in process memory; used when DATABASE_URL is unset.
type InMemoryStore struct {
	mu       sync.RWMutex
	messages map[string][]Message
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{messages: make(map[string][]Message)}
}

func (s *InMemoryStore) Append(_ context.Context, messages ...Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range messages {
		s.messages[m.ConversationID] = append(s.messages[m.ConversationID], m)
	}
	return nil
}

func (s *InMemoryStore) ListConversation(_ context.Context, userID, conversationID string, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Message
	for _, m := range s.messages[conversationID] {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

var _ Store = (*InMemoryStore)(nil)
