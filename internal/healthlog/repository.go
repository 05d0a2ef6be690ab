package healthlog

import (
	"context"
	"sort"
	"sync"

	"github.com/wolfman30/healthguard/internal/risk"
)

const defaultListLimit = 30

// Repository defines the interface for health log storage.
// Create stores the log and its assessment atomically.
type Repository interface {
	Create(ctx context.Context, log *HealthLog, assessment *StoredAssessment) error
	GetByID(ctx context.Context, userID, id string) (*Entry, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*Entry, error)
}

// ProfileSource loads the optional profile used to adjust assessments.
// A nil profile with a nil error means the user has none.
type ProfileSource interface {
	ProfileFor(ctx context.Context, userID string) (*risk.UserProfile, error)
}

// InMemoryRepository keeps logs in process memory; used when DATABASE_URL is unset.
type InMemoryRepository struct {
	mu       sync.RWMutex
	entries  map[string]*Entry
	profiles map[string]*risk.UserProfile
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		entries:  make(map[string]*Entry),
		profiles: make(map[string]*risk.UserProfile),
	}
}

func (r *InMemoryRepository) Create(_ context.Context, log *HealthLog, assessment *StoredAssessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[log.ID] = &Entry{Log: *log, Assessment: *assessment}
	return nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, userID, id string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[id]
	if !ok || entry.Log.UserID != userID {
		return nil, ErrLogNotFound
	}
	cp := *entry
	return &cp, nil
}

func (r *InMemoryRepository) ListByUser(_ context.Context, userID string, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Entry
	for _, entry := range r.entries {
		if entry.Log.UserID == userID {
			cp := *entry
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Log.CreatedAt.After(out[j].Log.CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// SetProfile stores a profile for tests and local development.
func (r *InMemoryRepository) SetProfile(userID string, profile *risk.UserProfile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[userID] = profile
}

func (r *InMemoryRepository) ProfileFor(_ context.Context, userID string) (*risk.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.profiles[userID], nil
}

var (
	_ Repository    = (*InMemoryRepository)(nil)
	_ ProfileSource = (*InMemoryRepository)(nil)
)
