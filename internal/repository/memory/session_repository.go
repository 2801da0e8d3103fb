package memory

import (
	"sync"
	"time"

	"report-bot-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps one conversation state per chat user. Idle sessions
// fall out after an hour. Handlers for the same user must run one at a time,
// so the repository also hands out a per-user lock.
type SessionRepository struct {
	cache *cache.Cache
	locks sync.Map // userID -> *sync.Mutex
}

func NewSessionRepository() *SessionRepository {
	// Default expiration of 1 hour, expired entries purged every 10 minutes.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session store.Session) {
	r.cache.Set(session.UserID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(userID string) (store.Session, bool) {
	if x, found := r.cache.Get(userID); found {
		return x.(store.Session), true
	}
	return store.Session{}, false
}

// LoadOrCreate returns the stored session or a fresh one for the user.
func (r *SessionRepository) LoadOrCreate(userID string) store.Session {
	if s, found := r.Get(userID); found {
		return s
	}
	return store.New(userID)
}

func (r *SessionRepository) Delete(userID string) {
	r.cache.Delete(userID)
}

// Lock returns the mutex serializing event handling for one user. Events for
// different users stay concurrent.
func (r *SessionRepository) Lock(userID string) *sync.Mutex {
	mu, _ := r.locks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
