package memory

import (
	"time"

	"pillsee-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps anonymous sessions in process memory only. The
// cache TTL is a backstop; the authoritative inactivity timeout is enforced
// lazily by the session manager.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Default expiration of 1 hour, purge sweep every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *entity.Session) {
	r.cache.Set(session.Id, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*entity.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*entity.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
