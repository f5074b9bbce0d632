package memory

import (
	"sync"

	"github.com/omarshaarawi/leaguefeed/internal/models"
)

// Repository keeps the last fetched session per chat.
type Repository struct {
	sessions map[int64]models.Session
	mu       sync.RWMutex
}

func NewRepository() *Repository {
	return &Repository{sessions: make(map[int64]models.Session)}
}

func (r *Repository) SaveSession(chatID int64, session models.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[chatID] = session
}

func (r *Repository) GetSession(chatID int64) (models.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[chatID]
	return session, ok
}

// AddFixture appends a manually paired fixture to an existing session.
func (r *Repository) AddFixture(chatID int64, fixture models.FixtureRecord) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[chatID]
	if !ok {
		return false
	}
	session.Fixtures = append(append([]models.FixtureRecord(nil), session.Fixtures...), fixture)
	r.sessions[chatID] = session
	return true
}
