package campaign

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/brandloop/campaigns/internal/models"
)

// Store is a session-keyed, append-only in-memory history of campaign runs.
// Sessions are created on first use and evicted after sitting idle past the
// configured TTL. Nothing is persisted across restarts.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*sessionHistory
}

type sessionHistory struct {
	campaigns []*models.CampaignResult
	visuals   []models.ImageResult
	lastSeen  time.Time
}

// NewStore creates an empty history store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*sessionHistory)}
}

// session returns the history for key, creating it on first use.
// Caller must hold the mutex.
func (s *Store) session(key string) *sessionHistory {
	h, ok := s.sessions[key]
	if !ok {
		h = &sessionHistory{}
		s.sessions[key] = h
	}
	h.lastSeen = time.Now()
	return h
}

// AppendCampaign appends a finished campaign to the session's history.
func (s *Store) AppendCampaign(key string, result *models.CampaignResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.session(key)
	h.campaigns = append(h.campaigns, result)
}

// AppendVisuals appends generated visuals to the session's visuals list.
func (s *Store) AppendVisuals(key string, results ...models.ImageResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.session(key)
	h.visuals = append(h.visuals, results...)
}

// Campaigns returns a copy of the session's campaign history, oldest first.
func (s *Store) Campaigns(key string) []*models.CampaignResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.sessions[key]
	if !ok {
		return nil
	}
	h.lastSeen = time.Now()
	out := make([]*models.CampaignResult, len(h.campaigns))
	copy(out, h.campaigns)
	return out
}

// Visuals returns a copy of the session's generated-visuals list.
func (s *Store) Visuals(key string) []models.ImageResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.sessions[key]
	if !ok {
		return nil
	}
	h.lastSeen = time.Now()
	out := make([]models.ImageResult, len(h.visuals))
	copy(out, h.visuals)
	return out
}

// Stats returns the session's campaign and visual counts.
func (s *Store) Stats(key string) (campaigns, visuals int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.sessions[key]
	if !ok {
		return 0, 0
	}
	return len(h.campaigns), len(h.visuals)
}

// EvictIdle removes sessions idle longer than maxAge and returns how many
// were removed.
func (s *Store) EvictIdle(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-maxAge)
	evicted := 0
	for key, h := range s.sessions {
		if h.lastSeen.Before(cutoff) {
			delete(s.sessions, key)
			evicted++
		}
	}
	if evicted > 0 {
		log.Info().Int("evicted", evicted).Msg("Idle sessions evicted from history")
	}
	return evicted
}
