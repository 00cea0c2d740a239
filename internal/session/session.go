// Package session scopes one load register to one interactive session.
// Registers are never shared between sessions; the store serializes all
// access so the registers themselves stay lock-free.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"Girder/internal/register"
)

const defaultTTL = 2 * time.Hour

type entry struct {
	reg      *register.Register
	lastSeen time.Time
}

// Store keeps the live registers keyed by session ID.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	log      zerolog.Logger
}

func NewStore(log zerolog.Logger, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Store{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		log:      log,
	}
}

// Open returns the register for the given session ID, creating a fresh
// session when the ID is unknown or empty. The returned ID identifies the
// session the register belongs to.
func (s *Store) Open(id string) (string, *register.Register) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if e, ok := s.sessions[id]; ok {
			e.lastSeen = time.Now()
			return id, e.reg
		}
	}
	id = uuid.NewString()
	s.sessions[id] = &entry{reg: register.New(), lastSeen: time.Now()}
	s.log.Debug().Str("session", id).Msg("session created")
	return id, s.sessions[id].reg
}

// Reset discards the register of a session and starts an empty one.
func (s *Store) Reset(id string) *register.Register {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		e = &entry{}
		s.sessions[id] = e
	}
	e.reg = register.New()
	e.lastSeen = time.Now()
	return e.reg
}

// Do runs fn with the session's register while holding the store lock,
// keeping concurrent requests of the same session serialized.
func (s *Store) Do(id string, fn func(r *register.Register)) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return id, false
	}
	e.lastSeen = time.Now()
	fn(e.reg)
	return id, true
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle past the TTL and returns how many were removed.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.log.Info().Int("removed", removed).Int("live", len(s.sessions)).Msg("session sweep")
	}
	return removed
}

// Run sweeps on the given interval until stop is closed.
func (s *Store) Run(interval time.Duration, stop <-chan struct{}) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case now := <-t.C:
			s.Sweep(now)
		case <-stop:
			return
		}
	}
}
