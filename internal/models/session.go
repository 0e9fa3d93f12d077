package models

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

const (
	// MinBytesPerToken is the minimum number of bytes for a session token
	MinBytesPerToken = 32
	// DefaultTokenLength is the default token length (32 bytes = 256 bits)
	DefaultTokenLength = 32
	// SessionDuration is how long an idle session lasts (24 hours)
	SessionDuration = 24 * time.Hour
)

// SessionStore persists SessionState keyed by the hash of the session token.
// Get returns ErrSessionNotFound for unknown or expired keys.
type SessionStore interface {
	Get(ctx context.Context, key string) (*SessionState, error)
	Save(ctx context.Context, key string, state *SessionState) error
	Delete(ctx context.Context, key string) error
}

// Sealer encrypts serialized state before it leaves the process.
// *crypto.Encryptor implements it.
type Sealer interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(ciphertext []byte) ([]byte, error)
}

// NewToken returns a random URL-safe session token.
func NewToken(length int) (string, error) {
	if length < MinBytesPerToken {
		length = MinBytesPerToken
	}
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// HashToken derives the store key from a raw token so stores never see the
// cookie value itself.
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return base64.URLEncoding.EncodeToString(hash[:])
}

// stateCodec turns SessionState into bytes for a store, sealing it when a
// Sealer is configured.
type stateCodec struct {
	sealer Sealer
}

func (c stateCodec) encode(state *SessionState) ([]byte, error) {
	b, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	if c.sealer == nil {
		return b, nil
	}
	sealed, err := c.sealer.Seal(b)
	if err != nil {
		return nil, fmt.Errorf("seal session: %w", err)
	}
	return sealed, nil
}

func (c stateCodec) decode(b []byte) (*SessionState, error) {
	if c.sealer != nil {
		opened, err := c.sealer.Open(b)
		if err != nil {
			return nil, fmt.Errorf("open session: %w", err)
		}
		b = opened
	}
	state := NewSessionState()
	if err := json.Unmarshal(b, state); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return state, nil
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemorySessionStore keeps sessions in process memory. It is the default
// store; sessions do not survive a restart.
type MemorySessionStore struct {
	mu    sync.RWMutex
	data  map[string]memoryEntry
	ttl   time.Duration
	codec stateCodec
	now   func() time.Time
}

func NewMemorySessionStore(ttl time.Duration, sealer Sealer) *MemorySessionStore {
	if ttl <= 0 {
		ttl = SessionDuration
	}
	return &MemorySessionStore{
		data:  make(map[string]memoryEntry),
		ttl:   ttl,
		codec: stateCodec{sealer: sealer},
		now:   time.Now,
	}
}

func (s *MemorySessionStore) Get(_ context.Context, key string) (*SessionState, error) {
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.data, key)
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	return s.codec.decode(e.data)
}

func (s *MemorySessionStore) Save(_ context.Context, key string, state *SessionState) error {
	state.UpdatedAt = s.now().UTC()
	b, err := s.codec.encode(state)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, e := range s.data {
		if now.After(e.expiresAt) {
			delete(s.data, k)
		}
	}
	s.data[key] = memoryEntry{data: b, expiresAt: now.Add(s.ttl)}
	return nil
}

func (s *MemorySessionStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// SetClock replaces the store's time source. Tests use it to move past the TTL.
func (s *MemorySessionStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}
