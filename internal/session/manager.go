package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ameyasuite/backend/internal/cache"
	"github.com/ameyasuite/backend/internal/domain/repository"
	"github.com/ameyasuite/backend/internal/observability/logger"
	tokens "github.com/ameyasuite/backend/internal/security/token"
)

// Config holds the session lifetimes.
type Config struct {
	MaxAge          time.Duration // record lifetime, fixed from creation
	DataTTL         time.Duration // mirrored tier entries
	CacheDefaultTTL time.Duration // generic cache when ttl <= 0
}

// Deps separates the records cache from the shared data cache so that
// ClearAllCache never drops session records.
type Deps struct {
	Records cache.Client
	Data    cache.Client
	Config  Config
	Now     func() time.Time
}

// Manager is the session store. Create one per process and Close it on
// shutdown.
type Manager struct {
	records cache.Client
	data    cache.Client
	cfg     Config
	now     func() time.Time
	closed  atomic.Bool
}

func NewManager(deps Deps) *Manager {
	cfg := deps.Config
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 24 * time.Hour
	}
	if cfg.DataTTL <= 0 {
		cfg.DataTTL = time.Hour
	}
	if cfg.CacheDefaultTTL <= 0 {
		cfg.CacheDefaultTTL = 300 * time.Second
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{records: deps.Records, data: deps.Data, cfg: cfg, now: now}
}

func (m *Manager) MaxAge() time.Duration { return m.cfg.MaxAge }

func recordKey(id string) string { return tokens.SHA256Hex(id) }

func mirrorKey(sid, key string) string { return "session:" + sid + ":" + key }

func (m *Manager) check() error {
	if m.closed.Load() {
		return ErrClosed
	}
	return nil
}

// Create issues a new session for user. The snapshot is sanitized again.
func (m *Manager) Create(ctx context.Context, user *repository.PublicUser) (*Session, error) {
	if err := m.check(); err != nil {
		return nil, err
	}
	id, err := tokens.NewSessionID()
	if err != nil {
		return nil, fmt.Errorf("session: generate id: %w", err)
	}
	now := m.now().UTC()
	s := &Session{
		ID:        id,
		Values:    map[string]json.RawMessage{},
		CreatedAt: now,
		ExpiresAt: now.Add(m.cfg.MaxAge),
	}
	s.SetUser(user)

	if err := m.Save(ctx, s); err != nil {
		return nil, err
	}
	logger.From(ctx).Debug("session created",
		logger.Component("session"), logger.SessionID(recordKey(id)), logger.UserID(s.UserID))
	return s, nil
}

// Regenerate destroys old (if any) and issues a fresh session for user.
func (m *Manager) Regenerate(ctx context.Context, old *Session, user *repository.PublicUser) (*Session, error) {
	if old != nil && old.ID != "" {
		if err := m.Destroy(ctx, old); err != nil {
			logger.From(ctx).Warn("session regenerate: destroy old failed",
				logger.Component("session"), logger.Err(err))
		}
	}
	return m.Create(ctx, user)
}

// Load returns ErrNotFound for unknown or expired ids.
func (m *Manager) Load(ctx context.Context, id string) (*Session, error) {
	if err := m.check(); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, ErrNotFound
	}
	raw, err := m.records.Get(ctx, recordKey(id))
	if cache.IsNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session: load: %w", err)
	}

	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		logger.From(ctx).Warn("session record undecodable",
			logger.Component("session"), logger.SessionID(recordKey(id)), logger.Err(err))
		return nil, ErrNotFound
	}
	if !m.now().Before(s.ExpiresAt) {
		return nil, ErrNotFound
	}
	s.ID = id
	return &s, nil
}

// Save writes the record with TTL = ExpiresAt - now.
func (m *Manager) Save(ctx context.Context, s *Session) error {
	if err := m.check(); err != nil {
		return err
	}
	if s == nil || s.ID == "" {
		return errors.New("session: save without id")
	}
	ttl := s.ExpiresAt.Sub(m.now())
	if ttl <= 0 {
		return ErrNotFound
	}
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}
	if err := m.records.Set(ctx, recordKey(s.ID), string(b), ttl); err != nil {
		return fmt.Errorf("session: save: %w", err)
	}
	return nil
}

// Destroy removes the record and every mirrored key. Idempotent.
func (m *Manager) Destroy(ctx context.Context, s *Session) error {
	if s == nil || s.ID == "" {
		return nil
	}
	if err := m.check(); err != nil {
		return err
	}
	errs := []error{m.ClearSession(ctx, s)}
	if err := m.records.Delete(ctx, recordKey(s.ID)); err != nil {
		errs = append(errs, fmt.Errorf("session: destroy: %w", err))
	}
	s.UserID, s.User = "", nil
	return errors.Join(errs...)
}

// Close is the teardown hook: further calls fail with ErrClosed and both
// caches are closed.
func (m *Manager) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}
	var errs []error
	if m.records != nil {
		errs = append(errs, m.records.Close())
	}
	if m.data != nil && m.data != m.records {
		errs = append(errs, m.data.Close())
	}
	return errors.Join(errs...)
}

// Ping checks both caches.
func (m *Manager) Ping(ctx context.Context) error {
	if err := m.check(); err != nil {
		return err
	}
	if err := m.records.Ping(ctx); err != nil {
		return err
	}
	return m.data.Ping(ctx)
}
