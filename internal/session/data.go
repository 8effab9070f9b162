package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ameyasuite/backend/internal/cache"
)

// ─── Mirrored tier: session:{sid}:{key} ───

// SetSessionData mirrors key into the data cache with DataTTL and records
// it on s. No-op when s has no id. The caller still owns s.Values and must
// Save s.
func (m *Manager) SetSessionData(ctx context.Context, s *Session, key string, value json.RawMessage) error {
	if s == nil || s.ID == "" {
		return nil
	}
	if err := m.check(); err != nil {
		return err
	}
	if err := m.data.Set(ctx, mirrorKey(s.ID, key), string(value), m.cfg.DataTTL); err != nil {
		return fmt.Errorf("session: mirror set: %w", err)
	}
	s.trackMirrored(key)
	return nil
}

// GetSessionData reads the mirrored tier. found=false when s has no id.
func (m *Manager) GetSessionData(ctx context.Context, s *Session, key string) (json.RawMessage, bool, error) {
	if s == nil || s.ID == "" {
		return nil, false, nil
	}
	if err := m.check(); err != nil {
		return nil, false, err
	}
	v, err := m.data.Get(ctx, mirrorKey(s.ID, key))
	if cache.IsNotFound(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("session: mirror get: %w", err)
	}
	return json.RawMessage(v), true, nil
}

func (m *Manager) DeleteSessionData(ctx context.Context, s *Session, key string) error {
	if s == nil || s.ID == "" {
		return nil
	}
	if err := m.check(); err != nil {
		return err
	}
	if err := m.data.Delete(ctx, mirrorKey(s.ID, key)); err != nil {
		return fmt.Errorf("session: mirror delete: %w", err)
	}
	s.untrackMirrored(key)
	return nil
}

// ClearSession deletes every mirrored key recorded on s.
func (m *Manager) ClearSession(ctx context.Context, s *Session) error {
	if s == nil || s.ID == "" {
		return nil
	}
	if err := m.check(); err != nil {
		return err
	}
	var errs []error
	for _, k := range s.MirroredKeys {
		if err := m.data.Delete(ctx, mirrorKey(s.ID, k)); err != nil {
			errs = append(errs, err)
		}
	}
	s.MirroredKeys = nil
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("session: clear: %w", err)
	}
	return nil
}

// ─── Generic cache (sin namespace) ───

// SetCacheData stores value under key. ttl <= 0 uses CacheDefaultTTL. The
// effective ttl is returned.
func (m *Manager) SetCacheData(ctx context.Context, key string, value json.RawMessage, ttl time.Duration) (time.Duration, error) {
	if err := m.check(); err != nil {
		return 0, err
	}
	if ttl <= 0 {
		ttl = m.cfg.CacheDefaultTTL
	}
	if err := m.data.Set(ctx, key, string(value), ttl); err != nil {
		return 0, fmt.Errorf("session: cache set: %w", err)
	}
	return ttl, nil
}

func (m *Manager) GetCacheData(ctx context.Context, key string) (json.RawMessage, bool, error) {
	if err := m.check(); err != nil {
		return nil, false, err
	}
	v, err := m.data.Get(ctx, key)
	if cache.IsNotFound(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("session: cache get: %w", err)
	}
	return json.RawMessage(v), true, nil
}

func (m *Manager) DeleteCacheData(ctx context.Context, key string) error {
	if err := m.check(); err != nil {
		return err
	}
	return m.data.Delete(ctx, key)
}

// ClearAllCache empties the data cache, mirrored entries included. Session
// records live elsewhere and survive.
func (m *Manager) ClearAllCache(ctx context.Context) error {
	if err := m.check(); err != nil {
		return err
	}
	return m.data.Clear(ctx)
}
