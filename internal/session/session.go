// Package session implements the server-side session store: records keyed
// by an opaque id, a mirrored per-session key/value tier and a shared
// generic cache, all on top of cache.Client.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"time"

	"github.com/ameyasuite/backend/internal/domain/repository"
)

var (
	// ErrNotFound is returned by Load for unknown, expired or undecodable ids.
	ErrNotFound = errors.New("session: not found")
	ErrClosed   = errors.New("session: manager closed")
)

// Session is the transport-bound record. It is serialized as JSON into the
// records cache.
type Session struct {
	ID           string                     `json:"-"`
	UserID       string                     `json:"userId,omitempty"`
	User         *repository.PublicUser     `json:"user,omitempty"`
	Values       map[string]json.RawMessage `json:"values,omitempty"`
	MirroredKeys []string                   `json:"mirroredKeys,omitempty"`
	CreatedAt    time.Time                  `json:"createdAt"`
	ExpiresAt    time.Time                  `json:"expiresAt"`
}

// Authenticated reports whether the session carries a user id.
func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != ""
}

// Get reads a transport-tier value.
func (s *Session) Get(key string) (json.RawMessage, bool) {
	if s == nil || s.Values == nil {
		return nil, false
	}
	v, ok := s.Values[key]
	return v, ok
}

// Set writes a transport-tier value. Persist with Manager.Save.
func (s *Session) Set(key string, value json.RawMessage) {
	if s.Values == nil {
		s.Values = make(map[string]json.RawMessage)
	}
	s.Values[key] = value
}

func (s *Session) Delete(key string) {
	delete(s.Values, key)
}

// SetUser replaces the cached user snapshot.
func (s *Session) SetUser(u *repository.PublicUser) {
	s.User = u.Sanitize()
	if u != nil {
		s.UserID = u.ID
	}
}

func (s *Session) trackMirrored(key string) {
	if !slices.Contains(s.MirroredKeys, key) {
		s.MirroredKeys = append(s.MirroredKeys, key)
	}
}

func (s *Session) untrackMirrored(key string) {
	s.MirroredKeys = slices.DeleteFunc(s.MirroredKeys, func(k string) bool { return k == key })
}

type ctxKey struct{}

// WithSession attaches s to ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the request session or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}
