package helper

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix      = "session:"
	registrationKeyPrefix = "register_in_progress:"
	noticeKeyPrefix       = "deactivation_notice:"

	// How long a deactivation notice stays retrievable after a forced
	// sign-out. The dashboard reads it once after redirect.
	noticeRetention = 24 * time.Hour
)

// Session is the record stored per signed-in user. The expiry timestamp is
// explicit and checked on every protected-route entry, independently of the
// Redis key TTL.
type Session struct {
	User_id    string    `json:"user_id"`
	Token      string    `json:"token"`
	Created_at time.Time `json:"created_at"`
	Expires_at time.Time `json:"expires_at"`
}

// Expired reports whether the record's own expiry timestamp has passed.
func (s Session) Expired(now time.Time) bool {
	return !s.Expires_at.After(now)
}

// DeactivationNotice is the one-time explanation persisted when a session is
// forcibly invalidated because the account went inactive or unapproved.
type DeactivationNotice struct {
	Reason string    `json:"reason"`
	At     time.Time `json:"at"`
}

// SessionStore keeps session records, registration-in-progress flags and
// deactivation notices in Redis.
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: ttl}
}

func (s *SessionStore) SaveSession(ctx context.Context, userID, token string) error {
	now := time.Now()
	record := Session{
		User_id:    userID,
		Token:      token,
		Created_at: now,
		Expires_at: now.Add(s.ttl),
	}
	b, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, sessionKeyPrefix+userID, b, s.ttl).Err()
}

// SessionValid reports whether a live, unexpired session record exists for
// the user. A record past its own expiry timestamp is removed.
func (s *SessionStore) SessionValid(ctx context.Context, userID string) (bool, error) {
	b, err := s.rdb.Get(ctx, sessionKeyPrefix+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var record Session
	if err := json.Unmarshal(b, &record); err != nil {
		return false, err
	}
	if record.Expired(time.Now()) {
		_ = s.rdb.Del(ctx, sessionKeyPrefix+userID).Err()
		return false, nil
	}
	return true, nil
}

// RevokeSessions removes every session record for the user, forcing
// re-authentication on the next protected request.
func (s *SessionStore) RevokeSessions(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+userID).Err()
}

func (s *SessionStore) SetRegistrationInProgress(ctx context.Context, userID string) error {
	// The flag guards against redirect races during sign-up; it is short
	// lived even if the client never clears it.
	return s.rdb.Set(ctx, registrationKeyPrefix+userID, "1", 10*time.Minute).Err()
}

func (s *SessionStore) ClearRegistrationInProgress(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, registrationKeyPrefix+userID).Err()
}

// RegistrationInProgress reports whether sign-up is still underway for the
// user, in which case the authenticated identity is suppressed.
func (s *SessionStore) RegistrationInProgress(ctx context.Context, userID string) bool {
	n, err := s.rdb.Exists(ctx, registrationKeyPrefix+userID).Result()
	if err != nil {
		return false
	}
	return n > 0
}

func (s *SessionStore) SetDeactivationNotice(ctx context.Context, userID, reason string) error {
	notice := DeactivationNotice{Reason: reason, At: time.Now()}
	b, err := json.Marshal(notice)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, noticeKeyPrefix+userID, b, noticeRetention).Err()
}

// PopDeactivationNotice returns the pending notice for the user and deletes
// it, so the explanation is shown exactly once. Returns nil when no notice is
// pending.
func (s *SessionStore) PopDeactivationNotice(ctx context.Context, userID string) (*DeactivationNotice, error) {
	b, err := s.rdb.GetDel(ctx, noticeKeyPrefix+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var notice DeactivationNotice
	if err := json.Unmarshal(b, &notice); err != nil {
		return nil, err
	}
	return &notice, nil
}
