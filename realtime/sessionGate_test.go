package realtime

import (
	"context"
	"errors"
	"testing"

	"github.com/AlwaysKim-03/Orderland_Ordering_Backend/models"
)

func activeApprovedUser(id string) models.User {
	active := true
	return models.User{User_id: id, Is_active: &active, Approval_status: models.ApprovalApproved}
}

type fakeAccounts struct {
	user models.User
	err  error
}

func (f *fakeAccounts) FetchAccount(ctx context.Context, userID string) (models.User, error) {
	return f.user, f.err
}

type fakeSessions struct {
	sessionValid   bool
	sessionErr     error
	registering    bool
	revoked        []string
	notices        map[string]string
	revokeErr      error
	noticeWriteErr error
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessionValid: true, notices: make(map[string]string)}
}

func (f *fakeSessions) SessionValid(ctx context.Context, userID string) (bool, error) {
	return f.sessionValid, f.sessionErr
}

func (f *fakeSessions) RevokeSessions(ctx context.Context, userID string) error {
	f.revoked = append(f.revoked, userID)
	return f.revokeErr
}

func (f *fakeSessions) SetDeactivationNotice(ctx context.Context, userID, reason string) error {
	f.notices[userID] = reason
	return f.noticeWriteErr
}

func (f *fakeSessions) RegistrationInProgress(ctx context.Context, userID string) bool {
	return f.registering
}

func TestEvaluateAccount(t *testing.T) {
	inactive := false
	active := true

	tests := []struct {
		name string
		user models.User
		err  error
		want AccountCheck
	}{
		{"fetch error is indeterminate", models.User{}, errors.New("network down"), AccountIndeterminate},
		{"inactive account is invalid", models.User{Is_active: &inactive, Approval_status: models.ApprovalApproved}, nil, AccountInvalid},
		{"pending approval is invalid", models.User{Is_active: &active, Approval_status: models.ApprovalPending}, nil, AccountInvalid},
		{"rejected approval is invalid", models.User{Is_active: &active, Approval_status: models.ApprovalRejected}, nil, AccountInvalid},
		{"active approved is valid", activeApprovedUser("u1"), nil, AccountValid},
		{"missing active flag is valid", models.User{Approval_status: models.ApprovalApproved}, nil, AccountValid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateAccount(tt.user, tt.err)
			if got.Status != tt.want {
				t.Errorf("expected status %v, got %v (reason %q)", tt.want, got.Status, got.Reason)
			}
		})
	}
}

func TestAuthorize_ValidAccount(t *testing.T) {
	sessions := newFakeSessions()
	gate := NewSessionGate(&fakeAccounts{user: activeApprovedUser("u1")}, sessions, nil, testLogger())

	if err := gate.Authorize(context.Background(), "u1"); err != nil {
		t.Fatalf("expected authorization to succeed, got %v", err)
	}
	if len(sessions.revoked) != 0 {
		t.Errorf("expected no revocations, got %v", sessions.revoked)
	}
}

func TestAuthorize_InactiveAccountRevokes(t *testing.T) {
	inactive := false
	sessions := newFakeSessions()
	user := models.User{User_id: "u1", Is_active: &inactive, Approval_status: models.ApprovalApproved}
	gate := NewSessionGate(&fakeAccounts{user: user}, sessions, nil, testLogger())

	err := gate.Authorize(context.Background(), "u1")
	if !errors.Is(err, ErrAccountInvalid) {
		t.Fatalf("expected ErrAccountInvalid, got %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "u1" {
		t.Errorf("expected u1 revoked, got %v", sessions.revoked)
	}
	if sessions.notices["u1"] == "" {
		t.Error("expected a deactivation notice to be recorded")
	}
}

func TestAuthorize_FetchErrorFailsOpen(t *testing.T) {
	sessions := newFakeSessions()
	gate := NewSessionGate(&fakeAccounts{err: errors.New("timeout")}, sessions, nil, testLogger())

	if err := gate.Authorize(context.Background(), "u1"); err != nil {
		t.Fatalf("expected fail-open on fetch error, got %v", err)
	}
	if len(sessions.revoked) != 0 {
		t.Errorf("expected no revocations on indeterminate check, got %v", sessions.revoked)
	}
}

func TestAuthorize_RegistrationInProgress(t *testing.T) {
	sessions := newFakeSessions()
	sessions.registering = true
	gate := NewSessionGate(&fakeAccounts{user: activeApprovedUser("u1")}, sessions, nil, testLogger())

	err := gate.Authorize(context.Background(), "u1")
	if !errors.Is(err, ErrRegistrationInProgress) {
		t.Fatalf("expected ErrRegistrationInProgress, got %v", err)
	}
}

func TestAuthorize_ExpiredSessionRecord(t *testing.T) {
	sessions := newFakeSessions()
	sessions.sessionValid = false
	gate := NewSessionGate(&fakeAccounts{user: activeApprovedUser("u1")}, sessions, nil, testLogger())

	err := gate.Authorize(context.Background(), "u1")
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestAuthorize_SessionStoreErrorFailsOpen(t *testing.T) {
	sessions := newFakeSessions()
	sessions.sessionErr = errors.New("redis down")
	gate := NewSessionGate(&fakeAccounts{user: activeApprovedUser("u1")}, sessions, nil, testLogger())

	if err := gate.Authorize(context.Background(), "u1"); err != nil {
		t.Fatalf("expected fail-open on session store error, got %v", err)
	}
}

// fakeAccountStream replays a fixed batch of account documents.
type fakeAccountStream struct {
	users []models.User
	idx   int
}

func (s *fakeAccountStream) Next(ctx context.Context) bool { return s.idx < len(s.users) }

func (s *fakeAccountStream) Decode(val interface{}) error {
	ev := val.(*accountEvent)
	ev.FullDocument = s.users[s.idx]
	s.idx++
	return nil
}

func (s *fakeAccountStream) Err() error                      { return nil }
func (s *fakeAccountStream) Close(ctx context.Context) error { return nil }

func TestWatch_RejectionRevokesSession(t *testing.T) {
	active := true
	sessions := newFakeSessions()

	stream := &fakeAccountStream{users: []models.User{
		activeApprovedUser("u1"),
		{User_id: "u1", Is_active: &active, Approval_status: models.ApprovalRejected},
	}}

	gate := NewSessionGate(&fakeAccounts{user: activeApprovedUser("u1")}, sessions,
		func(ctx context.Context) (ChangeStream, error) { return stream, nil }, testLogger())

	gate.Watch(context.Background())

	if len(sessions.revoked) != 1 || sessions.revoked[0] != "u1" {
		t.Fatalf("expected u1 revoked exactly once, got %v", sessions.revoked)
	}
	if sessions.notices["u1"] == "" {
		t.Error("expected a deactivation notice after rejection")
	}
}

func TestWatch_DeactivationRevokesDespitePriorValidUpdates(t *testing.T) {
	active := true
	inactive := false
	sessions := newFakeSessions()

	// Several updates keep the account valid before the flag flips.
	stream := &fakeAccountStream{users: []models.User{
		activeApprovedUser("u1"),
		activeApprovedUser("u1"),
		{User_id: "u1", Is_active: &active, Approval_status: models.ApprovalApproved},
		{User_id: "u1", Is_active: &inactive, Approval_status: models.ApprovalApproved},
	}}

	gate := NewSessionGate(&fakeAccounts{user: activeApprovedUser("u1")}, sessions,
		func(ctx context.Context) (ChangeStream, error) { return stream, nil }, testLogger())

	gate.Watch(context.Background())

	if len(sessions.revoked) != 1 || sessions.revoked[0] != "u1" {
		t.Fatalf("expected exactly one revocation for u1, got %v", sessions.revoked)
	}
}

func TestWatch_SubscriptionErrorLoggedOnly(t *testing.T) {
	sessions := newFakeSessions()
	gate := NewSessionGate(&fakeAccounts{user: activeApprovedUser("u1")}, sessions,
		func(ctx context.Context) (ChangeStream, error) { return nil, errors.New("no oplog") }, testLogger())

	// Must return without panicking or revoking anything.
	gate.Watch(context.Background())

	if len(sessions.revoked) != 0 {
		t.Errorf("expected no revocations, got %v", sessions.revoked)
	}
}
