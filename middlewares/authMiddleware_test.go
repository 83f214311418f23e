package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AlwaysKim-03/Orderland_Ordering_Backend/helper"
	"github.com/AlwaysKim-03/Orderland_Ordering_Backend/models"
	"github.com/AlwaysKim-03/Orderland_Ordering_Backend/realtime"
)

func issueTestToken(t *testing.T, uid string) string {
	t.Helper()
	helper.SECRET_KEY = "middleware-test-secret"
	token, _, err := helper.GenerateAllTokens("owner@example.com", "Jin", "Kim", "store-1", uid)
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}
	return token
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthentication_NoHeader(t *testing.T) {
	req := httptest.NewRequest("GET", "/orders", nil)
	rec := httptest.NewRecorder()

	Authentication(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuthentication_BadFormat(t *testing.T) {
	req := httptest.NewRequest("GET", "/orders", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()

	Authentication(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuthentication_InvalidToken(t *testing.T) {
	helper.SECRET_KEY = "middleware-test-secret"

	req := httptest.NewRequest("GET", "/orders", nil)
	req.Header.Set("Authorization", "Bearer not.a.real.token")
	rec := httptest.NewRecorder()

	Authentication(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuthentication_ValidTokenPopulatesContext(t *testing.T) {
	token := issueTestToken(t, "user-1")

	var gotUid, gotStore string
	handler := Authentication(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _, _, gotStore, gotUid = GetUserFromContext(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotUid != "user-1" || gotStore != "store-1" {
		t.Errorf("expected uid user-1 and store store-1, got %q %q", gotUid, gotStore)
	}
}

// Gate fakes for the AccountGate middleware.

type gateAccounts struct {
	user models.User
	err  error
}

func (f *gateAccounts) FetchAccount(ctx context.Context, userID string) (models.User, error) {
	return f.user, f.err
}

type gateSessions struct {
	valid       bool
	registering bool
	revoked     []string
}

func (f *gateSessions) SessionValid(ctx context.Context, userID string) (bool, error) {
	return f.valid, nil
}

func (f *gateSessions) RevokeSessions(ctx context.Context, userID string) error {
	f.revoked = append(f.revoked, userID)
	return nil
}

func (f *gateSessions) SetDeactivationNotice(ctx context.Context, userID, reason string) error {
	return nil
}

func (f *gateSessions) RegistrationInProgress(ctx context.Context, userID string) bool {
	return f.registering
}

func approvedUser(uid string) models.User {
	active := true
	return models.User{User_id: uid, Is_active: &active, Approval_status: models.ApprovalApproved}
}

func gateRequest(t *testing.T, uid string) *http.Request {
	t.Helper()
	req := httptest.NewRequest("GET", "/orders", nil)
	ctx := context.WithValue(req.Context(), UidKey, uid)
	return req.WithContext(ctx)
}

func TestAccountGate_ValidAccountPasses(t *testing.T) {
	sessions := &gateSessions{valid: true}
	gate := realtime.NewSessionGate(&gateAccounts{user: approvedUser("user-1")}, sessions, nil, nil)

	rec := httptest.NewRecorder()
	AccountGate(gate)(okHandler()).ServeHTTP(rec, gateRequest(t, "user-1"))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestAccountGate_DeactivatedAccountBlocked(t *testing.T) {
	inactive := false
	user := models.User{User_id: "user-1", Is_active: &inactive, Approval_status: models.ApprovalApproved}
	sessions := &gateSessions{valid: true}
	gate := realtime.NewSessionGate(&gateAccounts{user: user}, sessions, nil, nil)

	rec := httptest.NewRecorder()
	AccountGate(gate)(okHandler()).ServeHTTP(rec, gateRequest(t, "user-1"))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if len(sessions.revoked) != 1 {
		t.Errorf("expected the session to be revoked, got %v", sessions.revoked)
	}
}

func TestAccountGate_ExpiredSessionBlocked(t *testing.T) {
	sessions := &gateSessions{valid: false}
	gate := realtime.NewSessionGate(&gateAccounts{user: approvedUser("user-1")}, sessions, nil, nil)

	rec := httptest.NewRecorder()
	AccountGate(gate)(okHandler()).ServeHTTP(rec, gateRequest(t, "user-1"))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAccountGate_RegistrationInProgressSuppressesIdentity(t *testing.T) {
	sessions := &gateSessions{valid: true, registering: true}
	gate := realtime.NewSessionGate(&gateAccounts{user: approvedUser("user-1")}, sessions, nil, nil)

	rec := httptest.NewRecorder()
	AccountGate(gate)(okHandler()).ServeHTTP(rec, gateRequest(t, "user-1"))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 while registration is in progress, got %d", rec.Code)
	}
}

func TestAccountGate_MissingUid(t *testing.T) {
	sessions := &gateSessions{valid: true}
	gate := realtime.NewSessionGate(&gateAccounts{user: approvedUser("user-1")}, sessions, nil, nil)

	req := httptest.NewRequest("GET", "/orders", nil)
	rec := httptest.NewRecorder()
	AccountGate(gate)(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without a uid in context, got %d", rec.Code)
	}
}
