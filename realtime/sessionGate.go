package realtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AlwaysKim-03/Orderland_Ordering_Backend/metrics"
	"github.com/AlwaysKim-03/Orderland_Ordering_Backend/models"
)

// AccountCheck is the outcome of an account validity check. The result is
// deliberately three-state: the caller decides what an indeterminate check
// (a failed document fetch) means instead of the check hardcoding fail-open.
type AccountCheck int

const (
	AccountValid AccountCheck = iota
	AccountInvalid
	AccountIndeterminate
)

type CheckResult struct {
	Status AccountCheck
	Reason string
}

// EvaluateAccount applies the two account gates: is_active must be true and
// approval_status must not be pending or rejected. A fetch error yields an
// indeterminate result.
func EvaluateAccount(user models.User, err error) CheckResult {
	if err != nil {
		return CheckResult{Status: AccountIndeterminate, Reason: err.Error()}
	}
	if user.Is_active != nil && !*user.Is_active {
		return CheckResult{Status: AccountInvalid, Reason: "account deactivated"}
	}
	switch user.Approval_status {
	case models.ApprovalPending:
		return CheckResult{Status: AccountInvalid, Reason: "account approval pending"}
	case models.ApprovalRejected:
		return CheckResult{Status: AccountInvalid, Reason: "account approval rejected"}
	}
	return CheckResult{Status: AccountValid}
}

var (
	ErrRegistrationInProgress = errors.New("registration in progress")
	ErrSessionExpired         = errors.New("session expired")
	ErrAccountInvalid         = errors.New("account invalid")
)

// AccountSource fetches the account document backing a session.
type AccountSource interface {
	FetchAccount(ctx context.Context, userID string) (models.User, error)
}

// SessionState is the slice of the session store the gate drives: validity
// of the stored record, revocation, the one-time deactivation notice and the
// registration-in-progress flag.
type SessionState interface {
	SessionValid(ctx context.Context, userID string) (bool, error)
	RevokeSessions(ctx context.Context, userID string) error
	SetDeactivationNotice(ctx context.Context, userID, reason string) error
	RegistrationInProgress(ctx context.Context, userID string) bool
}

// SessionGate combines token authentication with a live view of the account
// document. Authorize runs on every protected request; Watch re-applies the
// same checks whenever the account document changes, invalidating the
// session immediately when either check fails.
type SessionGate struct {
	accounts AccountSource
	sessions SessionState
	open     StreamOpener
	logger   *slog.Logger
}

func NewSessionGate(accounts AccountSource, sessions SessionState, open StreamOpener, logger *slog.Logger) *SessionGate {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionGate{accounts: accounts, sessions: sessions, open: open, logger: logger}
}

// Authorize decides whether userID currently holds a valid session. A fetch
// error leaves the session valid (fail-open) so a transient read problem
// does not spuriously sign users out; the decision is made here, at the call
// site, on an indeterminate check result.
func (g *SessionGate) Authorize(ctx context.Context, userID string) error {
	if g.sessions.RegistrationInProgress(ctx, userID) {
		return ErrRegistrationInProgress
	}

	ok, err := g.sessions.SessionValid(ctx, userID)
	if err != nil {
		g.logger.Warn("session record check failed, allowing request", "user_id", userID, "error", err)
	} else if !ok {
		return ErrSessionExpired
	}

	user, err := g.accounts.FetchAccount(ctx, userID)
	result := EvaluateAccount(user, err)
	switch result.Status {
	case AccountIndeterminate:
		g.logger.Warn("account check indeterminate, allowing request", "user_id", userID, "reason", result.Reason)
		return nil
	case AccountInvalid:
		g.invalidate(ctx, userID, result.Reason)
		return fmt.Errorf("%w: %s", ErrAccountInvalid, result.Reason)
	}
	return nil
}

func (g *SessionGate) invalidate(ctx context.Context, userID, reason string) {
	if err := g.sessions.RevokeSessions(ctx, userID); err != nil {
		g.logger.Error("session revocation failed", "user_id", userID, "error", err)
	}
	if err := g.sessions.SetDeactivationNotice(ctx, userID, reason); err != nil {
		g.logger.Error("deactivation notice write failed", "user_id", userID, "error", err)
	}
	metrics.SessionsRevoked.Inc()
	g.logger.Info("session invalidated", "user_id", userID, "reason", reason)
}

// Watch follows the live account subscription and re-applies the validity
// checks on every update. Subscription errors are logged only.
func (g *SessionGate) Watch(ctx context.Context) {
	stream, err := g.open(ctx)
	if err != nil {
		g.logger.Error("account stream: subscription failed", "error", err)
		return
	}
	defer stream.Close(context.Background())

	for stream.Next(ctx) {
		var ev accountEvent
		if err := stream.Decode(&ev); err != nil {
			g.logger.Error("account stream: decode failed", "error", err)
			continue
		}
		g.handleAccountUpdate(ctx, ev.FullDocument)
	}
	if err := stream.Err(); err != nil && ctx.Err() == nil {
		g.logger.Error("account stream: subscription error", "error", err)
	}
}

func (g *SessionGate) handleAccountUpdate(ctx context.Context, user models.User) {
	if user.User_id == "" {
		return
	}
	result := EvaluateAccount(user, nil)
	if result.Status != AccountInvalid {
		return
	}
	g.invalidate(ctx, user.User_id, result.Reason)
}

// MongoAccounts reads account documents from the user collection.
type MongoAccounts struct {
	col *mongo.Collection
}

func NewMongoAccounts(col *mongo.Collection) *MongoAccounts {
	return &MongoAccounts{col: col}
}

func (m *MongoAccounts) FetchAccount(ctx context.Context, userID string) (models.User, error) {
	var user models.User
	err := m.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&user)
	return user, err
}
