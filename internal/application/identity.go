package application

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-live-inventory/internal/domain/entity"
)

// AuthBackend is the federated auth subsystem.
type AuthBackend interface {
	SignInWithCustomToken(ctx context.Context, token string) (string, error)
	SignInAnonymously(ctx context.Context) (string, error)
}

// IdentityResolver obtains the session's user id once per process. A failed
// sign-in is logged and masked by a locally generated id; there is no retry.
type IdentityResolver struct {
	backend      AuthBackend
	initialToken string
	logger       *logrus.Logger

	newID func() string
	now   func() time.Time

	mu       sync.Mutex
	resolved *entity.Session
}

func NewIdentityResolver(backend AuthBackend, initialToken string, logger *logrus.Logger) *IdentityResolver {
	if logger == nil {
		logger = discardLogger
	}
	return &IdentityResolver{
		backend:      backend,
		initialToken: initialToken,
		logger:       logger,
		newID:        uuid.NewString,
		now:          time.Now,
	}
}

// Resolve returns the process session, signing in on first use. Concurrent
// callers wait for the first resolution and all get the same session.
func (r *IdentityResolver) Resolve(ctx context.Context) entity.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.resolved != nil {
		return *r.resolved
	}

	sess := entity.Session{ResolvedAt: r.now().UTC()}
	uid, err := r.signIn(ctx)
	switch {
	case err != nil:
		r.logger.WithError(err).Error("sign-in failed, using a temporary id")
		sess.UserID = r.newID()
		sess.Anonymous = true
		sess.Fallback = true
	default:
		sess.UserID = uid
		sess.Anonymous = r.initialToken == ""
	}
	r.resolved = &sess
	r.logger.WithFields(logrus.Fields{
		"user_id":   sess.UserID,
		"anonymous": sess.Anonymous,
		"fallback":  sess.Fallback,
	}).Info("user authenticated")
	return sess
}

// Session returns the resolved session without triggering resolution.
func (r *IdentityResolver) Session() (entity.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.resolved == nil {
		return entity.Session{}, false
	}
	return *r.resolved, true
}

func (r *IdentityResolver) signIn(ctx context.Context) (string, error) {
	if r.backend == nil {
		return "", errNoAuthBackend
	}
	var (
		uid string
		err error
	)
	if r.initialToken != "" {
		uid, err = r.backend.SignInWithCustomToken(ctx, r.initialToken)
	} else {
		uid, err = r.backend.SignInAnonymously(ctx)
	}
	if err != nil {
		return "", err
	}
	if uid == "" {
		return "", errEmptyUserID
	}
	return uid, nil
}
