package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stayhub/stayhub-api/internal/domain/user"
)

type fakeEmailGuardUserRepo struct {
	byID *user.User
	err  error
}

func (f *fakeEmailGuardUserRepo) GetByID(context.Context, int64) (*user.User, error) {
	return f.byID, f.err
}

func serveGuarded(t *testing.T, repo user.Repository, userID int64) int {
	t.Helper()

	h := RequireVerifiedEmail(repo)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
	if userID != 0 {
		req = req.WithContext(WithUserID(req.Context(), userID))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Code
}

func TestRequireVerifiedEmailBlocksUnverifiedUser(t *testing.T) {
	repo := &fakeEmailGuardUserRepo{byID: &user.User{ID: 7, EmailVerified: false}}
	if code := serveGuarded(t, repo, 7); code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", code)
	}
}

func TestRequireVerifiedEmailBlocksBannedUser(t *testing.T) {
	repo := &fakeEmailGuardUserRepo{byID: &user.User{ID: 7, EmailVerified: true, IsBanned: true}}
	if code := serveGuarded(t, repo, 7); code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", code)
	}
}

func TestRequireVerifiedEmailRejectsUnknownUser(t *testing.T) {
	repo := &fakeEmailGuardUserRepo{}
	if code := serveGuarded(t, repo, 7); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
	if code := serveGuarded(t, repo, 0); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without user id, got %d", code)
	}
}

func TestRequireVerifiedEmailRepositoryFailure(t *testing.T) {
	repo := &fakeEmailGuardUserRepo{err: errors.New("connection refused")}
	if code := serveGuarded(t, repo, 7); code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
}

func TestRequireVerifiedEmailAllowsVerifiedUser(t *testing.T) {
	repo := &fakeEmailGuardUserRepo{byID: &user.User{ID: 7, EmailVerified: true}}
	if code := serveGuarded(t, repo, 7); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
}
