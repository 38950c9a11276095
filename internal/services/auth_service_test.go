package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/config"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/domain"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/repo"
)

func newAuthSvc(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(newSvcDB(t), config.JWTConfig{
		Secret:     "test-secret",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 12 * time.Hour,
	})
}

func TestRegister_CreatesCustomerAndIssuesTokens(t *testing.T) {
	s := newAuthSvc(t)
	ctx := context.Background()

	u, pair, err := s.Register(ctx, "Ama Mensah", "  AMA@Example.COM ", "0241234567", "s3cretpass")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "ama@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if u.Role != domain.RoleCustomer {
		t.Fatalf("role = %q, want customer", u.Role)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}
	if pair.ExpiresIn != int64((15 * time.Minute).Seconds()) {
		t.Fatalf("ExpiresIn = %d", pair.ExpiresIn)
	}

	claims, err := s.ParseToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Subject != u.ID || claims.Role != domain.RoleCustomer || claims.TokenType != tokenTypeAccess {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestRegister_RejectsDuplicateAndWeakInput(t *testing.T) {
	s := newAuthSvc(t)
	ctx := context.Background()

	if _, _, err := s.Register(ctx, "A", "a@b.com", "", "s3cretpass"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, _, err := s.Register(ctx, "B", "a@b.com", "", "s3cretpass"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
	if _, _, err := s.Register(ctx, "C", "c@b.com", "", "short"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogin_Flows(t *testing.T) {
	s := newAuthSvc(t)
	ctx := context.Background()
	u, _, err := s.Register(ctx, "Ama", "ama@b.com", "", "s3cretpass")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, _, err := s.Login(ctx, "ama@b.com", "s3cretpass"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, _, err := s.Login(ctx, "ama@b.com", "wrongpass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: err = %v", err)
	}
	if _, _, err := s.Login(ctx, "nobody@b.com", "s3cretpass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: err = %v", err)
	}

	if err := repo.SetUserActive(ctx, s.DB, u.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, _, err := s.Login(ctx, "ama@b.com", "s3cretpass"); !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("disabled: err = %v", err)
	}
}

func TestRefresh_RotatesAndRejectsAccessToken(t *testing.T) {
	s := newAuthSvc(t)
	ctx := context.Background()
	_, pair, err := s.Register(ctx, "Ama", "ama@b.com", "", "s3cretpass")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	fresh, err := s.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if fresh.AccessToken == "" {
		t.Fatal("expected new access token")
	}

	if _, err := s.Refresh(ctx, pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("access token accepted for refresh: err = %v", err)
	}
	if _, err := s.Refresh(ctx, "not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage token: err = %v", err)
	}
}

func TestParseToken_RejectsExpired(t *testing.T) {
	s := newAuthSvc(t)
	s.now = func() time.Time { return time.Now().Add(-24 * time.Hour) }

	ctx := context.Background()
	_, pair, err := s.Register(ctx, "Ama", "ama@b.com", "", "s3cretpass")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := s.ParseToken(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token accepted: err = %v", err)
	}
}

func TestMe(t *testing.T) {
	s := newAuthSvc(t)
	ctx := context.Background()
	u, _, err := s.Register(ctx, "Ama", "ama@b.com", "", "s3cretpass")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	got, err := s.Me(ctx, u.ID)
	if err != nil || got.Email != "ama@b.com" {
		t.Fatalf("Me = %+v, %v", got, err)
	}
	if _, err := s.Me(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("missing user: err = %v", err)
	}
}
