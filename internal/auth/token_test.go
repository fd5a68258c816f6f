package auth

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/habitflow/habitflow/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	mgr, err := NewTokenManager("test-secret-at-least-32-characters-long")
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	user := &models.User{
		ID:    uuid.New(),
		Email: "alex@example.com",
		Name:  "Alex",
	}

	tokenString, err := mgr.Issue(user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if strings.Count(tokenString, ".") != 2 {
		t.Errorf("token %q is not a compact JWS", tokenString)
	}

	claims, err := mgr.Verify(tokenString)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Sub != user.ID.String() {
		t.Errorf("sub = %q, want %q", claims.Sub, user.ID)
	}
	if claims.Email != user.Email {
		t.Errorf("email = %q, want %q", claims.Email, user.Email)
	}
	if claims.Name != user.Name {
		t.Errorf("name = %q, want %q", claims.Name, user.Name)
	}
	if claims.Iss != Issuer {
		t.Errorf("iss = %q, want %q", claims.Iss, Issuer)
	}
	if claims.Exp <= claims.Iat {
		t.Error("token expires at or before issuance")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	mgr, _ := NewTokenManager("correct-secret-correct-secret-123")
	other, _ := NewTokenManager("different-secret-different-secret")

	tokenString, err := mgr.Issue(&models.User{ID: uuid.New(), Email: "a@b.c"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := other.Verify(tokenString); err == nil {
		t.Error("expected verification to fail with a different secret")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Parallel()

	mgr, _ := NewTokenManager("test-secret-at-least-32-characters-long")
	for _, in := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := mgr.Verify(in); err == nil {
			t.Errorf("Verify(%q) succeeded, want error", in)
		}
	}
}

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	t.Parallel()

	if _, err := NewTokenManager(""); err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestPasswordHashing(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("hunter2hunter2")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter2hunter2" {
		t.Fatal("hash equals plaintext")
	}

	if !CheckPassword("hunter2hunter2", hash) {
		t.Error("correct password rejected")
	}
	if CheckPassword("wrong", hash) {
		t.Error("wrong password accepted")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	t.Parallel()

	if _, err := HashPassword(""); err == nil {
		t.Error("expected error for empty password")
	}
}
