package jwt

import (
	"testing"

	"github.com/google/uuid"
)

func TestGenerateAndValidateRoundTrip(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateToken(userID, "admin", "المدير العام", "admin")
	if err != nil {
		t.Fatal(err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user id %s, got %s", userID, claims.UserID)
	}
	if claims.Username != "admin" || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	if _, err := ValidateToken("not.a.token"); err == nil {
		t.Fatal("expected rejection of malformed token")
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "first-secret")
	token, err := GenerateToken(uuid.New(), "u", "n", "user")
	if err != nil {
		t.Fatal(err)
	}

	t.Setenv("JWT_SECRET", "second-secret")
	if _, err := ValidateToken(token); err == nil {
		t.Fatal("expected rejection when the secret changes")
	}
}
