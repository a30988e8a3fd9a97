package jwt

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewService("secret", time.Hour)

	token, err := svc.GenerateAccessToken(42, "guest")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := svc.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != 42 || claims.Role != "guest" || claims.Type != TokenTypeAccess {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestValidateRejects(t *testing.T) {
	svc := NewService("secret", time.Hour)

	other, _ := NewService("other", time.Hour).GenerateAccessToken(42, "guest")
	if _, err := svc.ValidateAccessToken(other); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}

	expired, _ := NewService("secret", -time.Minute).GenerateAccessToken(42, "guest")
	if _, err := svc.ValidateAccessToken(expired); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}

	zero, _ := svc.GenerateAccessToken(0, "guest")
	if _, err := svc.ValidateAccessToken(zero); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for user 0, got %v", err)
	}

	if _, err := svc.ValidateAccessToken("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
}
