package jwt

import (
	"errors"
	"testing"
	"time"
)

func TestUserTokenRoundTrip(t *testing.T) {
	service := NewJWTService()

	token := service.GenerateTokenUser("user-123", "admin")
	if token == "" {
		t.Fatalf("empty token")
	}

	userID, role, err := service.GetUserIDByToken(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if userID != "user-123" || role != "admin" {
		t.Fatalf("got (%q, %q), want (user-123, admin)", userID, role)
	}
}

func TestUserTokenGarbageRejected(t *testing.T) {
	service := NewJWTService()

	if _, _, err := service.GetUserIDByToken("garbage"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("got %v, want ErrTokenInvalid", err)
	}
}

func TestResetTokenRoundTrip(t *testing.T) {
	service := NewJWTService()

	token, err := service.GenerateTokenResetPassword(map[string]any{"user_id": "user-123"}, 30*time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := service.ValidateTokenResetPassword(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims["user_id"] != "user-123" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestResetTokenExpired(t *testing.T) {
	service := NewJWTService()

	token, err := service.GenerateTokenResetPassword(map[string]any{"user_id": "user-123"}, -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := service.ValidateTokenResetPassword(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("got %v, want ErrTokenExpired", err)
	}
}
