package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	mgr := NewTokenManager("test-secret", time.Hour)

	token, err := mgr.GenerateToken("user-123")
	if err != nil {
		t.Fatal(err)
	}

	userID, err := mgr.ParseToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if userID != "user-123" {
		t.Errorf("user id=%s want=user-123", userID)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).GenerateToken("user-123")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := NewTokenManager("secret-b", time.Hour).ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}
}

func TestParseTokenExpired(t *testing.T) {
	mgr := NewTokenManager("test-secret", -time.Minute)

	token, err := mgr.GenerateToken("user-123")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := mgr.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}
}

func TestParseTokenGarbage(t *testing.T) {
	mgr := NewTokenManager("test-secret", time.Hour)
	if _, err := mgr.ParseToken("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("Str0ng!pass")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "Str0ng!pass" {
		t.Fatal("hash must differ from plaintext")
	}

	if !VerifyPassword(hash, "Str0ng!pass") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}
