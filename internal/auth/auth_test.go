package auth

import (
	"testing"
	"time"
)

const secret = "test-secret"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "secret1" {
		t.Fatal("hash equals plaintext")
	}
	if !CheckPassword(hash, "secret1") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "secret2") {
		t.Error("wrong password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tok, err := MakeToken("uid-1", "a@x.com", "patient", secret, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("make token: %v", err)
	}

	claims, err := ParseToken(tok, secret)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Subject != "uid-1" {
		t.Errorf("subject: got %s", claims.Subject)
	}
	if claims.Email != "a@x.com" {
		t.Errorf("email: got %s", claims.Email)
	}
	if claims.Role != "patient" {
		t.Errorf("role: got %s", claims.Role)
	}

	// expiry is ~7 days out
	diff := time.Until(claims.ExpiresAt.Time)
	if diff < 167*time.Hour || diff > 169*time.Hour {
		t.Errorf("expected ~168h expiry, got %v", diff)
	}
}

func TestParseTokenRejectsBadInput(t *testing.T) {
	tok, _ := MakeToken("uid", "a@x.com", "patient", secret, time.Hour)

	if _, err := ParseToken(tok, "wrong-secret"); err == nil {
		t.Error("expected error for wrong secret")
	}
	if _, err := ParseToken("not.a.token", secret); err == nil {
		t.Error("expected error for garbage token")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	tok, _ := MakeToken("uid", "a@x.com", "patient", secret, -time.Minute)
	if _, err := ParseToken(tok, secret); err == nil {
		t.Error("expected error for expired token")
	}
}
