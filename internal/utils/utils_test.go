package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("password stored in plain text")
	}
	if !VerifyPassword(hash, "s3cret") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestAccessTokenClaims(t *testing.T) {
	const secret = "test-secret"
	access, err := NewAccessToken(secret, 42, "dev@example.com", "USER", 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	tok, err := jwt.Parse(access.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("parse: %v", err)
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("unexpected claims type %T", tok.Claims)
	}
	if sub, _ := claims["sub"].(float64); uint64(sub) != 42 {
		t.Errorf("sub = %v", claims["sub"])
	}
	if claims["email"] != "dev@example.com" {
		t.Errorf("email = %v", claims["email"])
	}
	if claims["role"] != "USER" {
		t.Errorf("role = %v", claims["role"])
	}
}

func TestAccessTokenRejectsWrongSecret(t *testing.T) {
	access, err := NewAccessToken("right-secret", 1, "a@b.c", "USER", 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	tok, err := jwt.Parse(access.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("wrong-secret"), nil
	})
	if err == nil && tok.Valid {
		t.Fatal("token validated under the wrong secret")
	}
}

func TestRefreshTokenHashing(t *testing.T) {
	a, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	b, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	if a.Raw == b.Raw {
		t.Fatal("two refresh tokens collided")
	}
	if len(a.Raw) != 96 {
		t.Errorf("raw token length = %d, want 96", len(a.Raw))
	}
	if HashRefreshRaw(a.Raw) != HashRefreshRaw(a.Raw) {
		t.Error("hash is not deterministic")
	}
	if HashRefreshRaw(a.Raw) == HashRefreshRaw(b.Raw) {
		t.Error("distinct tokens share a hash")
	}
	if HashRefreshRaw(a.Raw) == a.Raw {
		t.Error("hash equals raw token")
	}
}
