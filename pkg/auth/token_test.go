package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sooyeonjun/giftpool-backend/pkg/config"
)

var jwtCfg = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "giftpool",
	ExpirationMinutes: 60,
}

func TestMintAndParseAccessToken(t *testing.T) {
	userID := uuid.New()
	signed, err := MintAccessToken(jwtCfg, time.Now(), AccessTokenPayload{
		UserID:   userID,
		Nickname: "soyeon",
	})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	claims, err := ParseAccessToken(jwtCfg, signed)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("user id mismatch: %s", claims.UserID)
	}
	if claims.Nickname != "soyeon" {
		t.Fatalf("nickname mismatch: %s", claims.Nickname)
	}
	if claims.ID == "" {
		t.Fatal("expected a generated jti")
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	signed, err := MintAccessToken(jwtCfg, time.Now().Add(-2*time.Hour), AccessTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}
	if _, err := ParseAccessToken(jwtCfg, signed); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	signed, err := MintAccessToken(jwtCfg, time.Now(), AccessTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}
	other := jwtCfg
	other.Secret = "different"
	if _, err := ParseAccessToken(other, signed); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestMintAccessTokenValidation(t *testing.T) {
	if _, err := MintAccessToken(config.JWTConfig{}, time.Now(), AccessTokenPayload{UserID: uuid.New()}); err == nil {
		t.Fatal("expected error for missing secret")
	}
	if _, err := MintAccessToken(jwtCfg, time.Now(), AccessTokenPayload{}); err == nil {
		t.Fatal("expected error for nil user id")
	}
}
