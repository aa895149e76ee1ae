package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	testSecret  = "test-auth-secret-12345"
	testAddress = "4a5b6c7d8e9f0a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6e7f8a9b0c1d2e3f4a5b"
)

func TestVerifyLoginProof_Valid(t *testing.T) {
	ts := time.Now().Add(-30 * time.Second).Unix()
	proof := SignLoginProof(testSecret, testAddress, ts)

	if err := VerifyLoginProof(testSecret, testAddress, ts, proof, 5*time.Minute); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestVerifyLoginProof_Expired(t *testing.T) {
	// timestamp 10 минут назад, maxAge = 5 мин → expired
	ts := time.Now().Add(-10 * time.Minute).Unix()
	proof := SignLoginProof(testSecret, testAddress, ts)

	err := VerifyLoginProof(testSecret, testAddress, ts, proof, 5*time.Minute)
	if err == nil {
		t.Fatal("expected error for expired proof")
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Errorf("expected 'expired' in error, got: %s", err.Error())
	}
}

func TestVerifyLoginProof_FutureTimestamp(t *testing.T) {
	// timestamp 5 минут в будущем → rejected
	ts := time.Now().Add(5 * time.Minute).Unix()
	proof := SignLoginProof(testSecret, testAddress, ts)

	err := VerifyLoginProof(testSecret, testAddress, ts, proof, 5*time.Minute)
	if err == nil {
		t.Fatal("expected error for future timestamp")
	}
	if !strings.Contains(err.Error(), "future") {
		t.Errorf("expected 'future' in error, got: %s", err.Error())
	}
}

func TestVerifyLoginProof_DefaultMaxAge(t *testing.T) {
	// maxAge = 0 → должен использоваться DefaultProofTTL (5 мин)
	ts := time.Now().Add(-10 * time.Second).Unix()
	proof := SignLoginProof(testSecret, testAddress, ts)

	if err := VerifyLoginProof(testSecret, testAddress, ts, proof, 0); err != nil {
		t.Fatalf("expected no error with default maxAge, got: %v", err)
	}
}

func TestVerifyLoginProof_WrongSecret(t *testing.T) {
	ts := time.Now().Unix()
	proof := SignLoginProof("other-secret", testAddress, ts)

	if err := VerifyLoginProof(testSecret, testAddress, ts, proof, 5*time.Minute); err == nil {
		t.Fatal("expected error for proof signed with a different secret")
	}
}

func TestVerifyLoginProof_WrongAddress(t *testing.T) {
	ts := time.Now().Unix()
	proof := SignLoginProof(testSecret, testAddress, ts)

	other := strings.Repeat("0", 64)
	if err := VerifyLoginProof(testSecret, other, ts, proof, 5*time.Minute); err == nil {
		t.Fatal("expected error for proof bound to a different address")
	}
}

func TestVerifyLoginProof_NotHex(t *testing.T) {
	ts := time.Now().Unix()

	if err := VerifyLoginProof(testSecret, testAddress, ts, "not-hex!!", 5*time.Minute); err == nil {
		t.Fatal("expected error for non-hex proof")
	}
}

func TestVerifyLoginProof_EmptySecret(t *testing.T) {
	ts := time.Now().Unix()
	proof := SignLoginProof("", testAddress, ts)

	if err := VerifyLoginProof("", testAddress, ts, proof, 5*time.Minute); err == nil {
		t.Fatal("expected error when auth secret is not configured")
	}
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("jwt-secret", testAddress, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ParseJWT("jwt-secret", token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Address != testAddress {
		t.Errorf("address = %q, want %q", claims.Address, testAddress)
	}
	if claims.Issuer != "brickfund" {
		t.Errorf("issuer = %q, want brickfund", claims.Issuer)
	}
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT("jwt-secret", testAddress, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := ParseJWT("another-secret", token); err == nil {
		t.Fatal("expected error for token signed with a different secret")
	}
}

func TestJWTExpired(t *testing.T) {
	claims := Claims{
		Address: testAddress,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			Issuer:    "brickfund",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("jwt-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := ParseJWT("jwt-secret", token); err == nil {
		t.Fatal("expected error for expired token")
	}
}
