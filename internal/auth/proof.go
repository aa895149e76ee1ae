package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

const (
	// DefaultProofTTL — максимальный возраст timestamp в login proof.
	// Proof генерируется клиентом непосредственно перед запросом токена,
	// 5 минут покрывают любой разумный сетевой лаг.
	DefaultProofTTL = 5 * time.Minute
)

// VerifyLoginProof validates an HMAC login proof for a ledger address:
// proof = hex(HMAC-SHA256(secret, "<address>:<timestamp>")), timestamp
// in unix seconds.
//
// maxAge — максимально допустимый возраст timestamp. Если <= 0,
// используется DefaultProofTTL.
func VerifyLoginProof(secret, address string, timestamp int64, proofHex string, maxAge time.Duration) error {
	if secret == "" {
		return fmt.Errorf("auth secret is not configured")
	}
	if maxAge <= 0 {
		maxAge = DefaultProofTTL
	}

	// ---- Проверяем свежесть timestamp ----
	issued := time.Unix(timestamp, 0)
	if time.Since(issued) > maxAge {
		return fmt.Errorf("proof expired: timestamp is %s old (max %s)", time.Since(issued).Round(time.Second), maxAge)
	}
	// Защита от timestamp из будущего (clock skew макс. 1 мин)
	if issued.After(time.Now().Add(1 * time.Minute)) {
		return fmt.Errorf("proof timestamp is in the future")
	}

	// ---- Проверяем HMAC-SHA256 подпись ----
	received, err := hex.DecodeString(proofHex)
	if err != nil {
		return fmt.Errorf("proof is not valid hex")
	}

	data := address + ":" + strconv.FormatInt(timestamp, 10)
	expected := hmacSHA256([]byte(secret), []byte(data))
	if !hmac.Equal(received, expected) {
		return fmt.Errorf("invalid proof: integrity check failed")
	}

	return nil
}

// SignLoginProof computes a proof for an address. Used by tests and
// local tooling, production clients hold the secret themselves.
func SignLoginProof(secret, address string, timestamp int64) string {
	data := address + ":" + strconv.FormatInt(timestamp, 10)
	return hex.EncodeToString(hmacSHA256([]byte(secret), []byte(data)))
}

func hmacSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}
