package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// CSRF derives per-session tokens for a named intention such as "delete42".
type CSRF struct {
	secret []byte
}

func NewCSRF(secret string) *CSRF {
	return &CSRF{secret: []byte(secret)}
}

func (c *CSRF) Token(sessionID, intention string) string {
	return base64.RawURLEncoding.EncodeToString(c.sum(sessionID, intention))
}

func (c *CSRF) Valid(sessionID, intention, token string) bool {
	if sessionID == "" || token == "" {
		return false
	}
	got, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return false
	}
	return hmac.Equal(got, c.sum(sessionID, intention))
}

func (c *CSRF) sum(sessionID, intention string) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte("csrf\x00"))
	mac.Write([]byte(sessionID))
	mac.Write([]byte{0})
	mac.Write([]byte(intention))
	return mac.Sum(nil)
}
