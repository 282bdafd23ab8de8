package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Session is the authenticated identity of one request.
type Session struct {
	ID        string
	UserID    uint
	Kind      string
	Username  string
	Roles     []string
	ExpiresAt time.Time
}

func (s *Session) HasRole(roles ...string) bool {
	for _, r := range roles {
		if slices.Contains(s.Roles, r) {
			return true
		}
	}
	return false
}

type Claims struct {
	Kind     string   `json:"kind"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

type SessionConfig struct {
	Secret     string
	TTL        time.Duration
	CookieName string
	Secure     bool
}

// SessionManager issues signed session cookies and reads them back.
type SessionManager struct {
	cfg     SessionConfig
	revoker Revoker
	now     func() time.Time
}

func NewSessionManager(cfg SessionConfig, revoker Revoker) *SessionManager {
	if cfg.TTL <= 0 {
		cfg.TTL = 72 * time.Hour
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "supply_chain_session"
	}
	if revoker == nil {
		revoker = NopRevoker{}
	}
	return &SessionManager{cfg: cfg, revoker: revoker, now: time.Now}
}

func (m *SessionManager) CookieName() string { return m.cfg.CookieName }

// Token signs a new session for user.
func (m *SessionManager) Token(kind string, user User) (string, *Session, error) {
	now := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		UserID:    user.GetID(),
		Kind:      kind,
		Username:  user.GetUsername(),
		Roles:     user.GetRoles(),
		ExpiresAt: now.Add(m.cfg.TTL),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Kind:     s.Kind,
		Username: s.Username,
		Roles:    s.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			Subject:   strconv.FormatUint(uint64(s.UserID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	})
	ss, err := token.SignedString([]byte(m.cfg.Secret))
	if err != nil {
		return "", nil, fmt.Errorf("sign session: %w", err)
	}
	return ss, s, nil
}

// Issue signs a session for user and sets it as an HTTP-only cookie.
func (m *SessionManager) Issue(w http.ResponseWriter, kind string, user User) (*Session, error) {
	ss, s, err := m.Token(kind, user)
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    ss,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return s, nil
}

// Parse validates a signed session and checks it was not revoked.
func (m *SessionManager) Parse(ctx context.Context, tokenString string) (*Session, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(m.cfg.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse session subject: %w", err)
	}
	revoked, err := m.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrSessionRevoked
	}
	s := &Session{
		ID:       claims.ID,
		UserID:   uint(userID),
		Kind:     claims.Kind,
		Username: claims.Username,
		Roles:    claims.Roles,
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

// FromRequest reads the session cookie, falling back to a bearer token.
func (m *SessionManager) FromRequest(r *http.Request) (*Session, error) {
	var raw string
	if c, err := r.Cookie(m.cfg.CookieName); err == nil && c.Value != "" {
		raw = c.Value
	} else if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		raw = strings.TrimPrefix(h, "Bearer ")
	}
	if raw == "" {
		return nil, ErrNoSession
	}
	return m.Parse(r.Context(), raw)
}

// Destroy revokes s (when given) and expires the cookie.
func (m *SessionManager) Destroy(ctx context.Context, w http.ResponseWriter, s *Session) error {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cfg.Secure,
	})
	if s == nil {
		return nil
	}
	ttl := s.ExpiresAt.Sub(m.now())
	if ttl <= 0 {
		return nil
	}
	if err := m.revoker.Revoke(ctx, s.ID, ttl); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("revoke session %s: %w", s.ID, err)
	}
	return nil
}
