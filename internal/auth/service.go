package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
)

const (
	KindManager = "manager"
	KindDriver  = "driver"
)

// Service authenticates one kind of user against its provider.
type Service struct {
	kind     string
	provider UserProvider
	hasher   *PasswordHasher
	sessions *SessionManager
}

func NewService(kind string, provider UserProvider, hasher *PasswordHasher, sessions *SessionManager) *Service {
	return &Service{kind: kind, provider: provider, hasher: hasher, sessions: sessions}
}

func (s *Service) Kind() string { return s.kind }

// Authenticate checks email and password. Unknown emails and wrong passwords
// both yield ErrBadCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	user, err := s.provider.LoadUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.hasher.VerifyDummy(password)
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	ok, err := s.hasher.Verify(user.GetPassword(), password)
	if err != nil {
		logrus.WithError(err).WithField("kind", s.kind).Warn("stored password hash is unreadable")
		return nil, ErrBadCredentials
	}
	if !ok {
		return nil, ErrBadCredentials
	}
	if err := s.upgrade(ctx, user, password); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) upgrade(ctx context.Context, user User, password string) error {
	upgrader, ok := s.provider.(PasswordUpgrader)
	if !ok || !s.hasher.NeedsRehash(user.GetPassword()) {
		return nil
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("rehash password: %w", err)
	}
	if err := upgrader.UpgradePassword(ctx, user, hash); err != nil {
		if errors.Is(err, ErrUnsupportedUser) {
			logrus.WithError(err).WithField("kind", s.kind).Error("password upgrade rejected")
		}
		return fmt.Errorf("upgrade password: %w", err)
	}
	return nil
}

// Login establishes a session for user on w.
func (s *Service) Login(w http.ResponseWriter, user User) (*Session, error) {
	return s.sessions.Issue(w, s.kind, user)
}
