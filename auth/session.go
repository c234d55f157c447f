package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

var ErrSessionExpired = errors.New("session expired")

var timeNow = time.Now

// Session is an authenticated editing session. It is created at login,
// discarded at logout or expiry, and passed explicitly to every Quiz API
// client.
type Session struct {
	ID      string    `json:"id"`
	Access  string    `json:"-"`
	Refresh string    `json:"-"`
	Name    string    `json:"name"`
	Expires time.Time `json:"expires"`
}

type accessClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// NewSession builds a session around an access/refresh pair. Claims are read
// without verification: the Auth Service signed the token, and the Quiz API
// checks it on every call.
func NewSession(access, refresh string) (*Session, error) {
	claims := &accessClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(access, claims); err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return nil, errors.New("parse access token: missing exp claim")
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:      id.String(),
		Access:  access,
		Refresh: refresh,
		Name:    claims.Name,
		Expires: claims.ExpiresAt.Time,
	}, nil
}

func (s *Session) Expired() bool {
	return !timeNow().Before(s.Expires)
}

// Token implements oauth2.TokenSource.
func (s *Session) Token() (*oauth2.Token, error) {
	if s == nil || s.Access == "" || s.Expired() {
		return nil, ErrSessionExpired
	}
	return &oauth2.Token{
		AccessToken:  s.Access,
		TokenType:    "Bearer",
		RefreshToken: s.Refresh,
		Expiry:       s.Expires,
	}, nil
}
