package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ===== Visitor session cookie =====

const sessionCookieName = "access_session"

type SessionConfig struct {
	HMACSecret   []byte
	CookieName   string
	SecureCookie bool
	TTL          time.Duration
}

// SessionManager issues and verifies the signed cookie naming a visitor's
// page state. The session ID travels as the JWT subject.
type SessionManager struct {
	cfg SessionConfig
	now func() time.Time
}

func NewSessionManager(secret string, secure bool, ttl time.Duration) *SessionManager {
	return &SessionManager{
		cfg: SessionConfig{
			HMACSecret:   []byte(secret),
			CookieName:   sessionCookieName,
			SecureCookie: secure,
			TTL:          ttl,
		},
		now: time.Now,
	}
}

// Ensure returns the session ID from a valid cookie, or starts a new session
// and sets its cookie on w.
func (m *SessionManager) Ensure(w http.ResponseWriter, r *http.Request) (string, error) {
	if c, err := r.Cookie(m.cfg.CookieName); err == nil {
		if sid, err := m.parse(c.Value); err == nil {
			return sid, nil
		}
	}
	sid := uuid.NewString()
	if err := m.mint(w, sid); err != nil {
		return "", err
	}
	return sid, nil
}

func (m *SessionManager) mint(w http.ResponseWriter, sid string) error {
	now := m.now()
	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.TTL)),
		Subject:   sid,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.cfg.HMACSecret)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(m.cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (m *SessionManager) parse(tok string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		return m.cfg.HMACSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil || !tkn.Valid {
		return "", errors.New("invalid session token")
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", errors.New("invalid session id")
	}
	return claims.Subject, nil
}
