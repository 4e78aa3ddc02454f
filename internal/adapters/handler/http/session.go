package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const sessionCookieName = "voter_session"

var errNoSession = errors.New("no valid session")

// Stage is how far a voter has progressed in the current session.
type Stage string

const (
	StageRegistered    Stage = "registered"
	StageAuthenticated Stage = "authenticated"
	StageVoted         Stage = "voted"
)

type Session struct {
	VoterID     uuid.UUID
	Stage       Stage
	Name        string
	DateOfBirth string
}

type sessionClaims struct {
	Stage       Stage  `json:"stage"`
	Name        string `json:"name"`
	DateOfBirth string `json:"dob,omitempty"`
	jwt.RegisteredClaims
}

// SessionManager keeps session state in an HS256 signed cookie.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewSessionManager(secret string, ttl time.Duration, secure bool) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
		now:    time.Now,
	}
}

func (m *SessionManager) Issue(w http.ResponseWriter, s Session) error {
	now := m.now()
	claims := sessionClaims{
		Stage:       s.Stage,
		Name:        s.Name,
		DateOfBirth: s.DateOfBirth,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.VoterID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.ttl.Seconds()),
	})
	return nil
}

func (m *SessionManager) Read(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, errNoSession
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return nil, errNoSession
	}

	voterID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errNoSession
	}

	return &Session{
		VoterID:     voterID,
		Stage:       claims.Stage,
		Name:        claims.Name,
		DateOfBirth: claims.DateOfBirth,
	}, nil
}

func (m *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: "", MaxAge: -1, Path: "/", HttpOnly: true, Secure: m.secure})
}

type contextKey string

const sessionKey contextKey = "session"

func withSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func sessionFrom(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey).(*Session)
	return s, ok && s != nil
}
