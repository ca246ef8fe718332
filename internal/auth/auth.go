// Package auth implements the single-admin credential check and the
// signed session tokens handed out after a successful login.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const issuer = "folio"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Credentials identify the admin. When PasswordHash is set it takes
// precedence over Password and must be a bcrypt hash.
type Credentials struct {
	Username     string
	Password     string
	PasswordHash string
}

// Authenticator checks admin credentials and issues/verifies tokens.
type Authenticator struct {
	creds  Credentials
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// New creates an Authenticator. An empty secret is replaced by a random
// one, which invalidates issued tokens on restart.
func New(creds Credentials, secret string, ttl time.Duration) (*Authenticator, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("auth: generate secret: %w", err)
		}
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Authenticator{creds: creds, secret: key, ttl: ttl, now: time.Now}, nil
}

// Login checks the credentials and returns a signed token and its expiry.
func (a *Authenticator) Login(username, password string) (string, time.Time, error) {
	if !a.CheckCredentials(username, password) {
		return "", time.Time{}, ErrInvalidCredentials
	}
	return a.IssueToken(username)
}

// CheckCredentials reports whether username/password match the admin.
func (a *Authenticator) CheckCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.creds.Username)) == 1
	var passOK bool
	if a.creds.PasswordHash != "" {
		passOK = bcrypt.CompareHashAndPassword([]byte(a.creds.PasswordHash), []byte(password)) == nil
	} else {
		passOK = a.creds.Password != "" &&
			subtle.ConstantTimeCompare([]byte(password), []byte(a.creds.Password)) == 1
	}
	return userOK && passOK
}

// IssueToken signs an HS256 token for subject.
func (a *Authenticator) IssueToken(subject string) (string, time.Time, error) {
	now := a.now()
	expires := now.Add(a.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, expires, nil
}

// VerifyToken validates a token and returns its subject.
func (a *Authenticator) VerifyToken(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject != a.creds.Username {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// HashPassword returns a bcrypt hash suitable for Credentials.PasswordHash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("auth: hash password: %w", err)
	}
	return string(hash), nil
}
