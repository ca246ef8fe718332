package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestAuth(t *testing.T, creds Credentials) *Authenticator {
	t.Helper()
	a, err := New(creds, "test-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestCheckCredentials_Plain(t *testing.T) {
	a := newTestAuth(t, Credentials{Username: "admin", Password: "pw"})
	if !a.CheckCredentials("admin", "pw") {
		t.Error("valid credentials rejected")
	}
	for _, c := range [][2]string{{"admin", "nope"}, {"root", "pw"}, {"", ""}} {
		if a.CheckCredentials(c[0], c[1]) {
			t.Errorf("credentials %v accepted", c)
		}
	}
}

func TestCheckCredentials_EmptyPasswordNeverMatches(t *testing.T) {
	a := newTestAuth(t, Credentials{Username: "admin"})
	if a.CheckCredentials("admin", "") {
		t.Error("empty configured password must not match")
	}
}

func TestCheckCredentials_Bcrypt(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatal(err)
	}
	a := newTestAuth(t, Credentials{Username: "admin", Password: "ignored", PasswordHash: hash})
	if !a.CheckCredentials("admin", "s3cret") {
		t.Error("bcrypt password rejected")
	}
	if a.CheckCredentials("admin", "ignored") {
		t.Error("plain password must be ignored when a hash is set")
	}
}

func TestLoginAndVerify(t *testing.T) {
	a := newTestAuth(t, Credentials{Username: "admin", Password: "pw"})
	token, exp, err := a.Login("admin", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !exp.After(time.Now()) {
		t.Errorf("expiry %v not in the future", exp)
	}
	sub, err := a.VerifyToken(token)
	if err != nil || sub != "admin" {
		t.Errorf("VerifyToken = %q, %v", sub, err)
	}

	if _, _, err := a.Login("admin", "bad"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("bad login err = %v", err)
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	a := newTestAuth(t, Credentials{Username: "admin", Password: "pw"})
	a.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := a.IssueToken("admin")
	if err != nil {
		t.Fatal(err)
	}
	a.now = time.Now
	if _, err := a.VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token err = %v", err)
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	a := newTestAuth(t, Credentials{Username: "admin", Password: "pw"})
	other, _ := New(Credentials{Username: "admin", Password: "pw"}, "other-secret", time.Hour)
	token, _, _ := other.IssueToken("admin")
	if _, err := a.VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("foreign token err = %v", err)
	}
}

func TestVerifyToken_RejectsNoneAlg(t *testing.T) {
	a := newTestAuth(t, Credentials{Username: "admin", Password: "pw"})
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "admin",
		Issuer:    issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.VerifyToken(unsigned); err == nil {
		t.Error("alg=none token accepted")
	}
}

func TestNew_RandomSecretWhenEmpty(t *testing.T) {
	a, err := New(Credentials{Username: "admin", Password: "pw"}, "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(a.secret) != 32 {
		t.Errorf("secret len = %d", len(a.secret))
	}
	if a.ttl != 12*time.Hour {
		t.Errorf("ttl = %v", a.ttl)
	}
}
