package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mauv0809/courtside/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestWithToken(token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

func TestJWTProvider_Identify(t *testing.T) {
	p := auth.NewJWTProvider("secret", "courtside")
	token, err := p.Sign("alice", time.Hour)
	require.NoError(t, err)

	id, err := p.Identify(requestWithToken(token))
	require.NoError(t, err)
	assert.Equal(t, "alice", id)
}

func TestJWTProvider_Rejects(t *testing.T) {
	p := auth.NewJWTProvider("secret", "courtside")

	expired, err := p.Sign("alice", -time.Minute)
	require.NoError(t, err)
	otherKey, err := auth.NewJWTProvider("other", "courtside").Sign("alice", time.Hour)
	require.NoError(t, err)
	otherIssuer, err := auth.NewJWTProvider("secret", "someone-else").Sign("alice", time.Hour)
	require.NoError(t, err)
	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Issuer: "courtside"}).SignedString([]byte("secret"))
	require.NoError(t, err)
	wrongAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS384, jwt.RegisteredClaims{Subject: "alice", Issuer: "courtside"}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := map[string]*http.Request{
		"missing header": requestWithToken(""),
		"garbage":        requestWithToken("not-a-token"),
		"expired":        requestWithToken(expired),
		"wrong key":      requestWithToken(otherKey),
		"wrong issuer":   requestWithToken(otherIssuer),
		"no subject":     requestWithToken(noSubject),
		"wrong alg":      requestWithToken(wrongAlg),
	}
	for name, r := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := p.Identify(r)
			assert.ErrorIs(t, err, auth.ErrUnauthenticated)
		})
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Basic abc")
	_, err = p.Identify(r)
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestCallerContext(t *testing.T) {
	_, ok := auth.CallerFromContext(context.Background())
	assert.False(t, ok)

	id, ok := auth.CallerFromContext(auth.WithCaller(context.Background(), "bob"))
	assert.True(t, ok)
	assert.Equal(t, "bob", id)
}
