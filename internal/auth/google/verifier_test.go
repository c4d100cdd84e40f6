package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clearpoint/internal/domain"
)

func testServer(t *testing.T, handler http.HandlerFunc) *Verifier {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	v := NewVerifier("client-123")
	v.tokenInfoURL = srv.URL
	return v
}

func TestVerifyIDTokenEscapesToken(t *testing.T) {
	var gotToken string
	v := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.URL.Query().Get("id_token")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"iss": "https://accounts.google.com",
			"aud": "client-123",
			"sub": "sub-1",
			"email": "user@example.com",
			"email_verified": "true",
			"name": "User"
		}`))
	})

	rawToken := "header.pay load/with+odd&chars=.sig"
	claims, err := v.VerifyIDToken(context.Background(), rawToken)
	require.NoError(t, err)
	assert.Equal(t, rawToken, gotToken)
	assert.Equal(t, "sub-1", claims.Subject)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.True(t, claims.EmailVerified)
}

func TestVerifyIDTokenRejectsWrongAudience(t *testing.T) {
	v := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"iss": "https://accounts.google.com",
			"aud": "someone-else",
			"sub": "sub-1",
			"email": "user@example.com",
			"email_verified": "true"
		}`))
	})

	_, err := v.VerifyIDToken(context.Background(), "token")
	assert.ErrorIs(t, err, domain.ErrSocialAuthTokenInvalid)
}

func TestVerifyIDTokenRejectsWrongIssuer(t *testing.T) {
	v := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"iss": "https://evil.example.com",
			"aud": "client-123",
			"sub": "sub-1",
			"email": "user@example.com",
			"email_verified": "true"
		}`))
	})

	_, err := v.VerifyIDToken(context.Background(), "token")
	assert.ErrorIs(t, err, domain.ErrSocialAuthTokenInvalid)
}

func TestVerifyIDTokenRejectsNonOKStatus(t *testing.T) {
	v := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := v.VerifyIDToken(context.Background(), "expired")
	assert.ErrorIs(t, err, domain.ErrSocialAuthTokenInvalid)
}
