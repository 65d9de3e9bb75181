package linkedin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanchelmickjr/lets-connect/internal/core/domain"
)

func TestAuthorizationURL(t *testing.T) {
	b := NewOAuthBridge("client-123", "secret-456", "http://localhost:3000/linkedin-callback")

	authURL, state, err := b.AuthorizationURL()
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(authURL, authorizationEndpoint+"?"))

	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	q := parsed.Query()

	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "client-123", q.Get("client_id"))
	assert.Equal(t, "http://localhost:3000/linkedin-callback", q.Get("redirect_uri"))
	assert.Equal(t, "r_liteprofile r_emailaddress w_member_social", q.Get("scope"))
	assert.Equal(t, state, q.Get("state"))

	_, err = uuid.Parse(state)
	assert.NoError(t, err, "state is a fresh UUID")
}

func TestAuthorizationURLStateIsFresh(t *testing.T) {
	b := NewOAuthBridge("id", "secret", "http://localhost/cb")

	_, s1, err := b.AuthorizationURL()
	require.NoError(t, err)
	_, s2, err := b.AuthorizationURL()
	require.NoError(t, err)

	assert.NotEqual(t, s1, s2)
}

func TestExchangeCode(t *testing.T) {
	const tokenPayload = `{"access_token":"tok-abc","expires_in":5183999,"scope":"r_liteprofile"}`

	var gotForm url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(tokenPayload))
	}))
	defer srv.Close()

	b := NewOAuthBridge("client-123", "secret-456", "http://localhost:3000/linkedin-callback")
	b.tokenURL = srv.URL

	payload, err := b.ExchangeCode(context.Background(), "auth-code-789")
	require.NoError(t, err)

	// The provider payload is relayed verbatim.
	assert.JSONEq(t, tokenPayload, string(payload))

	assert.Equal(t, "authorization_code", gotForm.Get("grant_type"))
	assert.Equal(t, "auth-code-789", gotForm.Get("code"))
	assert.Equal(t, "http://localhost:3000/linkedin-callback", gotForm.Get("redirect_uri"))
	assert.Equal(t, "client-123", gotForm.Get("client_id"))
	assert.Equal(t, "secret-456", gotForm.Get("client_secret"))
}

func TestExchangeCodeRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	b := NewOAuthBridge("id", "secret", "http://localhost/cb")
	b.tokenURL = srv.URL

	_, err := b.ExchangeCode(context.Background(), "expired-code")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTokenExchange)
}

func TestExchangeCodeTransportError(t *testing.T) {
	b := NewOAuthBridge("id", "secret", "http://localhost/cb")
	b.tokenURL = "http://127.0.0.1:1"

	_, err := b.ExchangeCode(context.Background(), "code")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrTokenExchange)
}
