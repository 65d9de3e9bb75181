// Package linkedin implements the OAuth bridge against LinkedIn's
// authorization and token endpoints.
package linkedin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alanchelmickjr/lets-connect/internal/core/domain"
)

const (
	authorizationEndpoint = "https://www.linkedin.com/oauth/v2/authorization"
	tokenEndpoint         = "https://www.linkedin.com/oauth/v2/accessToken"

	// Grants: read profile, read email address, create posts.
	scope = "r_liteprofile r_emailaddress w_member_social"

	defaultTimeout = 30 * time.Second
)

// OAuthBridge builds authorization URLs and exchanges authorization codes
// for access tokens. Issued state tokens are returned to the caller but not
// tracked server-side; validating the state on callback is the caller's job.
type OAuthBridge struct {
	clientID     string
	clientSecret string
	redirectURI  string
	authURL      string
	tokenURL     string
	client       *http.Client
}

// NewOAuthBridge creates a bridge bound to LinkedIn's production endpoints.
func NewOAuthBridge(clientID, clientSecret, redirectURI string) *OAuthBridge {
	return &OAuthBridge{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		authURL:      authorizationEndpoint,
		tokenURL:     tokenEndpoint,
		client:       &http.Client{Timeout: defaultTimeout},
	}
}

// AuthorizationURL constructs the provider authorization URL with a freshly
// generated anti-replay state token and returns both.
func (b *OAuthBridge) AuthorizationURL() (string, string, error) {
	state := uuid.NewString()

	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", b.clientID)
	params.Set("redirect_uri", b.redirectURI)
	params.Set("scope", scope)
	params.Set("state", state)

	return b.authURL + "?" + params.Encode(), state, nil
}

// ExchangeCode posts a form-encoded token-exchange request and relays the
// provider's token payload verbatim. A non-success response maps to
// domain.ErrTokenExchange so the handler can answer 400 rather than 500.
func (b *OAuthBridge) ExchangeCode(ctx context.Context, code string) (json.RawMessage, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", b.redirectURI)
	form.Set("client_id", b.clientID)
	form.Set("client_secret", b.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request token endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: token endpoint returned %d: %s",
			domain.ErrTokenExchange, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return json.RawMessage(body), nil
}
