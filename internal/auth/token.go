package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const jwtBearerGrant = "urn:ietf:params:oauth:grant-type:jwt-bearer"

// TokenSource exchanges service-account assertions for access tokens.
// Tokens are cached until shortly before they expire.
func (sa *ServiceAccount) TokenSource(ctx context.Context, hc *http.Client, scopes ...string) oauth2.TokenSource {
	if hc == nil {
		hc = http.DefaultClient
	}
	return oauth2.ReuseTokenSource(nil, &assertionSource{
		ctx:    ctx,
		sa:     sa,
		hc:     hc,
		scopes: scopes,
		now:    time.Now,
	})
}

// StaticTokenSource wraps a pre-issued OAuth2 access token.
func StaticTokenSource(accessToken string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
}

type assertionSource struct {
	ctx    context.Context
	sa     *ServiceAccount
	hc     *http.Client
	scopes []string
	now    func() time.Time
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

func (s *assertionSource) Token() (*oauth2.Token, error) {
	now := s.now()
	assertion, err := s.sa.Assertion(now, s.scopes...)
	if err != nil {
		return nil, fmt.Errorf("sign assertion: %w", err)
	}

	form := url.Values{
		"grant_type": {jwtBearerGrant},
		"assertion":  {assertion},
	}
	req, err := http.NewRequestWithContext(s.ctx, http.MethodPost, s.sa.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read token response: %w", err)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("token endpoint returned %s: %w", resp.Status, err)
	}
	if resp.StatusCode != http.StatusOK || tr.AccessToken == "" {
		msg := tr.Description
		if msg == "" {
			msg = tr.Error
		}
		return nil, fmt.Errorf("token endpoint returned %s: %s", resp.Status, msg)
	}

	tok := &oauth2.Token{AccessToken: tr.AccessToken, TokenType: tr.TokenType}
	if tr.ExpiresIn > 0 {
		tok.Expiry = now.Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	return tok, nil
}
