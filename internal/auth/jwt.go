package auth

import (
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SheetsScope grants read/write access to spreadsheets.
const SheetsScope = "https://www.googleapis.com/auth/spreadsheets"

// assertionLifetime is the maximum Google accepts for a JWT bearer assertion.
const assertionLifetime = time.Hour

var (
	ErrMissingEmail = errors.New("service account email is required")
	ErrMissingKey   = errors.New("service account private key is required")
)

// ServiceAccount signs JWT bearer assertions (RFC 7523) for Google APIs.
type ServiceAccount struct {
	Email    string
	KeyID    string
	TokenURL string
	key      *rsa.PrivateKey
}

type assertionClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

type serviceAccountFile struct {
	Type         string `json:"type"`
	ClientEmail  string `json:"client_email"`
	PrivateKey   string `json:"private_key"`
	PrivateKeyID string `json:"private_key_id"`
	TokenURI     string `json:"token_uri"`
}

// NewServiceAccount parses a PEM private key (PKCS#1 or PKCS#8).
func NewServiceAccount(email, keyPEM, keyID, tokenURL string) (*ServiceAccount, error) {
	if email == "" {
		return nil, ErrMissingEmail
	}
	if strings.TrimSpace(keyPEM) == "" {
		return nil, ErrMissingKey
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(keyPEM))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return &ServiceAccount{Email: email, KeyID: keyID, TokenURL: tokenURL, key: key}, nil
}

// ParseServiceAccountJSON reads a Google service-account key file. A
// non-empty tokenURL overrides the file's token_uri.
func ParseServiceAccountJSON(data []byte, tokenURL string) (*ServiceAccount, error) {
	var f serviceAccountFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse service account json: %w", err)
	}
	if f.Type != "" && f.Type != "service_account" {
		return nil, fmt.Errorf("unsupported credentials type %q", f.Type)
	}
	if tokenURL == "" {
		tokenURL = f.TokenURI
	}
	return NewServiceAccount(f.ClientEmail, f.PrivateKey, f.PrivateKeyID, tokenURL)
}

// LoadServiceAccountFile is ParseServiceAccountJSON over a file on disk.
func LoadServiceAccountFile(path, tokenURL string) (*ServiceAccount, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	return ParseServiceAccountJSON(data, tokenURL)
}

// Assertion returns a signed RS256 assertion for the token endpoint.
func (sa *ServiceAccount) Assertion(now time.Time, scopes ...string) (string, error) {
	claims := assertionClaims{
		Scope: strings.Join(scopes, " "),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sa.Email,
			Audience:  jwt.ClaimStrings{sa.TokenURL},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(assertionLifetime)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if sa.KeyID != "" {
		token.Header["kid"] = sa.KeyID
	}
	return token.SignedString(sa.key)
}
