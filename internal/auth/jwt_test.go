package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testEmail = "orders-bot@hibachi.iam.gserviceaccount.com"

func testKey(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}
	return key, string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
}

func TestAssertionVerifiesWithPublicKey(t *testing.T) {
	key, keyPEM := testKey(t)
	sa, err := NewServiceAccount(testEmail, keyPEM, "kid-1", "https://oauth2.example/token")
	if err != nil {
		t.Fatalf("new service account: %v", err)
	}

	now := time.Now()
	signed, err := sa.Assertion(now, SheetsScope)
	if err != nil {
		t.Fatalf("assertion: %v", err)
	}

	claims := &assertionClaims{}
	token, err := jwt.ParseWithClaims(signed, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodRSA); !ok {
			t.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return &key.PublicKey, nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("parse assertion: %v", err)
	}

	if claims.Issuer != testEmail {
		t.Errorf("issuer: got %q", claims.Issuer)
	}
	if claims.Scope != SheetsScope {
		t.Errorf("scope: got %q", claims.Scope)
	}
	if len(claims.Audience) != 1 || claims.Audience[0] != "https://oauth2.example/token" {
		t.Errorf("audience: got %v", claims.Audience)
	}
	if token.Header["kid"] != "kid-1" {
		t.Errorf("kid: got %v", token.Header["kid"])
	}
	if claims.ExpiresAt.Sub(claims.IssuedAt.Time) != time.Hour {
		t.Errorf("lifetime: got %v", claims.ExpiresAt.Sub(claims.IssuedAt.Time))
	}
}

func TestAssertionRejectedWithOtherKey(t *testing.T) {
	_, keyPEM := testKey(t)
	other, _ := testKey(t)
	sa, err := NewServiceAccount(testEmail, keyPEM, "", "https://oauth2.example/token")
	if err != nil {
		t.Fatalf("new service account: %v", err)
	}

	signed, err := sa.Assertion(time.Now(), SheetsScope)
	if err != nil {
		t.Fatalf("assertion: %v", err)
	}

	_, err = jwt.Parse(signed, func(*jwt.Token) (interface{}, error) { return &other.PublicKey, nil })
	if err == nil {
		t.Fatal("expected verification failure with a different key")
	}
}

func TestNewServiceAccountValidation(t *testing.T) {
	if _, err := NewServiceAccount("", "pem", "", ""); !errors.Is(err, ErrMissingEmail) {
		t.Errorf("missing email: got %v", err)
	}
	if _, err := NewServiceAccount(testEmail, "  ", "", ""); !errors.Is(err, ErrMissingKey) {
		t.Errorf("missing key: got %v", err)
	}
	if _, err := NewServiceAccount(testEmail, "not-a-pem", "", ""); err == nil {
		t.Error("expected error for malformed key")
	}
}

func TestLoadServiceAccountFile(t *testing.T) {
	_, keyPEM := testKey(t)
	data, _ := json.Marshal(serviceAccountFile{
		Type:         "service_account",
		ClientEmail:  testEmail,
		PrivateKey:   keyPEM,
		PrivateKeyID: "abc123",
		TokenURI:     "https://oauth2.googleapis.com/token",
	})
	path := filepath.Join(t.TempDir(), "key.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write key file: %v", err)
	}

	sa, err := LoadServiceAccountFile(path, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sa.Email != testEmail || sa.KeyID != "abc123" || sa.TokenURL != "https://oauth2.googleapis.com/token" {
		t.Errorf("unexpected account: %+v", sa)
	}

	sa, err = LoadServiceAccountFile(path, "http://127.0.0.1/token")
	if err != nil {
		t.Fatalf("load with override: %v", err)
	}
	if sa.TokenURL != "http://127.0.0.1/token" {
		t.Errorf("token URL override ignored: %q", sa.TokenURL)
	}
}

func TestParseServiceAccountJSONRejectsOtherTypes(t *testing.T) {
	_, err := ParseServiceAccountJSON([]byte(`{"type":"authorized_user"}`), "")
	if err == nil {
		t.Fatal("expected error for non service-account credentials")
	}
}

func TestTokenSourceExchangesAndCaches(t *testing.T) {
	key, keyPEM := testKey(t)
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("grant_type") != jwtBearerGrant {
			t.Errorf("grant_type: got %q", r.PostForm.Get("grant_type"))
		}
		if _, err := jwt.Parse(r.PostForm.Get("assertion"), func(*jwt.Token) (interface{}, error) {
			return &key.PublicKey, nil
		}); err != nil {
			t.Errorf("assertion does not verify: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"ya29.test","token_type":"Bearer","expires_in":3600}`))
	}))
	defer srv.Close()

	sa, err := NewServiceAccount(testEmail, keyPEM, "", srv.URL)
	if err != nil {
		t.Fatalf("new service account: %v", err)
	}
	ts := sa.TokenSource(context.Background(), srv.Client(), SheetsScope)

	for i := 0; i < 3; i++ {
		tok, err := ts.Token()
		if err != nil {
			t.Fatalf("token: %v", err)
		}
		if tok.AccessToken != "ya29.test" {
			t.Errorf("access token: got %q", tok.AccessToken)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("token endpoint called %d times, want 1", calls.Load())
	}
}

func TestTokenSourceSurfacesEndpointError(t *testing.T) {
	_, keyPEM := testKey(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid JWT Signature."}`))
	}))
	defer srv.Close()

	sa, err := NewServiceAccount(testEmail, keyPEM, "", srv.URL)
	if err != nil {
		t.Fatalf("new service account: %v", err)
	}

	_, err = sa.TokenSource(context.Background(), srv.Client(), SheetsScope).Token()
	if err == nil {
		t.Fatal("expected token error")
	}
}

func TestStaticTokenSource(t *testing.T) {
	tok, err := StaticTokenSource("ya29.static").Token()
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if tok.AccessToken != "ya29.static" || tok.Type() != "Bearer" {
		t.Errorf("unexpected token: %+v", tok)
	}
}
