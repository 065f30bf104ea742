package main

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/somramnani/hibachi-orders/internal/auth"
	"github.com/somramnani/hibachi-orders/internal/config"
	"github.com/somramnani/hibachi-orders/internal/ledger"
)

const defaultLedgerTimeout = 10 * time.Second

// newLedgerWriter builds the Sheets writer, or returns nil when the ledger is
// not configured. Credential sources are tried in order: access token,
// credentials file, inline service account.
func newLedgerWriter(ctx context.Context, cfg config.LedgerConfig) (ledger.Writer, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultLedgerTimeout
	}
	// oauth2.Transport refreshes tokens without the request context, so the
	// token client carries its own bound.
	base := &http.Client{Timeout: timeout}
	// Token refreshes must keep working while in-flight requests drain.
	ctx = context.WithoutCancel(ctx)

	var ts oauth2.TokenSource
	switch {
	case cfg.AccessToken != "":
		ts = auth.StaticTokenSource(cfg.AccessToken)
	case cfg.CredentialsFile != "":
		sa, err := auth.LoadServiceAccountFile(cfg.CredentialsFile, cfg.TokenURL)
		if err != nil {
			return nil, err
		}
		ts = sa.TokenSource(ctx, base, auth.SheetsScope)
	default:
		sa, err := auth.NewServiceAccount(cfg.ServiceAccountEmail, cfg.PrivateKey, "", cfg.TokenURL)
		if err != nil {
			return nil, err
		}
		ts = sa.TokenSource(ctx, base, auth.SheetsScope)
	}

	hc := &http.Client{
		Transport: &oauth2.Transport{Source: ts, Base: http.DefaultTransport},
		Timeout:   timeout,
	}
	sheets, err := ledger.NewSheets(hc, ledger.SheetsConfig{
		Endpoint:      cfg.Endpoint,
		SpreadsheetID: cfg.SpreadsheetID,
		Range:         cfg.Range,
		WriteMode:     cfg.WriteMode,
	})
	if err != nil {
		return nil, err
	}
	return sheets, nil
}
