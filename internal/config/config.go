package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/somramnani/hibachi-orders/internal/enum"
)

type Config struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string
	LogFormat      string
	Ledger         LedgerConfig
}

// LedgerConfig addresses the spreadsheet that receives one row per order.
// Leaving SpreadsheetID or every credential source empty disables the ledger.
type LedgerConfig struct {
	SpreadsheetID       string
	Range               string
	ServiceAccountEmail string
	PrivateKey          string // PEM; literal "\n" sequences are expanded
	CredentialsFile     string // service-account JSON key
	AccessToken         string // pre-issued OAuth2 bearer token
	TokenURL            string
	Endpoint            string
	WriteMode           string
	Timeout             time.Duration
	WritesPerMinute     int
}

// Enabled reports whether a ledger target and some credential are configured.
func (l LedgerConfig) Enabled() bool {
	if l.SpreadsheetID == "" {
		return false
	}
	return l.AccessToken != "" || l.CredentialsFile != "" ||
		(l.ServiceAccountEmail != "" && l.PrivateKey != "")
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8081"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		Ledger: LedgerConfig{
			SpreadsheetID:       os.Getenv("GOOGLE_SHEET_ID"),
			Range:               getEnv("GOOGLE_SHEET_RANGE", "Sheet1!A:F"),
			ServiceAccountEmail: os.Getenv("GOOGLE_SERVICE_ACCOUNT_EMAIL"),
			PrivateKey:          strings.ReplaceAll(os.Getenv("GOOGLE_PRIVATE_KEY"), `\n`, "\n"),
			CredentialsFile:     os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
			AccessToken:         os.Getenv("GOOGLE_ACCESS_TOKEN"),
			TokenURL:            getEnv("GOOGLE_TOKEN_URL", "https://oauth2.googleapis.com/token"),
			Endpoint:            getEnv("GOOGLE_SHEETS_ENDPOINT", "https://sheets.googleapis.com"),
			WriteMode:           getEnv("LEDGER_WRITE_MODE", enum.LedgerWriteAppend),
			Timeout:             getDuration("LEDGER_TIMEOUT", 10*time.Second),
			WritesPerMinute:     getInt("LEDGER_WRITES_PER_MINUTE", 60),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
