package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestNormalizeRedirect(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"urn:ietf:wg:oauth:2.0:oob", "http://localhost:6789/oauth2callback"},
		{"", "http://localhost:6789/oauth2callback"},
		{"http://localhost", "http://localhost:6789"},
		{"http://localhost:8080/cb", "http://localhost:6789/cb"},
		{"http://127.0.0.1:6789/cb", "http://127.0.0.1:6789/cb"},
		{"https://example.com/cb", "https://example.com/cb"},
	}
	for _, tt := range tests {
		if got := normalizeRedirect(tt.in); got != tt.want {
			t.Errorf("normalizeRedirect(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTokenRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	path := TokenPath(dir)
	tok := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := saveToken(path, tok); err != nil {
		t.Fatalf("saveToken: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("token file mode = %v, want 0600", perm)
	}

	got, err := tokenFromFile(path)
	if err != nil {
		t.Fatalf("tokenFromFile: %v", err)
	}
	if got.AccessToken != "access" || got.RefreshToken != "refresh" || !got.Expiry.Equal(tok.Expiry) {
		t.Errorf("token = %+v", got)
	}
}

func TestGetConfigMissingSecrets(t *testing.T) {
	if _, err := GetConfig(t.TempDir(), Scopes); err == nil {
		t.Fatal("expected error for missing credentials.json")
	}
}

func TestGetConfigNormalizesRedirect(t *testing.T) {
	dir := t.TempDir()
	secrets := `{"installed":{"client_id":"id","client_secret":"secret",` +
		`"auth_uri":"https://accounts.google.com/o/oauth2/auth",` +
		`"token_uri":"https://oauth2.googleapis.com/token",` +
		`"redirect_uris":["http://localhost"]}}`
	if err := os.WriteFile(filepath.Join(dir, ClientSecretsFile), []byte(secrets), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := GetConfig(dir, Scopes)
	if err != nil {
		t.Fatalf("GetConfig: %v", err)
	}
	if cfg.RedirectURL != "http://localhost:6789" {
		t.Errorf("RedirectURL = %q", cfg.RedirectURL)
	}
	if cfg.ClientID != "id" {
		t.Errorf("ClientID = %q", cfg.ClientID)
	}
}
