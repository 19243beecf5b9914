// Package auth obtains OAuth2 credentials for the Google Calendar publisher.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	// ClientSecretsFile is the OAuth client downloaded from the Google
	// Cloud console, expected in the config directory.
	ClientSecretsFile = "credentials.json"

	// TokenFile caches the access and refresh token next to it.
	TokenFile = "token.json"

	// LocalhostAuthPort receives the OAuth redirect.
	LocalhostAuthPort = "6789"

	authTimeout = 5 * time.Minute
)

// Scopes requested by the publisher.
var Scopes = []string{
	calendar.CalendarEventsScope,
	calendar.CalendarReadonlyScope,
}

// TokenPath returns the token location inside configDir.
func TokenPath(configDir string) string {
	return filepath.Join(configDir, TokenFile)
}

// GetConfig reads the client secrets from configDir.
func GetConfig(configDir string, scopes []string) (*oauth2.Config, error) {
	path := filepath.Join(configDir, ClientSecretsFile)
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file %s: %w", path, err)
	}

	cfg, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	cfg.RedirectURL = normalizeRedirect(cfg.RedirectURL)
	return cfg, nil
}

// normalizeRedirect points localhost and out-of-band redirects at the
// local listener. Anything else is left alone.
func normalizeRedirect(raw string) string {
	if raw == "urn:ietf:wg:oauth:2.0:oob" || raw == "" {
		return fmt.Sprintf("http://localhost:%s/oauth2callback", LocalhostAuthPort)
	}
	u, err := url.Parse(raw)
	if err != nil {
		log.Printf("Warning: could not parse redirect URL %q: %v", raw, err)
		return raw
	}
	host := u.Hostname()
	if host != "localhost" && host != "127.0.0.1" {
		log.Printf("Warning: redirect URL %s is not a localhost callback", raw)
		return raw
	}
	if u.Port() != LocalhostAuthPort {
		u.Host = net.JoinHostPort(host, LocalhostAuthPort)
	}
	return u.String()
}

// GetClient returns an HTTP client carrying a token for scopes. A cached
// token is reused; otherwise the browser flow runs and the result is saved.
func GetClient(ctx context.Context, configDir string, scopes []string) (*http.Client, error) {
	cfg, err := GetConfig(configDir, scopes)
	if err != nil {
		return nil, err
	}

	tokenFile := TokenPath(configDir)
	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		log.Printf("No existing token found at %s. Initiating web authorization flow...", tokenFile)
		tok, err = getTokenFromWeb(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to get token from web: %w", err)
		}
		if err := saveToken(tokenFile, tok); err != nil {
			return nil, err
		}
	}

	src := &savingSource{
		base: cfg.TokenSource(ctx, tok),
		path: tokenFile,
		last: tok,
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, src)), nil
}

// savingSource writes refreshed tokens back to disk.
type savingSource struct {
	base oauth2.TokenSource
	path string
	last *oauth2.Token
}

func (s *savingSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	if s.last == nil || tok.AccessToken != s.last.AccessToken || tok.RefreshToken != s.last.RefreshToken {
		if err := saveToken(s.path, tok); err != nil {
			log.Printf("Warning: could not save refreshed token: %v", err)
		}
		s.last = tok
	}
	return tok, nil
}

// Reauthorize discards any cached token and runs the browser flow again.
func Reauthorize(ctx context.Context, configDir string) error {
	tokenFile := TokenPath(configDir)
	if err := os.Remove(tokenFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("could not delete token file %s: %w", tokenFile, err)
	}
	_, err := GetClient(ctx, configDir, Scopes)
	return err
}

func getTokenFromWeb(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	listener, err := net.Listen("tcp", net.JoinHostPort("localhost", LocalhostAuthPort))
	if err != nil {
		return nil, fmt.Errorf("failed to start listener on port %s: %w", LocalhostAuthPort, err)
	}

	state := fmt.Sprintf("toka-%d", time.Now().UnixNano())
	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("state") != state {
				http.Error(w, "State mismatch", http.StatusBadRequest)
				return
			}
			code := q.Get("code")
			if code == "" {
				http.Error(w, "Authorization code not found", http.StatusBadRequest)
				select {
				case errCh <- errors.New("authorization code not found in redirect URL"):
				default:
				}
				return
			}
			fmt.Fprintf(w, "Authentication successful! You can close this window.")
			select {
			case codeCh <- code:
			default:
			}
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}
	defer server.Close()

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case errCh <- fmt.Errorf("HTTP server error: %w", err):
			default:
			}
		}
	}()

	authURL := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	fmt.Printf("Please open the following URL in your browser to authorize toka:\n%s\n", authURL)
	log.Println("Waiting for authorization code...")

	select {
	case code := <-codeCh:
		exCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		tok, err := cfg.Exchange(exCtx, code)
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve token from Google: %w", err)
		}
		return tok, nil
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(authTimeout):
		return nil, errors.New("authorization timed out, please try again")
	}
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("failed to decode token from file %s: %w", path, err)
	}
	return tok, nil
}

func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("could not create token directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache OAuth token to %s: %w", path, err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("unable to encode OAuth token: %w", err)
	}
	return nil
}

// GetCalendarService creates an authenticated Calendar service using the
// credentials in configDir.
func GetCalendarService(ctx context.Context, configDir string) (*calendar.Service, error) {
	client, err := GetClient(ctx, configDir, Scopes)
	if err != nil {
		return nil, fmt.Errorf("failed to get authenticated client for Calendar API: %w", err)
	}
	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Google Calendar service: %w", err)
	}
	return srv, nil
}
