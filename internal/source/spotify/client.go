package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"chartsync/internal/source"
)

const (
	DefaultTokenURL   = "https://accounts.spotify.com/api/token"
	DefaultAPIBaseURL = "https://api.spotify.com/v1"

	// Sentinel labels for payload objects that exist but lack a name.
	MissingArtistName = "No Artist Name"
	MissingTrackName  = "No Track Name"

	tokenRefreshLeeway = 30 * time.Second
)

// HTTPDoer abstracts http.Client.Do for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Option customises Client construction.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for token and API calls.
func WithHTTPClient(client HTTPDoer) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTokenURL overrides the token endpoint (used in tests).
func WithTokenURL(tokenURL string) Option {
	return func(c *Client) {
		if tokenURL = strings.TrimSpace(tokenURL); tokenURL != "" {
			c.tokenURL = tokenURL
		}
	}
}

// WithAPIBaseURL overrides the Web API base URL (used in tests).
func WithAPIBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/"); baseURL != "" {
			c.apiBaseURL = baseURL
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		c.userAgent = strings.TrimSpace(agent)
	}
}

// WithClock overrides the time source used for token expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// Client reads one playlist. The access token is cached on the client and
// refreshed when it nears expiry.
type Client struct {
	clientID     string
	clientSecret string
	playlistID   string

	tokenURL   string
	apiBaseURL string
	userAgent  string
	httpClient HTTPDoer
	now        func() time.Time

	tokenMu   sync.Mutex
	token     string
	expiresAt time.Time
}

var _ source.Source = (*Client)(nil)

// New builds a client for playlistID.
func New(clientID, clientSecret, playlistID string, opts ...Option) (*Client, error) {
	clientID = strings.TrimSpace(clientID)
	clientSecret = strings.TrimSpace(clientSecret)
	playlistID = strings.TrimSpace(playlistID)
	if clientID == "" || clientSecret == "" {
		return nil, errors.New("spotify client credentials required")
	}
	if playlistID == "" {
		return nil, errors.New("spotify playlist id required")
	}
	c := &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		playlistID:   playlistID,
		tokenURL:     DefaultTokenURL,
		apiBaseURL:   DefaultAPIBaseURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name identifies the source in logs.
func (c *Client) Name() string { return "spotify" }

// Open requests a token if needed and fetches the first page of playlist
// tracks. Later pages are fetched lazily by the iterator.
func (c *Client) Open(ctx context.Context) (source.Iterator, error) {
	first := c.apiBaseURL + "/playlists/" + url.PathEscape(c.playlistID) + "/tracks"
	page, err := c.fetchPage(ctx, first)
	if err != nil {
		return nil, err
	}
	it := &iterator{ctx: ctx, client: c}
	it.load(page)
	return it, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	if c.token != "" && c.now().Add(tokenRefreshLeeway).Before(c.expiresAt) {
		return c.token, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", source.Unavailable(c.Name(), "token request", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.applyHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", source.Unavailable(c.Name(), "token request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", source.Malformed(c.Name(), "token endpoint returned %d: %s", resp.StatusCode, readSnippet(resp.Body))
	}
	var payload tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", source.Unavailable(c.Name(), "decode token", err)
	}
	if strings.TrimSpace(payload.AccessToken) == "" {
		return "", source.Malformed(c.Name(), "token endpoint returned no access_token")
	}

	c.token = payload.AccessToken
	c.expiresAt = c.now().Add(time.Duration(payload.ExpiresIn) * time.Second)
	return c.token, nil
}

func (c *Client) fetchPage(ctx context.Context, pageURL string) (*tracksPage, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, source.Unavailable(c.Name(), "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	c.applyHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, source.Unavailable(c.Name(), "fetch tracks", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, source.Malformed(c.Name(), "playlist tracks returned %d: %s", resp.StatusCode, readSnippet(resp.Body))
	}
	var page tracksPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, source.Unavailable(c.Name(), "decode tracks", err)
	}
	return &page, nil
}

func (c *Client) applyHeaders(req *http.Request) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
}

func readSnippet(r io.Reader) string {
	body, _ := io.ReadAll(io.LimitReader(r, 512))
	return strings.TrimSpace(string(body))
}
