package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/holonet/session"
)

// DefaultBaseURL is the public catalog API
const DefaultBaseURL = "https://swapi-api-bbeth7qriq-rj.a.run.app"

// Client represents a film catalog API client
type Client struct {
	baseURL    string
	store      session.Store
	httpClient *http.Client
	userAgent  string
	headers    http.Header
	logger     zerolog.Logger

	mu          sync.Mutex
	subscribers []subscription
	nextSubID   int
}

// NewClient creates a new catalog client. The session store is shared with the
// caller: tokens stored by Login are visible through it and vice versa.
func NewClient(baseURL string, store session.Store, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("catalog URL is required")
	}
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}

	baseURL = strings.TrimRight(baseURL, "/")
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid catalog URL %q: %w", baseURL, err)
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	httpClient := options.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: options.timeout}
	}

	return &Client{
		baseURL:    baseURL,
		store:      store,
		httpClient: httpClient,
		userAgent:  options.userAgent,
		headers:    options.headers,
		logger:     logger.With().Str("component", "catalog").Logger(),
	}, nil
}

// BaseURL returns the API base URL without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// IsAuthenticated reports whether the session store holds a token
func (c *Client) IsAuthenticated() bool {
	return c.store.IsAuthenticated()
}

// request describes a single API call
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	// public requests never carry the bearer token
	public bool
}

// response is a raw API response
type response struct {
	status int
	body   []byte
}

// send builds and dispatches a request. It only fails on transport errors.
func (c *Client) send(ctx context.Context, r request) (*response, error) {
	endpoint := c.baseURL + r.path
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	for key, values := range c.headers {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Del("Authorization")

	if !r.public {
		if token, ok := c.store.Get(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	c.logger.Debug().
		Str("method", r.method).
		Str("url", endpoint).
		Bool("authenticated", req.Header.Get("Authorization") != "").
		Msg("Making catalog API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("method", r.method).Str("url", endpoint).Msg("Catalog request failed")
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug().
		Str("method", r.method).
		Str("url", endpoint).
		Int("status", resp.StatusCode).
		Int("bytes", len(data)).
		Msg("Received catalog API response")

	return &response{status: resp.StatusCode, body: data}, nil
}

// do sends a request and maps non-2xx statuses onto the error taxonomy
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	resp, err := c.send(ctx, r)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.status == http.StatusUnauthorized:
		if err := c.store.Clear(); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to clear session after 401")
		}
		c.notify(EventUnauthorized)
		return nil, &AuthError{StatusCode: resp.status, Message: errorMessage(resp)}
	case resp.status == http.StatusNotFound:
		return nil, &NotFoundError{Path: r.path}
	case resp.status < 200 || resp.status > 299:
		return nil, &RequestError{StatusCode: resp.status, Message: errorMessage(resp)}
	}

	return resp.body, nil
}

// errorMessage extracts the server's error or detail message, falling back to the status
func errorMessage(resp *response) string {
	var payload map[string]any
	if err := json.Unmarshal(resp.body, &payload); err == nil {
		for _, key := range []string{"error", "detail"} {
			if msg, ok := payload[key].(string); ok && msg != "" {
				return msg
			}
		}
	}
	return fmt.Sprintf("HTTP %d", resp.status)
}

// decode unmarshals a successful response body
func decode[T any](path string, body []byte) (*T, error) {
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return &out, nil
}

// getJSON performs a GET and decodes the response into T
func getJSON[T any](ctx context.Context, c *Client, r request) (*T, error) {
	r.method = http.MethodGet
	body, err := c.do(ctx, r)
	if err != nil {
		return nil, err
	}
	return decode[T](r.path, body)
}

// Login exchanges credentials for a bearer token and stores it in the session
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required")
	}

	const path = "/auth/login"
	resp, err := c.send(ctx, request{
		method: http.MethodPost,
		path:   path,
		body:   LoginRequest{Username: username, Password: password},
		public: true,
	})
	if err != nil {
		return nil, err
	}

	if resp.status < 200 || resp.status > 299 {
		c.logger.Warn().Str("username", username).Int("status", resp.status).Msg("Login rejected")
		return nil, &AuthError{StatusCode: resp.status, Message: errorMessage(resp)}
	}

	login, err := decode[LoginResponse](path, resp.body)
	if err != nil {
		return nil, err
	}
	if login.AccessToken == "" {
		return nil, &DecodeError{Path: path, Err: errors.New("response has no access_token")}
	}

	if err := c.store.Set(login.AccessToken); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	c.logger.Info().Str("username", username).Msg("Logged in")
	return login, nil
}

// Logout clears the session and notifies subscribers. The server is not contacted.
func (c *Client) Logout() error {
	err := c.store.Clear()
	c.notify(EventLogout)
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// HealthCheck probes the liveness endpoint
func (c *Client) HealthCheck(ctx context.Context) (*HealthStatus, error) {
	return getJSON[HealthStatus](ctx, c, request{path: "/health", public: true})
}

// ListFilms retrieves one page of films. Only non-zero parameters are sent.
func (c *Client) ListFilms(ctx context.Context, params ListFilmsParams) (*Page[Film], error) {
	query := url.Values{}
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	if params.Sort != "" {
		query.Set("sort", string(params.Sort))
	}
	if params.Order != "" {
		query.Set("order", string(params.Order))
	}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.PageSize > 0 {
		query.Set("page_size", strconv.Itoa(params.PageSize))
	}

	films, err := getJSON[Page[Film]](ctx, c, request{path: "/v1/films", query: query})
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("page", films.Page).
		Int("count", len(films.Results)).
		Int("total", films.Count).
		Msg("Retrieved films")

	return films, nil
}

// GetFilm retrieves a single film by identifier
func (c *Client) GetFilm(ctx context.Context, id string) (*Film, error) {
	if id == "" {
		return nil, fmt.Errorf("film id is required")
	}
	return getJSON[Film](ctx, c, request{path: "/v1/films/" + url.PathEscape(id)})
}

// GetFilmCharacters retrieves the characters of a film along with a film summary
func (c *Client) GetFilmCharacters(ctx context.Context, id string) (*FilmCharacters, error) {
	if id == "" {
		return nil, fmt.Errorf("film id is required")
	}

	chars, err := getJSON[FilmCharacters](ctx, c, request{path: "/v1/films/" + url.PathEscape(id) + "/characters"})
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("film", chars.Film.Title).
		Int("count", len(chars.Results)).
		Msg("Retrieved film characters")

	return chars, nil
}

// GetFilmDetails fetches a film and its characters concurrently and waits for both
func (c *Client) GetFilmDetails(ctx context.Context, id string) (*FilmDetails, error) {
	var details FilmDetails

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		film, err := c.GetFilm(ctx, id)
		if err != nil {
			return err
		}
		details.Film = film
		return nil
	})

	g.Go(func() error {
		chars, err := c.GetFilmCharacters(ctx, id)
		if err != nil {
			return err
		}
		details.Characters = chars
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &details, nil
}
