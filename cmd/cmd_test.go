package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/holonet/catalog"
	"github.com/s0up4200/holonet/config"
	"github.com/s0up4200/holonet/session"
)

func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()

	const token = "cli-token"
	mux := http.NewServeMux()

	reply := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(v)
	}
	authorized := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+token {
				reply(w, http.StatusUnauthorized, map[string]string{"error": "invalid_token"})
				return
			}
			next(w, r)
		}
	}

	films := []catalog.Film{
		{ID: "1", Title: "A New Hope", EpisodeID: 4, Director: "George Lucas", ReleaseDate: "1977-05-25", OpeningCrawl: "It is a period of civil war.\r\nRebel spaceships, striking\r\nfrom a hidden base"},
		{ID: "2", Title: "The Empire Strikes Back", EpisodeID: 5, Director: "Irvin Kershner", ReleaseDate: "1980-05-17"},
	}

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body catalog.LoginRequest
		json.NewDecoder(r.Body).Decode(&body)
		if body.Username != "admin" || body.Password != "admin" {
			reply(w, http.StatusUnauthorized, map[string]string{"error": "invalid_credentials"})
			return
		}
		reply(w, http.StatusOK, map[string]any{"access_token": token, "token_type": "Bearer", "expires_in": 3600})
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /v1/films", authorized(func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, catalog.Page[catalog.Film]{Count: 2, Page: 1, PageSize: 10, Results: films})
	}))
	mux.HandleFunc("GET /v1/films/{id}", authorized(func(w http.ResponseWriter, r *http.Request) {
		for _, f := range films {
			if f.ID == r.PathValue("id") {
				reply(w, http.StatusOK, f)
				return
			}
		}
		reply(w, http.StatusNotFound, map[string]string{"error": "film_not_found"})
	}))
	mux.HandleFunc("GET /v1/films/{id}/characters", authorized(func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, catalog.FilmCharacters{
			Film: catalog.FilmSummary{ID: "1", Title: "A New Hope", EpisodeID: 4},
			Page: catalog.Page[catalog.Character]{Count: 2, Page: 1, PageSize: 2, Results: []catalog.Character{
				{ID: "1", Name: "Luke Skywalker", Gender: "male"},
				{ID: "5", Name: "Leia Organa", Gender: "female"},
			}},
		})
	}))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// runCLI executes the root command with a config pointing at server
func runCLI(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()

	// flag variables outlive a single execution
	search, sortBy, order, filterExpr, preset = "", "", "", "", ""
	page, pageSize = 0, 0
	username, password = "", ""
	jsonOut, details, crawl, noPersist = false, false, false, false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(bytes.NewReader(nil))
	rootCmd.SetArgs(append([]string{"--config", configPath}, args...))

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeConfig(t *testing.T, serverURL string) (configPath, sessionPath string) {
	t.Helper()

	dir := t.TempDir()
	sessionPath = filepath.Join(dir, "session.yaml")
	configPath = filepath.Join(dir, "config.yaml")

	content := fmt.Sprintf(`api:
  url: %s
session:
  path: %s
films:
  presets:
    lucas: 'icontains(director, "lucas")'
logging:
  level: error
`, serverURL, sessionPath)
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))
	return configPath, sessionPath
}

func TestCLISessionFlow(t *testing.T) {
	server := newCatalogServer(t)
	configPath, sessionPath := writeConfig(t, server.URL)

	_, err := runCLI(t, configPath, "films", "list")
	require.ErrorIs(t, err, errNotLoggedIn)

	_, err = runCLI(t, configPath, "login", "--username", "admin", "--password", "nope")
	require.Error(t, err)
	assert.True(t, catalog.IsAuthError(err))

	out, err := runCLI(t, configPath, "login", "-u", "admin", "-p", "admin")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as admin")
	assert.Contains(t, out, "Token expires in 1h0m0s")
	assert.FileExists(t, sessionPath)

	out, err = runCLI(t, configPath, "auth", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in")
	assert.Contains(t, out, sessionPath)

	out, err = runCLI(t, configPath, "films", "list", "--details")
	require.NoError(t, err)
	assert.Contains(t, out, "Films (2):")
	assert.Contains(t, out, "Director: Irvin Kershner")

	out, err = runCLI(t, configPath, "films", "list", "--preset", "lucas")
	require.NoError(t, err)
	assert.Contains(t, out, "A New Hope")
	assert.NotContains(t, out, "Empire")

	_, err = runCLI(t, configPath, "films", "list", "--preset", "missing")
	require.Error(t, err)

	out, err = runCLI(t, configPath, "films", "list", "--crawl")
	require.NoError(t, err)
	assert.Contains(t, out, "It is a period of civil war. Rebel spaceships, striking from a hidden base")

	out, err = runCLI(t, configPath, "films", "list", "--json")
	require.NoError(t, err)
	var listed catalog.Page[catalog.Film]
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	assert.Equal(t, 2, listed.Count)
	assert.Len(t, listed.Results, 2)

	// filtered output drops the envelope so counts never disagree with the results
	out, err = runCLI(t, configPath, "films", "list", "--json", "--filter", "episode_id == 5")
	require.NoError(t, err)
	var filtered []catalog.Film
	require.NoError(t, json.Unmarshal([]byte(out), &filtered))
	require.Len(t, filtered, 1)
	assert.Equal(t, "2", filtered[0].ID)

	out, err = runCLI(t, configPath, "films", "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Episode 4: A New Hope")
	assert.Contains(t, out, "Leia Organa")

	out, err = runCLI(t, configPath, "films", "characters", "1", "--filter", `gender == "female"`)
	require.NoError(t, err)
	assert.Contains(t, out, "Leia Organa")
	assert.NotContains(t, out, "Luke")

	out, err = runCLI(t, configPath, "films", "characters", "1", "--json", "--filter", `gender == "female"`)
	require.NoError(t, err)
	var chars []catalog.Character
	require.NoError(t, json.Unmarshal([]byte(out), &chars))
	require.Len(t, chars, 1)
	assert.Equal(t, "Leia Organa", chars[0].Name)

	_, err = runCLI(t, configPath, "films", "show", "999")
	require.Error(t, err)
	assert.True(t, catalog.IsNotFound(err))

	_, err = runCLI(t, configPath, "logout")
	require.NoError(t, err)
	assert.NoFileExists(t, sessionPath)

	out, err = runCLI(t, configPath, "auth", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in")
}

func TestCLIRejectedTokenClearsSession(t *testing.T) {
	server := newCatalogServer(t)
	configPath, sessionPath := writeConfig(t, server.URL)

	fs, err := session.NewFileStore(sessionPath)
	require.NoError(t, err)
	require.NoError(t, fs.Set("stale-token"))

	_, err = runCLI(t, configPath, "films", "list")
	require.Error(t, err)
	assert.True(t, catalog.IsAuthError(err))
	assert.NoFileExists(t, sessionPath)
}

func TestCLIHealth(t *testing.T) {
	server := newCatalogServer(t)
	configPath, _ := writeConfig(t, server.URL)

	out, err := runCLI(t, configPath, "health")
	require.NoError(t, err)
	assert.Contains(t, out, "Catalog status: ok")
	assert.Contains(t, out, "Session: logged out")
}

func TestSessionNotifier(t *testing.T) {
	var buf bytes.Buffer
	notify := sessionNotifier(&buf)

	notify(catalog.EventUnauthorized)
	assert.Contains(t, buf.String(), "holonet login")

	buf.Reset()
	notify(catalog.EventLogout)
	assert.Equal(t, "Logged out.\n", buf.String())
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&catalog.AuthError{StatusCode: 401, Message: "invalid_token"}, "authentication failed (invalid_token)"},
		{fmt.Errorf("wrapped: %w", &catalog.NotFoundError{Path: "/v1/films/9"}), "not found: /v1/films/9"},
		{&catalog.RequestError{StatusCode: 503, Message: "swapi_unavailable"}, "the catalog returned an error (status 503): swapi_unavailable"},
		{&catalog.DecodeError{Path: "/health", Err: errors.New("eof")}, "unexpected response from the catalog: eof"},
		{errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, describeError(tt.err))
	}
}

func TestOpenStore(t *testing.T) {
	s, err := openStore(config.SessionConfig{Persist: false})
	require.NoError(t, err)
	assert.IsType(t, &session.MemoryStore{}, s)

	s, err = openStore(config.SessionConfig{Persist: true, Path: filepath.Join(t.TempDir(), "s.yaml")})
	require.NoError(t, err)
	assert.IsType(t, &session.FileStore{}, s)
}
