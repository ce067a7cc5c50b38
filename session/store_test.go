package session

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	_, ok := s.Get()
	assert.False(t, ok)
	assert.False(t, s.IsAuthenticated())

	require.NoError(t, s.Set("abc"))
	token, ok := s.Get()
	assert.True(t, ok)
	assert.Equal(t, "abc", token)
	assert.True(t, s.IsAuthenticated())

	require.Error(t, s.Set(""))

	require.NoError(t, s.Clear())
	assert.False(t, s.IsAuthenticated())
}

func TestFileStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.yaml")

	s, err := NewFileStore(path)
	require.NoError(t, err)
	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, path, s.Path())

	require.NoError(t, s.Set("persisted-token"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), TokenKey+": persisted-token")

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	token, ok := reopened.Get()
	assert.True(t, ok)
	assert.Equal(t, "persisted-token", token)

	require.NoError(t, reopened.Clear())
	assert.False(t, reopened.IsAuthenticated())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// clearing twice is fine
	require.NoError(t, reopened.Clear())
}

func TestFileStoreErrors(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		_, err := NewFileStore("")
		require.Error(t, err)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.yaml")
		require.NoError(t, os.WriteFile(path, []byte("auth_token: [unterminated"), 0o600))

		_, err := NewFileStore(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unable to parse session file")
	})

	t.Run("other keys are ignored", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.yaml")
		require.NoError(t, os.WriteFile(path, []byte("sw_token: legacy\n"), 0o600))

		s, err := NewFileStore(path)
		require.NoError(t, err)
		assert.False(t, s.IsAuthenticated())
	})
}

func TestStoreConcurrentAccess(t *testing.T) {
	stores := map[string]Store{
		"memory": NewMemoryStore(),
	}
	fileStore, err := NewFileStore(filepath.Join(t.TempDir(), "session.yaml"))
	require.NoError(t, err)
	stores["file"] = fileStore

	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(2)
				go func() {
					defer wg.Done()
					assert.NoError(t, s.Set("token"))
				}()
				go func() {
					defer wg.Done()
					s.IsAuthenticated()
				}()
			}
			wg.Wait()

			token, ok := s.Get()
			assert.True(t, ok)
			assert.Equal(t, "token", token)
		})
	}
}

func TestDescribe(t *testing.T) {
	issued := time.Now().Add(-time.Minute).Truncate(time.Second)
	expires := issued.Add(time.Hour)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin",
		Issuer:    "starwars-platform",
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(expires),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	info, err := Describe(signed)
	require.NoError(t, err)
	assert.Equal(t, "admin", info.Subject)
	assert.Equal(t, "starwars-platform", info.Issuer)
	assert.True(t, issued.Equal(info.IssuedAt))
	assert.True(t, expires.Equal(info.ExpiresAt))
	assert.False(t, info.Expired(time.Now()))
	assert.True(t, info.Expired(expires.Add(time.Second)))

	_, err = Describe("opaque-token")
	require.Error(t, err)
}
