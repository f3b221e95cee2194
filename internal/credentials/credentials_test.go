package credentials

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streambox/internal/logging"
)

const tokensPath = "/data/tokens.json"

func newTestStore(t *testing.T) (*Store, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return NewStore(fs, "/data", logging.Discard()), fs
}

func TestSaveAndLoad(t *testing.T) {
	s, _ := newTestStore(t)

	require.NoError(t, s.Save("access-1", "refresh-1"))

	assert.Equal(t, Pair{AccessToken: "access-1", RefreshToken: "refresh-1"}, s.Load())
	assert.True(t, s.IsLoggedIn(), "IsLoggedIn() should be true after Save")
}

func TestSaveOverwrites(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Save("old-access", "old-refresh"))
	require.NoError(t, s.Save("new-access", ""))

	got := s.Load()
	assert.Equal(t, "new-access", got.AccessToken)
	assert.Empty(t, got.RefreshToken, "old refresh token must not survive")
}

func TestLoadMissing(t *testing.T) {
	s, _ := newTestStore(t)
	assert.Equal(t, Pair{}, s.Load())
	assert.False(t, s.IsLoggedIn(), "IsLoggedIn() should be false without a record")
}

func TestLoadCorrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"garbage", "not json at all"},
		{"truncated", `{"accessToken": "abc`},
		{"wrong shape", `["accessToken"]`},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, fs := newTestStore(t)
			require.NoError(t, afero.WriteFile(fs, tokensPath, []byte(tt.content), 0600))

			assert.Equal(t, Pair{}, s.Load())
			assert.False(t, s.IsLoggedIn(), "corrupt record should read as logged out")
		})
	}
}

func TestClear(t *testing.T) {
	s, fs := newTestStore(t)
	require.NoError(t, s.Save("a", "r"))

	require.NoError(t, s.Clear())
	exists, err := afero.Exists(fs, tokensPath)
	require.NoError(t, err)
	assert.False(t, exists, "token file should be removed")
	assert.False(t, s.IsLoggedIn(), "IsLoggedIn() should be false after Clear")

	assert.NoError(t, s.Clear(), "Clear() on a missing record is a no-op")
}

func TestAccessOnlyRecord(t *testing.T) {
	s, fs := newTestStore(t)
	require.NoError(t, afero.WriteFile(fs, tokensPath, []byte(`{"accessToken":"expired"}`), 0600))

	assert.Equal(t, Pair{AccessToken: "expired"}, s.Load())
}
