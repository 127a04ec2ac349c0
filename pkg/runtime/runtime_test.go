package runtime

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techtweets/pkg/logging"
)

func TestIsDotEnvDisabled(t *testing.T) {
	cases := map[string]bool{"": false, "0": true, "off": true, "No": true, "1": false, "yes": false}
	for v, want := range cases {
		t.Setenv(DotEnvDisableVar, v)
		assert.Equal(t, want, IsDotEnvDisabled(), "value %q", v)
	}
}

func TestLoadDotEnvFiles_DoesNotOverrideExisting(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, ".env.local")
	base := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(local, []byte("TT_A=local\n"), 0o644))
	require.NoError(t, os.WriteFile(base, []byte("TT_A=base\nTT_B=base\n"), 0o644))

	t.Setenv("TT_A", "")
	t.Setenv("TT_B", "")
	os.Unsetenv("TT_A")
	os.Unsetenv("TT_B")

	err := LoadDotEnvFiles(logging.Discard(), []string{local, base, filepath.Join(dir, "missing.env")})
	require.NoError(t, err)
	assert.Equal(t, "local", os.Getenv("TT_A"))
	assert.Equal(t, "base", os.Getenv("TT_B"))
}

func TestDotEnvCandidates_WalksToRoot(t *testing.T) {
	paths := DotEnvCandidates(filepath.Join(string(filepath.Separator), "a", "b"))
	require.NotEmpty(t, paths)
	assert.Equal(t, filepath.Join(string(filepath.Separator), "a", "b", ".env.local"), paths[0])
	assert.Equal(t, filepath.Join(string(filepath.Separator), ".env"), paths[len(paths)-1])
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TT_X", "  ")
	t.Setenv("TT_Y", "y")
	assert.Equal(t, "def", GetEnv("TT_X", "def"))
	assert.Equal(t, "y", FirstEnv("TT_X", "TT_Y"))

	t.Setenv("TT_N", "7")
	n, err := GetEnvInt("TT_N", 3)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	t.Setenv("TT_N", "-1")
	_, err = GetEnvInt("TT_N", 3)
	assert.Error(t, err)

	t.Setenv("TT_S", "")
	d, err := GetEnvSeconds("TT_S", 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, d)
}

func TestNormalizeBaseURL(t *testing.T) {
	u, err := NormalizeBaseURL(" https://api.x.com/ ", "")
	require.NoError(t, err)
	assert.Equal(t, "https://api.x.com", u)

	u, err = NormalizeBaseURL("", "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", u)

	_, err = NormalizeBaseURL("ftp://example.com", "")
	assert.Error(t, err)
}
