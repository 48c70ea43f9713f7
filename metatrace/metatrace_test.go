package metatrace

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetForTest undoes Init's memoization, since Emit's contract (lazy
// init gated on the environment variable read once) would otherwise only be
// observable once per test binary.
func resetForTest() {
	once = sync.Once{}
	logger = nil
}

func TestMetatrace_DisabledWhenEnvUnset(t *testing.T) {
	resetForTest()
	t.Setenv(EnvFile, "")
	os.Unsetenv(EnvFile)

	assert.False(t, Enabled())
	Emit("noop", nil) // must not panic
}

func TestMetatrace_EnabledOpensFileAndEmitWrites(t *testing.T) {
	resetForTest()
	dir := t.TempDir()
	path := filepath.Join(dir, "trace.jsonl")
	t.Setenv(EnvFile, path)

	require.True(t, Enabled())
	Emit("task.scheduled", map[string]string{"task": "t1"})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "task.scheduled")
	assert.Contains(t, string(data), "t1")
}

func TestMetatrace_TruncatesExistingFile(t *testing.T) {
	resetForTest()
	dir := t.TempDir()
	path := filepath.Join(dir, "trace.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("stale content that must not survive\n"), 0o644))
	t.Setenv(EnvFile, path)

	Emit("fresh", nil)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
	assert.Contains(t, string(data), "fresh")
}

func TestMetatrace_BadPathDisablesSilently(t *testing.T) {
	resetForTest()
	t.Setenv(EnvFile, filepath.Join(t.TempDir(), "missing-dir", "trace.jsonl"))

	assert.False(t, Enabled())
	Emit("noop", nil)
}
