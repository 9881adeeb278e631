package memory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestOpen(t *testing.T) {
	t.Run("missing file yields an empty store", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "memory.json")

		store, err := Open(path, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("empty path is rejected", func(t *testing.T) {
		_, err := Open("", zap.NewNop())
		require.Error(t, err)
	})

	t.Run("corrupt file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "memory.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		_, err := Open(path, zap.NewNop())
		require.Error(t, err)
	})

	t.Run("existing file round-trips", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "memory.json")

		first, err := Open(path, zap.NewNop())
		require.NoError(t, err)
		require.NoError(t, first.Remember("login-button", "//*[@id='login']"))
		require.NoError(t, first.Remember("search-field", "//input[@name='q']"))

		second, err := Open(path, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, 2, second.Len())

		locator, ok := second.Lookup("login-button")
		require.True(t, ok)
		assert.Equal(t, "//*[@id='login']", locator)
	})
}

func TestRemember(t *testing.T) {
	t.Run("persists synchronously on every call", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "memory.json")
		store, err := Open(path, zap.NewNop())
		require.NoError(t, err)

		require.NoError(t, store.Remember("submit-btn", "//*[@id='submit']"))

		// The file must already reflect the mutation, no batching.
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "submit-btn")
		assert.Contains(t, string(data), "//*[@id='submit']")
	})

	t.Run("last write wins per reference", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "memory.json")
		store, err := Open(path, zap.NewNop())
		require.NoError(t, err)

		require.NoError(t, store.Remember("ref", "//a[1]"))
		require.NoError(t, store.Remember("ref", "//a[2]"))

		locator, ok := store.Lookup("ref")
		require.True(t, ok)
		assert.Equal(t, "//a[2]", locator)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("learning the same outcome twice is idempotent", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "memory.json")
		store, err := Open(path, zap.NewNop())
		require.NoError(t, err)

		require.NoError(t, store.Remember("ref", "//a[1]"))
		before, err := os.ReadFile(path)
		require.NoError(t, err)

		require.NoError(t, store.Remember("ref", "//a[1]"))
		after, err := os.ReadFile(path)
		require.NoError(t, err)

		assert.Equal(t, string(before), string(after))
	})

	t.Run("unwritable store surfaces the failure and rolls back", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "memory.json")
		store, err := Open(path, zap.NewNop())
		require.NoError(t, err)

		// Turn the target path into a directory so the rename must fail.
		require.NoError(t, os.Mkdir(path, 0o755))

		err = store.Remember("ref", "//a[1]")
		require.Error(t, err)

		// The in-memory state must not drift from disk.
		_, ok := store.Lookup("ref")
		assert.False(t, ok)
	})
}

func TestForgetAndClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")
	store, err := Open(path, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, store.Remember("a", "//a"))
	require.NoError(t, store.Remember("b", "//b"))

	t.Run("forget removes one entry and persists", func(t *testing.T) {
		require.NoError(t, store.Forget("a"))
		_, ok := store.Lookup("a")
		assert.False(t, ok)

		reopened, err := Open(path, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, 1, reopened.Len())
	})

	t.Run("forgetting an unknown reference is a no-op", func(t *testing.T) {
		require.NoError(t, store.Forget("missing"))
	})

	t.Run("clear drops everything", func(t *testing.T) {
		require.NoError(t, store.Clear())
		assert.Equal(t, 0, store.Len())

		reopened, err := Open(path, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, 0, reopened.Len())
	})
}

func TestAllReturnsACopy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")
	store, err := Open(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, store.Remember("ref", "//a"))

	all := store.All()
	all["ref"] = "mutated"

	locator, ok := store.Lookup("ref")
	require.True(t, ok)
	assert.Equal(t, "//a", locator)
}
