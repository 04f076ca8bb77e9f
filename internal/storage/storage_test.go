package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planterm/planterm/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestOpenCreatesDatabaseFile(t *testing.T) {
	dir := t.TempDir()
	st, err := Open(dir)
	require.NoError(t, err)
	defer st.Close()

	_, err = os.Stat(filepath.Join(dir, "planterm.db"))
	assert.NoError(t, err)
}

func TestGetSetDelete(t *testing.T) {
	st := newTestStore(t)

	v, err := st.Get("missing")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, st.Set("k", "v1"))
	v, err = st.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v1", v)

	// Upsert overwrites.
	require.NoError(t, st.Set("k", "v2"))
	v, err = st.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v2", v)

	require.NoError(t, st.Delete("k"))
	v, err = st.Get("k")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestSessionRoundTrip(t *testing.T) {
	st := newTestStore(t)

	user := &model.User{ID: 1, Username: "alice", Email: "alice@example.com"}
	require.NoError(t, st.SaveSession(user, "tok123"))

	assert.Equal(t, "tok123", st.Token())

	loaded, token, err := st.LoadSession()
	require.NoError(t, err)
	assert.Equal(t, "tok123", token)
	require.NotNil(t, loaded)
	assert.Equal(t, user.Username, loaded.Username)
	assert.Equal(t, user.Email, loaded.Email)

	require.NoError(t, st.ClearSession())
	loaded, token, err = st.LoadSession()
	require.NoError(t, err)
	assert.Nil(t, loaded)
	assert.Empty(t, token)
	assert.Empty(t, st.Token())
}

func TestLoadSessionHalfEmpty(t *testing.T) {
	st := newTestStore(t)

	// Token alone is not a session.
	require.NoError(t, st.Set(KeyToken, "tok123"))
	user, token, err := st.LoadSession()
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Empty(t, token)
}

func TestLoadSessionCorruptUser(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.Set(KeyToken, "tok123"))
	require.NoError(t, st.Set(KeyUser, "{broken"))

	_, _, err := st.LoadSession()
	assert.Error(t, err)
}

func TestSessionSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	st, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, st.SaveSession(&model.User{ID: 1, Username: "alice"}, "tok123"))
	require.NoError(t, st.Close())

	st, err = Open(dir)
	require.NoError(t, err)
	defer st.Close()

	user, token, err := st.LoadSession()
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "tok123", token)
}
