package sessionfile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/session"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	conf := new(core.Config)
	conf.SessionFile = filepath.Join(t.TempDir(), "nested", "session.json")
	return NewStore(conf)
}

func TestStore(t *testing.T) {
	store := newTestStore(t)

	// empty store
	_, err := store.Get()
	assert.Equal(t, session.ErrNoSession, err)

	// save then get
	sess := session.Session{ID: "t1", Name: "Jane", Email: "jane@test.cm", Role: session.RoleTeacher, Token: "tok"}
	require.NoError(t, store.Save(sess))

	got, err := store.Get()
	require.NoError(t, err)
	assert.False(t, got.SavedAt.IsZero())
	got.SavedAt = sess.SavedAt
	assert.Equal(t, sess, got)

	// overwrite
	sess2 := session.Session{ID: "s1", Name: "Ali", Role: session.RoleStudent}
	require.NoError(t, store.Save(sess2))
	got, err = store.Get()
	require.NoError(t, err)
	assert.Equal(t, "s1", got.ID)

	// clear
	require.NoError(t, store.Clear())
	_, err = store.Get()
	assert.Equal(t, session.ErrNoSession, err)

	// clearing twice is fine
	require.NoError(t, store.Clear())
}
