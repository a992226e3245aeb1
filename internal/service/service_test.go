package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"salesauth/internal/store"
	"salesauth/internal/store/drivers/sqlite"
)

// newTestStore opens a fresh sqlite database under t.TempDir with the full
// schema applied and the fixed role set seeded.
func newTestStore(t *testing.T) store.Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db")
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())

	roles := &RolesService{Store: st}
	require.NoError(t, roles.EnsureRoles(context.Background()))

	return st
}
