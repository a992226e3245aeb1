package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"salesauth/internal/domain"
	"salesauth/internal/store"
	"salesauth/pkg/idx"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db")
	st, err := NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func TestUsersRepo(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	u := domain.User{
		ID:           idx.New().String(),
		Email:        "alice@example.com",
		PasswordHash: "$argon2id$fake",
		Name:         "Alice",
		Surname:      "Smith",
	}
	require.NoError(t, st.Users().CreateUser(ctx, u))

	t.Run("lookup by email", func(t *testing.T) {
		got, err := st.Users().GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
		require.Nil(t, got.RefreshTokenHash)
		require.Nil(t, got.RefreshTokenExpiry)
		require.False(t, got.CreatedAt.IsZero())
	})

	t.Run("missing user maps to ErrNotFound", func(t *testing.T) {
		_, err := st.Users().GetUserByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("duplicate email maps to ErrAlreadyExists", func(t *testing.T) {
		dup := u
		dup.ID = idx.New().String()
		err := st.Users().CreateUser(ctx, dup)
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("refresh token overwrite and clear", func(t *testing.T) {
		expiry := time.Now().Add(time.Hour)
		require.NoError(t, st.Users().UpdateRefreshToken(ctx, u.ID, "fp-1", expiry))

		got, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.NotNil(t, got.RefreshTokenHash)
		require.Equal(t, "fp-1", *got.RefreshTokenHash)
		require.NotNil(t, got.RefreshTokenExpiry)

		require.NoError(t, st.Users().UpdateRefreshToken(ctx, u.ID, "fp-2", expiry))
		got, err = st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "fp-2", *got.RefreshTokenHash)

		require.NoError(t, st.Users().ClearRefreshToken(ctx, u.ID))
		got, err = st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Nil(t, got.RefreshTokenHash)
		require.Nil(t, got.RefreshTokenExpiry)
	})
}

func TestRolesRepo(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	empty, err := st.Roles().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	role := domain.Role{ID: idx.New().String(), Name: "Admin"}
	require.NoError(t, st.Roles().CreateRole(ctx, role))

	t.Run("duplicate name maps to ErrAlreadyExists", func(t *testing.T) {
		err := st.Roles().CreateRole(ctx, domain.Role{ID: idx.New().String(), Name: "Admin"})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("user role assignment is idempotent", func(t *testing.T) {
		u := domain.User{ID: idx.New().String(), Email: "bob@example.com", PasswordHash: "x", Name: "Bob", Surname: "Jones"}
		require.NoError(t, st.Users().CreateUser(ctx, u))

		require.NoError(t, st.Roles().AddUserToRole(ctx, u.ID, role.ID))
		require.NoError(t, st.Roles().AddUserToRole(ctx, u.ID, role.ID))

		names, err := st.Roles().ListUserRoles(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, []string{"Admin"}, names)
	})

	t.Run("roles of unknown user are empty", func(t *testing.T) {
		names, err := st.Roles().ListUserRoles(ctx, "missing")
		require.NoError(t, err)
		require.Empty(t, names)
	})
}

func TestProductsRepo(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	require.NoError(t, st.Products().CreateProduct(ctx, domain.Product{ID: idx.New().String(), Name: "Widget"}))

	t.Run("duplicate name maps to ErrAlreadyExists", func(t *testing.T) {
		err := st.Products().CreateProduct(ctx, domain.Product{ID: idx.New().String(), Name: "Widget"})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("soft deleted rows excluded from list", func(t *testing.T) {
		require.NoError(t, st.Products().CreateProduct(ctx, domain.Product{
			ID:        idx.New().String(),
			Name:      "Retired",
			IsDeleted: true,
		}))

		products, err := st.Products().ListProducts(ctx)
		require.NoError(t, err)
		require.Len(t, products, 1)
		require.Equal(t, "Widget", products[0].Name)
	})
}

func TestWithTx(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	t.Run("commit on success", func(t *testing.T) {
		err := st.WithTx(ctx, func(tx store.Tx) error {
			return tx.Roles().CreateRole(ctx, domain.Role{ID: idx.New().String(), Name: "Committed"})
		})
		require.NoError(t, err)

		_, err = st.Roles().GetRoleByName(ctx, "Committed")
		require.NoError(t, err)
	})

	t.Run("rollback on error", func(t *testing.T) {
		sentinel := store.ErrAlreadyExists
		err := st.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Roles().CreateRole(ctx, domain.Role{ID: idx.New().String(), Name: "RolledBack"}); err != nil {
				return err
			}
			return sentinel
		})
		require.ErrorIs(t, err, sentinel)

		_, err = st.Roles().GetRoleByName(ctx, "RolledBack")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("nested transactions refused", func(t *testing.T) {
		err := st.WithTx(ctx, func(tx store.Tx) error {
			_, err := tx.Tx(ctx)
			require.Error(t, err)
			return nil
		})
		require.NoError(t, err)
	})
}
