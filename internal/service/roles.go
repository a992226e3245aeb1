package service

import (
	"context"
	"errors"
	"log/slog"

	"salesauth/internal/domain"
	"salesauth/internal/store"
	"salesauth/pkg/idx"
	"salesauth/pkg/slogx"
)

type RolesService struct {
	Store store.Store
}

// EnsureRoles makes sure every role in domain.AllRoles exists, creating the
// missing ones. Runs at startup inside one transaction and is safe to call
// repeatedly; existing roles are left untouched.
func (s *RolesService) EnsureRoles(ctx context.Context) error {
	l := slogx.FromContext(ctx)

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		for _, name := range domain.AllRoles {
			_, err := tx.Roles().GetRoleByName(ctx, name)
			if err == nil {
				continue
			}
			if !errors.Is(err, store.ErrNotFound) {
				return err
			}

			role := domain.Role{
				ID:   idx.New().String(),
				Name: name,
			}
			if err := tx.Roles().CreateRole(ctx, role); err != nil {
				// Lost a race with a concurrent seeder; the role exists now.
				if errors.Is(err, store.ErrAlreadyExists) {
					continue
				}
				return err
			}
			l.Info("seeded role", slog.String("role", name))
		}
		return nil
	})
}

// ListAll returns all roles in the system.
func (s *RolesService) ListAll(ctx context.Context) ([]domain.Role, error) {
	return s.Store.Roles().ListAll(ctx)
}
