package store

import (
	"context"
	"errors"
	"time"

	"salesauth/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and to stop callers from accidentally nesting transactions.
type Store interface {
	Users() Users
	Roles() Roles
	Products() Products

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to handle transactions.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login; emails are unique.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByUsername returns the user owning a refresh token claim's
	// username. Usernames (emails) double as the JWT subject here.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists if the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateRefreshToken overwrites the user's current refresh token
	// fingerprint and expiry, bumping updated_at. A single active refresh
	// token per user; issuing a new one invalidates the previous.
	UpdateRefreshToken(ctx context.Context, userID string, tokenHash string, expiresAt time.Time) error

	// ClearRefreshToken nulls out the stored refresh token for a user.
	ClearRefreshToken(ctx context.Context, userID string) error

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}

type Roles interface {
	// GetRoleByName fetches a role by its name (names are unique).
	GetRoleByName(ctx context.Context, name string) (domain.Role, error)

	// ListAll returns all roles in the system.
	ListAll(ctx context.Context) ([]domain.Role, error)

	// CreateRole inserts a new role (id is ULID).
	CreateRole(ctx context.Context, r domain.Role) error

	// AddUserToRole links a user to a role. Idempotent on conflict.
	AddUserToRole(ctx context.Context, userID, roleID string) error

	// ListUserRoles returns the role names assigned to a user.
	ListUserRoles(ctx context.Context, userID string) ([]string, error)

	// IsEmpty returns true if there are no roles.
	IsEmpty(ctx context.Context) (bool, error)
}

type Products interface {
	// CreateProduct inserts a new product (id is ULID).
	// Returns ErrAlreadyExists if the name is taken.
	CreateProduct(ctx context.Context, p domain.Product) error

	// ListProducts returns all products that have not been soft deleted,
	// ordered by creation date (newest first).
	ListProducts(ctx context.Context) ([]domain.Product, error)
}
