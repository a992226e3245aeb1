package sqlite

import (
	"context"
	"database/sql"
	"time"

	"salesauth/internal/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, email, password_hash, name, surname, refresh_token_hash, refresh_token_expiry, created_at, updated_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// GetUserByUsername is an alias on email; the login name and the JWT
// subject are both the email address.
func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.GetUserByEmail(ctx, username)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, name, surname, refresh_token_hash, refresh_token_expiry, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Surname,
		mapOptionalString(u.RefreshTokenHash), mapOptionalTime(u.RefreshTokenExpiry))
	return mapConstraint(err)
}

func (r *usersRepo) UpdateRefreshToken(ctx context.Context, userID string, tokenHash string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET refresh_token_hash = ?, refresh_token_expiry = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		tokenHash, expiresAt.UTC(), userID)
	return err
}

func (r *usersRepo) ClearRefreshToken(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET refresh_token_hash = NULL, refresh_token_expiry = NULL, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		userID)
	return err
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u      domain.User
		rtHash sql.NullString
		rtExp  sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Surname,
		&rtHash, &rtExp, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.RefreshTokenHash = mapNullStringPtr(rtHash)
	u.RefreshTokenExpiry = mapNullTimePtr(rtExp)
	return u, nil
}
