package repositories

import (
	"context"
	"database/sql"

	"gestor/internal/models"
)

// AccountRepository stores authentication identities. Profile rows live in
// UserRepository; a fresh account has no profile until onboarding completes.
type AccountRepository interface {
	Create(ctx context.Context, a *models.Account) error
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	UpdateRefresh(ctx context.Context, id, token string, expiresAt sql.NullTime) error
	GetByRefreshToken(ctx context.Context, token string) (*models.Account, error)
	RevokeRefresh(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

type accountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, a *models.Account) error {
	query := `
		INSERT INTO auth_accounts (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, a.ID, a.Email, a.PasswordHash).Scan(&a.CreatedAt)
	return mapError(err)
}

const accountColumns = `id, email, password_hash, refresh_token, refresh_expires_at, refresh_revoked, created_at`

func (r *accountRepository) scanOne(row *sql.Row) (*models.Account, error) {
	a := &models.Account{}
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.RefreshToken, &a.RefreshExpiresAt, &a.RefreshRevoked, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM auth_accounts WHERE id = $1`, id))
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM auth_accounts WHERE lower(email) = lower($1)`, email))
}

func (r *accountRepository) UpdateRefresh(ctx context.Context, id, token string, expiresAt sql.NullTime) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE auth_accounts SET refresh_token=$1, refresh_expires_at=$2, refresh_revoked=false WHERE id=$3`,
		token, expiresAt, id)
	return err
}

func (r *accountRepository) GetByRefreshToken(ctx context.Context, token string) (*models.Account, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM auth_accounts WHERE refresh_token = $1 AND NOT refresh_revoked`, token))
}

func (r *accountRepository) RevokeRefresh(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE auth_accounts SET refresh_revoked=true WHERE id=$1`, id)
	return err
}

func (r *accountRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE auth_accounts SET password_hash=$1, refresh_revoked=true WHERE id=$2`, passwordHash, id)
	return err
}
