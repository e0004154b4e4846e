package repositories

import (
	"context"
	"database/sql"

	"gestor/internal/models"
)

type PasswordResetRepository interface {
	Create(ctx context.Context, pr *models.PasswordReset) error
	GetByToken(ctx context.Context, token string) (*models.PasswordReset, error)
	MarkUsed(ctx context.Context, id string) error
}

type passwordResetRepository struct {
	db *sql.DB
}

func NewPasswordResetRepository(db *sql.DB) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Create(ctx context.Context, pr *models.PasswordReset) error {
	query := `
		INSERT INTO password_resets (id, account_id, token, expires_at, created_at)
		VALUES ($1,$2,$3,$4,NOW())
		RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		pr.ID, pr.AccountID, pr.Token, pr.ExpiresAt).Scan(&pr.CreatedAt)
	return mapError(err)
}

func (r *passwordResetRepository) GetByToken(ctx context.Context, token string) (*models.PasswordReset, error) {
	pr := &models.PasswordReset{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, account_id, token, expires_at, used_at, created_at
		FROM password_resets WHERE token = $1`, token).Scan(
		&pr.ID, &pr.AccountID, &pr.Token, &pr.ExpiresAt, &pr.UsedAt, &pr.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return pr, nil
}

func (r *passwordResetRepository) MarkUsed(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE password_resets SET used_at=NOW() WHERE id=$1`, id)
	return err
}
