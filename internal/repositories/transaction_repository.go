package repositories

import (
	"context"
	"database/sql"

	"gestor/internal/models"
)

type TransactionRepository interface {
	Store(ctx context.Context, t *models.Transaction) error
	FindByID(ctx context.Context, id string) (*models.Transaction, error)
	FindAll(ctx context.Context) ([]models.Transaction, error)
	Update(ctx context.Context, t *models.Transaction) error
	Delete(ctx context.Context, id string) error
}

type transactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

const transactionColumns = `id, description, date, category, value, type, status, created_at`

func (r *transactionRepository) Store(ctx context.Context, t *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, description, date, category, value, type, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())
		RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		t.ID, t.Description, t.Date, t.Category, t.Value, t.Type, t.Status).Scan(&t.CreatedAt)
	return mapError(err)
}

func (r *transactionRepository) FindByID(ctx context.Context, id string) (*models.Transaction, error) {
	t := &models.Transaction{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id).Scan(
		&t.ID, &t.Description, &t.Date, &t.Category, &t.Value, &t.Type, &t.Status, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *transactionRepository) FindAll(ctx context.Context) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions ORDER BY date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.Description, &t.Date, &t.Category,
			&t.Value, &t.Type, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *transactionRepository) Update(ctx context.Context, t *models.Transaction) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET description=$1, date=$2, category=$3, value=$4, type=$5, status=$6 WHERE id=$7`,
		t.Description, t.Date, t.Category, t.Value, t.Type, t.Status, t.ID)
	return err
}

func (r *transactionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	return err
}
