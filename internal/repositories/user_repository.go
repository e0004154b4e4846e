package repositories

import (
	"context"
	"database/sql"

	"gestor/internal/models"
)

// UserRepository stores profile rows (the public face of an account).
type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, u *models.User) error
	UpdateAvatar(ctx context.Context, id, avatarURL string) error
	GetTelegramSettings(ctx context.Context, id string) (chatID int64, allow bool, err error)
	Delete(ctx context.Context, id string) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, name, role, avatar, telegram_chat_id, allow_telegram, created_at`

func (r *userRepository) Create(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (id, email, name, role, avatar, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, u.ID, u.Email, u.Name, u.Role, u.Avatar).Scan(&u.CreatedAt)
	return mapError(err)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	u := &models.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id).Scan(
		&u.ID, &u.Email, &u.Name, &u.Role, &u.Avatar, &u.TelegramChatID, &u.AllowTelegram, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.Avatar,
			&u.TelegramChatID, &u.AllowTelegram, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *userRepository) Update(ctx context.Context, u *models.User) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET name=$1, role=$2, avatar=$3 WHERE id=$4`,
		u.Name, u.Role, u.Avatar, u.ID)
	return err
}

func (r *userRepository) UpdateAvatar(ctx context.Context, id, avatarURL string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET avatar=$1 WHERE id=$2`, avatarURL, id)
	return err
}

func (r *userRepository) GetTelegramSettings(ctx context.Context, id string) (int64, bool, error) {
	var chatID int64
	var allow bool
	err := r.db.QueryRowContext(ctx,
		`SELECT telegram_chat_id, allow_telegram FROM users WHERE id = $1`, id).Scan(&chatID, &allow)
	if err == sql.ErrNoRows {
		return 0, false, ErrNotFound
	}
	if err != nil {
		return 0, false, err
	}
	return chatID, allow, nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}
