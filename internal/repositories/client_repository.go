package repositories

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"gestor/internal/models"
)

type ClientRepository interface {
	Create(ctx context.Context, c *models.Client) error
	GetByID(ctx context.Context, id string) (*models.Client, error)
	FindAll(ctx context.Context) ([]models.Client, error)
	Update(ctx context.Context, c *models.Client) error
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, to models.ClientStatus) error

	// ClaimResponsible atomically assigns a responsible to an unclaimed lead.
	// Returns ErrAlreadyClaimed when the lead already has one (first write wins).
	ClaimResponsible(ctx context.Context, id, userID string) error

	// ListOwnership returns (client name, responsible id) pairs for the team
	// performance projection.
	ListOwnership(ctx context.Context) (map[string][]string, error)
}

type clientRepository struct {
	db *sql.DB
}

func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepository{db: db}
}

const clientViewColumns = `id, name, email, phone, company_phone,
       internal_contact, internal_contact_phone, internal_contact_role,
       client_responsible_name, client_responsible_phone,
       status, responsible_id, responsible_name, services, location, provenance,
       last_activity, created_at`

const clientJoinQuery = `SELECT c.id, c.name, c.email, c.phone, c.company_phone,
       c.internal_contact, c.internal_contact_phone, c.internal_contact_role,
       c.client_responsible_name, c.client_responsible_phone,
       c.status, c.responsible_id, u.name, c.services, c.location, c.provenance,
       c.last_activity, c.created_at
FROM clients c LEFT JOIN users u ON u.id = c.responsible_id`

func scanClient(scan func(dest ...interface{}) error) (*models.Client, error) {
	c := &models.Client{}
	var respName sql.NullString
	var services pq.StringArray
	err := scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.CompanyPhone,
		&c.InternalContact, &c.InternalContactPhone, &c.InternalContactRole,
		&c.ClientResponsibleName, &c.ClientResponsiblePhone,
		&c.Status, &c.ResponsibleID, &respName, &services, &c.Location, &c.Provenance,
		&c.LastActivity, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.ResponsibleName = respName.String
	c.Services = []string(services)
	if c.Services == nil {
		c.Services = []string{}
	}
	return c, nil
}

func (r *clientRepository) Create(ctx context.Context, c *models.Client) error {
	query := `
		INSERT INTO clients (
			id, name, email, phone, company_phone,
			internal_contact, internal_contact_phone, internal_contact_role,
			client_responsible_name, client_responsible_phone,
			status, responsible_id, services, location, provenance, last_activity,
			created_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,NOW())
		RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		c.ID, c.Name, c.Email, c.Phone, c.CompanyPhone,
		c.InternalContact, c.InternalContactPhone, c.InternalContactRole,
		c.ClientResponsibleName, c.ClientResponsiblePhone,
		c.Status, c.ResponsibleID, pq.Array(c.Services), c.Location, c.Provenance, c.LastActivity,
	).Scan(&c.CreatedAt)
	return mapError(err)
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (*models.Client, error) {
	row := r.db.QueryRowContext(ctx, clientJoinQuery+` WHERE c.id = $1`, id)
	client, err := scanClient(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (r *clientRepository) FindAll(ctx context.Context) ([]models.Client, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+clientViewColumns+` FROM clients_with_users ORDER BY created_at DESC`)
	if err != nil {
		// Same fallback policy as tasks: the view is an optimization.
		rows, err = r.db.QueryContext(ctx, clientJoinQuery+` ORDER BY c.created_at DESC`)
		if err != nil {
			return nil, err
		}
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		c, err := scanClient(rows.Scan)
		if err != nil {
			return nil, err
		}
		clients = append(clients, *c)
	}
	return clients, rows.Err()
}

func (r *clientRepository) Update(ctx context.Context, c *models.Client) error {
	query := `
		UPDATE clients SET
			name=$1, email=$2, phone=$3, company_phone=$4,
			internal_contact=$5, internal_contact_phone=$6, internal_contact_role=$7,
			client_responsible_name=$8, client_responsible_phone=$9,
			status=$10, responsible_id=$11, services=$12, location=$13,
			provenance=$14, last_activity=$15
		WHERE id=$16`
	_, err := r.db.ExecContext(ctx, query,
		c.Name, c.Email, c.Phone, c.CompanyPhone,
		c.InternalContact, c.InternalContactPhone, c.InternalContactRole,
		c.ClientResponsibleName, c.ClientResponsiblePhone,
		c.Status, c.ResponsibleID, pq.Array(c.Services), c.Location,
		c.Provenance, c.LastActivity, c.ID,
	)
	return err
}

func (r *clientRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	return err
}

func (r *clientRepository) UpdateStatus(ctx context.Context, id string, to models.ClientStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE clients SET status=$1 WHERE id=$2`, to, id)
	return err
}

func (r *clientRepository) ClaimResponsible(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE clients SET responsible_id=$1 WHERE id=$2 AND responsible_id IS NULL`,
		userID, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAlreadyClaimed
	}
	return nil
}

func (r *clientRepository) ListOwnership(ctx context.Context) (map[string][]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, responsible_id FROM clients WHERE responsible_id IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var name, respID string
		if err := rows.Scan(&name, &respID); err != nil {
			return nil, err
		}
		out[respID] = append(out[respID], name)
	}
	return out, rows.Err()
}
