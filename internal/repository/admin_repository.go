package repository

import (
	"context"

	"swadesh-intern/internal/database"
	"swadesh-intern/internal/database/postgres"
	"swadesh-intern/internal/domain/account"
)

const adminColumns = `user_id, name, email, role, is_active, photo_url, created_by, created_at`

type PostgresAdminRepository struct {
	db database.DB
}

func NewPostgresAdminRepository(db database.DB) *PostgresAdminRepository {
	return &PostgresAdminRepository{db: db}
}

func (r *PostgresAdminRepository) Get(ctx context.Context, userID string) (account.Admin, error) {
	row := r.db.QueryRow(ctx, `SELECT `+adminColumns+` FROM admins WHERE user_id = $1`, userID)
	a, err := scanAdmin(row)
	if err != nil {
		if postgres.IsNoRows(err) {
			return account.Admin{}, account.ErrNotFound
		}
		return account.Admin{}, err
	}
	return a, nil
}

func (r *PostgresAdminRepository) Create(ctx context.Context, a account.Admin) (account.Admin, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO admins (user_id, name, email, role, is_active, photo_url, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+adminColumns,
		a.UserID, a.Name, a.Email, string(a.Role), a.IsActive, a.PhotoURL, a.CreatedBy,
	)
	out, err := scanAdmin(row)
	if err != nil {
		if postgres.IsUniqueViolation(err, "admins_pkey") {
			return account.Admin{}, account.ErrAlreadyExists
		}
		return account.Admin{}, err
	}
	return out, nil
}

func (r *PostgresAdminRepository) Delete(ctx context.Context, userID string) error {
	n, err := r.db.Exec(ctx, `DELETE FROM admins WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return account.ErrNotFound
	}
	return nil
}

func (r *PostgresAdminRepository) ListAdmins(ctx context.Context) ([]account.Admin, error) {
	rows, err := r.db.Query(ctx, `SELECT `+adminColumns+` FROM admins ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]account.Admin, 0)
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresAdminRepository) UpdatePhoto(ctx context.Context, userID, photoURL string) error {
	n, err := r.db.Exec(ctx, `UPDATE admins SET photo_url = $2 WHERE user_id = $1`, userID, photoURL)
	if err != nil {
		return err
	}
	if n == 0 {
		return account.ErrNotFound
	}
	return nil
}

func (r *PostgresAdminRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n)
	return n, err
}

func scanAdmin(row database.Row) (account.Admin, error) {
	var (
		a    account.Admin
		role string
	)
	if err := row.Scan(&a.UserID, &a.Name, &a.Email, &role, &a.IsActive, &a.PhotoURL, &a.CreatedBy, &a.CreatedAt); err != nil {
		return account.Admin{}, err
	}
	a.Role = account.Role(role)
	return a, nil
}

var _ account.Repository = (*PostgresAdminRepository)(nil)
