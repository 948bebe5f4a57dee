package repository

import (
	"context"

	"swadesh-intern/internal/database"
	"swadesh-intern/internal/database/postgres"
	"swadesh-intern/internal/domain/certificate"
)

const certificateColumns = `id, student_name, domain, duration, start_date, award_date, issued_by, created_at`

type PostgresCertificateRepository struct {
	db database.DB
}

func NewPostgresCertificateRepository(db database.DB) *PostgresCertificateRepository {
	return &PostgresCertificateRepository{db: db}
}

func (r *PostgresCertificateRepository) Create(ctx context.Context, c certificate.Certificate) (certificate.Certificate, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO certificates (id, student_name, domain, duration, start_date, award_date, issued_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+certificateColumns,
		c.ID, c.StudentName, c.Domain, c.Duration, c.StartDate, c.AwardDate, c.IssuedBy,
	)
	out, err := scanCertificate(row)
	if err != nil {
		if postgres.IsUniqueViolation(err, "certificates_pkey") {
			return certificate.Certificate{}, certificate.ErrDuplicateID
		}
		return certificate.Certificate{}, err
	}
	return out, nil
}

// GetByID is an exact match; callers normalise the id first.
func (r *PostgresCertificateRepository) GetByID(ctx context.Context, id string) (certificate.Certificate, error) {
	row := r.db.QueryRow(ctx, `SELECT `+certificateColumns+` FROM certificates WHERE id = $1`, id)
	c, err := scanCertificate(row)
	if err != nil {
		if postgres.IsNoRows(err) {
			return certificate.Certificate{}, certificate.ErrNotFound
		}
		return certificate.Certificate{}, err
	}
	return c, nil
}

func (r *PostgresCertificateRepository) List(ctx context.Context) ([]certificate.Certificate, error) {
	rows, err := r.db.Query(ctx, `SELECT `+certificateColumns+` FROM certificates ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]certificate.Certificate, 0)
	for rows.Next() {
		c, err := scanCertificate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresCertificateRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM certificates`).Scan(&n)
	return n, err
}

func scanCertificate(row database.Row) (certificate.Certificate, error) {
	var c certificate.Certificate
	err := row.Scan(&c.ID, &c.StudentName, &c.Domain, &c.Duration, &c.StartDate, &c.AwardDate, &c.IssuedBy, &c.CreatedAt)
	return c, err
}

var _ certificate.Repository = (*PostgresCertificateRepository)(nil)
