package repository

import (
	"context"

	"swadesh-intern/internal/database"
	"swadesh-intern/internal/domain/site"
)

type PostgresSiteRepository struct {
	db database.DB
}

func NewPostgresSiteRepository(db database.DB) *PostgresSiteRepository {
	return &PostgresSiteRepository{db: db}
}

func (r *PostgresSiteRepository) ListDomains(ctx context.Context) ([]site.Domain, error) {
	rows, err := r.db.Query(ctx,
		`SELECT slug, name, description, skills FROM internship_domains ORDER BY sort_order ASC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]site.Domain, 0)
	for rows.Next() {
		var d site.Domain
		if err := rows.Scan(&d.Slug, &d.Name, &d.Description, &d.Skills); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSiteRepository) ListTestimonials(ctx context.Context) ([]site.Testimonial, error) {
	rows, err := r.db.Query(ctx, `SELECT name, role, quote FROM testimonials ORDER BY sort_order ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]site.Testimonial, 0)
	for rows.Next() {
		var t site.Testimonial
		if err := rows.Scan(&t.Name, &t.Role, &t.Quote); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

var _ site.Repository = (*PostgresSiteRepository)(nil)
