package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"swadesh-intern/internal/database"
	"swadesh-intern/internal/database/postgres"
	"swadesh-intern/internal/domain/application"
	"swadesh-intern/internal/domain/job"
)

const applicationColumns = `id, job_id, board, job_title, company_name, applicant_id,
	applicant_name, applicant_email, applicant_phone, linkedin, college, degree, stream,
	grad_year, skills, resume_url, status, applied_at`

const applicantJobConstraint = "applications_applicant_job_key"

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

// Create relies on the (applicant_id, job_id) unique key; a second
// application for the same job returns application.ErrAlreadyApplied.
func (r *PostgresApplicationRepository) Create(ctx context.Context, a application.Application) (application.Application, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	row := r.db.QueryRow(ctx,
		`INSERT INTO applications (id, job_id, board, job_title, company_name, applicant_id,
			applicant_name, applicant_email, applicant_phone, linkedin, college, degree, stream,
			grad_year, skills, resume_url, status, applied_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		 RETURNING `+applicationColumns,
		a.ID, a.JobID, string(a.Board), a.JobTitle, a.CompanyName, a.ApplicantID,
		a.Name, a.Email, a.Phone, a.LinkedIn, a.College, a.Degree, a.Stream,
		a.GradYear, a.Skills, a.ResumeURL, string(a.Status), a.AppliedAt,
	)
	out, err := scanApplication(row)
	if err != nil {
		if postgres.IsUniqueViolation(err, applicantJobConstraint) {
			return application.Application{}, application.ErrAlreadyApplied
		}
		return application.Application{}, err
	}
	return out, nil
}

func (r *PostgresApplicationRepository) Exists(ctx context.Context, applicantID string, jobID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM applications WHERE applicant_id = $1 AND job_id = $2)`,
		applicantID, jobID,
	).Scan(&exists)
	if err != nil {
		if postgres.IsNoRows(err) {
			return false, nil
		}
		return false, err
	}
	return exists, nil
}

func (r *PostgresApplicationRepository) AppliedJobIDs(ctx context.Context, applicantID string) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT job_id FROM applications WHERE applicant_id = $1`, applicantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresApplicationRepository) ListByBoard(ctx context.Context, board job.Board, search string, limit, offset int) ([]application.Application, error) {
	limit, offset = clampPage(limit, offset)
	return r.list(ctx,
		`SELECT `+applicationColumns+`
		 FROM applications
		 WHERE board = $1
		   AND ($2 = '' OR applicant_name ILIKE $2 OR job_title ILIKE $2)
		 ORDER BY applied_at DESC
		 LIMIT $3 OFFSET $4`,
		string(board), searchPattern(search), limit, offset,
	)
}

func (r *PostgresApplicationRepository) ListByApplicant(ctx context.Context, applicantID string) ([]application.Application, error) {
	return r.list(ctx,
		`SELECT `+applicationColumns+`
		 FROM applications
		 WHERE applicant_id = $1
		 ORDER BY applied_at DESC`,
		applicantID,
	)
}

func (r *PostgresApplicationRepository) CountByBoard(ctx context.Context, board job.Board) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM applications WHERE ($1 = '' OR board = $1)`, string(board)).Scan(&n)
	return n, err
}

func (r *PostgresApplicationRepository) CountMatching(ctx context.Context, board job.Board, search string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*)
		 FROM applications
		 WHERE board = $1
		   AND ($2 = '' OR applicant_name ILIKE $2 OR job_title ILIKE $2)`,
		string(board), searchPattern(search),
	).Scan(&n)
	return n, err
}

func searchPattern(search string) string {
	s := strings.TrimSpace(search)
	if s == "" {
		return ""
	}
	return "%" + escapeLike(s) + "%"
}

func (r *PostgresApplicationRepository) list(ctx context.Context, query string, args ...any) ([]application.Application, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]application.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
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

func scanApplication(row database.Row) (application.Application, error) {
	var (
		a      application.Application
		board  string
		status string
	)
	err := row.Scan(
		&a.ID, &a.JobID, &board, &a.JobTitle, &a.CompanyName, &a.ApplicantID,
		&a.Name, &a.Email, &a.Phone, &a.LinkedIn, &a.College, &a.Degree, &a.Stream,
		&a.GradYear, &a.Skills, &a.ResumeURL, &status, &a.AppliedAt,
	)
	if err != nil {
		return application.Application{}, err
	}
	a.Board = job.Board(board)
	a.Status = application.Status(status)
	return a, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

var _ application.Repository = (*PostgresApplicationRepository)(nil)
