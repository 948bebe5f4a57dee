package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"swadesh-intern/internal/database"
	"swadesh-intern/internal/database/postgres"
	"swadesh-intern/internal/domain/job"
)

const jobColumns = `id, board, title, company_name, location, job_type, compensation, experience,
	skills, description, responsibilities, benefits, company_overview, website,
	apply_method, external_link, posted_by, posted_at`

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

func (r *PostgresJobRepository) Create(ctx context.Context, j job.Job) (job.Job, error) {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	if j.Skills == nil {
		j.Skills = []string{}
	}
	row := r.db.QueryRow(ctx,
		`INSERT INTO jobs (id, board, title, company_name, location, job_type, compensation, experience,
			skills, description, responsibilities, benefits, company_overview, website,
			apply_method, external_link, posted_by, posted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		 RETURNING `+jobColumns,
		j.ID, string(j.Board), j.Title, j.CompanyName, j.Location, j.Type, j.Compensation, j.Experience,
		j.Skills, j.Description, j.Responsibilities, j.Benefits, j.CompanyOverview, j.Website,
		string(j.ApplyMethod), j.ExternalLink, j.PostedBy, j.PostedAt,
	)
	return scanJob(row)
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Job, error) {
	row := r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	j, err := scanJob(row)
	if err != nil {
		if postgres.IsNoRows(err) {
			return job.Job{}, job.ErrNotFound
		}
		return job.Job{}, err
	}
	return j, nil
}

// List returns newest first. An empty board lists both boards.
func (r *PostgresJobRepository) List(ctx context.Context, board job.Board, limit, offset int) ([]job.Job, error) {
	limit, offset = clampPage(limit, offset)

	rows, err := r.db.Query(ctx,
		`SELECT `+jobColumns+`
		 FROM jobs
		 WHERE ($1 = '' OR board = $1)
		 ORDER BY posted_at DESC
		 LIMIT $2 OFFSET $3`,
		string(board), limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresJobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return job.ErrNotFound
	}
	return nil
}

func (r *PostgresJobRepository) CountByBoard(ctx context.Context, board job.Board) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs WHERE ($1 = '' OR board = $1)`, string(board)).Scan(&n)
	return n, err
}

func scanJob(row database.Row) (job.Job, error) {
	var (
		j      job.Job
		board  string
		method string
	)
	err := row.Scan(
		&j.ID, &board, &j.Title, &j.CompanyName, &j.Location, &j.Type, &j.Compensation, &j.Experience,
		&j.Skills, &j.Description, &j.Responsibilities, &j.Benefits, &j.CompanyOverview, &j.Website,
		&method, &j.ExternalLink, &j.PostedBy, &j.PostedAt,
	)
	if err != nil {
		return job.Job{}, err
	}
	j.Board = job.Board(board)
	j.ApplyMethod = job.ApplyMethod(strings.ToLower(method))
	return j, nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

var _ job.Repository = (*PostgresJobRepository)(nil)
