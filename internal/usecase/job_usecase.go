package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"swadesh-intern/internal/domain/job"
	"swadesh-intern/internal/infrastructure/cache"
	"swadesh-intern/internal/logging"
	"swadesh-intern/internal/validate"
)

const (
	defaultJobLimit = 20
	maxJobLimit     = 100

	jobListTTL = time.Minute
	jobItemTTL = 5 * time.Minute
)

type PostJobInput struct {
	Board            job.Board
	Title            string
	CompanyName      string
	Location         string
	Type             string
	Compensation     string
	Experience       string
	Skills           string
	Description      string
	Responsibilities string
	Benefits         string
	CompanyOverview  string
	Website          string
	ApplyMethod      string
	ExternalLink     string
}

func (in PostJobInput) form(board job.Board) validate.Form {
	if board == job.BoardCareers {
		return validate.InternalJobForm{Title: in.Title, Location: in.Location}
	}
	return validate.ExternalJobForm{Title: in.Title, Location: in.Location, CompanyName: in.CompanyName}
}

type Jobs struct {
	repo   job.Repository
	cache  Cache
	brand  string
	logger logrus.FieldLogger
	now    func() time.Time
}

// NewJobs wires the listing and posting operations of both boards. brand is
// the company name stamped on careers postings.
func NewJobs(repo job.Repository, c Cache, brand string, logger logrus.FieldLogger) *Jobs {
	return &Jobs{repo: repo, cache: cacheOrNone(c), brand: brand, logger: logging.OrDiscard(logger), now: time.Now}
}

func (u *Jobs) List(ctx context.Context, board job.Board, limit, offset int) ([]job.Job, error) {
	if limit == 0 {
		limit = defaultJobLimit
	}
	if limit < 0 || limit > maxJobLimit || offset < 0 {
		return nil, ErrInvalidInput
	}

	key := cache.JobListKey(string(board), limit, offset)
	return readThrough(ctx, u.cache, u.logger, key, jobListTTL, func(ctx context.Context) ([]job.Job, error) {
		return u.repo.List(ctx, board, limit, offset)
	})
}

func (u *Jobs) Get(ctx context.Context, id uuid.UUID) (job.Job, error) {
	return readThrough(ctx, u.cache, u.logger, cache.JobKey(id.String()), jobItemTTL, func(ctx context.Context) (job.Job, error) {
		return u.repo.GetByID(ctx, id)
	})
}

// Post validates and stores a new listing. Careers postings always carry
// the brand as company and are applied to on the platform.
func (u *Jobs) Post(ctx context.Context, postedBy string, in PostJobInput) (job.Job, error) {
	board, ok := job.ParseBoard(string(in.Board))
	if !ok {
		return job.Job{}, ErrInvalidInput
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Location = orDefault(in.Location, "Remote")
	in.CompanyName = strings.TrimSpace(in.CompanyName)

	if board == job.BoardCareers {
		in.CompanyName = u.brand
	}
	if err := validate.Struct(in.form(board)); err != nil {
		return job.Job{}, err
	}

	method := job.ApplyPlatform
	if board == job.BoardOpportunities && strings.EqualFold(strings.TrimSpace(in.ApplyMethod), string(job.ApplyExternal)) {
		method = job.ApplyExternal
		if err := validate.Struct(validate.ExternalLinkForm{ExternalLink: in.ExternalLink}); err != nil {
			return job.Job{}, err
		}
	}

	j := job.Job{
		ID:               uuid.New(),
		Board:            board,
		Title:            in.Title,
		CompanyName:      in.CompanyName,
		Location:         in.Location,
		Type:             orDefault(in.Type, "Full Time"),
		Compensation:     strings.TrimSpace(in.Compensation),
		Experience:       strings.TrimSpace(in.Experience),
		Skills:           job.SplitSkills(in.Skills),
		Description:      strings.TrimSpace(in.Description),
		Responsibilities: strings.TrimSpace(in.Responsibilities),
		Benefits:         strings.TrimSpace(in.Benefits),
		CompanyOverview:  strings.TrimSpace(in.CompanyOverview),
		Website:          strings.TrimSpace(in.Website),
		ApplyMethod:      method,
		PostedBy:         postedBy,
		PostedAt:         u.now().UTC(),
	}
	if method == job.ApplyExternal {
		j.ExternalLink = job.EnsureProtocol(in.ExternalLink)
	}

	created, err := u.repo.Create(ctx, j)
	if err != nil {
		return job.Job{}, err
	}
	if err := u.cache.InvalidateJobs(ctx, string(board), ""); err != nil {
		u.logger.WithError(err).Warn("job cache invalidation failed")
	}
	u.logger.WithFields(logrus.Fields{"job_id": created.ID, "board": board, "posted_by": postedBy}).Info("job posted")
	return created, nil
}

func (u *Jobs) Remove(ctx context.Context, id uuid.UUID) error {
	j, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := u.cache.InvalidateJobs(ctx, string(j.Board), id.String()); err != nil {
		u.logger.WithError(err).Warn("job cache invalidation failed")
	}
	u.logger.WithFields(logrus.Fields{"job_id": id, "board": j.Board}).Info("job deleted")
	return nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
