package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"swadesh-intern/internal/domain/application"
	"swadesh-intern/internal/domain/job"
	"swadesh-intern/internal/logging"
	"swadesh-intern/internal/metrics"
	"swadesh-intern/internal/validate"
	"swadesh-intern/internal/workflow"
)

type JobReader interface {
	Get(ctx context.Context, id uuid.UUID) (job.Job, error)
}

// Applications drives the per-user workflow sessions for the public job
// pages and exposes the stored applications.
type Applications struct {
	jobs      JobReader
	apps      application.Repository
	sessions  *workflow.Sessions
	submitter *workflow.Submitter
	logger    logrus.FieldLogger
}

func NewApplications(jobs JobReader, apps application.Repository, sessions *workflow.Sessions, submitter *workflow.Submitter, logger logrus.FieldLogger) *Applications {
	return &Applications{jobs: jobs, apps: apps, sessions: sessions, submitter: submitter, logger: logging.OrDiscard(logger)}
}

// Open (re)starts the flow of a job at its entry state.
func (u *Applications) Open(ctx context.Context, id *workflow.Identity, jobID uuid.UUID) (workflow.View, error) {
	j, sess, err := u.load(ctx, id, jobID)
	if err != nil {
		return workflow.View{}, err
	}
	return sess.Open(j), nil
}

func (u *Applications) Apply(ctx context.Context, id *workflow.Identity, jobID uuid.UUID) (workflow.View, error) {
	j, sess, err := u.load(ctx, id, jobID)
	if err != nil {
		return workflow.View{}, err
	}
	return sess.Apply(j)
}

// Continue resumes a flow parked at AUTH after the user signed in or
// created an account.
func (u *Applications) Continue(ctx context.Context, id *workflow.Identity, jobID uuid.UUID, signedUp bool) (workflow.View, error) {
	j, sess, err := u.load(ctx, id, jobID)
	if err != nil {
		return workflow.View{}, err
	}
	if signedUp {
		return sess.SignedUp(j)
	}
	return sess.SignedIn(j)
}

func (u *Applications) CheckVerified(ctx context.Context, id *workflow.Identity, jobID uuid.UUID) (workflow.View, error) {
	j, sess, err := u.load(ctx, id, jobID)
	if err != nil {
		return workflow.View{}, err
	}
	return sess.CheckVerified(j)
}

func (u *Applications) Close(ctx context.Context, id *workflow.Identity, jobID uuid.UUID) (workflow.View, error) {
	j, sess, err := u.load(ctx, id, jobID)
	if err != nil {
		return workflow.View{}, err
	}
	return sess.Close(j), nil
}

func (u *Applications) Submit(ctx context.Context, id *workflow.Identity, jobID uuid.UUID, form application.Form) (workflow.Result, error) {
	if id == nil {
		return workflow.Result{View: workflow.View{JobID: jobID, State: workflow.StateAuth}}, workflow.ErrNotAuthenticated
	}
	j, sess, err := u.load(ctx, id, jobID)
	if err != nil {
		return workflow.Result{}, err
	}

	res, err := u.submitter.Submit(ctx, sess, j, form)
	metrics.RecordSubmission(string(j.Board), submitOutcome(err))
	return res, err
}

// Rehydrate drops the cached session of id so the applied set is reloaded
// from the store. Called after every sign-in.
func (u *Applications) Rehydrate(ctx context.Context, id *workflow.Identity) error {
	_, err := u.sessions.Refresh(ctx, id)
	return err
}

func (u *Applications) Forget(userID string) {
	u.sessions.Drop(userID)
}

func (u *Applications) Mine(ctx context.Context, applicantID string) ([]application.Application, error) {
	if applicantID == "" {
		return nil, ErrUnauthorized
	}
	return u.apps.ListByApplicant(ctx, applicantID)
}

type ApplicantPage struct {
	Items []application.Application
	Total int
}

// ListForBoard backs the admin applicant tables.
func (u *Applications) ListForBoard(ctx context.Context, board job.Board, search string, limit, offset int) (ApplicantPage, error) {
	if _, ok := job.ParseBoard(string(board)); !ok {
		return ApplicantPage{}, ErrInvalidInput
	}
	if limit < 0 || offset < 0 {
		return ApplicantPage{}, ErrInvalidInput
	}
	items, err := u.apps.ListByBoard(ctx, board, search, limit, offset)
	if err != nil {
		return ApplicantPage{}, err
	}
	total, err := u.apps.CountMatching(ctx, board, search)
	if err != nil {
		return ApplicantPage{}, err
	}
	return ApplicantPage{Items: items, Total: total}, nil
}

func (u *Applications) load(ctx context.Context, id *workflow.Identity, jobID uuid.UUID) (job.Job, *workflow.Session, error) {
	j, err := u.jobs.Get(ctx, jobID)
	if err != nil {
		return job.Job{}, nil, err
	}
	sess, err := u.sessions.For(ctx, id)
	if err != nil {
		return job.Job{}, nil, err
	}
	return j, sess, nil
}

func submitOutcome(err error) string {
	switch {
	case err == nil:
		return "succeeded"
	case errors.Is(err, validate.ErrInvalid):
		return "invalid"
	case errors.Is(err, application.ErrAlreadyApplied):
		return "duplicate"
	case errors.Is(err, workflow.ErrUploadFailed):
		return "upload_failed"
	case errors.Is(err, workflow.ErrPersistFailed):
		return "store_failed"
	default:
		return "rejected"
	}
}
