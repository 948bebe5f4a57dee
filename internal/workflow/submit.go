package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"swadesh-intern/internal/domain/application"
	"swadesh-intern/internal/domain/job"
	"swadesh-intern/internal/logging"
	"swadesh-intern/internal/validate"
)

var (
	ErrUploadFailed  = errors.New("resume upload failed")
	ErrPersistFailed = errors.New("application could not be stored")
)

type ResumeUploader interface {
	UploadResume(ctx context.Context, r application.Resume) (string, error)
}

type ApplicationStore interface {
	Create(ctx context.Context, a application.Application) (application.Application, error)
	Exists(ctx context.Context, applicantID string, jobID uuid.UUID) (bool, error)
}

// Result is the outcome of one submit attempt. Application is set only on
// success.
type Result struct {
	View        View
	Application *application.Application
}

// Submitter runs validate -> duplicate check -> upload -> persist -> mark
// applied. Nothing is written when validation or upload fails, and nothing is
// uploaded for an application the store already holds. A failed write after a
// successful upload leaves the uploaded file behind; it is logged.
type Submitter struct {
	uploader ResumeUploader
	store    ApplicationStore
	logger   logrus.FieldLogger
	now      func() time.Time
}

func NewSubmitter(uploader ResumeUploader, store ApplicationStore, logger logrus.FieldLogger) *Submitter {
	return &Submitter{uploader: uploader, store: store, logger: logging.OrDiscard(logger), now: time.Now}
}

func (s *Submitter) Submit(ctx context.Context, sess *Session, j job.Job, form application.Form) (Result, error) {
	if sess == nil {
		return Result{View: View{JobID: j.ID, State: StateAuth}}, ErrNotAuthenticated
	}
	id, ok := sess.Identity()
	if !ok {
		return Result{View: View{JobID: j.ID, State: StateAuth}}, ErrNotAuthenticated
	}
	if j.IsExternal() {
		return Result{View: View{JobID: j.ID, State: StateDetails, RedirectURL: j.ExternalURL()}}, ErrExternalJob
	}

	if view, err := sess.prepareForm(j); err != nil {
		return Result{View: view}, err
	}

	check := validate.ApplicationForm{
		Name:     form.Name,
		Phone:    form.Phone,
		GradYear: form.GradYear,
		College:  form.College,
	}
	if form.HasResume() {
		check.Resume = form.Resume.Filename
	}
	if err := validate.Struct(check); err != nil {
		return Result{View: sess.rejectForm(j, validate.Message(err))}, err
	}

	view, err := sess.beginSubmit(j)
	if err != nil {
		return Result{View: view}, err
	}

	variant := VariantFor(j.Board)
	log := s.logger.WithFields(logrus.Fields{"job_id": j.ID, "applicant_id": id.UserID, "board": j.Board})

	applied, err := s.store.Exists(ctx, id.UserID, j.ID)
	if err != nil {
		log.WithError(err).Warn("duplicate pre-check failed; relying on store constraint")
	} else if applied {
		log.Info("already applied, skipping upload")
		v := sess.finishSubmit(j, EventAlreadyApplied, "")
		return Result{View: v}, application.ErrAlreadyApplied
	}

	url, err := s.uploader.UploadResume(ctx, *form.Resume)
	if err == nil && strings.TrimSpace(url) == "" {
		err = errors.New("no secure url returned")
	}
	if err != nil {
		log.WithError(err).Warn("resume upload failed")
		v := sess.finishSubmit(j, EventFailed, variant.FailureMessage)
		return Result{View: v}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	app := buildApplication(j, variant, id, form, url, s.now().UTC())
	stored, err := s.store.Create(ctx, app)
	if err != nil {
		if errors.Is(err, application.ErrAlreadyApplied) {
			log.Info("duplicate application rejected by store")
			v := sess.finishSubmit(j, EventAlreadyApplied, "")
			return Result{View: v}, err
		}
		log.WithError(err).WithField("resume_url", url).Warn("application write failed after upload; resume left orphaned")
		v := sess.finishSubmit(j, EventFailed, variant.FailureMessage)
		return Result{View: v}, fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}

	log.WithField("application_id", stored.ID).Info("application submitted")
	v := sess.finishSubmit(j, EventSucceeded, "")
	return Result{View: v, Application: &stored}, nil
}

func buildApplication(j job.Job, variant Variant, id Identity, f application.Form, resumeURL string, now time.Time) application.Application {
	orDefault := func(v, def string) string {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
		return def
	}

	company := j.CompanyName
	if j.Board == job.BoardCareers {
		company = orDefault(company, variant.DefaultDepartment)
	}
	email := orDefault(f.Email, id.Email)

	return application.Application{
		JobID:       j.ID,
		Board:       j.Board,
		JobTitle:    j.Title,
		CompanyName: company,
		ApplicantID: id.UserID,
		Name:        strings.TrimSpace(f.Name),
		Email:       email,
		Phone:       strings.TrimSpace(f.Phone),
		LinkedIn:    orDefault(f.LinkedIn, variant.DefaultLinkedIn),
		College:     strings.TrimSpace(f.College),
		Degree:      orDefault(f.Degree, variant.DefaultDegree),
		Stream:      strings.TrimSpace(f.Stream),
		GradYear:    strings.TrimSpace(f.GradYear),
		Skills:      strings.TrimSpace(f.Skills),
		ResumeURL:   resumeURL,
		Status:      variant.Status,
		AppliedAt:   now,
	}
}
