package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swadesh-intern/internal/domain/application"
	"swadesh-intern/internal/domain/job"
	"swadesh-intern/internal/validate"
)

type fakeUploader struct {
	url   string
	err   error
	calls int
}

func (f *fakeUploader) UploadResume(_ context.Context, _ application.Resume) (string, error) {
	f.calls++
	return f.url, f.err
}

type fakeStore struct {
	err       error
	existing  bool
	existsErr error
	created   []application.Application
}

func (f *fakeStore) Exists(_ context.Context, _ string, _ uuid.UUID) (bool, error) {
	return f.existing, f.existsErr
}

func (f *fakeStore) Create(_ context.Context, a application.Application) (application.Application, error) {
	if f.err != nil {
		return application.Application{}, f.err
	}
	a.ID = uuid.New()
	f.created = append(f.created, a)
	return a, nil
}

func validForm() application.Form {
	return application.Form{
		Name:     "Rahul Singh",
		Phone:    "9876543210",
		College:  "IIT Delhi",
		Stream:   "CSE",
		GradYear: "2026",
		Skills:   "Go, SQL",
		Resume:   &application.Resume{Filename: "cv.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")},
	}
}

func atForm(t *testing.T, j job.Job) *Session {
	t.Helper()
	s := boundSession(t, &Identity{UserID: "u1", Email: "rahul@gmail.com", Verified: true}, nil)
	s.Open(j)
	v, err := s.Apply(j)
	require.NoError(t, err)
	require.Equal(t, StateForm, v.State)
	return s
}

func TestSubmit_SuccessMarksApplied(t *testing.T) {
	j := careersJob()
	s := atForm(t, j)
	up := &fakeUploader{url: "https://res.cloudinary.com/x/cv.pdf"}
	store := &fakeStore{}

	res, err := NewSubmitter(up, store, nil).Submit(context.Background(), s, j, validForm())
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, res.View.State)
	require.NotNil(t, res.Application)
	assert.True(t, s.HasApplied(j.ID))

	require.Len(t, store.created, 1)
	got := store.created[0]
	assert.Equal(t, "u1", got.ApplicantID)
	assert.Equal(t, "rahul@gmail.com", got.Email)
	assert.Equal(t, "Core Team", got.CompanyName)
	assert.Equal(t, "B.Tech", got.Degree)
	assert.Equal(t, "N/A", got.LinkedIn)
	assert.Equal(t, application.StatusPending, got.Status)
	assert.Equal(t, "https://res.cloudinary.com/x/cv.pdf", got.ResumeURL)

	assert.Equal(t, StateAlreadyApplied, s.Open(j).State)
}

func TestSubmit_OpportunityUsesAppliedStatus(t *testing.T) {
	j := boardJob()
	s := atForm(t, j)
	store := &fakeStore{}

	_, err := NewSubmitter(&fakeUploader{url: "https://cdn/cv.pdf"}, store, nil).Submit(context.Background(), s, j, validForm())
	require.NoError(t, err)
	require.Len(t, store.created, 1)
	assert.Equal(t, application.StatusApplied, store.created[0].Status)
	assert.Equal(t, "Acme", store.created[0].CompanyName)
}

func TestSubmit_MissingResumeStaysOnForm(t *testing.T) {
	j := careersJob()
	s := atForm(t, j)
	up := &fakeUploader{url: "https://cdn/cv.pdf"}
	store := &fakeStore{}
	form := validForm()
	form.Resume = nil

	res, err := NewSubmitter(up, store, nil).Submit(context.Background(), s, j, form)
	require.Error(t, err)
	assert.True(t, errors.Is(err, validate.ErrInvalid))
	assert.Equal(t, StateForm, res.View.State)
	assert.Equal(t, validate.MsgResumeRequired, res.View.Message)
	assert.Zero(t, up.calls)
	assert.Empty(t, store.created)
}

func TestSubmit_InvalidNameStaysOnForm(t *testing.T) {
	j := careersJob()
	s := atForm(t, j)
	form := validForm()
	form.Name = "R4hul"

	res, err := NewSubmitter(&fakeUploader{}, &fakeStore{}, nil).Submit(context.Background(), s, j, form)
	require.Error(t, err)
	assert.Equal(t, StateForm, res.View.State)
	assert.Equal(t, "Name must contain only alphabets.", res.View.Message)
}

func TestSubmit_UploadFailureReturnsToForm(t *testing.T) {
	for name, up := range map[string]*fakeUploader{
		"error":     {err: errors.New("boom")},
		"empty url": {url: ""},
	} {
		t.Run(name, func(t *testing.T) {
			j := boardJob()
			s := atForm(t, j)
			store := &fakeStore{}

			res, err := NewSubmitter(up, store, nil).Submit(context.Background(), s, j, validForm())
			assert.True(t, errors.Is(err, ErrUploadFailed))
			assert.Equal(t, StateForm, res.View.State)
			assert.Equal(t, "Submission failed. Please try again.", res.View.Message)
			assert.Empty(t, store.created)
			assert.False(t, s.HasApplied(j.ID))
		})
	}
}

func TestSubmit_StoreDuplicateEndsAlreadyApplied(t *testing.T) {
	j := careersJob()
	s := atForm(t, j)

	res, err := NewSubmitter(&fakeUploader{url: "https://cdn/cv.pdf"}, &fakeStore{err: application.ErrAlreadyApplied}, nil).
		Submit(context.Background(), s, j, validForm())
	assert.True(t, errors.Is(err, application.ErrAlreadyApplied))
	assert.Equal(t, StateAlreadyApplied, res.View.State)
	assert.True(t, s.HasApplied(j.ID))
}

func TestSubmit_ExistingApplicationSkipsUpload(t *testing.T) {
	j := careersJob()
	s := atForm(t, j)
	up := &fakeUploader{url: "https://cdn/cv.pdf"}
	store := &fakeStore{existing: true}

	res, err := NewSubmitter(up, store, nil).Submit(context.Background(), s, j, validForm())
	assert.True(t, errors.Is(err, application.ErrAlreadyApplied))
	assert.Equal(t, StateAlreadyApplied, res.View.State)
	assert.True(t, s.HasApplied(j.ID))
	assert.Zero(t, up.calls)
	assert.Empty(t, store.created)
}

func TestSubmit_PreCheckErrorFallsThroughToStore(t *testing.T) {
	j := careersJob()
	s := atForm(t, j)
	up := &fakeUploader{url: "https://cdn/cv.pdf"}
	store := &fakeStore{existsErr: errors.New("timeout")}

	res, err := NewSubmitter(up, store, nil).Submit(context.Background(), s, j, validForm())
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, res.View.State)
	assert.Equal(t, 1, up.calls)
	assert.Len(t, store.created, 1)
}

func TestSubmit_StoreFailure(t *testing.T) {
	j := careersJob()
	s := atForm(t, j)

	res, err := NewSubmitter(&fakeUploader{url: "https://cdn/cv.pdf"}, &fakeStore{err: errors.New("conn reset")}, nil).
		Submit(context.Background(), s, j, validForm())
	assert.True(t, errors.Is(err, ErrPersistFailed))
	assert.Equal(t, StateForm, res.View.State)
	assert.Equal(t, "Error submitting application. Please try again.", res.View.Message)
}

func TestSubmit_RequiresIdentity(t *testing.T) {
	j := careersJob()
	res, err := NewSubmitter(&fakeUploader{}, &fakeStore{}, nil).Submit(context.Background(), NewSession(), j, validForm())
	assert.True(t, errors.Is(err, ErrNotAuthenticated))
	assert.Equal(t, StateAuth, res.View.State)
}

func TestSubmit_ExternalJobRejected(t *testing.T) {
	j := boardJob()
	j.ApplyMethod = job.ApplyExternal
	j.ExternalLink = "https://acme.dev/apply"
	s := boundSession(t, &Identity{UserID: "u1", Verified: true}, nil)

	res, err := NewSubmitter(&fakeUploader{}, &fakeStore{}, nil).Submit(context.Background(), s, j, validForm())
	assert.True(t, errors.Is(err, ErrExternalJob))
	assert.Equal(t, "https://acme.dev/apply", res.View.RedirectURL)
}

func TestSubmit_UnverifiedOnBoard(t *testing.T) {
	j := boardJob()
	s := boundSession(t, &Identity{UserID: "u1"}, nil)

	_, err := NewSubmitter(&fakeUploader{}, &fakeStore{}, nil).Submit(context.Background(), s, j, validForm())
	assert.True(t, errors.Is(err, ErrNotVerified))
}

func TestSubmit_InFlightRejected(t *testing.T) {
	j := careersJob()
	s := atForm(t, j)
	_, err := s.beginSubmit(j)
	require.NoError(t, err)

	_, err = NewSubmitter(&fakeUploader{}, &fakeStore{}, nil).Submit(context.Background(), s, j, validForm())
	assert.True(t, errors.Is(err, ErrSubmissionInFlight))
}
