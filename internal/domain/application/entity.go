package application

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"swadesh-intern/internal/domain/job"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusApplied Status = "applied"
)

var (
	ErrNotFound       = errors.New("application not found")
	ErrAlreadyApplied = errors.New("already applied")
)

type Application struct {
	ID          uuid.UUID
	JobID       uuid.UUID
	Board       job.Board
	JobTitle    string
	CompanyName string
	ApplicantID string
	Name        string
	Email       string
	Phone       string
	LinkedIn    string
	College     string
	Degree      string
	Stream      string
	GradYear    string
	Skills      string
	ResumeURL   string
	Status      Status
	AppliedAt   time.Time
}

// Form is the applicant-supplied part of an application. It never outlives
// a single submit attempt.
type Form struct {
	Name     string
	Email    string
	Phone    string
	LinkedIn string
	College  string
	Degree   string
	Stream   string
	GradYear string
	Skills   string
	Resume   *Resume
}

type Resume struct {
	Filename    string
	ContentType string
	Data        []byte
}

// IsPDF accepts either a pdf content type or a .pdf file name; browsers
// are inconsistent about which one they fill in.
func (r *Resume) IsPDF() bool {
	if r == nil {
		return false
	}
	if strings.EqualFold(strings.TrimSpace(r.ContentType), "application/pdf") {
		return true
	}
	return strings.EqualFold(filepath.Ext(r.Filename), ".pdf")
}

// HasResume reports whether a non-empty PDF is attached.
func (f Form) HasResume() bool {
	return f.Resume != nil && len(f.Resume.Data) > 0 && f.Resume.IsPDF()
}

type Repository interface {
	Create(ctx context.Context, a Application) (Application, error)
	Exists(ctx context.Context, applicantID string, jobID uuid.UUID) (bool, error)
	AppliedJobIDs(ctx context.Context, applicantID string) ([]uuid.UUID, error)
	// ListByBoard filters by applicant name or job title when search is set.
	ListByBoard(ctx context.Context, board job.Board, search string, limit, offset int) ([]Application, error)
	ListByApplicant(ctx context.Context, applicantID string) ([]Application, error)
	CountByBoard(ctx context.Context, board job.Board) (int, error)
	// CountMatching counts what ListByBoard would return without paging.
	CountMatching(ctx context.Context, board job.Board, search string) (int, error)
}
