package dto

import (
	"github.com/google/uuid"

	"swadesh-intern/internal/domain/application"
	"swadesh-intern/internal/workflow"
)

type ApplicationResponse struct {
	ID          uuid.UUID `json:"id"`
	JobID       uuid.UUID `json:"job_id"`
	Board       string    `json:"board"`
	JobTitle    string    `json:"job_title"`
	CompanyName string    `json:"company_name"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	LinkedIn    string    `json:"linkedin"`
	College     string    `json:"college"`
	Degree      string    `json:"degree,omitempty"`
	Stream      string    `json:"stream,omitempty"`
	GradYear    string    `json:"grad_year"`
	Skills      string    `json:"skills,omitempty"`
	ResumeURL   string    `json:"resume_url"`
	Status      string    `json:"status"`
	AppliedAt   string    `json:"applied_at"`
}

func NewApplicationResponse(a application.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:          a.ID,
		JobID:       a.JobID,
		Board:       string(a.Board),
		JobTitle:    a.JobTitle,
		CompanyName: a.CompanyName,
		Name:        a.Name,
		Email:       a.Email,
		Phone:       a.Phone,
		LinkedIn:    a.LinkedIn,
		College:     a.College,
		Degree:      a.Degree,
		Stream:      a.Stream,
		GradYear:    a.GradYear,
		Skills:      a.Skills,
		ResumeURL:   a.ResumeURL,
		Status:      string(a.Status),
		AppliedAt:   formatTime(a.AppliedAt),
	}
}

func NewApplicationList(items []application.Application) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(items))
	for _, a := range items {
		out = append(out, NewApplicationResponse(a))
	}
	return out
}

// MyApplicationResponse is the candidate's own view; contact details are
// left out.
type MyApplicationResponse struct {
	JobID       uuid.UUID `json:"job_id"`
	JobTitle    string    `json:"job_title"`
	CompanyName string    `json:"company_name"`
	Status      string    `json:"status"`
	AppliedAt   string    `json:"applied_at"`
}

func NewMyApplications(items []application.Application) []MyApplicationResponse {
	out := make([]MyApplicationResponse, 0, len(items))
	for _, a := range items {
		out = append(out, MyApplicationResponse{
			JobID:       a.JobID,
			JobTitle:    a.JobTitle,
			CompanyName: a.CompanyName,
			Status:      string(a.Status),
			AppliedAt:   formatTime(a.AppliedAt),
		})
	}
	return out
}

type SubmitResponse struct {
	Flow        workflow.View        `json:"flow"`
	Application *ApplicationResponse `json:"application,omitempty"`
}
