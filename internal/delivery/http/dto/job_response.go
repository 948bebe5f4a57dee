package dto

import (
	"time"

	"github.com/google/uuid"

	"swadesh-intern/internal/domain/job"
)

type JobResponse struct {
	ID               uuid.UUID `json:"id"`
	Board            string    `json:"board"`
	Title            string    `json:"title"`
	CompanyName      string    `json:"company_name"`
	Location         string    `json:"location"`
	Type             string    `json:"type"`
	Compensation     string    `json:"compensation,omitempty"`
	Experience       string    `json:"experience,omitempty"`
	Skills           []string  `json:"skills"`
	Description      string    `json:"description,omitempty"`
	Responsibilities string    `json:"responsibilities,omitempty"`
	Benefits         string    `json:"benefits,omitempty"`
	CompanyOverview  string    `json:"company_overview,omitempty"`
	Website          string    `json:"website,omitempty"`
	ApplyMethod      string    `json:"apply_method"`
	ExternalLink     string    `json:"external_link,omitempty"`
	PostedAt         string    `json:"posted_at"`
}

func NewJobResponse(j job.Job) JobResponse {
	skills := j.Skills
	if skills == nil {
		skills = []string{}
	}
	out := JobResponse{
		ID:               j.ID,
		Board:            string(j.Board),
		Title:            j.Title,
		CompanyName:      j.CompanyName,
		Location:         j.Location,
		Type:             j.Type,
		Compensation:     j.Compensation,
		Experience:       j.Experience,
		Skills:           skills,
		Description:      j.Description,
		Responsibilities: j.Responsibilities,
		Benefits:         j.Benefits,
		CompanyOverview:  j.CompanyOverview,
		Website:          j.Website,
		ApplyMethod:      string(j.ApplyMethod),
		PostedAt:         formatTime(j.PostedAt),
	}
	if j.IsExternal() {
		out.ExternalLink = j.ExternalURL()
	}
	return out
}

func NewJobList(items []job.Job) []JobResponse {
	out := make([]JobResponse, 0, len(items))
	for _, j := range items {
		out = append(out, NewJobResponse(j))
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
