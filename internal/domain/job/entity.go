package job

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Board separates the in-house careers page from the external
// opportunities board. The two boards differ in how applicants are
// onboarded, see workflow.VariantFor.
type Board string

const (
	BoardCareers       Board = "careers"
	BoardOpportunities Board = "opportunities"
)

func ParseBoard(s string) (Board, bool) {
	switch Board(strings.ToLower(strings.TrimSpace(s))) {
	case BoardCareers:
		return BoardCareers, true
	case BoardOpportunities:
		return BoardOpportunities, true
	default:
		return "", false
	}
}

type ApplyMethod string

const (
	ApplyPlatform ApplyMethod = "platform"
	ApplyExternal ApplyMethod = "external"
)

type Job struct {
	ID               uuid.UUID
	Board            Board
	Title            string
	CompanyName      string
	Location         string
	Type             string
	Compensation     string
	Experience       string
	Skills           []string
	Description      string
	Responsibilities string
	Benefits         string
	CompanyOverview  string
	Website          string
	ApplyMethod      ApplyMethod
	ExternalLink     string
	PostedBy         string
	PostedAt         time.Time
}

func (j Job) IsExternal() bool {
	return j.ApplyMethod == ApplyExternal
}

// ExternalURL is the redirect target for external jobs, always with a scheme.
func (j Job) ExternalURL() string {
	return EnsureProtocol(j.ExternalLink)
}

func EnsureProtocol(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	lower := strings.ToLower(link)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return link
	}
	return "https://" + link
}

// SplitSkills turns the comma separated admin input into a clean list.
func SplitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
