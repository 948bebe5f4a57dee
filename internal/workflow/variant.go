package workflow

import (
	"swadesh-intern/internal/domain/application"
	"swadesh-intern/internal/domain/job"
)

// Variant captures how the two boards differ. Careers applicants go straight
// to the form after signing in; opportunities applicants must verify their
// email first.
type Variant struct {
	Board               job.Board
	RequireVerification bool
	Status              application.Status
	FailureMessage      string

	DefaultDepartment string
	DefaultDegree     string
	DefaultLinkedIn   string
}

var (
	careersVariant = Variant{
		Board:             job.BoardCareers,
		Status:            application.StatusPending,
		FailureMessage:    "Error submitting application. Please try again.",
		DefaultDepartment: "Core Team",
		DefaultDegree:     "B.Tech",
		DefaultLinkedIn:   "N/A",
	}
	opportunitiesVariant = Variant{
		Board:               job.BoardOpportunities,
		RequireVerification: true,
		Status:              application.StatusApplied,
		FailureMessage:      "Submission failed. Please try again.",
		DefaultLinkedIn:     "N/A",
	}
)

func VariantFor(board job.Board) Variant {
	if board == job.BoardOpportunities {
		return opportunitiesVariant
	}
	return careersVariant
}
