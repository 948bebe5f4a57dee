package dto

import "swadesh-intern/internal/domain/certificate"

type CertificateResponse struct {
	ID          string `json:"id"`
	StudentName string `json:"student_name"`
	Domain      string `json:"domain"`
	Duration    string `json:"duration,omitempty"`
	StartDate   string `json:"start_date"`
	AwardDate   string `json:"award_date"`
}

func NewCertificateResponse(c certificate.Certificate) CertificateResponse {
	return CertificateResponse{
		ID:          c.ID,
		StudentName: c.StudentName,
		Domain:      c.Domain,
		Duration:    c.Duration,
		StartDate:   c.StartDate,
		AwardDate:   c.AwardDate,
	}
}

// VerifyResponse is returned with status 200 whether or not the id exists.
type VerifyResponse struct {
	ID          string               `json:"id"`
	Found       bool                 `json:"found"`
	Certificate *CertificateResponse `json:"certificate,omitempty"`
}

type IssuedCertificateResponse struct {
	Certificate CertificateResponse `json:"certificate"`
	VerifyURL   string              `json:"verify_url"`
}
