package usecase

import (
	"context"
	"crypto/rand"
	"encoding/csv"
	"errors"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"swadesh-intern/internal/domain/certificate"
	"swadesh-intern/internal/infrastructure/cache"
	"swadesh-intern/internal/logging"
	"swadesh-intern/internal/metrics"
	"swadesh-intern/internal/validate"
)

const (
	CertificateExportFilename = "Swadesh_Interns.csv"

	certificateTTL = time.Hour
)

var ErrMissingCertificateID = errors.New("certificate id is required")

type VerifyResult struct {
	ID          string
	Found       bool
	Certificate *certificate.Certificate
}

type IssueCertificateInput struct {
	StudentName string
	Domain      string
	Duration    string
	StartDate   string
	AwardDate   string
}

func (in IssueCertificateInput) form() validate.CertificateForm {
	return validate.CertificateForm{
		StudentName: in.StudentName,
		Domain:      in.Domain,
		Duration:    in.Duration,
		StartDate:   in.StartDate,
		AwardDate:   in.AwardDate,
	}
}

type IssuedCertificate struct {
	Certificate certificate.Certificate
	VerifyURL   string
}

type Certificates struct {
	repo    certificate.Repository
	cache   Cache
	baseURL string
	random  io.Reader
	now     func() time.Time
	logger  logrus.FieldLogger
}

// NewCertificates builds the verification and issuance usecase. baseURL is
// the public site origin used in QR verification links.
func NewCertificates(repo certificate.Repository, c Cache, baseURL string, logger logrus.FieldLogger) *Certificates {
	return &Certificates{
		repo:    repo,
		cache:   cacheOrNone(c),
		baseURL: strings.TrimRight(baseURL, "/"),
		random:  rand.Reader,
		now:     time.Now,
		logger:  logging.OrDiscard(logger),
	}
}

// Verify looks up a certificate by its normalised id. An unknown id is a
// normal result with Found false, not an error.
func (u *Certificates) Verify(ctx context.Context, raw string) (VerifyResult, error) {
	id := certificate.NormalizeID(raw)
	if id == "" {
		return VerifyResult{}, ErrMissingCertificateID
	}

	key := cache.CertificateKey(id)
	var cached certificate.Certificate
	if hit, err := u.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		metrics.RecordCertificateLookup(true)
		return VerifyResult{ID: id, Found: true, Certificate: &cached}, nil
	}

	c, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, certificate.ErrNotFound) {
			metrics.RecordCertificateLookup(false)
			return VerifyResult{ID: id}, nil
		}
		return VerifyResult{}, err
	}
	if err := u.cache.SetJSON(ctx, key, c, certificateTTL); err != nil {
		u.logger.WithError(err).WithField("certificate_id", id).Warn("certificate cache write failed")
	}
	metrics.RecordCertificateLookup(true)
	return VerifyResult{ID: id, Found: true, Certificate: &c}, nil
}

// Issue stores a new certificate under a fresh random id. Ids are not
// checked for collisions beforehand; the primary key rejects a clash with
// certificate.ErrDuplicateID.
func (u *Certificates) Issue(ctx context.Context, issuedBy string, in IssueCertificateInput) (IssuedCertificate, error) {
	in.StudentName = strings.TrimSpace(in.StudentName)
	in.Domain = strings.TrimSpace(in.Domain)
	in.Duration = strings.TrimSpace(in.Duration)
	if err := validate.Struct(in.form()); err != nil {
		return IssuedCertificate{}, err
	}

	now := u.now().UTC()
	id, err := certificate.NewID(now, u.random)
	if err != nil {
		return IssuedCertificate{}, err
	}

	created, err := u.repo.Create(ctx, certificate.Certificate{
		ID:          id,
		StudentName: in.StudentName,
		Domain:      in.Domain,
		Duration:    in.Duration,
		StartDate:   strings.TrimSpace(in.StartDate),
		AwardDate:   strings.TrimSpace(in.AwardDate),
		IssuedBy:    issuedBy,
		CreatedAt:   now,
	})
	if err != nil {
		return IssuedCertificate{}, err
	}
	_ = u.cache.Delete(ctx, cache.StatsKey)

	u.logger.WithFields(logrus.Fields{"certificate_id": created.ID, "issued_by": issuedBy}).Info("certificate issued")
	return IssuedCertificate{Certificate: created, VerifyURL: u.VerifyURL(created.ID)}, nil
}

// VerifyURL is the deep link printed as a QR code on the certificate.
func (u *Certificates) VerifyURL(id string) string {
	return u.baseURL + "/verify?id=" + url.QueryEscape(id)
}

// Export writes every certificate as CSV with the header
// ID,Name,Domain,Start,End.
func (u *Certificates) Export(ctx context.Context, w io.Writer) (int, error) {
	items, err := u.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ID", "Name", "Domain", "Start", "End"}); err != nil {
		return 0, err
	}
	for _, c := range items {
		if err := cw.Write([]string{c.ID, c.StudentName, c.Domain, c.StartDate, c.AwardDate}); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	return len(items), cw.Error()
}
