package handler

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swadesh-intern/internal/domain/certificate"
	"swadesh-intern/internal/usecase"
)

type fakeCertificateService struct {
	certs    map[string]certificate.Certificate
	issuedBy string
	issueErr error
}

func (f *fakeCertificateService) Verify(_ context.Context, raw string) (usecase.VerifyResult, error) {
	id := certificate.NormalizeID(raw)
	if id == "" {
		return usecase.VerifyResult{}, usecase.ErrMissingCertificateID
	}
	c, ok := f.certs[id]
	if !ok {
		return usecase.VerifyResult{ID: id}, nil
	}
	return usecase.VerifyResult{ID: id, Found: true, Certificate: &c}, nil
}

func (f *fakeCertificateService) Issue(_ context.Context, issuedBy string, in usecase.IssueCertificateInput) (usecase.IssuedCertificate, error) {
	if f.issueErr != nil {
		return usecase.IssuedCertificate{}, f.issueErr
	}
	f.issuedBy = issuedBy
	c := certificate.Certificate{ID: "SI-26-ABCDE", StudentName: in.StudentName, Domain: in.Domain}
	return usecase.IssuedCertificate{Certificate: c, VerifyURL: "https://swadeshintern.me/verify?id=SI-26-ABCDE"}, nil
}

func (f *fakeCertificateService) Export(_ context.Context, w io.Writer) (int, error) {
	_, err := io.WriteString(w, "ID,Name,Domain,Start,End\nSI-26-ABCDE,Asha Rao,Web Development,2026-01-01,2026-03-01\n")
	return 1, err
}

func certificatesApp(svc *fakeCertificateService) *fiber.App {
	h := NewCertificateHandler(svc)
	app := newTestApp()
	app.Get("/verify", h.HandleVerify)
	app.Post("/admin/certificates", asAdmin(testAdmin), h.HandleIssue)
	app.Get("/admin/certificates/export", asAdmin(testAdmin), h.HandleExport)
	return app
}

func TestCertificateHandler_Verify(t *testing.T) {
	svc := &fakeCertificateService{certs: map[string]certificate.Certificate{
		"SI-26-ABCDE": {ID: "SI-26-ABCDE", StudentName: "Asha Rao", Domain: "Web Development"},
	}}
	app := certificatesApp(svc)

	resp, env := do(t, app, jsonRequest(http.MethodGet, "/verify?id=+si-26-abcde+", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(env.Data), `"found":true`)
	assert.Contains(t, string(env.Data), "Asha Rao")

	resp, env = do(t, app, jsonRequest(http.MethodGet, "/verify?id=SI-26-ZZZZZ", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Certificate not found", env.Message)
	assert.Contains(t, string(env.Data), `"found":false`)

	resp, _ = do(t, app, jsonRequest(http.MethodGet, "/verify", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCertificateHandler_Issue(t *testing.T) {
	svc := &fakeCertificateService{}
	resp, env := do(t, certificatesApp(svc), jsonRequest(http.MethodPost, "/admin/certificates", map[string]string{
		"student_name": "Asha Rao",
		"domain":       "Web Development",
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, testAdmin.Email, svc.issuedBy)
	assert.Contains(t, string(env.Data), "verify?id=SI-26-ABCDE")

	svc = &fakeCertificateService{issueErr: certificate.ErrDuplicateID}
	resp, _ = do(t, certificatesApp(svc), jsonRequest(http.MethodPost, "/admin/certificates", map[string]string{}))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCertificateHandler_Export(t *testing.T) {
	resp, err := certificatesApp(&fakeCertificateService{}).Test(jsonRequest(http.MethodGet, "/admin/certificates/export", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), usecase.CertificateExportFilename)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "ID,Name,Domain,Start,End\n")
}
