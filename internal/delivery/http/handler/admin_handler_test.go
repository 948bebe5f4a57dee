package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swadesh-intern/internal/domain/account"
	"swadesh-intern/internal/domain/setting"
	"swadesh-intern/internal/infrastructure/upload"
	"swadesh-intern/internal/usecase"
)

type fakeAdminService struct {
	created   usecase.CreateAdminInput
	deleteErr error
	uploaded  upload.File
}

func (f *fakeAdminService) Stats(context.Context) (usecase.Stats, error) {
	return usecase.Stats{CareersApplications: 4, Certificates: 9}, nil
}

func (f *fakeAdminService) ListAdmins(_ context.Context, actor account.Admin) ([]account.Admin, error) {
	if !actor.IsSuper() {
		return nil, usecase.ErrSuperAdminOnly
	}
	return []account.Admin{actor}, nil
}

func (f *fakeAdminService) CreateAdmin(_ context.Context, _ account.Admin, in usecase.CreateAdminInput) (account.Admin, error) {
	f.created = in
	return account.Admin{UserID: "new", Name: in.Name, Email: in.Email, Role: account.RoleAdmin, IsActive: true}, nil
}

func (f *fakeAdminService) DeleteAdmin(context.Context, account.Admin, string) error {
	return f.deleteErr
}

func (f *fakeAdminService) UploadPhoto(_ context.Context, _ account.Admin, file upload.File) (string, error) {
	f.uploaded = file
	return "https://res.cloudinary.com/demo/image/upload/me.png", nil
}

type fakeMaintenance struct {
	on bool
	by string
}

func (f *fakeMaintenance) SetMaintenance(_ context.Context, on bool, by string) (setting.System, error) {
	f.on, f.by = on, by
	return setting.System{MaintenanceMode: on, UpdatedBy: by}, nil
}

func adminApp(svc *fakeAdminService, m *fakeMaintenance, actor account.Admin) *fiber.App {
	h := NewAdminHandler(svc, &fakeAuthService{}, m, 1<<20)
	app := newTestApp()
	app.Use(asAdmin(actor))
	app.Get("/admin/me", h.HandleMe)
	app.Get("/admin/stats", h.HandleStats)
	app.Get("/admin/admins", h.HandleListAdmins)
	app.Post("/admin/admins", h.HandleCreateAdmin)
	app.Delete("/admin/admins/:id", h.HandleDeleteAdmin)
	app.Put("/admin/profile/photo", h.HandleUploadPhoto)
	app.Put("/admin/settings/maintenance", h.HandleSetMaintenance)
	return app
}

func TestAdminHandler_Stats(t *testing.T) {
	resp, env := do(t, adminApp(&fakeAdminService{}, &fakeMaintenance{}, testAdmin), jsonRequest(http.MethodGet, "/admin/stats", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(env.Data), `"careers_applications":4`)
	assert.Contains(t, string(env.Data), `"certificates":9`)
}

func TestAdminHandler_ListAdminsNeedsSuper(t *testing.T) {
	plain := account.Admin{UserID: "a2", Email: "ops@swadeshintern.me", Role: account.RoleAdmin, IsActive: true}
	resp, env := do(t, adminApp(&fakeAdminService{}, &fakeMaintenance{}, plain), jsonRequest(http.MethodGet, "/admin/admins", nil))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Super admin access required", env.Message)
}

func TestAdminHandler_CreateAdmin(t *testing.T) {
	svc := &fakeAdminService{}
	resp, env := do(t, adminApp(svc, &fakeMaintenance{}, testAdmin), jsonRequest(http.MethodPost, "/admin/admins", map[string]string{
		"name":     "Ops",
		"email":    "ops@swadeshintern.me",
		"password": "secret1",
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "ops@swadeshintern.me", svc.created.Email)
	assert.Contains(t, string(env.Data), `"role":"ADMIN"`)
}

func TestAdminHandler_DeleteErrors(t *testing.T) {
	cases := map[error]int{
		usecase.ErrCannotDeleteSelf:       http.StatusBadRequest,
		usecase.ErrCannotDeleteSuperAdmin: http.StatusForbidden,
		account.ErrNotFound:               http.StatusNotFound,
	}
	for err, status := range cases {
		resp, _ := do(t, adminApp(&fakeAdminService{deleteErr: err}, &fakeMaintenance{}, testAdmin), jsonRequest(http.MethodDelete, "/admin/admins/x", nil))
		assert.Equal(t, status, resp.StatusCode, err.Error())
	}
}

func TestAdminHandler_UploadPhoto(t *testing.T) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="photo"; filename="me.png"`)
	hdr.Set("Content-Type", "image/png")
	part, err := w.CreatePart(hdr)
	require.NoError(t, err)
	_, _ = part.Write([]byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPut, "/admin/profile/photo", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())

	svc := &fakeAdminService{}
	resp, env := do(t, adminApp(svc, &fakeMaintenance{}, testAdmin), req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", svc.uploaded.ContentType)
	assert.Contains(t, string(env.Data), "me.png")
}

func TestAdminHandler_SetMaintenance(t *testing.T) {
	m := &fakeMaintenance{}
	app := adminApp(&fakeAdminService{}, m, testAdmin)

	resp, env := do(t, app, jsonRequest(http.MethodPut, "/admin/settings/maintenance", map[string]bool{"enabled": true}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Maintenance Enabled", env.Message)
	assert.True(t, m.on)
	assert.Equal(t, testAdmin.Email, m.by)

	resp, env = do(t, app, jsonRequest(http.MethodPut, "/admin/settings/maintenance", map[string]bool{"enabled": false}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Maintenance Disabled", env.Message)

	resp, _ = do(t, app, jsonRequest(http.MethodPut, "/admin/settings/maintenance", map[string]string{}))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
