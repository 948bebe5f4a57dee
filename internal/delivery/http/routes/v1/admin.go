package v1

import (
	"github.com/gofiber/fiber/v3"
)

// RegisterAdmin mounts the console API. r is expected to carry the auth and
// admin gates already.
func RegisterAdmin(r fiber.Router, d Deps) {
	if r == nil {
		return
	}

	r.Get("/me", d.AdminHandler.HandleMe)
	r.Get("/stats", d.AdminHandler.HandleStats)

	r.Post("/jobs", d.JobsHandler.HandlePostJob)
	r.Delete("/jobs/:id", d.JobsHandler.HandleDeleteJob)
	r.Get("/applications", d.ApplicationHandler.HandleListForBoard)

	r.Post("/certificates", d.CertificateHandler.HandleIssue)
	r.Get("/certificates/export", d.CertificateHandler.HandleExport)

	r.Put("/profile/photo", d.AdminHandler.HandleUploadPhoto)
	r.Put("/profile/password", d.AdminHandler.HandleChangePassword)
	r.Put("/settings/maintenance", d.AdminHandler.HandleSetMaintenance)

	super := r.Group("/admins", d.Admin.SuperAdmin())
	super.Get("", d.AdminHandler.HandleListAdmins)
	super.Post("", d.AdminHandler.HandleCreateAdmin)
	super.Delete("/:id", d.AdminHandler.HandleDeleteAdmin)
}
