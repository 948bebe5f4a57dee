package v1

import (
	"github.com/gofiber/fiber/v3"

	"swadesh-intern/internal/delivery/http/handler"
	"swadesh-intern/internal/delivery/http/middleware"
)

// Deps is everything the /api/v1 tree mounts. ChatLimit and ContactLimit
// may be nil.
type Deps struct {
	Auth  *middleware.AuthMiddleware
	Admin *middleware.AdminMiddleware

	AuthHandler        *handler.AuthHandler
	JobsHandler        *handler.JobsHandler
	ApplicationHandler *handler.ApplicationHandler
	CertificateHandler *handler.CertificateHandler
	AdminHandler       *handler.AdminHandler
	SiteHandler        *handler.SiteHandler
	ContactHandler     *handler.ContactHandler
	ChatHandler        *handler.ChatHandler

	ChatLimit    fiber.Handler
	ContactLimit fiber.Handler
}

func Register(r fiber.Router, d Deps) {
	if r == nil {
		return
	}

	RegisterPublic(r, d)
	RegisterAccount(r, d)
	RegisterAdmin(r.Group("/admin", d.Auth.Middleware(), d.Admin.Middleware()), d)
}
