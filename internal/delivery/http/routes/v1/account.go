package v1

import (
	"github.com/gofiber/fiber/v3"
)

func RegisterAccount(r fiber.Router, d Deps) {
	if r == nil {
		return
	}

	auth := r.Group("/auth")
	d.AuthHandler.RegisterRoutes(auth)

	// Group-level middleware would also cover the public /auth routes.
	session := d.Auth.Middleware()
	auth.Post("/signout", session, d.AuthHandler.SignOut)
	auth.Get("/me", session, d.AuthHandler.Me)
	auth.Add([]string{fiber.MethodPost, fiber.MethodPut}, "/password", session, d.AuthHandler.ChangePassword)
	auth.Post("/verify/send", session, d.AuthHandler.SendVerification)

	r.Get("/me/applications", session, d.ApplicationHandler.HandleMine)
}
