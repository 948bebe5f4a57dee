package v1

import (
	"github.com/gofiber/fiber/v3"
)

func RegisterPublic(r fiber.Router, d Deps) {
	if r == nil {
		return
	}

	d.SiteHandler.RegisterRoutes(r)

	jobs := r.Group("/jobs")
	jobs.Get("", d.JobsHandler.HandleListJobs)
	jobs.Get("/:id", d.JobsHandler.HandleGetJob)

	flow := jobs.Group("/:id", d.Auth.Optional())
	flow.Get("/flow", d.ApplicationHandler.HandleOpen)
	flow.Post("/apply", d.ApplicationHandler.HandleApply)
	flow.Post("/flow/close", d.ApplicationHandler.HandleClose)
	flow.Post("/flow/verified", d.Auth.Middleware(), d.ApplicationHandler.HandleVerified)
	flow.Post("/applications", d.Auth.Middleware(), d.ApplicationHandler.HandleSubmit)

	r.Get("/certificates/verify", d.CertificateHandler.HandleVerify)

	r.Post("/contact", orNext(d.ContactLimit), d.ContactHandler.HandleSend)

	chat := r.Group("/chat/sessions", orNext(d.ChatLimit))
	chat.Post("", d.ChatHandler.HandleStart)
	chat.Post("/:id/messages", d.ChatHandler.HandleSend)
}

func orNext(h fiber.Handler) fiber.Handler {
	if h != nil {
		return h
	}
	return func(c fiber.Ctx) error { return c.Next() }
}
