package routes

import (
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"

	"swadesh-intern/internal/delivery/http/handler"
	v1 "swadesh-intern/internal/delivery/http/routes/v1"
	"swadesh-intern/internal/ws"
)

// MaintenanceExempt lists the path prefixes that stay reachable while the
// site is in maintenance mode.
var MaintenanceExempt = []string{
	"/health",
	"/metrics",
	"/ws",
	"/api/v1/auth",
	"/api/v1/site",
	"/api/v1/admin",
}

type Registry struct {
	Health  *handler.HealthHandler
	Metrics http.Handler
	Events  *ws.Handler
	V1      v1.Deps
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerOps(app)
	r.registerLegacy(app)
	r.registerAPI(app)
}

func (r *Registry) registerOps(app *fiber.App) {
	app.Get("/health", r.Health.Handle)
	if r.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(r.Metrics))
	}
	if r.Events != nil {
		app.Get("/ws", r.Events.HandleEvents)
	}
}

// registerLegacy keeps the URLs printed on issued certificates and used by
// the deployed chat widget working.
func (r *Registry) registerLegacy(app *fiber.App) {
	app.Get("/verify", r.V1.CertificateHandler.HandleVerify)

	limit := orNext(r.V1.ChatLimit)
	app.All("/api/chat", limit, r.V1.ChatHandler.HandleAsk)
	app.All("/.netlify/functions/chat", limit, r.V1.ChatHandler.HandleAsk)
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.V1)
}

func orNext(h fiber.Handler) fiber.Handler {
	if h != nil {
		return h
	}
	return func(c fiber.Ctx) error { return c.Next() }
}
