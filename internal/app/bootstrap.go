package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/robfig/cron/v3"

	"swadesh-intern/internal/config"
	"swadesh-intern/internal/delivery/http/handler"
	"swadesh-intern/internal/delivery/http/middleware"
	"swadesh-intern/internal/delivery/http/routes"
	v1 "swadesh-intern/internal/delivery/http/routes/v1"
	"swadesh-intern/internal/logging"
	"swadesh-intern/internal/metrics"
	"swadesh-intern/internal/ws"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
	Cron      *cron.Cron
}

// New builds the HTTP app on top of an existing container.
func New(c *Container) *App {
	cfg := c.Config
	bodyLimit := 4 << 20
	if n := int(cfg.Upload.MaxBytes) + 1<<20; n > bodyLimit {
		bodyLimit = n
	}
	f := fiber.New(fiber.Config{
		AppName:   cfg.App.AppName,
		BodyLimit: bodyLimit,
	})

	registerGlobalMiddleware(f, c)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c, Cron: newScheduler(c)}
}

// Bootstrap wires config into a running app. The returned cleanup stops
// background work and closes connections.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	logger := logging.New(cfg.Log)
	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	app := New(c)
	go c.Hub.Run()
	app.Cron.Start()

	cleanup := func() error {
		<-app.Cron.Stop().Done()
		return c.Close()
	}
	return app, cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	app.Use(middleware.Metrics())
	app.Use(middleware.NewAccessLogMiddleware(c.Logger.WithField("component", "http")).Middleware())
	app.Use(middleware.NewErrorMiddleware(c.Logger).Middleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{fiber.HeaderContentType, fiber.HeaderAuthorization},
	}))
	app.Use(middleware.NewMaintenanceMiddleware(c.SiteUC, routes.MaintenanceExempt...).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}
	cfg := c.Config

	authMw := middleware.NewAuthMiddleware(c.Provider)
	adminMw := middleware.NewAdminMiddleware(c.AdminUC, c.Provider, c.Logger)

	var cachePinger handler.Pinger
	if c.Cache.Available() {
		cachePinger = c.Cache
	}

	registry := &routes.Registry{
		Health:  handler.NewHealthHandler(c.DB, cachePinger),
		Metrics: metrics.Handler(),
		Events:  ws.NewHandler(c.Hub),
		V1: v1.Deps{
			Auth:  authMw,
			Admin: adminMw,

			AuthHandler:        handler.NewAuthHandler(c.AuthUC),
			JobsHandler:        handler.NewJobsHandler(c.JobUC),
			ApplicationHandler: handler.NewApplicationHandler(c.ApplicationUC, cfg.Upload.MaxBytes),
			CertificateHandler: handler.NewCertificateHandler(c.CertificateUC),
			AdminHandler:       handler.NewAdminHandler(c.AdminUC, c.AuthUC, c.SiteUC, cfg.Upload.MaxBytes),
			SiteHandler:        handler.NewSiteHandler(c.SiteUC),
			ContactHandler:     handler.NewContactHandler(c.ContactUC),
			ChatHandler:        handler.NewChatHandler(c.ChatUC),

			ChatLimit: middleware.RateLimit{
				Limiter: c.Limiter,
				Scope:   "chat",
				Limit:   cfg.RateLimit.ChatPerMinute,
				Window:  time.Minute,
			}.Middleware(),
			ContactLimit: middleware.RateLimit{
				Limiter: c.Limiter,
				Scope:   "contact",
				Limit:   cfg.RateLimit.ContactPerMinute,
				Window:  time.Minute,
			}.Middleware(),
		},
	}
	registry.Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
