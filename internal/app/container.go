package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"swadesh-intern/internal/chat"
	"swadesh-intern/internal/config"
	"swadesh-intern/internal/database"
	dbpostgres "swadesh-intern/internal/database/postgres"
	"swadesh-intern/internal/infrastructure/cache"
	"swadesh-intern/internal/infrastructure/identity"
	"swadesh-intern/internal/infrastructure/inference"
	"swadesh-intern/internal/infrastructure/ratelimit"
	"swadesh-intern/internal/infrastructure/relay"
	"swadesh-intern/internal/infrastructure/upload"
	"swadesh-intern/internal/pkg/jwt"
	"swadesh-intern/internal/repository"
	"swadesh-intern/internal/usecase"
	"swadesh-intern/internal/workflow"
	"swadesh-intern/internal/ws"
)

// Container owns every long-lived dependency. Both the HTTP server and the
// admin CLI build one.
type Container struct {
	Config config.Config
	Logger *logrus.Logger
	DB     database.DB
	Cache  *cache.Redis
	Hub    *ws.Hub

	Provider    identity.Provider
	Revocations *identity.Revocations
	Limiter     ratelimit.Fallback
	Sessions    *workflow.Sessions
	Uploads     *upload.CloudinaryClient

	Admins       *repository.PostgresAdminRepository
	Jobs         *repository.PostgresJobRepository
	Applications *repository.PostgresApplicationRepository
	Certificates *repository.PostgresCertificateRepository
	Settings     *repository.PostgresSettingRepository
	Content      *repository.PostgresSiteRepository
	Users        *repository.PostgresUserRepository

	JobUC         *usecase.Jobs
	ApplicationUC *usecase.Applications
	AuthUC        *usecase.Auth
	CertificateUC *usecase.Certificates
	AdminUC       *usecase.Admin
	SiteUC        *usecase.Site
	ChatUC        *usecase.Chat
	ContactUC     *usecase.Contact
}

func NewContainer(cfg config.Config, logger *logrus.Logger) (*Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Cache:  cache.NewRedis(ctx, cfg.Redis, logger),
		Hub:    ws.NewHub(logger.WithField("component", "ws")),
	}
	c.Revocations = identity.NewRevocations(c.Cache)
	c.Limiter = ratelimit.Fallback{Local: ratelimit.NewMemoryLimiter()}
	if c.Cache.Available() {
		c.Limiter.Shared = ratelimit.NewRedisLimiter(c.Cache.Client())
	}

	c.Admins = repository.NewPostgresAdminRepository(db)
	c.Jobs = repository.NewPostgresJobRepository(db)
	c.Applications = repository.NewPostgresApplicationRepository(db)
	c.Certificates = repository.NewPostgresCertificateRepository(db)
	c.Settings = repository.NewPostgresSettingRepository(db)
	c.Content = repository.NewPostgresSiteRepository(db)
	c.Users = repository.NewPostgresUserRepository(db)

	provider, err := c.newProvider()
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Provider = provider
	c.Uploads = upload.NewCloudinaryClient(cfg.Upload, logger)

	c.buildUsecases()
	return c, nil
}

func (c *Container) newProvider() (identity.Provider, error) {
	cfg := c.Config
	log := c.Logger.WithField("component", "identity")
	switch cfg.Identity.Provider {
	case "supabase":
		return identity.NewSupabaseProvider(cfg.Identity.SupabaseURL, cfg.Identity.SupabaseKey, log), nil
	case "local", "":
		tokens := jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.VerifySecret, cfg.JWT.AccessExpiresIn, cfg.JWT.VerifyExpiresIn)
		return identity.NewLocalProvider(c.Users, tokens, c.Revocations, identity.LogSender{Logger: log}, cfg.Site.PublicBaseURL, log), nil
	default:
		return nil, fmt.Errorf("unknown identity provider %q", cfg.Identity.Provider)
	}
}

func (c *Container) buildUsecases() {
	cfg := c.Config
	log := c.Logger

	c.Sessions = workflow.NewSessions(c.Applications)
	submitter := workflow.NewSubmitter(c.Uploads, c.Applications, log.WithField("component", "submit"))

	c.JobUC = usecase.NewJobs(c.Jobs, c.Cache, cfg.Site.BrandName, log)
	c.ApplicationUC = usecase.NewApplications(c.JobUC, c.Applications, c.Sessions, submitter, log)
	c.AuthUC = usecase.NewAuthUsecase(c.Provider, c.ApplicationUC, log)
	c.CertificateUC = usecase.NewCertificates(c.Certificates, c.Cache, cfg.Site.PublicBaseURL, log)
	c.AdminUC = usecase.NewAdmin(c.Admins, c.Jobs, c.Applications, c.Certificates, c.Provider, c.Uploads, c.Cache, log)
	c.SiteUC = usecase.NewSite(c.Settings, c.Content, c.Cache, c.Hub, cfg.Site.BrandName, log)

	gemini := inference.NewGeminiClient(cfg.Inference, log.WithField("component", "inference"))
	c.ChatUC = usecase.NewChat(chat.NewResponder(gemini, log), c.Cache, log)
	c.ContactUC = usecase.NewContact(relay.NewFormSubmitClient(cfg.Relay, log), log)
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	c.Hub.Stop()
	_ = c.Cache.Close()
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
