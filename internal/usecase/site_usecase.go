package usecase

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"swadesh-intern/internal/domain/setting"
	"swadesh-intern/internal/domain/site"
	"swadesh-intern/internal/infrastructure/cache"
	"swadesh-intern/internal/logging"
)

const (
	ScreenLanding     = "landing"
	ScreenMaintenance = "maintenance"

	MaintenanceTitle = "We'll be right back!"

	EventMaintenanceChanged = "maintenance_changed"

	settingsTTL = 30 * time.Second
	contentTTL  = 10 * time.Minute
)

// EventPublisher pushes site events to connected browsers.
type EventPublisher interface {
	Publish(eventType string, data any)
}

type Landing struct {
	Maintenance  bool
	Screen       string
	Title        string
	Message      string
	Domains      []site.Domain
	Testimonials []site.Testimonial
}

type siteContent struct {
	Domains      []site.Domain
	Testimonials []site.Testimonial
}

type Site struct {
	settings setting.Repository
	content  site.Repository
	cache    Cache
	events   EventPublisher
	brand    string
	logger   logrus.FieldLogger
}

func NewSite(settings setting.Repository, content site.Repository, c Cache, events EventPublisher, brand string, logger logrus.FieldLogger) *Site {
	return &Site{settings: settings, content: content, cache: cacheOrNone(c), events: events, brand: brand, logger: logging.OrDiscard(logger)}
}

// MaintenanceMessage is shown instead of every public page while the flag
// is on.
func (u *Site) MaintenanceMessage() string {
	return u.brand + " is currently undergoing scheduled maintenance to improve your experience. Please check back soon."
}

func (u *Site) Settings(ctx context.Context) (setting.System, error) {
	var cached setting.System
	if hit, err := u.cache.GetJSON(ctx, cache.SettingsKey, &cached); err == nil && hit {
		return cached, nil
	}
	s, err := u.settings.Get(ctx)
	if err != nil {
		return setting.System{}, err
	}
	_ = u.cache.SetJSON(ctx, cache.SettingsKey, s, settingsTTL)
	return s, nil
}

// InMaintenance fails open: a settings read error keeps the site up.
func (u *Site) InMaintenance(ctx context.Context) bool {
	s, err := u.Settings(ctx)
	if err != nil {
		u.logger.WithError(err).Warn("settings read failed, assuming live")
		return false
	}
	return s.MaintenanceMode
}

// Landing is the public home payload. With maintenance on it carries only
// the maintenance screen.
func (u *Site) Landing(ctx context.Context) (Landing, error) {
	if u.InMaintenance(ctx) {
		return Landing{
			Maintenance: true,
			Screen:      ScreenMaintenance,
			Title:       MaintenanceTitle,
			Message:     u.MaintenanceMessage(),
		}, nil
	}

	var c siteContent
	if hit, err := u.cache.GetJSON(ctx, cache.ContentKey, &c); err != nil || !hit {
		domains, err := u.content.ListDomains(ctx)
		if err != nil {
			return Landing{}, err
		}
		testimonials, err := u.content.ListTestimonials(ctx)
		if err != nil {
			return Landing{}, err
		}
		c = siteContent{Domains: domains, Testimonials: testimonials}
		_ = u.cache.SetJSON(ctx, cache.ContentKey, c, contentTTL)
	}

	return Landing{Screen: ScreenLanding, Domains: c.Domains, Testimonials: c.Testimonials}, nil
}

func (u *Site) SetMaintenance(ctx context.Context, on bool, updatedBy string) (setting.System, error) {
	s, err := u.settings.SetMaintenance(ctx, on, updatedBy)
	if err != nil {
		return setting.System{}, err
	}
	if err := u.cache.Delete(ctx, cache.SettingsKey); err != nil {
		u.logger.WithError(err).Warn("settings cache invalidation failed")
	}
	if u.events != nil {
		u.events.Publish(EventMaintenanceChanged, map[string]any{"maintenance": s.MaintenanceMode})
	}
	u.logger.WithFields(logrus.Fields{"maintenance": s.MaintenanceMode, "updated_by": updatedBy}).Info("maintenance mode changed")
	return s, nil
}

// MaintenanceToast is the confirmation shown to the admin after a toggle.
func MaintenanceToast(on bool) string {
	if on {
		return "Maintenance Enabled"
	}
	return "Maintenance Disabled"
}
