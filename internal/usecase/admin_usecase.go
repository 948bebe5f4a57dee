package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"swadesh-intern/internal/domain/account"
	"swadesh-intern/internal/domain/application"
	"swadesh-intern/internal/domain/certificate"
	"swadesh-intern/internal/domain/job"
	"swadesh-intern/internal/infrastructure/cache"
	"swadesh-intern/internal/infrastructure/identity"
	"swadesh-intern/internal/infrastructure/upload"
	"swadesh-intern/internal/logging"
	"swadesh-intern/internal/validate"
)

const statsTTL = 30 * time.Second

var (
	ErrSuperAdminOnly         = errors.New("super admin access required")
	ErrCannotDeleteSelf       = errors.New("cannot delete your own account")
	ErrCannotDeleteSuperAdmin = errors.New("super admin accounts cannot be deleted")
	ErrNotAnImage             = errors.New("profile photo must be an image")
)

type ImageUploader interface {
	UploadImage(ctx context.Context, f upload.File) (string, error)
}

type Stats struct {
	CareersApplications       int `json:"careers_applications"`
	OpportunitiesApplications int `json:"opportunities_applications"`
	CareersJobs               int `json:"careers_jobs"`
	OpportunitiesJobs         int `json:"opportunities_jobs"`
	Admins                    int `json:"admins"`
	Certificates              int `json:"certificates"`
}

type CreateAdminInput struct {
	Name     string
	Email    string
	Password string
}

type Admin struct {
	admins   account.Repository
	jobs     job.Repository
	apps     application.Repository
	certs    certificate.Repository
	provider identity.Provider
	images   ImageUploader
	cache    Cache
	logger   logrus.FieldLogger
}

func NewAdmin(
	admins account.Repository,
	jobs job.Repository,
	apps application.Repository,
	certs certificate.Repository,
	provider identity.Provider,
	images ImageUploader,
	c Cache,
	logger logrus.FieldLogger,
) *Admin {
	return &Admin{
		admins:   admins,
		jobs:     jobs,
		apps:     apps,
		certs:    certs,
		provider: provider,
		images:   images,
		cache:    cacheOrNone(c),
		logger:   logging.OrDiscard(logger),
	}
}

// Gate resolves the console record of an authenticated user. Users without
// an active record are refused.
func (u *Admin) Gate(ctx context.Context, userID string) (account.Admin, error) {
	a, err := u.admins.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return account.Admin{}, ErrForbidden
		}
		return account.Admin{}, err
	}
	if !a.CanAccessConsole() {
		return account.Admin{}, ErrForbidden
	}
	return a, nil
}

func (u *Admin) Stats(ctx context.Context) (Stats, error) {
	var cached Stats
	if hit, err := u.cache.GetJSON(ctx, cache.StatsKey, &cached); err == nil && hit {
		return cached, nil
	}

	var (
		s   Stats
		err error
	)
	counters := []struct {
		dst *int
		fn  func(context.Context) (int, error)
	}{
		{&s.CareersApplications, func(ctx context.Context) (int, error) { return u.apps.CountByBoard(ctx, job.BoardCareers) }},
		{&s.OpportunitiesApplications, func(ctx context.Context) (int, error) { return u.apps.CountByBoard(ctx, job.BoardOpportunities) }},
		{&s.CareersJobs, func(ctx context.Context) (int, error) { return u.jobs.CountByBoard(ctx, job.BoardCareers) }},
		{&s.OpportunitiesJobs, func(ctx context.Context) (int, error) { return u.jobs.CountByBoard(ctx, job.BoardOpportunities) }},
		{&s.Admins, u.admins.Count},
		{&s.Certificates, u.certs.Count},
	}
	for _, c := range counters {
		if *c.dst, err = c.fn(ctx); err != nil {
			return Stats{}, err
		}
	}
	_ = u.cache.SetJSON(ctx, cache.StatsKey, s, statsTTL)
	return s, nil
}

func (u *Admin) ListAdmins(ctx context.Context, actor account.Admin) ([]account.Admin, error) {
	if !actor.IsSuper() {
		return nil, ErrSuperAdminOnly
	}
	return u.admins.ListAdmins(ctx)
}

// CreateAdmin registers a new provider account and its ADMIN record. The
// acting super admin stays signed in; the new account's session is dropped.
func (u *Admin) CreateAdmin(ctx context.Context, actor account.Admin, in CreateAdminInput) (account.Admin, error) {
	if !actor.IsSuper() {
		return account.Admin{}, ErrSuperAdminOnly
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	err := validate.Struct(validate.AdminAccountForm{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
	})
	if err != nil {
		return account.Admin{}, err
	}

	sess, err := u.provider.SignUp(ctx, identity.SignUpInput{Name: in.Name, Email: in.Email, Password: in.Password})
	if err != nil {
		return account.Admin{}, err
	}
	if err := u.provider.SignOut(ctx, sess.AccessToken); err != nil {
		u.logger.WithError(err).Debug("sign-out of new admin session failed")
	}

	created, err := u.admins.Create(ctx, account.Admin{
		UserID:    sess.User.ID,
		Name:      in.Name,
		Email:     sess.User.Email,
		Role:      account.RoleAdmin,
		IsActive:  true,
		CreatedBy: actor.Email,
	})
	if err != nil {
		return account.Admin{}, err
	}
	_ = u.cache.Delete(ctx, cache.StatsKey)
	u.logger.WithFields(logrus.Fields{"admin_id": created.UserID, "created_by": actor.Email}).Info("admin created")
	return created, nil
}

func (u *Admin) DeleteAdmin(ctx context.Context, actor account.Admin, targetID string) error {
	if !actor.IsSuper() {
		return ErrSuperAdminOnly
	}
	if targetID == actor.UserID {
		return ErrCannotDeleteSelf
	}
	target, err := u.admins.Get(ctx, targetID)
	if err != nil {
		return err
	}
	if target.IsSuper() {
		return ErrCannotDeleteSuperAdmin
	}
	if err := u.admins.Delete(ctx, targetID); err != nil {
		return err
	}
	_ = u.cache.Delete(ctx, cache.StatsKey)
	u.logger.WithFields(logrus.Fields{"admin_id": targetID, "deleted_by": actor.Email}).Info("admin deleted")
	return nil
}

// UploadPhoto stores a new profile picture for the acting admin.
func (u *Admin) UploadPhoto(ctx context.Context, actor account.Admin, f upload.File) (string, error) {
	if !strings.HasPrefix(strings.ToLower(f.ContentType), "image/") {
		return "", ErrNotAnImage
	}
	if u.images == nil {
		return "", ErrUnavailable
	}
	url, err := u.images.UploadImage(ctx, f)
	if err != nil {
		return "", err
	}
	if err := u.admins.UpdatePhoto(ctx, actor.UserID, url); err != nil {
		return "", err
	}
	return url, nil
}
