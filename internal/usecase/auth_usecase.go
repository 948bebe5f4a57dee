package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"swadesh-intern/internal/infrastructure/identity"
	"swadesh-intern/internal/logging"
	"swadesh-intern/internal/validate"
	"swadesh-intern/internal/workflow"
)

// FlowResumer is the part of Applications the auth operations drive: a
// sign-in reloads the applied set and may continue a parked job flow.
type FlowResumer interface {
	Rehydrate(ctx context.Context, id *workflow.Identity) error
	Continue(ctx context.Context, id *workflow.Identity, jobID uuid.UUID, signedUp bool) (workflow.View, error)
	CheckVerified(ctx context.Context, id *workflow.Identity, jobID uuid.UUID) (workflow.View, error)
	Forget(userID string)
}

type SignUpInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	JobID    *uuid.UUID
}

type SignInInput struct {
	Email    string
	Password string
	JobID    *uuid.UUID
}

// AuthResult carries the new session and, when the request named a job,
// the state that job's flow moved to.
type AuthResult struct {
	Session identity.Session
	Flow    *workflow.View
}

type Auth struct {
	provider identity.Provider
	flows    FlowResumer
	logger   logrus.FieldLogger
}

func NewAuthUsecase(provider identity.Provider, flows FlowResumer, logger logrus.FieldLogger) *Auth {
	return &Auth{provider: provider, flows: flows, logger: logging.OrDiscard(logger)}
}

// WorkflowIdentity converts a provider user into the identity the workflow
// binds sessions to.
func WorkflowIdentity(u identity.User) *workflow.Identity {
	return &workflow.Identity{UserID: u.ID, Email: u.Email, Name: u.DisplayName, Verified: u.EmailVerified}
}

func (u *Auth) SignUp(ctx context.Context, in SignUpInput) (AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	err := validate.Struct(validate.SignUpForm{
		Name:     in.Name,
		Phone:    in.Phone,
		Email:    in.Email,
		Password: in.Password,
	})
	if err != nil {
		return AuthResult{}, err
	}

	sess, err := u.provider.SignUp(ctx, identity.SignUpInput{Name: in.Name, Email: in.Email, Phone: in.Phone, Password: in.Password})
	if err != nil {
		return AuthResult{}, err
	}
	u.logger.WithFields(logrus.Fields{"user_id": sess.User.ID, "provider": u.provider.Name()}).Info("account created")

	return AuthResult{Session: sess, Flow: u.resume(ctx, sess.User, in.JobID, true)}, nil
}

func (u *Auth) SignIn(ctx context.Context, in SignInInput) (AuthResult, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return AuthResult{}, ErrInvalidInput
	}
	sess, err := u.provider.SignIn(ctx, email, in.Password)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Session: sess, Flow: u.resume(ctx, sess.User, in.JobID, false)}, nil
}

// SignOut ends the provider session and forgets the user's workflow state.
func (u *Auth) SignOut(ctx context.Context, token string, userID string) error {
	if err := u.provider.SignOut(ctx, token); err != nil {
		return err
	}
	if u.flows != nil && userID != "" {
		u.flows.Forget(userID)
	}
	return nil
}

func (u *Auth) Me(ctx context.Context, token string) (identity.User, error) {
	return u.provider.Authenticate(ctx, token)
}

func (u *Auth) ChangePassword(ctx context.Context, token, oldPassword, newPassword string) error {
	err := validate.Struct(validate.ChangePasswordForm{OldPassword: oldPassword, NewPassword: newPassword})
	if err != nil {
		return err
	}
	return u.provider.ChangePassword(ctx, token, oldPassword, newPassword)
}

func (u *Auth) SendVerification(ctx context.Context, token string) error {
	return u.provider.SendVerification(ctx, token)
}

// ConfirmVerification marks the address verified and, when jobID is set,
// re-checks the VERIFY_PROMPT step of that job.
func (u *Auth) ConfirmVerification(ctx context.Context, verifyToken string, jobID *uuid.UUID) (identity.User, *workflow.View, error) {
	if strings.TrimSpace(verifyToken) == "" {
		return identity.User{}, nil, ErrInvalidInput
	}
	usr, err := u.provider.ConfirmVerification(ctx, verifyToken)
	if err != nil {
		return identity.User{}, nil, err
	}
	if u.flows == nil || jobID == nil {
		return usr, nil, nil
	}
	view, err := u.flows.CheckVerified(ctx, WorkflowIdentity(usr), *jobID)
	if err != nil {
		u.logger.WithError(err).WithField("job_id", *jobID).Debug("verify did not advance flow")
	}
	return usr, &view, nil
}

func (u *Auth) resume(ctx context.Context, usr identity.User, jobID *uuid.UUID, signedUp bool) *workflow.View {
	if u.flows == nil {
		return nil
	}
	id := WorkflowIdentity(usr)
	if err := u.flows.Rehydrate(ctx, id); err != nil {
		u.logger.WithError(err).WithField("user_id", usr.ID).Warn("workflow rehydrate failed")
		return nil
	}
	if jobID == nil {
		return nil
	}
	view, err := u.flows.Continue(ctx, id, *jobID, signedUp)
	if err != nil {
		u.logger.WithError(err).WithField("job_id", *jobID).Debug("flow not continued after sign-in")
		if view.State == "" {
			return nil
		}
	}
	return &view
}
