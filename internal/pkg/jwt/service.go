package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess = "access"
	TokenTypeVerify = "verify"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	TokenType string    `json:"token_type"`

	jwtlib.RegisteredClaims
}

// JTI is the token id used for revocation.
func (c Claims) JTI() string {
	return c.RegisteredClaims.ID
}

func (c Claims) Expiry() time.Time {
	if c.RegisteredClaims.ExpiresAt == nil {
		return time.Time{}
	}
	return c.RegisteredClaims.ExpiresAt.Time
}

type Service interface {
	GenerateAccessToken(userID uuid.UUID, email string) (string, Claims, error)
	GenerateVerifyToken(userID uuid.UUID, email string) (string, error)
	ValidateAccessToken(tokenString string) (Claims, error)
	ValidateVerifyToken(tokenString string) (Claims, error)
}

// HMACService signs access and e-mail verification tokens with separate
// secrets, so a verification link can never be replayed as a session.
type HMACService struct {
	accessSecret []byte
	verifySecret []byte

	accessExpiresIn time.Duration
	verifyExpiresIn time.Duration

	now func() time.Time
}

func NewHMACService(accessSecret, verifySecret string, accessExpiresIn, verifyExpiresIn time.Duration) *HMACService {
	return &HMACService{
		accessSecret:    []byte(accessSecret),
		verifySecret:    []byte(verifySecret),
		accessExpiresIn: accessExpiresIn,
		verifyExpiresIn: verifyExpiresIn,
		now:             time.Now,
	}
}

func (s *HMACService) GenerateAccessToken(userID uuid.UUID, email string) (string, Claims, error) {
	return s.generate(TokenTypeAccess, userID, email)
}

func (s *HMACService) GenerateVerifyToken(userID uuid.UUID, email string) (string, error) {
	tok, _, err := s.generate(TokenTypeVerify, userID, email)
	return tok, err
}

func (s *HMACService) ValidateAccessToken(tokenString string) (Claims, error) {
	return s.validate(tokenString, TokenTypeAccess)
}

func (s *HMACService) ValidateVerifyToken(tokenString string) (Claims, error) {
	return s.validate(tokenString, TokenTypeVerify)
}

func (s *HMACService) generate(tokenType string, userID uuid.UUID, email string) (string, Claims, error) {
	now := s.now().UTC()
	secret, expIn, err := s.secretAndExpiry(tokenType)
	if err != nil {
		return "", Claims{}, err
	}

	c := Claims{
		UserID:    userID,
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(expIn)),
			Subject:   userID.String(),
		},
	}

	t := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c)
	signed, err := t.SignedString(secret)
	if err != nil {
		return "", Claims{}, err
	}
	return signed, c, nil
}

func (s *HMACService) validate(tokenString, tokenType string) (Claims, error) {
	secret, _, err := s.secretAndExpiry(tokenType)
	if err != nil {
		return Claims{}, err
	}

	p := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(s.now),
	)

	var c Claims
	tok, err := p.ParseWithClaims(tokenString, &c, func(token *jwtlib.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if tok == nil || !tok.Valid {
		return Claims{}, ErrTokenInvalid
	}
	if c.TokenType != tokenType || c.UserID == uuid.Nil {
		return Claims{}, ErrTokenInvalid
	}
	return c, nil
}

func (s *HMACService) secretAndExpiry(tokenType string) ([]byte, time.Duration, error) {
	switch tokenType {
	case TokenTypeAccess:
		if len(s.accessSecret) == 0 || s.accessExpiresIn <= 0 {
			return nil, 0, ErrTokenInvalid
		}
		return s.accessSecret, s.accessExpiresIn, nil
	case TokenTypeVerify:
		if len(s.verifySecret) == 0 || s.verifyExpiresIn <= 0 {
			return nil, 0, ErrTokenInvalid
		}
		return s.verifySecret, s.verifyExpiresIn, nil
	default:
		return nil, 0, ErrTokenInvalid
	}
}

var _ Service = (*HMACService)(nil)
