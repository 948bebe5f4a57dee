package certificate

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"regexp"
	"strings"
	"time"
)

const (
	idPrefix   = "SI"
	suffixLen  = 5
	idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

var (
	ErrNotFound    = errors.New("certificate not found")
	ErrDuplicateID = errors.New("certificate id already exists")
)

var idRe = regexp.MustCompile(`^SI-\d{2}-[A-Z0-9]{5}$`)

type Certificate struct {
	ID          string
	StudentName string
	Domain      string
	Duration    string
	StartDate   string
	AwardDate   string
	IssuedBy    string
	CreatedAt   time.Time
}

// NormalizeID is the only lookup normalisation: trim and upper-case.
func NormalizeID(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

func ValidID(id string) bool {
	return idRe.MatchString(id)
}

// NewID returns SI-<YY>-<5 chars of [0-9A-Z]> using src for randomness.
func NewID(now time.Time, src io.Reader) (string, error) {
	if src == nil {
		src = rand.Reader
	}
	max := big.NewInt(int64(len(idAlphabet)))
	var b strings.Builder
	b.Grow(suffixLen)
	for i := 0; i < suffixLen; i++ {
		n, err := rand.Int(src, max)
		if err != nil {
			return "", fmt.Errorf("certificate id: %w", err)
		}
		b.WriteByte(idAlphabet[n.Int64()])
	}
	return fmt.Sprintf("%s-%02d-%s", idPrefix, now.Year()%100, b.String()), nil
}

type Repository interface {
	Create(ctx context.Context, c Certificate) (Certificate, error)
	GetByID(ctx context.Context, id string) (Certificate, error)
	List(ctx context.Context) ([]Certificate, error)
	Count(ctx context.Context) (int, error)
}
