package job

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("job not found")

type Repository interface {
	Create(ctx context.Context, j Job) (Job, error)
	GetByID(ctx context.Context, id uuid.UUID) (Job, error)
	List(ctx context.Context, board Board, limit, offset int) ([]Job, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountByBoard(ctx context.Context, board Board) (int, error)
}
