package seeder

import (
	"context"

	"swadesh-intern/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
