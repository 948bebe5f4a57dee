package seeder

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"swadesh-intern/internal/database"
	"swadesh-intern/internal/logging"
)

type Runner struct {
	Seeders []Seeder
	Logger  logrus.FieldLogger
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return database.ErrNilDB
	}
	log := logging.OrDiscard(r.Logger)
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		log.WithField("seeder", s.Name()).Info("seed applied")
	}
	return nil
}
