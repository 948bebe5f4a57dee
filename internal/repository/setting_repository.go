package repository

import (
	"context"

	"swadesh-intern/internal/database"
	"swadesh-intern/internal/database/postgres"
	"swadesh-intern/internal/domain/setting"
)

type PostgresSettingRepository struct {
	db database.DB
}

func NewPostgresSettingRepository(db database.DB) *PostgresSettingRepository {
	return &PostgresSettingRepository{db: db}
}

func (r *PostgresSettingRepository) Get(ctx context.Context) (setting.System, error) {
	var s setting.System
	err := r.db.QueryRow(ctx,
		`SELECT maintenance_mode, updated_by, updated_at FROM system_settings WHERE id = $1`,
		setting.SystemID,
	).Scan(&s.MaintenanceMode, &s.UpdatedBy, &s.UpdatedAt)
	if err != nil {
		if postgres.IsNoRows(err) {
			return setting.System{}, nil
		}
		return setting.System{}, err
	}
	return s, nil
}

// SetMaintenance upserts the single settings row.
func (r *PostgresSettingRepository) SetMaintenance(ctx context.Context, on bool, updatedBy string) (setting.System, error) {
	var s setting.System
	err := r.db.QueryRow(ctx,
		`INSERT INTO system_settings (id, maintenance_mode, updated_by, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (id) DO UPDATE
		 SET maintenance_mode = EXCLUDED.maintenance_mode,
		     updated_by = EXCLUDED.updated_by,
		     updated_at = EXCLUDED.updated_at
		 RETURNING maintenance_mode, updated_by, updated_at`,
		setting.SystemID, on, updatedBy,
	).Scan(&s.MaintenanceMode, &s.UpdatedBy, &s.UpdatedAt)
	return s, err
}

var _ setting.Repository = (*PostgresSettingRepository)(nil)
