package seeder

import (
	"context"

	"swadesh-intern/internal/database"
	"swadesh-intern/internal/domain/setting"
)

// SettingsSeeder creates the settings row with maintenance off. An
// existing row is left untouched.
type SettingsSeeder struct{}

func (SettingsSeeder) Name() string { return "system_settings" }

func (SettingsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "system_settings", "id", "maintenance_mode", "updated_by", "updated_at"); err != nil {
		return err
	}
	_, err := db.Exec(ctx,
		`INSERT INTO system_settings (id, maintenance_mode, updated_by) VALUES ($1, false, 'seed') ON CONFLICT (id) DO NOTHING`,
		setting.SystemID,
	)
	return err
}
