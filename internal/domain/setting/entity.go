package setting

import (
	"context"
	"time"
)

// SystemID is the key of the single settings row.
const SystemID = "system"

type System struct {
	MaintenanceMode bool
	UpdatedBy       string
	UpdatedAt       time.Time
}

type Repository interface {
	// Get returns the zero System when the row has never been written.
	Get(ctx context.Context) (System, error)
	SetMaintenance(ctx context.Context, on bool, updatedBy string) (System, error)
}
