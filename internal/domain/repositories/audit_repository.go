package repositories

import (
	"context"

	"github.com/saudehub/backend/internal/domain/entities"
)

// OverrideAuditRepository records explicit travel-gap overrides. Callers
// treat writes as best-effort: failures are logged, never propagated.
type OverrideAuditRepository interface {
	// Record persists one override audit row
	Record(ctx context.Context, audit *entities.TravelOverrideAudit) error
}
