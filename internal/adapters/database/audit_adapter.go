package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/saudehub/backend/internal/domain/entities"
	"github.com/saudehub/backend/internal/domain/repositories"
	"github.com/saudehub/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/saudehub/backend/pkg/errors"
)

// AuditAdapter implements the OverrideAuditRepository interface
type AuditAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAuditAdapter creates a new override audit adapter
func NewAuditAdapter(client *postgres.Client) repositories.OverrideAuditRepository {
	return &AuditAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Record persists one override audit row. The conflicts column holds the
// overridden travel-gap conflicts as JSON.
func (a *AuditAdapter) Record(ctx context.Context, audit *entities.TravelOverrideAudit) error {
	record := goqu.Record{
		"id":         audit.ID,
		"user_id":    audit.UserID,
		"event_id":   audit.EventID,
		"conflicts":  []byte(audit.Conflicts),
		"created_at": audit.CreatedAt,
	}

	query, args, err := a.db.Insert("travel_override_audits").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to record override audit", err)
	}

	return nil
}
