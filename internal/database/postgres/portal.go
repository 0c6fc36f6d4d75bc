package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wandermesh/waystation/internal/domain"
)

// PortalRepository implements the portal registry for PostgreSQL
type PortalRepository struct {
	db *pgxpool.Pool
}

// NewPortalRepository creates a new PortalRepository
func NewPortalRepository(db *pgxpool.Pool) *PortalRepository {
	return &PortalRepository{db: db}
}

// ListPublic returns all publicly listed destinations
func (r *PortalRepository) ListPublic(ctx context.Context) ([]domain.Portal, error) {
	query := `
		SELECT id, name, url, world_type, COALESCE(description, ''), is_public, requires_reputation
		FROM portals WHERE is_public = TRUE ORDER BY id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list portals: %w", err)
	}
	defer rows.Close()

	var portals []domain.Portal
	for rows.Next() {
		var p domain.Portal
		if err := rows.Scan(&p.ID, &p.Name, &p.URL, &p.WorldType, &p.Description, &p.IsPublic, &p.RequiresReputation); err != nil {
			return nil, fmt.Errorf("failed to scan portal: %w", err)
		}
		portals = append(portals, p)
	}
	return portals, rows.Err()
}
