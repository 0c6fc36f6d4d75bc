package repository

import (
	"context"

	"github.com/wandermesh/waystation/internal/domain"
)

// Portal defines read access to the destination registry
type Portal interface {
	ListPublic(ctx context.Context) ([]domain.Portal, error)
}
