package postgres

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/Tushar365/orderapp/internal/repository"
)

// NewRepositories creates a new set of repositories
func NewRepositories(db *sql.DB, logger *zap.Logger) *repository.Repositories {
	return &repository.Repositories{
		Order:          NewOrderRepository(db, logger),
		OrderLine:      NewOrderLineRepository(db, logger),
		IdempotencyKey: NewIdempotencyKeyRepository(db, logger),
	}
}
