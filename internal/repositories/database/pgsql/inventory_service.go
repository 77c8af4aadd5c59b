package pgsql

import (
	"context"

	"github.com/bizsuite/workorder_backend/internal/apperrors"
	"github.com/bizsuite/workorder_backend/internal/core/domain"
	portssvc "github.com/bizsuite/workorder_backend/internal/core/ports/services"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxInventoryService is the adapter behind the engine's inventory port. The
// inventory module owns this table; the engine only reads items and lowers
// on-hand quantities during completion.
type PgxInventoryService struct {
	BaseRepository
}

// NewPgxInventoryService creates the inventory adapter.
func NewPgxInventoryService(pool *pgxpool.Pool) portssvc.InventorySvcFacade {
	return &PgxInventoryService{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxInventoryService implements portssvc.InventorySvcFacade
var _ portssvc.InventorySvcFacade = (*PgxInventoryService)(nil)

// GetItems returns all stock items keyed by id.
func (s *PgxInventoryService) GetItems(ctx context.Context) (map[string]domain.InventoryItem, error) {
	rows, err := s.Pool.Query(ctx, `SELECT item_id, name, quantity, unit FROM inventory_items;`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query inventory items", err)
	}
	defer rows.Close()

	items := make(map[string]domain.InventoryItem)
	for rows.Next() {
		var item domain.InventoryItem
		if err := rows.Scan(&item.ItemID, &item.Name, &item.Quantity, &item.Unit); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan inventory item", err)
		}
		items[item.ItemID] = item
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read inventory items", err)
	}
	return items, nil
}

// AdjustQuantity sets the on-hand quantity of one item.
func (s *PgxInventoryService) AdjustQuantity(ctx context.Context, itemID string, quantity decimal.Decimal) error {
	tag, err := s.Pool.Exec(ctx,
		`UPDATE inventory_items SET quantity = $2, last_updated_at = now() WHERE item_id = $1;`,
		itemID, quantity,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to adjust quantity of item "+itemID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
