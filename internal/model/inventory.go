package model

import "time"

type StockMovementType string

const (
	StockMovementIn  StockMovementType = "IN"
	StockMovementOut StockMovementType = "OUT"
)

// StockMovement describes one applied stock change. It is published as an
// event, never persisted.
type StockMovement struct {
	VariantID      int64             `json:"variant_id"`
	ProductID      int64             `json:"product_id"`
	BranchID       *int64            `json:"branch_id"`
	MovementType   StockMovementType `json:"movement_type"`
	QuantityChange int               `json:"quantity_change"`
	QuantityBefore int               `json:"quantity_before"`
	QuantityAfter  int               `json:"quantity_after"`
	ReferenceType  *string           `json:"reference_type,omitempty"`
	ReferenceID    *string           `json:"reference_id,omitempty"`
	OccurredAt     time.Time         `json:"occurred_at"`
}
