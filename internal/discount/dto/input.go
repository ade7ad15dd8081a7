package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type CreateDiscountInput struct {
	Name         string             `json:"name"`
	DiscountType model.DiscountType `json:"discount_type"`
	Value        decimal.Decimal    `json:"value"`
	StartDate    *time.Time         `json:"start_date"`
	EndDate      *time.Time         `json:"end_date"`
	IsActive     *bool              `json:"is_active"`
	ProductID    *int64             `json:"product_id"`
	CategoryID   *int64             `json:"category_id"`
}

type DiscountFilters struct {
	ProductID  *int64
	CategoryID *int64
	ActiveAt   *time.Time
}
