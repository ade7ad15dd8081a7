package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

func (t DiscountType) Valid() bool {
	return t == DiscountPercentage || t == DiscountFixed
}

type Discount struct {
	BaseModel
	Name         string          `db:"name" json:"name"`
	DiscountType DiscountType    `db:"discount_type" json:"discount_type"`
	Value        decimal.Decimal `db:"value" json:"value"`
	StartDate    *time.Time      `db:"start_date" json:"start_date"`
	EndDate      *time.Time      `db:"end_date" json:"end_date"`
	IsActive     bool            `db:"is_active" json:"is_active"`
	ProductID    *int64          `db:"product_id" json:"product_id"`
	CategoryID   *int64          `db:"category_id" json:"category_id"`
}
