package model

import "github.com/shopspring/decimal"

type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "ACTIVE"
	ProductStatusInactive     ProductStatus = "INACTIVE"
	ProductStatusDiscontinued ProductStatus = "DISCONTINUED"
)

func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusActive, ProductStatusInactive, ProductStatusDiscontinued:
		return true
	}
	return false
}

type WarrantyUnit string

const (
	WarrantyDays   WarrantyUnit = "DAYS"
	WarrantyMonths WarrantyUnit = "MONTHS"
	WarrantyYears  WarrantyUnit = "YEARS"
)

func (u WarrantyUnit) Valid() bool {
	switch u {
	case WarrantyDays, WarrantyMonths, WarrantyYears:
		return true
	}
	return false
}

type Product struct {
	BaseModel
	SerialNumber string           `db:"serial_number" json:"serial_number"`
	Name         string           `db:"name" json:"name"`
	Description  *string          `db:"description" json:"description"`
	WarrantyTime *int             `db:"warranty_time" json:"warranty_time"`
	WarrantyUnit *WarrantyUnit    `db:"warranty_unit" json:"warranty_unit"`
	Cost         decimal.Decimal  `db:"cost" json:"cost"`
	RetailPrice  decimal.Decimal  `db:"retail_price" json:"retail_price"`
	Status       ProductStatus    `db:"status" json:"status"`
	CategoryID   *int64           `db:"category_id" json:"category_id"`
	BrandID      *int64           `db:"brand_id" json:"brand_id"`
	Category     *Category        `db:"-" json:"category,omitempty"` // Joined data
	Brand        *Brand           `db:"-" json:"brand,omitempty"`    // Joined data
	Variants     []ProductVariant `db:"-" json:"variants"`           // Not in DB table directly
}
