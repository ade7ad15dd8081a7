package dto

import (
	"github.com/shopspring/decimal"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type ProductFilters struct {
	Categories []string         `json:"categories,omitempty"`
	Brands     []string         `json:"brands,omitempty"`
	MinPrice   *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice   *decimal.Decimal `json:"max_price,omitempty"`
	Page       int              `json:"page"`
	PageSize   int              `json:"size"`
}

type ProductPage struct {
	Products []model.Product `json:"products"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	Size     int             `json:"size"`
	Pages    int             `json:"pages"`
}

type PriceRange struct {
	MinPrice *decimal.Decimal `json:"min_price"`
	MaxPrice *decimal.Decimal `json:"max_price"`
}

type CreateProductInput struct {
	SerialNumber string               `json:"serial_number"`
	Name         string               `json:"name"`
	Description  *string              `json:"description"`
	WarrantyTime *int                 `json:"warranty_time"`
	WarrantyUnit *model.WarrantyUnit  `json:"warranty_unit"`
	Cost         decimal.Decimal      `json:"cost"`
	RetailPrice  decimal.Decimal      `json:"retail_price"`
	Status       *model.ProductStatus `json:"status"`
	CategoryID   *int64               `json:"category_id"`
	BrandID      *int64               `json:"brand_id"`
}

// UpdateProductInput is a partial update; the serial number is immutable.
type UpdateProductInput struct {
	ID           int64                `json:"-"`
	Name         *string              `json:"name"`
	Description  *string              `json:"description"`
	WarrantyTime *int                 `json:"warranty_time"`
	WarrantyUnit *model.WarrantyUnit  `json:"warranty_unit"`
	Cost         *decimal.Decimal     `json:"cost"`
	RetailPrice  *decimal.Decimal     `json:"retail_price"`
	Status       *model.ProductStatus `json:"status"`
	CategoryID   *int64               `json:"category_id"`
	BrandID      *int64               `json:"brand_id"`
}
