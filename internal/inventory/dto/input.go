package dto

import "github.com/fekuna/omnipos-catalog-service/internal/model"

type AdjustStockInput struct {
	VariantID     int64   `json:"-"`
	Quantity      int     `json:"quantity"`
	ReferenceType *string `json:"reference_type"`
	ReferenceID   *string `json:"reference_id"`
}

type LowStockFilters struct {
	BranchID *int64
	Page     int
	PageSize int
}

type LowStockPage struct {
	Variants []model.ProductVariant `json:"variants"`
	Total    int                    `json:"total"`
	Page     int                    `json:"page"`
	Size     int                    `json:"size"`
}
