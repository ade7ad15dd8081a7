package dto

import "github.com/fekuna/omnipos-catalog-service/internal/model"

// VariantSpec is one requested variant of a batch.
type VariantSpec struct {
	ProductID int64           `json:"product_id"`
	Color     *string         `json:"color"`
	Size      *string         `json:"size"`
	SizeUnit  *model.SizeUnit `json:"size_unit"`
	Unit      *model.Unit     `json:"unit"`
	BranchID  *int64          `json:"branch_id"`
	Stock     int             `json:"stock"`
	MinStock  *int            `json:"min_stock"`
	Images    []string        `json:"images"`
}

func (s *VariantSpec) MinStockOrDefault() int {
	if s.MinStock == nil {
		return model.DefaultMinStock
	}
	return *s.MinStock
}

type VariantBatchInput struct {
	Variants []VariantSpec `json:"variants"`
}

// UpdateVariantInput is a partial update. Nil fields, including an explicit
// JSON null, are left unchanged, so an identity attribute cannot be cleared
// back to absent here; delete and recreate the variant instead. Images are
// appended.
type UpdateVariantInput struct {
	ID       int64           `json:"-"`
	Color    *string         `json:"color"`
	Size     *string         `json:"size"`
	SizeUnit *model.SizeUnit `json:"size_unit"`
	Unit     *model.Unit     `json:"unit"`
	BranchID *int64          `json:"branch_id"`
	Stock    *int            `json:"stock"`
	MinStock *int            `json:"min_stock"`
	Images   []string        `json:"images"`
}

type AppendImagesInput struct {
	Images []string `json:"images"`
}
