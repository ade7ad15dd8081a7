package dto

import "github.com/fekuna/omnipos-catalog-service/internal/model"

type CategoryFilters struct {
	Name     string
	Page     int
	PageSize int
}

type CreateCategoryInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type UpdateCategoryInput struct {
	ID          int64   `json:"-"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type CategoryList struct {
	Categories []model.Category `json:"categories"`
	Total      int              `json:"total"`
}
