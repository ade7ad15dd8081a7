package dto

import "github.com/fekuna/omnipos-catalog-service/internal/model"

type BrandInput struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
}

type BrandList struct {
	Brands []model.Brand `json:"brands"`
	Total  int           `json:"total"`
}
