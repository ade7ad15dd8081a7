package dto

type CreateBranchInput struct {
	Name     string  `json:"name"`
	Location *string `json:"location"`
}

type UpdateBranchInput struct {
	ID       int64   `json:"-"`
	Name     *string `json:"name"`
	Location *string `json:"location"`
}
