package model

type Category struct {
	BaseModel
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description"`
}

type Brand struct {
	BaseModel
	Name string `db:"name" json:"name"`
}

type Branch struct {
	BaseModel
	Name     string  `db:"name" json:"name"`
	Location *string `db:"location" json:"location"`
}
