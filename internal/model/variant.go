package model

import "time"

type SizeUnit string

const (
	SizeUnitClothing   SizeUnit = "CLOTHING"
	SizeUnitDimensions SizeUnit = "DIMENSIONS"
	SizeUnitWeight     SizeUnit = "WEIGHT"
	SizeUnitOther      SizeUnit = "OTHER"
)

func (u SizeUnit) Valid() bool {
	switch u {
	case SizeUnitClothing, SizeUnitDimensions, SizeUnitWeight, SizeUnitOther:
		return true
	}
	return false
}

type Unit string

const (
	UnitKG   Unit = "KG"
	UnitG    Unit = "G"
	UnitLB   Unit = "LB"
	UnitCM   Unit = "CM"
	UnitM    Unit = "M"
	UnitInch Unit = "INCH"
	UnitXS   Unit = "XS"
	UnitS    Unit = "S"
	UnitL    Unit = "L"
	UnitXL   Unit = "XL"
	UnitXXL  Unit = "XXL"
)

func (u Unit) Valid() bool {
	switch u {
	case UnitKG, UnitG, UnitLB, UnitCM, UnitM, UnitInch, UnitXS, UnitS, UnitL, UnitXL, UnitXXL:
		return true
	}
	return false
}

// Well-known color names. Colors are stored as free text, these are suggestions.
const (
	ColorRed    = "ROJO"
	ColorBlue   = "AZUL"
	ColorGreen  = "VERDE"
	ColorYellow = "AMARILLO"
	ColorOrange = "NARANJA"
	ColorViolet = "VIOLETA"
	ColorPink   = "ROSADO"
	ColorBrown  = "MARRON"
	ColorGray   = "GRIS"
	ColorWhite  = "BLANCO"
	ColorBlack  = "NEGRO"
	ColorMaroon = "BORDO"
)

const DefaultMinStock = 5

type ProductVariant struct {
	BaseModel
	ProductID int64          `db:"product_id" json:"product_id"`
	SKU       string         `db:"sku" json:"sku"`
	Color     *string        `db:"color" json:"color"`
	Size      *string        `db:"size" json:"size"`
	SizeUnit  *SizeUnit      `db:"size_unit" json:"size_unit"`
	Unit      *Unit          `db:"unit" json:"unit"`
	BranchID  *int64         `db:"branch_id" json:"branch_id"`
	Stock     int            `db:"stock" json:"stock"`
	MinStock  int            `db:"min_stock" json:"min_stock"`
	Images    []ProductImage `db:"-" json:"images"`
}

type ProductImage struct {
	ID        int64     `db:"id" json:"id"`
	VariantID int64     `db:"variant_id" json:"variant_id"`
	ImageURL  string    `db:"image_url" json:"image_url"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
