package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product categories.
const (
	CategoryMedication    = "medication"
	CategoryVaccine       = "vaccine"
	CategoryMedicalSupply = "medical_supply"
	CategoryFood          = "food"
	CategoryHygiene       = "hygiene"
	CategoryAccessory     = "accessory"
	CategoryOther         = "other"
)

// Measurement units for products.
const (
	UnitPiece   = "unit"
	UnitBox     = "box"
	UnitBottle  = "bottle"
	UnitAmpoule = "ampoule"
	UnitTablet  = "tablet"
	UnitCapsule = "capsule"
	UnitML      = "ml"
	UnitG       = "g"
	UnitKG      = "kg"
)

// Stock report states derived from aggregate stock vs thresholds.
const (
	StockOut    = "out_of_stock"
	StockLow    = "low"
	StockOver   = "overstock"
	StockNormal = "normal"
)

// Product is pharmacy/supply catalog data. Physical stock lives in lots;
// a product's total stock is always derived as the sum of its active lots'
// current stock, recomputed on read and never cached.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code        string    `gorm:"uniqueIndex;not null"`
	Name        string    `gorm:"index;not null"`
	Description string
	Category    string `gorm:"type:varchar(20);not null;default:'other'"`
	// Pharmaceutical fields, meaningful for medications and vaccines
	ActiveIngredient string
	Concentration    string
	Manufacturer     string

	Unit     string `gorm:"type:varchar(10);not null;default:'unit'"`
	MinStock int    `gorm:"not null;default:0"`
	MaxStock int    `gorm:"not null;default:0"`

	PurchasePrice *decimal.Decimal `gorm:"type:decimal(10,2)"`
	SalePrice     *decimal.Decimal `gorm:"type:decimal(10,2)"`

	RequiresPrescription bool `gorm:"not null;default:false"`
	LotTracked           bool `gorm:"not null;default:true"`
	Active               bool `gorm:"not null;default:true"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// StockState classifies a total stock figure against the thresholds.
func (p *Product) StockState(total int) string {
	switch {
	case total == 0:
		return StockOut
	case total < p.MinStock:
		return StockLow
	case p.MaxStock > 0 && total > p.MaxStock:
		return StockOver
	default:
		return StockNormal
	}
}
