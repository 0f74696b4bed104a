package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Code                 string           `json:"code"                  validate:"required,min=2,max=40"`
	Name                 string           `json:"name"                  validate:"required,min=2,max=150"`
	Description          string           `json:"description"`
	Category             string           `json:"category"              validate:"required,oneof=medication vaccine medical_supply food hygiene accessory other"`
	ActiveIngredient     string           `json:"active_ingredient"     validate:"omitempty,max=150"`
	Concentration        string           `json:"concentration"         validate:"omitempty,max=60"`
	Manufacturer         string           `json:"manufacturer"          validate:"omitempty,max=150"`
	Unit                 string           `json:"unit"                  validate:"omitempty,oneof=unit box bottle ampoule tablet capsule ml g kg"`
	MinStock             int              `json:"min_stock"             validate:"min=0"`
	MaxStock             int              `json:"max_stock"             validate:"min=0"`
	PurchasePrice        *decimal.Decimal `json:"purchase_price"`
	SalePrice            *decimal.Decimal `json:"sale_price"`
	RequiresPrescription bool             `json:"requires_prescription"`
	LotTracked           *bool            `json:"lot_tracked"`
}

type UpdateProductRequest struct {
	Name                 *string          `json:"name"                  validate:"omitempty,min=2,max=150"`
	Description          *string          `json:"description"`
	Category             *string          `json:"category"              validate:"omitempty,oneof=medication vaccine medical_supply food hygiene accessory other"`
	ActiveIngredient     *string          `json:"active_ingredient"     validate:"omitempty,max=150"`
	Concentration        *string          `json:"concentration"         validate:"omitempty,max=60"`
	Manufacturer         *string          `json:"manufacturer"          validate:"omitempty,max=150"`
	Unit                 *string          `json:"unit"                  validate:"omitempty,oneof=unit box bottle ampoule tablet capsule ml g kg"`
	MinStock             *int             `json:"min_stock"             validate:"omitempty,min=0"`
	MaxStock             *int             `json:"max_stock"             validate:"omitempty,min=0"`
	PurchasePrice        *decimal.Decimal `json:"purchase_price"`
	SalePrice            *decimal.Decimal `json:"sale_price"`
	RequiresPrescription *bool            `json:"requires_prescription"`
}

type CreateLotRequest struct {
	ProductID      string           `json:"product_id"      validate:"required,uuid"`
	LotNumber      string           `json:"lot_number"      validate:"required,min=1,max=60"`
	ManufacturedAt *time.Time       `json:"manufactured_at"`
	ExpiresAt      time.Time        `json:"expires_at"      validate:"required"`
	InitialStock   int              `json:"initial_stock"   validate:"required,min=1"`
	PurchasePrice  *decimal.Decimal `json:"purchase_price"`
	Supplier       string           `json:"supplier"        validate:"omitempty,max=150"`
}

type CreateMovementRequest struct {
	LotID        string  `json:"lot_id"        validate:"required,uuid"`
	Type         string  `json:"type"          validate:"required,oneof=intake sale clinical_use adjustment_in adjustment_out loss return"`
	Quantity     int     `json:"quantity"      validate:"required,min=1"`
	EpisodeID    *string `json:"episode_id"    validate:"omitempty,uuid"`
	Reason       string  `json:"reason"        validate:"omitempty,max=255"`
	ReferenceDoc string  `json:"reference_doc" validate:"omitempty,max=100"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	Code     string `form:"code"`
	Search   string `form:"search"`
	Category string `form:"category" validate:"omitempty,oneof=medication vaccine medical_supply food hygiene accessory other"`
	Active   *bool  `form:"active"`
	LowStock bool   `form:"low_stock"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=20" validate:"min=1,max=100"`
}

type LotFilter struct {
	ProductID    string `form:"product_id" validate:"omitempty,uuid"`
	Active       *bool  `form:"active"`
	ExpiringSoon bool   `form:"expiring_soon"`
	// ExpiringDays overrides the default rolling window when expiring_soon
	// is set.
	ExpiringDays int  `form:"expiring_days" validate:"omitempty,min=1,max=365"`
	Expired      bool `form:"expired"`
	Page         int  `form:"page,default=1"   validate:"min=1"`
	Limit        int  `form:"limit,default=20" validate:"min=1,max=100"`
}

type MovementFilter struct {
	ProductID string     `form:"product_id" validate:"omitempty,uuid"`
	LotID     string     `form:"lot_id"     validate:"omitempty,uuid"`
	Type      string     `form:"type"       validate:"omitempty,oneof=intake sale clinical_use adjustment_in adjustment_out loss return"`
	DateFrom  *time.Time `form:"date_from"  time_format:"2006-01-02"`
	DateTo    *time.Time `form:"date_to"    time_format:"2006-01-02"`
	Page      int        `form:"page,default=1"   validate:"min=1"`
	Limit     int        `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID                   string           `json:"id"`
	Code                 string           `json:"code"`
	Name                 string           `json:"name"`
	Description          string           `json:"description"`
	Category             string           `json:"category"`
	ActiveIngredient     string           `json:"active_ingredient"`
	Concentration        string           `json:"concentration"`
	Manufacturer         string           `json:"manufacturer"`
	Unit                 string           `json:"unit"`
	TotalStock           int              `json:"total_stock"`
	MinStock             int              `json:"min_stock"`
	MaxStock             int              `json:"max_stock"`
	StockState           string           `json:"stock_state"`
	PurchasePrice        *decimal.Decimal `json:"purchase_price"`
	SalePrice            *decimal.Decimal `json:"sale_price"`
	RequiresPrescription bool             `json:"requires_prescription"`
	LotTracked           bool             `json:"lot_tracked"`
	Active               bool             `json:"active"`
}

type LotResponse struct {
	ID             string           `json:"id"`
	ProductID      string           `json:"product_id"`
	ProductName    string           `json:"product_name,omitempty"`
	LotNumber      string           `json:"lot_number"`
	ManufacturedAt *time.Time       `json:"manufactured_at"`
	ExpiresAt      time.Time        `json:"expires_at"`
	DaysToExpiry   int              `json:"days_to_expiry"`
	InitialStock   int              `json:"initial_stock"`
	CurrentStock   int              `json:"current_stock"`
	PurchasePrice  *decimal.Decimal `json:"purchase_price"`
	Supplier       string           `json:"supplier"`
	Active         bool             `json:"active"`
}

type MovementResponse struct {
	ID            string    `json:"id"`
	LotID         string    `json:"lot_id"`
	LotNumber     string    `json:"lot_number,omitempty"`
	ProductID     string    `json:"product_id,omitempty"`
	ProductName   string    `json:"product_name,omitempty"`
	Type          string    `json:"type"`
	Quantity      int       `json:"quantity"`
	StockBefore   int       `json:"stock_before"`
	StockAfter    int       `json:"stock_after"`
	EpisodeID     *string   `json:"episode_id"`
	Reason        string    `json:"reason"`
	ReferenceDoc  string    `json:"reference_doc"`
	PerformedByID *string   `json:"performed_by_id"`
	CreatedAt     time.Time `json:"created_at"`
}

type ProductListResponse struct {
	Data       []ProductResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

type LotListResponse struct {
	Data       []LotResponse `json:"data"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"total_pages"`
}

type MovementListResponse struct {
	Data       []MovementResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

// StockAlertResponse summarizes a product whose stock sits outside its
// configured thresholds. Used by the stock report endpoint and the daily
// stock scan email.
type StockAlertResponse struct {
	ProductID  string `json:"product_id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	TotalStock int    `json:"total_stock"`
	MinStock   int    `json:"min_stock"`
	MaxStock   int    `json:"max_stock"`
	StockState string `json:"stock_state"`
}

type ExpiryAlertResponse struct {
	LotID        string    `json:"lot_id"`
	ProductID    string    `json:"product_id"`
	ProductName  string    `json:"product_name"`
	LotNumber    string    `json:"lot_number"`
	ExpiresAt    time.Time `json:"expires_at"`
	DaysToExpiry int       `json:"days_to_expiry"`
	CurrentStock int       `json:"current_stock"`
}
