package model

import (
	"time"

	"github.com/google/uuid"
)

// Stock movement types. Inbound types add to the lot's stock, outbound types
// subtract from it.
const (
	MovementIntake        = "intake"
	MovementSale          = "sale"
	MovementClinicalUse   = "clinical_use"
	MovementAdjustmentIn  = "adjustment_in"
	MovementAdjustmentOut = "adjustment_out"
	MovementLoss          = "loss"
	MovementReturn        = "return"
)

// MovementInbound reports whether the movement type adds stock.
func MovementInbound(movementType string) bool {
	switch movementType {
	case MovementIntake, MovementAdjustmentIn, MovementReturn:
		return true
	}
	return false
}

// ValidMovementType reports whether the string is a known movement type.
func ValidMovementType(movementType string) bool {
	switch movementType {
	case MovementIntake, MovementSale, MovementClinicalUse,
		MovementAdjustmentIn, MovementAdjustmentOut, MovementLoss, MovementReturn:
		return true
	}
	return false
}

// StockMovement is one entry in the append-only stock ledger. Creating a
// movement is the only write path to Lot.CurrentStock: StockBefore is read
// from the lot, StockAfter is computed from the signed quantity, and both are
// persisted together with the updated lot in one transaction. Movements are
// never deleted so the audit trail stays complete.
type StockMovement struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LotID uuid.UUID `gorm:"type:uuid;not null;index:idx_movements_lot_time"`
	Type  string    `gorm:"type:varchar(20);not null;index"`
	// Quantity is always positive; the type decides the sign.
	Quantity    int `gorm:"not null"`
	StockBefore int `gorm:"not null"`
	StockAfter  int `gorm:"not null"`

	// EpisodeID links clinical-use consumption back to the episode it served.
	EpisodeID *uuid.UUID `gorm:"type:uuid;index"`
	Reason    string
	// ReferenceDoc holds an invoice or purchase-order number when applicable.
	ReferenceDoc string

	PerformedByID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt     time.Time  `gorm:"index:idx_movements_lot_time"`

	Lot         *Lot             `gorm:"foreignKey:LotID"`
	Episode     *ClinicalEpisode `gorm:"foreignKey:EpisodeID"`
	PerformedBy *User            `gorm:"foreignKey:PerformedByID"`
}
