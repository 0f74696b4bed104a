package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpiryWindowDays is the rolling window used by the expiring-soon queries
// and the weekly expiry scan.
const ExpiryWindowDays = 30

// Lot is a batch of one product sharing a manufacture/expiry date.
// CurrentStock starts equal to InitialStock and is mutated exclusively by
// StockMovement creation.
type Lot struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_lot_product_number;index:idx_lots_product_expiry"`
	LotNumber string    `gorm:"not null;uniqueIndex:idx_lot_product_number"`

	ManufacturedAt *time.Time `gorm:"type:date"`
	ExpiresAt      time.Time  `gorm:"type:date;not null;index:idx_lots_product_expiry;index:idx_lots_expiry_active"`

	InitialStock int `gorm:"not null"`
	CurrentStock int `gorm:"not null"`

	PurchasePrice *decimal.Decimal `gorm:"type:decimal(10,2)"`
	Supplier      string

	Active    bool `gorm:"not null;default:true;index:idx_lots_expiry_active"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

// Expired reports whether the lot's expiry date is in the past.
func (l *Lot) Expired(now time.Time) bool {
	return l.ExpiresAt.Before(truncateToDay(now))
}

// DaysToExpiry is negative for expired lots.
func (l *Lot) DaysToExpiry(now time.Time) int {
	return int(l.ExpiresAt.Sub(truncateToDay(now)).Hours() / 24)
}

// ExpiringSoon reports whether the lot expires within the rolling window.
func (l *Lot) ExpiringSoon(now time.Time) bool {
	d := l.DaysToExpiry(now)
	return d >= 0 && d <= ExpiryWindowDays
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
