package repository

import (
	"context"
	"time"

	"rambopet/internal/dto"
	"rambopet/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LotRepository interface {
	Create(ctx context.Context, l *model.Lot) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Lot, error)
	List(ctx context.Context, filter dto.LotFilter) ([]model.Lot, int64, error)
	Update(ctx context.Context, l *model.Lot) error

	// FindByIDForUpdateTx locks the lot row (SELECT ... FOR UPDATE) inside the
	// caller's transaction. All stock mutations go through this lock so that
	// concurrent movements serialize instead of double-spending the lot.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Lot, error)
	UpdateStockTx(tx *gorm.DB, id uuid.UUID, newStock int) error

	// ListExpiringBefore returns active lots with stock whose expiry date falls
	// before the cutoff. Includes already expired lots.
	ListExpiringBefore(ctx context.Context, cutoff time.Time) ([]model.Lot, error)

	// ListActiveWithStock returns every active lot holding stock, with the
	// product preloaded. Feeds the inventory valuation report.
	ListActiveWithStock(ctx context.Context) ([]model.Lot, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type lotRepo struct{ db *gorm.DB }

func NewLotRepository(db *gorm.DB) LotRepository { return &lotRepo{db: db} }

func (r *lotRepo) Create(ctx context.Context, l *model.Lot) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *lotRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Lot, error) {
	var l model.Lot
	err := r.db.WithContext(ctx).Preload("Product").First(&l, id).Error
	return &l, err
}

func (r *lotRepo) List(ctx context.Context, filter dto.LotFilter) ([]model.Lot, int64, error) {
	var lots []model.Lot
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Lot{}).Preload("Product")

	if filter.ProductID != "" {
		q = q.Where("product_id = ?", filter.ProductID)
	}
	if filter.Active != nil {
		q = q.Where("active = ?", *filter.Active)
	}
	if filter.ExpiringSoon {
		days := filter.ExpiringDays
		if days <= 0 {
			days = model.ExpiryWindowDays
		}
		cutoff := time.Now().AddDate(0, 0, days)
		q = q.Where("expires_at < ? AND current_stock > 0", cutoff)
	}
	if filter.Expired {
		q = q.Where("expires_at < CURRENT_DATE AND current_stock > 0")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("expires_at ASC").Limit(filter.Limit).Offset(offset).Find(&lots).Error
	return lots, total, err
}

func (r *lotRepo) Update(ctx context.Context, l *model.Lot) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *lotRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Lot, error) {
	var l model.Lot
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&l, id).Error
	return &l, err
}

func (r *lotRepo) UpdateStockTx(tx *gorm.DB, id uuid.UUID, newStock int) error {
	return tx.Model(&model.Lot{}).Where("id = ?", id).Update("current_stock", newStock).Error
}

func (r *lotRepo) ListExpiringBefore(ctx context.Context, cutoff time.Time) ([]model.Lot, error) {
	var lots []model.Lot
	err := r.db.WithContext(ctx).Preload("Product").
		Where("active = true AND current_stock > 0 AND expires_at < ?", cutoff).
		Order("expires_at ASC").Find(&lots).Error
	return lots, err
}

func (r *lotRepo) ListActiveWithStock(ctx context.Context) ([]model.Lot, error) {
	var lots []model.Lot
	err := r.db.WithContext(ctx).Preload("Product").
		Where("active = true AND current_stock > 0").
		Order("product_id, expires_at ASC").Find(&lots).Error
	return lots, err
}

func (r *lotRepo) DB() *gorm.DB { return r.db }
