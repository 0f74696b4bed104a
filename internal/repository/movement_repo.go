package repository

import (
	"context"

	"rambopet/internal/dto"
	"rambopet/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovementRepository interface {
	CreateTx(tx *gorm.DB, m *model.StockMovement) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.StockMovement, error)
	List(ctx context.Context, filter dto.MovementFilter) ([]model.StockMovement, int64, error)
}

type movementRepo struct{ db *gorm.DB }

func NewMovementRepository(db *gorm.DB) MovementRepository { return &movementRepo{db: db} }

func (r *movementRepo) CreateTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Create(m).Error
}

func (r *movementRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.StockMovement, error) {
	var m model.StockMovement
	err := r.db.WithContext(ctx).
		Preload("Lot").Preload("Lot.Product").
		First(&m, id).Error
	return &m, err
}

func (r *movementRepo) List(ctx context.Context, filter dto.MovementFilter) ([]model.StockMovement, int64, error) {
	var movements []model.StockMovement
	var total int64

	q := r.db.WithContext(ctx).Model(&model.StockMovement{}).
		Preload("Lot").Preload("Lot.Product")

	if filter.LotID != "" {
		q = q.Where("lot_id = ?", filter.LotID)
	}
	if filter.ProductID != "" {
		q = q.Joins("JOIN lots ON lots.id = stock_movements.lot_id").
			Where("lots.product_id = ?", filter.ProductID)
	}
	if filter.Type != "" {
		q = q.Where("stock_movements.type = ?", filter.Type)
	}
	if filter.DateFrom != nil {
		q = q.Where("stock_movements.created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		q = q.Where("stock_movements.created_at < ?", filter.DateTo.AddDate(0, 0, 1))
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("stock_movements.created_at DESC").Limit(filter.Limit).Offset(offset).Find(&movements).Error
	return movements, total, err
}
