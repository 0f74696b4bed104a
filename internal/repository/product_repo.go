package repository

import (
	"context"

	"rambopet/internal/dto"
	"rambopet/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductWithStock pairs a product with the sum of its active lots.
type ProductWithStock struct {
	Product    model.Product
	TotalStock int
}

type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByCode(ctx context.Context, code string) (*model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]ProductWithStock, int64, error)
	Update(ctx context.Context, p *model.Product) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// TotalStock sums current_stock across the product's active lots.
	TotalStock(ctx context.Context, id uuid.UUID) (int, error)

	// ListOutsideThresholds returns active products whose total stock is at or
	// below min_stock, or above a positive max_stock.
	ListOutsideThresholds(ctx context.Context) ([]ProductWithStock, error)
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *productRepo) FindByCode(ctx context.Context, code string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&p).Error
	return &p, err
}

func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter) ([]ProductWithStock, int64, error) {
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{})

	if filter.Active != nil {
		q = q.Where("active = ?", *filter.Active)
	}
	if filter.Code != "" {
		q = q.Where("code = ?", filter.Code)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []model.Product
	offset := (filter.Page - 1) * filter.Limit
	if err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&products).Error; err != nil {
		return nil, 0, err
	}

	out := make([]ProductWithStock, 0, len(products))
	for _, p := range products {
		stock, err := r.TotalStock(ctx, p.ID)
		if err != nil {
			return nil, 0, err
		}
		if filter.LowStock && stock > p.MinStock {
			continue
		}
		out = append(out, ProductWithStock{Product: p, TotalStock: stock})
	}
	return out, total, nil
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Update("active", false).Error
}

func (r *productRepo) TotalStock(ctx context.Context, id uuid.UUID) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Lot{}).
		Where("product_id = ? AND active = true", id).
		Select("COALESCE(SUM(current_stock), 0)").
		Scan(&total).Error
	return int(total), err
}

func (r *productRepo) ListOutsideThresholds(ctx context.Context) ([]ProductWithStock, error) {
	var products []model.Product
	if err := r.db.WithContext(ctx).Where("active = true").Order("name ASC").Find(&products).Error; err != nil {
		return nil, err
	}

	var out []ProductWithStock
	for _, p := range products {
		stock, err := r.TotalStock(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		if stock <= p.MinStock || (p.MaxStock > 0 && stock > p.MaxStock) {
			out = append(out, ProductWithStock{Product: p, TotalStock: stock})
		}
	}
	return out, nil
}
