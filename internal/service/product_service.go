package service

import (
	"context"
	"errors"

	"rambopet/internal/dto"
	"rambopet/internal/model"
	"rambopet/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	GetByCode(ctx context.Context, code string) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error

	// StockReport lists every active product whose total stock sits outside
	// its thresholds.
	StockReport(ctx context.Context) ([]dto.StockAlertResponse, error)
}

type productService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if _, err := s.repo.FindByCode(ctx, req.Code); err == nil {
		return nil, conflict("product code already in use")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if req.MaxStock > 0 && req.MaxStock < req.MinStock {
		return nil, errors.New("max_stock cannot be below min_stock")
	}

	unit := req.Unit
	if unit == "" {
		unit = model.UnitPiece
	}
	lotTracked := true
	if req.LotTracked != nil {
		lotTracked = *req.LotTracked
	}

	p := &model.Product{
		Code:                 req.Code,
		Name:                 req.Name,
		Description:          req.Description,
		Category:             req.Category,
		ActiveIngredient:     req.ActiveIngredient,
		Concentration:        req.Concentration,
		Manufacturer:         req.Manufacturer,
		Unit:                 unit,
		MinStock:             req.MinStock,
		MaxStock:             req.MaxStock,
		PurchasePrice:        req.PurchasePrice,
		SalePrice:            req.SalePrice,
		RequiresPrescription: req.RequiresPrescription,
		LotTracked:           lotTracked,
		Active:               true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p, 0), nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("product not found")
	}
	total, err := s.repo.TotalStock(ctx, id)
	if err != nil {
		return nil, err
	}
	return productToResponse(p, total), nil
}

func (s *productService) GetByCode(ctx context.Context, code string) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, notFound("product not found")
	}
	total, err := s.repo.TotalStock(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return productToResponse(p, total), nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *productToResponse(&p.Product, p.TotalStock))
	}
	return &dto.ProductListResponse{
		Data:       out,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("product not found")
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.ActiveIngredient != nil {
		p.ActiveIngredient = *req.ActiveIngredient
	}
	if req.Concentration != nil {
		p.Concentration = *req.Concentration
	}
	if req.Manufacturer != nil {
		p.Manufacturer = *req.Manufacturer
	}
	if req.Unit != nil {
		p.Unit = *req.Unit
	}
	if req.MinStock != nil {
		p.MinStock = *req.MinStock
	}
	if req.MaxStock != nil {
		p.MaxStock = *req.MaxStock
	}
	if req.PurchasePrice != nil {
		p.PurchasePrice = req.PurchasePrice
	}
	if req.SalePrice != nil {
		p.SalePrice = req.SalePrice
	}
	if req.RequiresPrescription != nil {
		p.RequiresPrescription = *req.RequiresPrescription
	}

	if p.MaxStock > 0 && p.MaxStock < p.MinStock {
		return nil, errors.New("max_stock cannot be below min_stock")
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	total, _ := s.repo.TotalStock(ctx, p.ID)
	return productToResponse(p, total), nil
}

func (s *productService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFound("product not found")
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *productService) StockReport(ctx context.Context) ([]dto.StockAlertResponse, error) {
	flagged, err := s.repo.ListOutsideThresholds(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockAlertResponse, 0, len(flagged))
	for _, f := range flagged {
		out = append(out, dto.StockAlertResponse{
			ProductID:  f.Product.ID.String(),
			Code:       f.Product.Code,
			Name:       f.Product.Name,
			TotalStock: f.TotalStock,
			MinStock:   f.Product.MinStock,
			MaxStock:   f.Product.MaxStock,
			StockState: f.Product.StockState(f.TotalStock),
		})
	}
	return out, nil
}

func productToResponse(p *model.Product, totalStock int) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:                   p.ID.String(),
		Code:                 p.Code,
		Name:                 p.Name,
		Description:          p.Description,
		Category:             p.Category,
		ActiveIngredient:     p.ActiveIngredient,
		Concentration:        p.Concentration,
		Manufacturer:         p.Manufacturer,
		Unit:                 p.Unit,
		TotalStock:           totalStock,
		MinStock:             p.MinStock,
		MaxStock:             p.MaxStock,
		StockState:           p.StockState(totalStock),
		PurchasePrice:        p.PurchasePrice,
		SalePrice:            p.SalePrice,
		RequiresPrescription: p.RequiresPrescription,
		LotTracked:           p.LotTracked,
		Active:               p.Active,
	}
}
