package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rambopet/internal/dto"
	"rambopet/internal/model"
	"rambopet/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InventoryService interface {
	CreateLot(ctx context.Context, req dto.CreateLotRequest) (*dto.LotResponse, error)
	GetLot(ctx context.Context, id uuid.UUID) (*dto.LotResponse, error)
	ListLots(ctx context.Context, filter dto.LotFilter) (*dto.LotListResponse, error)
	DeactivateLot(ctx context.Context, id uuid.UUID) error

	// RegisterMovement appends one entry to the stock ledger and updates the
	// lot's current stock in the same transaction. This is the only write
	// path to lot stock.
	RegisterMovement(ctx context.Context, actor Actor, req dto.CreateMovementRequest) (*dto.MovementResponse, error)
	ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error)

	// ExpiryReport lists active lots with stock expiring within the rolling
	// window, expired lots included.
	ExpiryReport(ctx context.Context) ([]dto.ExpiryAlertResponse, error)
}

type inventoryService struct {
	lotRepo      repository.LotRepository
	productRepo  repository.ProductRepository
	movementRepo repository.MovementRepository
	episodeRepo  repository.EpisodeRepository
}

func NewInventoryService(
	lotRepo repository.LotRepository,
	productRepo repository.ProductRepository,
	movementRepo repository.MovementRepository,
	episodeRepo repository.EpisodeRepository,
) InventoryService {
	return &inventoryService{
		lotRepo:      lotRepo,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		episodeRepo:  episodeRepo,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *inventoryService) CreateLot(ctx context.Context, req dto.CreateLotRequest) (*dto.LotResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, notFound("product not found")
	}
	if !product.Active {
		return nil, conflict("lots cannot be added to an inactive product")
	}
	if !product.LotTracked {
		return nil, conflict("the product is not lot tracked")
	}

	if req.ManufacturedAt != nil && !req.ExpiresAt.After(*req.ManufacturedAt) {
		return nil, errors.New("expiry date must be after the manufacture date")
	}
	if !req.ExpiresAt.After(time.Now()) {
		return nil, errors.New("expiry date must be in the future")
	}

	l := &model.Lot{
		ProductID:      productID,
		LotNumber:      req.LotNumber,
		ManufacturedAt: req.ManufacturedAt,
		ExpiresAt:      req.ExpiresAt,
		InitialStock:   req.InitialStock,
		CurrentStock:   req.InitialStock,
		PurchasePrice:  req.PurchasePrice,
		Supplier:       req.Supplier,
		Active:         true,
	}
	if err := s.lotRepo.Create(ctx, l); err != nil {
		return nil, err
	}
	l.Product = product
	return lotToResponse(l), nil
}

func (s *inventoryService) GetLot(ctx context.Context, id uuid.UUID) (*dto.LotResponse, error) {
	l, err := s.lotRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("lot not found")
	}
	return lotToResponse(l), nil
}

func (s *inventoryService) ListLots(ctx context.Context, filter dto.LotFilter) (*dto.LotListResponse, error) {
	lots, total, err := s.lotRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LotResponse, 0, len(lots))
	for i := range lots {
		out = append(out, *lotToResponse(&lots[i]))
	}
	return &dto.LotListResponse{
		Data:       out,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

func (s *inventoryService) DeactivateLot(ctx context.Context, id uuid.UUID) error {
	l, err := s.lotRepo.FindByID(ctx, id)
	if err != nil {
		return notFound("lot not found")
	}
	if l.CurrentStock > 0 {
		return conflict("lots holding stock cannot be deactivated; register a loss or adjustment first")
	}
	l.Active = false
	return s.lotRepo.Update(ctx, l)
}

// ── RegisterMovement ──────────────────────────────────────────────────────────
// One ACID transaction:
//   1. SELECT the lot FOR UPDATE so concurrent movements serialize
//   2. Compute stock_before / stock_after from the signed quantity
//   3. Reject outbound movements that would leave negative stock
//   4. INSERT the movement and UPDATE the lot together
// Ledger rows are append-only; there is no update or delete path.

func (s *inventoryService) RegisterMovement(ctx context.Context, actor Actor, req dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	lotID, err := uuid.Parse(req.LotID)
	if err != nil {
		return nil, err
	}
	if !model.ValidMovementType(req.Type) {
		return nil, errors.New("unknown movement type")
	}

	var episodeID *uuid.UUID
	if req.EpisodeID != nil {
		eid, err := uuid.Parse(*req.EpisodeID)
		if err != nil {
			return nil, err
		}
		if _, err := s.episodeRepo.FindByID(ctx, eid); err != nil {
			return nil, notFound("episode not found")
		}
		episodeID = &eid
	}
	if req.Type == model.MovementClinicalUse && episodeID == nil {
		return nil, errors.New("clinical_use movements must reference an episode")
	}

	var movement model.StockMovement
	txErr := runTx(ctx, s.lotRepo.DB(), func(tx *gorm.DB) error {
		lot, err := s.lotRepo.FindByIDForUpdateTx(tx, lotID)
		if err != nil {
			return notFound("lot not found")
		}
		if !lot.Active {
			return conflict("movements cannot target an inactive lot")
		}

		before := lot.CurrentStock
		var after int
		if model.MovementInbound(req.Type) {
			after = before + req.Quantity
		} else {
			if req.Quantity > before {
				return conflict(fmt.Sprintf("insufficient stock: lot holds %d, movement needs %d", before, req.Quantity))
			}
			if lot.Expired(time.Now()) && (req.Type == model.MovementSale || req.Type == model.MovementClinicalUse) {
				return conflict("expired lots cannot be sold or used clinically")
			}
			after = before - req.Quantity
		}

		movement = model.StockMovement{
			LotID:         lotID,
			Type:          req.Type,
			Quantity:      req.Quantity,
			StockBefore:   before,
			StockAfter:    after,
			EpisodeID:     episodeID,
			Reason:        req.Reason,
			ReferenceDoc:  req.ReferenceDoc,
			PerformedByID: &actor.UserID,
		}
		if err := s.movementRepo.CreateTx(tx, &movement); err != nil {
			return err
		}
		return s.lotRepo.UpdateStockTx(tx, lotID, after)
	})
	if txErr != nil {
		return nil, txErr
	}

	created, err := s.movementRepo.FindByID(ctx, movement.ID)
	if err != nil {
		return movementToResponse(&movement), nil
	}
	return movementToResponse(created), nil
}

func (s *inventoryService) ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error) {
	movements, total, err := s.movementRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for i := range movements {
		out = append(out, *movementToResponse(&movements[i]))
	}
	return &dto.MovementListResponse{
		Data:       out,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

func (s *inventoryService) ExpiryReport(ctx context.Context) ([]dto.ExpiryAlertResponse, error) {
	cutoff := time.Now().AddDate(0, 0, model.ExpiryWindowDays)
	lots, err := s.lotRepo.ListExpiringBefore(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	out := make([]dto.ExpiryAlertResponse, 0, len(lots))
	for i := range lots {
		l := &lots[i]
		alert := dto.ExpiryAlertResponse{
			LotID:        l.ID.String(),
			ProductID:    l.ProductID.String(),
			LotNumber:    l.LotNumber,
			ExpiresAt:    l.ExpiresAt,
			DaysToExpiry: l.DaysToExpiry(now),
			CurrentStock: l.CurrentStock,
		}
		if l.Product != nil {
			alert.ProductName = l.Product.Name
		}
		out = append(out, alert)
	}
	return out, nil
}

func lotToResponse(l *model.Lot) *dto.LotResponse {
	resp := &dto.LotResponse{
		ID:             l.ID.String(),
		ProductID:      l.ProductID.String(),
		LotNumber:      l.LotNumber,
		ManufacturedAt: l.ManufacturedAt,
		ExpiresAt:      l.ExpiresAt,
		DaysToExpiry:   l.DaysToExpiry(time.Now()),
		InitialStock:   l.InitialStock,
		CurrentStock:   l.CurrentStock,
		PurchasePrice:  l.PurchasePrice,
		Supplier:       l.Supplier,
		Active:         l.Active,
	}
	if l.Product != nil {
		resp.ProductName = l.Product.Name
	}
	return resp
}

func movementToResponse(m *model.StockMovement) *dto.MovementResponse {
	resp := &dto.MovementResponse{
		ID:           m.ID.String(),
		LotID:        m.LotID.String(),
		Type:         m.Type,
		Quantity:     m.Quantity,
		StockBefore:  m.StockBefore,
		StockAfter:   m.StockAfter,
		Reason:       m.Reason,
		ReferenceDoc: m.ReferenceDoc,
		CreatedAt:    m.CreatedAt,
	}
	if m.EpisodeID != nil {
		id := m.EpisodeID.String()
		resp.EpisodeID = &id
	}
	if m.PerformedByID != nil {
		id := m.PerformedByID.String()
		resp.PerformedByID = &id
	}
	if m.Lot != nil {
		resp.LotNumber = m.Lot.LotNumber
		resp.ProductID = m.Lot.ProductID.String()
		if m.Lot.Product != nil {
			resp.ProductName = m.Lot.Product.Name
		}
	}
	return resp
}
