package service_test

import (
	"context"
	"testing"

	"rambopet/internal/dto"
	"rambopet/internal/model"
	"rambopet/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductFixture(t *testing.T) (service.ProductService, *stubProductRepo) {
	t.Helper()
	repo := newStubProductRepo()
	return service.NewProductService(repo), repo
}

func TestCreateProduct(t *testing.T) {
	svc, _ := newProductFixture(t)
	sale := decimal.NewFromFloat(18.90)

	resp, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Code:      "RABIES-VAC",
		Name:      "Rabies vaccine",
		Category:  model.CategoryVaccine,
		Unit:      model.UnitAmpoule,
		MinStock:  5,
		SalePrice: &sale,
	})
	require.NoError(t, err)

	assert.Equal(t, "RABIES-VAC", resp.Code)
	assert.True(t, resp.LotTracked, "tracking defaults to on")
	assert.True(t, resp.Active)
	assert.Equal(t, model.StockOut, resp.StockState, "no lots yet")
}

func TestCreateProductDefaults(t *testing.T) {
	svc, _ := newProductFixture(t)
	tracked := false

	resp, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Code:       "LEASH-STD",
		Name:       "Standard leash",
		Category:   model.CategoryAccessory,
		LotTracked: &tracked,
	})
	require.NoError(t, err)

	assert.Equal(t, model.UnitPiece, resp.Unit)
	assert.False(t, resp.LotTracked)
}

func TestCreateProductDuplicateCode(t *testing.T) {
	svc, _ := newProductFixture(t)

	_, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Code: "RABIES-VAC", Name: "Rabies vaccine", Category: model.CategoryVaccine,
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), dto.CreateProductRequest{
		Code: "RABIES-VAC", Name: "Another product", Category: model.CategoryVaccine,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestCreateProductBadThresholds(t *testing.T) {
	svc, _ := newProductFixture(t)

	_, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Code: "X-1", Name: "X", Category: model.CategoryOther,
		MinStock: 20, MaxStock: 10,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_stock")
}

func TestUpdateProductThresholdCheck(t *testing.T) {
	svc, _ := newProductFixture(t)

	created, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Code: "AMOX-500", Name: "Amoxicillin 500mg", Category: model.CategoryMedication,
		MinStock: 10, MaxStock: 100,
	})
	require.NoError(t, err)

	badMax := 5
	_, err = svc.Update(context.Background(), uuid.MustParse(created.ID), dto.UpdateProductRequest{
		MaxStock: &badMax,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_stock")
}

func TestGetByCode(t *testing.T) {
	svc, repo := newProductFixture(t)

	created, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Code: "AMOX-500", Name: "Amoxicillin 500mg", Category: model.CategoryMedication,
		MinStock: 10,
	})
	require.NoError(t, err)
	repo.stocks[uuid.MustParse(created.ID)] = 42

	resp, err := svc.GetByCode(context.Background(), "AMOX-500")
	require.NoError(t, err)
	assert.Equal(t, 42, resp.TotalStock)
	assert.Equal(t, model.StockNormal, resp.StockState)

	_, err = svc.GetByCode(context.Background(), "NOPE")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestStockReport(t *testing.T) {
	svc, repo := newProductFixture(t)

	low, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Code: "LOW-1", Name: "Low product", Category: model.CategoryMedication, MinStock: 10,
	})
	require.NoError(t, err)
	repo.stocks[uuid.MustParse(low.ID)] = 3

	over, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Code: "OVER-1", Name: "Over product", Category: model.CategoryFood, MinStock: 1, MaxStock: 50,
	})
	require.NoError(t, err)
	repo.stocks[uuid.MustParse(over.ID)] = 80

	ok, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Code: "OK-1", Name: "Fine product", Category: model.CategoryHygiene, MinStock: 5,
	})
	require.NoError(t, err)
	repo.stocks[uuid.MustParse(ok.ID)] = 20

	report, err := svc.StockReport(context.Background())
	require.NoError(t, err)
	require.Len(t, report, 2)

	states := map[string]string{}
	for _, row := range report {
		states[row.Code] = row.StockState
	}
	assert.Equal(t, model.StockLow, states["LOW-1"])
	assert.Equal(t, model.StockOver, states["OVER-1"])
}
