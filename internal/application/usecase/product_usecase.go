package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jcastano/stockcore-api/internal/application/dto"
	"github.com/jcastano/stockcore-api/internal/domain"
	"github.com/jcastano/stockcore-api/internal/domain/entity"
	"github.com/jcastano/stockcore-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para el directorio de productos.
// AverageCost y CurrentStock solo cambian vía movimientos o conteos; aquí
// únicamente se siembran al crear.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un producto. El estado de stock inicia en cero salvo que el
// caller envíe un stock semilla con su costo.
func (uc *ProductUseCase) Create(companyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	existing, err := uc.repo.GetByCompanyAndSKU(companyID, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.ReorderLevel.LessThan(decimal.Zero) || in.LeadTimeDays < 0 {
		return nil, domain.ErrInvalidInput
	}

	stock := decimal.Zero
	cost := decimal.Zero
	if in.InitialStock != nil {
		if in.InitialStock.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		stock = *in.InitialStock
		if in.InitialCost != nil {
			if in.InitialCost.LessThan(decimal.Zero) {
				return nil, domain.ErrInvalidInput
			}
			cost = *in.InitialCost
		}
	}

	now := time.Now()
	product := &entity.Product{
		ID:                  uuid.New().String(),
		CompanyID:           companyID,
		SKU:                 in.SKU,
		Name:                in.Name,
		Description:         in.Description,
		Price:               in.Price,
		AverageCost:         cost,
		CurrentStock:        stock,
		TotalValue:          stock.Mul(cost),
		ReorderLevel:        in.ReorderLevel,
		LeadTimeDays:        in.LeadTimeDays,
		PreferredSupplierID: in.PreferredSupplierID,
		IsActive:            true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto de la empresa.
func (uc *ProductUseCase) GetByID(companyID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza los campos de catálogo. No permite tocar AverageCost,
// CurrentStock ni TotalValue.
func (uc *ProductUseCase) Update(companyID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.ReorderLevel != nil {
		if in.ReorderLevel.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.ReorderLevel = *in.ReorderLevel
	}
	if in.LeadTimeDays != nil {
		if *in.LeadTimeDays < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.LeadTimeDays = *in.LeadTimeDays
	}
	if in.PreferredSupplierID != nil {
		product.PreferredSupplierID = in.PreferredSupplierID
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos por empresa con paginación.
func (uc *ProductUseCase) List(companyID string, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: len(items)},
	}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:                  p.ID,
		CompanyID:           p.CompanyID,
		SKU:                 p.SKU,
		Name:                p.Name,
		Description:         p.Description,
		Price:               p.Price,
		AverageCost:         p.AverageCost,
		CurrentStock:        p.CurrentStock,
		TotalValue:          p.TotalValue,
		ReorderLevel:        p.ReorderLevel,
		LeadTimeDays:        p.LeadTimeDays,
		PreferredSupplierID: p.PreferredSupplierID,
		IsActive:            p.IsActive,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}
