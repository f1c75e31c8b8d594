package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU               string           `json:"sku" validate:"required,min=1,max=50"`
	Name              string           `json:"name" validate:"required,min=1,max=200"`
	Description       string           `json:"description,omitempty" validate:"omitempty,max=1000"`
	UnitPrice         decimal.Decimal  `json:"unitPrice" validate:"gte=0"`
	UnitCost          *decimal.Decimal `json:"unitCost,omitempty" validate:"omitempty,gte=0"`
	TaxRate           decimal.Decimal  `json:"taxRate" validate:"gte=0,lte=100"`
	TrackInventory    bool             `json:"trackInventory"`
	InitialStock      int              `json:"initialStock,omitempty" validate:"gte=0"`
	LowStockThreshold *int             `json:"lowStockThreshold,omitempty" validate:"omitempty,gte=0"`
}

// UpdateProductRequest body para PUT /api/products/:id. La existencia no se edita aquí.
type UpdateProductRequest struct {
	SKU               *string          `json:"sku,omitempty" validate:"omitempty,min=1,max=50"`
	Name              *string          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description       *string          `json:"description,omitempty" validate:"omitempty,max=1000"`
	UnitPrice         *decimal.Decimal `json:"unitPrice,omitempty" validate:"omitempty,gte=0"`
	UnitCost          *decimal.Decimal `json:"unitCost,omitempty" validate:"omitempty,gte=0"`
	TaxRate           *decimal.Decimal `json:"taxRate,omitempty" validate:"omitempty,gte=0,lte=100"`
	TrackInventory    *bool            `json:"trackInventory,omitempty"`
	LowStockThreshold *int             `json:"lowStockThreshold,omitempty" validate:"omitempty,gte=0"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                string           `json:"id"`
	BusinessID        string           `json:"businessId"`
	SKU               string           `json:"sku"`
	Name              string           `json:"name"`
	Description       string           `json:"description,omitempty"`
	UnitPrice         decimal.Decimal  `json:"unitPrice"`
	UnitCost          *decimal.Decimal `json:"unitCost,omitempty"`
	TaxRate           decimal.Decimal  `json:"taxRate"`
	TrackInventory    bool             `json:"trackInventory"`
	StockQuantity     int              `json:"stockQuantity"`
	LowStockThreshold *int             `json:"lowStockThreshold,omitempty"`
	LowStock          bool             `json:"lowStock"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
