package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddStockRequest body para POST /api/inventory (entrada) y POST /api/inventory/remove (salida).
type AddStockRequest struct {
	BusinessID string           `json:"businessId,omitempty" validate:"omitempty,uuid"`
	ProductID  string           `json:"productId" validate:"required,uuid"`
	Quantity   int              `json:"quantity" validate:"required,gt=0"`
	UnitCost   *decimal.Decimal `json:"unitCost,omitempty" validate:"omitempty,gte=0"`
	Reason     string           `json:"reason,omitempty" validate:"omitempty,max=200"`
	Notes      string           `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// AdjustStockRequest body para PUT /api/inventory (ajuste a valor absoluto).
type AdjustStockRequest struct {
	BusinessID  string `json:"businessId,omitempty" validate:"omitempty,uuid"`
	ProductID   string `json:"productId" validate:"required,uuid"`
	NewQuantity *int   `json:"newQuantity" validate:"required,gte=0"`
	Reason      string `json:"reason,omitempty" validate:"omitempty,max=200"`
	Notes       string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// StockMovementResponse movimiento del kardex.
type StockMovementResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"productId"`
	Type        string    `json:"type"`
	Quantity    int       `json:"quantity"`
	PreviousQty int       `json:"previousQty"`
	NewQty      int       `json:"newQty"`
	InvoiceID   *string   `json:"invoiceId,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedBy   *string   `json:"createdBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// StockAdjustmentResponse resultado de una operación de stock: el producto y el
// movimiento registrado (nil cuando el producto no controla inventario).
type StockAdjustmentResponse struct {
	Product  ProductResponse        `json:"product"`
	Movement *StockMovementResponse `json:"movement,omitempty"`
}

// InventoryItemDTO fila de GET /api/inventory.
type InventoryItemDTO struct {
	ProductID         string           `json:"productId"`
	SKU               string           `json:"sku"`
	Name              string           `json:"name"`
	StockQuantity     int              `json:"stockQuantity"`
	LowStockThreshold *int             `json:"lowStockThreshold,omitempty"`
	LowStock          bool             `json:"lowStock"`
	UnitCost          *decimal.Decimal `json:"unitCost,omitempty"`
}

// InventoryListResponse listado de inventario paginado.
type InventoryListResponse struct {
	Items []InventoryItemDTO `json:"items"`
	Page  PageResponse       `json:"page"`
}

// MovementListResponse respuesta de GET /api/inventory/:productId/movements.
type MovementListResponse struct {
	Movements []StockMovementResponse `json:"movements"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un producto bajo su umbral.
type ReplenishmentSuggestionDTO struct {
	ProductID         string `json:"productId"`
	SKU               string `json:"sku"`
	Name              string `json:"name"`
	CurrentStock      int    `json:"currentStock"`
	Threshold         int    `json:"threshold"`
	IdealStock        int    `json:"idealStock"` // umbral * 1.5
	SuggestedOrderQty int    `json:"suggestedOrderQty"`
}
