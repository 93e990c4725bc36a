package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InventoryRecord is a single row in the inventories collection. The bson
// field names are camelCase to stay compatible with grids that read the
// documents verbatim.
type InventoryRecord struct {
	ID          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	SKU         string             `json:"sku" bson:"sku"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`

	Category    string `json:"category,omitempty" bson:"category,omitempty"`
	SubCategory string `json:"subCategory,omitempty" bson:"subCategory,omitempty"`
	Brand       string `json:"brand,omitempty" bson:"brand,omitempty"`

	CostPrice       float64 `json:"costPrice" bson:"costPrice"`
	SellingPrice    float64 `json:"sellingPrice" bson:"sellingPrice"`
	DiscountPercent float64 `json:"discountPercent" bson:"discountPercent"`
	TaxPercent      float64 `json:"taxPercent" bson:"taxPercent"`

	QuantityInStock   int    `json:"quantityInStock" bson:"quantityInStock"`
	MinimumStockLevel int    `json:"minimumStockLevel" bson:"minimumStockLevel"`
	WarehouseLocation string `json:"warehouseLocation,omitempty" bson:"warehouseLocation,omitempty"`

	SupplierName    string `json:"supplierName,omitempty" bson:"supplierName,omitempty"`
	SupplierContact string `json:"supplierContact,omitempty" bson:"supplierContact,omitempty"`

	IsActive     bool `json:"isActive" bson:"isActive"`
	IsReturnable bool `json:"isReturnable" bson:"isReturnable"`

	ManufactureDate *time.Time `json:"manufactureDate,omitempty" bson:"manufactureDate,omitempty"`
	ExpiryDate      *time.Time `json:"expiryDate,omitempty" bson:"expiryDate,omitempty"`
	LastRestockedAt *time.Time `json:"lastRestockedAt,omitempty" bson:"lastRestockedAt,omitempty"`

	CreatedBy string `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	Notes     string `json:"notes,omitempty" bson:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Validate checks the record-level invariants before an insert.
func (r *InventoryRecord) Validate() error {
	if r.SKU == "" {
		return fmt.Errorf("sku is required")
	}
	if r.CostPrice < 0 || r.SellingPrice < 0 {
		return fmt.Errorf("sku %s: prices must be non-negative", r.SKU)
	}
	if r.DiscountPercent < 0 || r.DiscountPercent > 100 {
		return fmt.Errorf("sku %s: discountPercent must be within [0,100]", r.SKU)
	}
	if r.TaxPercent < 0 || r.TaxPercent > 100 {
		return fmt.Errorf("sku %s: taxPercent must be within [0,100]", r.SKU)
	}
	if r.TaxPercent > r.DiscountPercent {
		return fmt.Errorf("sku %s: taxPercent must not exceed discountPercent", r.SKU)
	}
	if r.QuantityInStock < 0 || r.MinimumStockLevel < 0 {
		return fmt.Errorf("sku %s: stock levels must be non-negative", r.SKU)
	}
	return nil
}

// IsLowStock reports whether the record is below its restock threshold.
func (r *InventoryRecord) IsLowStock() bool {
	return r.QuantityInStock < r.MinimumStockLevel
}
