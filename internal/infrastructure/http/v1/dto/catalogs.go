package dto

import (
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/catalogs/category"
	"stockbook/internal/domain/catalogs/item"
	"stockbook/internal/domain/catalogs/location"
	"stockbook/internal/domain/catalogs/warehouse"
)

// --- Warehouse ---

// WarehouseRequest creates or updates a warehouse.
type WarehouseRequest struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Address     *string `json:"address,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
	IsDefault   bool    `json:"isDefault"`
	Description *string `json:"description,omitempty"`
}

// ToEntity builds a new warehouse owned by the tenant.
func (r *WarehouseRequest) ToEntity(tenantID id.ID) *warehouse.Warehouse {
	wh := warehouse.NewWarehouse(tenantID, r.Code, r.Name, warehouse.WarehouseType(r.Type))
	r.ApplyTo(wh)
	return wh
}

// ApplyTo copies the mutable fields onto an existing warehouse.
func (r *WarehouseRequest) ApplyTo(wh *warehouse.Warehouse) {
	wh.Code = r.Code
	wh.Name = r.Name
	wh.Type = warehouse.WarehouseType(r.Type)
	wh.Address = r.Address
	wh.IsDefault = r.IsDefault
	wh.Description = r.Description
	if r.IsActive != nil {
		wh.IsActive = *r.IsActive
	}
}

// --- Location ---

// LocationRequest creates or updates a location.
type LocationRequest struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	WarehouseID id.ID   `json:"warehouseId"`
	IsActive    *bool   `json:"isActive,omitempty"`
	Description *string `json:"description,omitempty"`
}

// ToEntity builds a new location owned by the tenant.
func (r *LocationRequest) ToEntity(tenantID id.ID) *location.Location {
	loc := location.NewLocation(tenantID, r.WarehouseID, r.Code, r.Name)
	r.ApplyTo(loc)
	return loc
}

// ApplyTo copies the mutable fields onto an existing location.
// The owning warehouse never changes.
func (r *LocationRequest) ApplyTo(loc *location.Location) {
	loc.Code = r.Code
	loc.Name = r.Name
	loc.Description = r.Description
	if r.IsActive != nil {
		loc.IsActive = *r.IsActive
	}
}

// --- Item ---

// ItemRequest creates or updates an item.
type ItemRequest struct {
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	CategoryID    *id.ID          `json:"categoryId,omitempty"`
	Barcode       string          `json:"barcode,omitempty"`
	Unit          string          `json:"unit"`
	MinStock      *types.Quantity `json:"minStock,omitempty"`
	PurchasePrice *types.Cost     `json:"purchasePrice,omitempty"`
	SellingPrice  *types.Cost     `json:"sellingPrice,omitempty"`
	IsActive      *bool           `json:"isActive,omitempty"`
	Description   *string         `json:"description,omitempty"`
}

// ToEntity builds a new item owned by the tenant.
func (r *ItemRequest) ToEntity(tenantID id.ID) *item.Item {
	it := item.NewItem(tenantID, r.Code, r.Name, r.Unit)
	r.ApplyTo(it)
	return it
}

// ApplyTo copies the mutable fields onto an existing item.
func (r *ItemRequest) ApplyTo(it *item.Item) {
	it.Code = r.Code
	it.Name = r.Name
	it.CategoryID = r.CategoryID
	it.Barcode = r.Barcode
	it.Unit = r.Unit
	it.Description = r.Description
	if r.MinStock != nil {
		it.MinStock = types.RoundQuantity(*r.MinStock)
	}
	if r.PurchasePrice != nil {
		it.PurchasePrice = types.RoundCost(*r.PurchasePrice)
	}
	if r.SellingPrice != nil {
		it.SellingPrice = types.RoundCost(*r.SellingPrice)
	}
	if r.IsActive != nil {
		it.IsActive = *r.IsActive
	}
}

// --- Category ---

// CategoryRequest creates or updates a category.
type CategoryRequest struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	ParentID    *id.ID  `json:"parentId,omitempty"`
	Description *string `json:"description,omitempty"`
}

// ToEntity builds a new category owned by the tenant.
func (r *CategoryRequest) ToEntity(tenantID id.ID) *category.Category {
	cat := category.NewCategory(tenantID, r.Code, r.Name)
	r.ApplyTo(cat)
	return cat
}

// ApplyTo copies the mutable fields onto an existing category.
func (r *CategoryRequest) ApplyTo(cat *category.Category) {
	cat.Code = r.Code
	cat.Name = r.Name
	cat.ParentID = r.ParentID
	cat.Description = r.Description
}
