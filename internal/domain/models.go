// Package domain defines the persistence models for suppliers, inventory
// items and stock history. These types are mapped with GORM and shared by
// the repository, service and HTTP layers.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier is a vendor that provides inventory items.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Name: display name. Uniqueness is case-insensitive and checked by the
//     service; the unique index is a case-sensitive backstop.
//   - CreatedBy: email of the principal that created the row.
//   - Version: optimistic-lock counter, incremented on every update.
type Supplier struct {
	ID          string    `json:"id"          gorm:"type:char(36);primaryKey"`
	Name        string    `json:"name"        gorm:"type:varchar(255);not null;uniqueIndex:ux_suppliers_name"`
	ContactName string    `json:"contactName" gorm:"type:varchar(255)"`
	Phone       string    `json:"phone"       gorm:"type:varchar(64)"`
	Email       string    `json:"email"       gorm:"type:varchar(255)"`
	CreatedBy   string    `json:"createdBy"   gorm:"type:varchar(255);not null"`
	Version     int64     `json:"version"     gorm:"not null;default:1"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName returns the database table name for Supplier.
func (Supplier) TableName() string { return "suppliers" }

// InventoryItem is a stocked product. Each item belongs to exactly one
// supplier, and a supplier with items cannot be deleted.
//
// MinimumQuantity is the low-stock threshold used by analytics.
type InventoryItem struct {
	ID              string          `json:"id"              gorm:"type:char(36);primaryKey"`
	Name            string          `json:"name"            gorm:"type:varchar(255);not null;uniqueIndex:ux_items_name"`
	Quantity        int             `json:"quantity"        gorm:"not null;check:chk_items_quantity,quantity >= 0"`
	Price           decimal.Decimal `json:"price"           gorm:"type:numeric(12,2);not null;index:ix_items_price"`
	SupplierID      string          `json:"supplierId"      gorm:"type:char(36);not null;index"`
	MinimumQuantity int             `json:"minimumQuantity" gorm:"not null;default:10"`
	CreatedBy       string          `json:"createdBy"       gorm:"type:varchar(255);not null"`
	Version         int64           `json:"version"         gorm:"not null;default:1"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`

	Supplier *Supplier `json:"-" gorm:"foreignKey:SupplierID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName returns the database table name for InventoryItem.
func (InventoryItem) TableName() string { return "inventory_items" }

// IsLowStock reports whether the quantity is below the item's minimum.
func (i InventoryItem) IsLowStock() bool { return i.Quantity < i.MinimumQuantity }

// StockValue is price multiplied by quantity.
func (i InventoryItem) StockValue() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// StockHistory is an append-only audit row for a quantity or price change.
// ItemID carries no foreign key so history survives item deletion.
type StockHistory struct {
	ID            string              `json:"id"            gorm:"type:char(36);primaryKey"`
	ItemID        string              `json:"itemId"        gorm:"type:char(36);not null;index:ix_sh_item_ts,priority:1"`
	SupplierID    string              `json:"supplierId"    gorm:"type:char(36);index:ix_sh_supplier_ts,priority:1"`
	Change        int                 `json:"change"        gorm:"not null"`
	Reason        StockChangeReason   `json:"reason"        gorm:"type:varchar(32);not null;index"`
	CreatedBy     string              `json:"createdBy"     gorm:"type:varchar(255);not null"`
	PriceAtChange decimal.NullDecimal `json:"priceAtChange" gorm:"type:numeric(12,2)"`
	CreatedAt     time.Time           `json:"timestamp"     gorm:"not null;index;index:ix_sh_item_ts,priority:2;index:ix_sh_supplier_ts,priority:2"`
}

// TableName returns the database table name for StockHistory.
func (StockHistory) TableName() string { return "stock_history" }
