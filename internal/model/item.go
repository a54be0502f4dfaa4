package model

import (
	"time"
)

// ItemType enum values
const (
	ItemTypeConsumable  = "consumable"
	ItemTypeRawMaterial = "raw_material"
	ItemTypeMaterial    = "material"
)

// ValidItemType reports whether t is a known item type.
func ValidItemType(t string) bool {
	return t == ItemTypeConsumable || t == ItemTypeRawMaterial || t == ItemTypeMaterial
}

// CodePrefix returns the item code prefix for a type (ITM for anything unknown).
func CodePrefix(itemType string) string {
	switch itemType {
	case ItemTypeConsumable:
		return "CNS"
	case ItemTypeRawMaterial:
		return "RAW"
	case ItemTypeMaterial:
		return "MAT"
	default:
		return "ITM"
	}
}

// Item is a catalogued stock item. StockQuantity is mutated only through
// the stock ledger; plain updates must never write it.
type Item struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Code          string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`
	Name          string    `gorm:"type:varchar(255);not null;index:idx_items_type_name,priority:2" json:"name"`
	Type          string    `gorm:"type:varchar(20);not null;index:idx_items_type_name,priority:1" json:"type"`
	CategoryID    uint      `gorm:"not null;index" json:"category_id"`
	Category      *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"category,omitempty"`
	SupplierID    *uint     `gorm:"index" json:"supplier_id"`
	Supplier      *Supplier `gorm:"foreignKey:SupplierID;constraint:OnDelete:SET NULL" json:"supplier,omitempty"`
	Unit          string    `gorm:"type:varchar(50);not null" json:"unit"`
	Size          string    `gorm:"type:varchar(100)" json:"size,omitempty"` // only meaningful for raw materials
	StockQuantity int       `gorm:"not null;default:0" json:"stock_quantity"`
	Photo         string    `gorm:"type:varchar(255)" json:"photo,omitempty"`
	Description   string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
