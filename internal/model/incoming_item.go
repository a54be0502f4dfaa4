package model

import "time"

// IncomingItem records a delivery of stock into the warehouse. Rows are
// immutable once created; deleting one reverses its stock effect.
type IncomingItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	NoSJ      string    `gorm:"column:no_sj;type:varchar(100);not null;index" json:"no_sj"` // nomor surat jalan
	NoRKM     string    `gorm:"column:no_rkm;type:varchar(100);not null" json:"no_rkm"`
	ItemID    uint      `gorm:"not null;index:idx_incoming_created_item,priority:2" json:"item_id"`
	Item      *Item     `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"item,omitempty"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Unit      string    `gorm:"type:varchar(50);not null" json:"unit"`
	CreatedBy uint      `gorm:"not null" json:"created_by"`
	Creator   *User     `gorm:"foreignKey:CreatedBy;constraint:OnDelete:CASCADE" json:"creator,omitempty"`
	CreatedAt time.Time `gorm:"index:idx_incoming_created_item,priority:1" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
