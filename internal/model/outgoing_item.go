package model

import "time"

// Project site enum values for dispatches.
const (
	SiteProjectA = "project_a"
	SiteProjectB = "project_b"
	SiteProjectC = "project_c"
)

// ValidSite reports whether site is a known project site.
func ValidSite(site string) bool {
	return site == SiteProjectA || site == SiteProjectB || site == SiteProjectC
}

// OutgoingItem records a shipment of stock out to a project site. Rows are
// immutable once created; deleting one reverses its stock effect.
type OutgoingItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	NoSJ      string    `gorm:"column:no_sj;type:varchar(100);not null;index" json:"no_sj"`
	Site      string    `gorm:"type:varchar(20);not null" json:"site"`
	ItemID    uint      `gorm:"not null;index:idx_outgoing_created_item,priority:2" json:"item_id"`
	Item      *Item     `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"item,omitempty"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Unit      string    `gorm:"type:varchar(50);not null" json:"unit"`
	CreatedBy uint      `gorm:"not null" json:"created_by"`
	Creator   *User     `gorm:"foreignKey:CreatedBy;constraint:OnDelete:CASCADE" json:"creator,omitempty"`
	CreatedAt time.Time `gorm:"index:idx_outgoing_created_item,priority:1" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
