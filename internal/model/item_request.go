package model

import "time"

// ItemRequest status values. Pending is the only non-terminal state.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// ValidRequestStatus reports whether s is a known request status.
func ValidRequestStatus(s string) bool {
	return s == RequestPending || s == RequestApproved || s == RequestRejected
}

// ItemRequest is a staff ask to draw stock, subject to manager approval.
// Stock is only deducted when the request is approved, never on submission,
// so pending requests do not reserve stock.
type ItemRequest struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	User       *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	ItemID     uint       `gorm:"not null;index" json:"item_id"`
	Item       *Item      `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"item,omitempty"`
	Quantity   int        `gorm:"not null" json:"quantity"`
	Unit       string     `gorm:"type:varchar(50);not null" json:"unit"`
	Status     string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Notes      string     `gorm:"type:text" json:"notes,omitempty"`
	ApprovedBy *uint      `json:"approved_by"`
	Approver   *User      `gorm:"foreignKey:ApprovedBy" json:"approver,omitempty"`
	ApprovedAt *time.Time `json:"approved_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// IsPending reports whether the request can still be edited, cancelled or decided.
func (r *ItemRequest) IsPending() bool {
	return r.Status == RequestPending
}
