package model

import (
	"time"
)

const (
	ActionCreateItem = "CREATE_ITEM"
	ActionUpdateItem = "UPDATE_ITEM"
	ActionDeleteItem = "DELETE_ITEM"

	ActionCreateReceipt  = "CREATE_RECEIPT"
	ActionDeleteReceipt  = "DELETE_RECEIPT"
	ActionCreateDispatch = "CREATE_DISPATCH"
	ActionDeleteDispatch = "DELETE_DISPATCH"

	// Request workflow actions
	ActionSubmitRequest  = "SUBMIT_REQUEST"
	ActionEditRequest    = "EDIT_REQUEST"
	ActionCancelRequest  = "CANCEL_REQUEST"
	ActionApproveRequest = "APPROVE_REQUEST"
	ActionRejectRequest  = "REJECT_REQUEST"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     *uint     `gorm:"index" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action     string    `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string    `gorm:"type:varchar(50);index" json:"entity_id"`        // Reference string (id/code)
	EntityName string    `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name
	Details    string    `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}
