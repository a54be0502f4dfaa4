package model

import (
	"time"

	"gorm.io/gorm"
)

// Role constants. Roles form a flat enum; the only grouping the system
// cares about is "can manage inventory" (superadmin + admin).
const (
	RoleSuperadmin = "superadmin"
	RoleAdmin      = "admin"
	RoleUser       = "user"
)

// ValidRole reports whether role is one of the known role values.
func ValidRole(role string) bool {
	return role == RoleSuperadmin || role == RoleAdmin || role == RoleUser
}

// User represents an account that can sign in and act on the inventory.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Email     string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string         `gorm:"type:varchar(255);not null" json:"-"`
	NIP       string         `gorm:"type:varchar(50)" json:"nip"`
	NIK       string         `gorm:"type:varchar(50)" json:"nik"`
	Alamat    string         `gorm:"type:text" json:"alamat"`
	NoHP      string         `gorm:"type:varchar(20)" json:"no_hp"`
	Divisi    string         `gorm:"type:varchar(100)" json:"divisi"`
	Role      string         `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// CanManageInventory reports whether the user may record receipts and
// dispatches and decide item requests.
func (u *User) CanManageInventory() bool {
	return u.Role == RoleSuperadmin || u.Role == RoleAdmin
}

// AuthUser is the authenticated caller identity threaded explicitly into
// every service operation. It is deliberately small so services never
// depend on the web layer's session state.
type AuthUser struct {
	ID   uint
	Role string
}

// CanManageInventory mirrors User.CanManageInventory for the caller identity.
func (a AuthUser) CanManageInventory() bool {
	return a.Role == RoleSuperadmin || a.Role == RoleAdmin
}

// RefreshToken stores long-lived tokens allowing users to request new access tokens
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Token     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
