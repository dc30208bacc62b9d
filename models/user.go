package models

import "time"

type User struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Username    string     `gorm:"unique;not null" json:"username" validate:"required,max=255"`
	Email       string     `gorm:"unique;not null" json:"email" validate:"required,email"`
	Password    string     `gorm:"not null" json:"-"`
	IsAdmin     bool       `gorm:"default:false" json:"is_admin"`
	IsSuspended bool       `gorm:"default:false" json:"is_suspended"`
	LastLogin   *time.Time `json:"last_login"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Orders    []Order    `gorm:"foreignKey:UserID" json:"orders,omitempty"`
	Reviews   []Review   `gorm:"foreignKey:UserID" json:"-"`
	Wishlists []Wishlist `gorm:"foreignKey:UserID" json:"-"`
	Tokens    []AuthToken `gorm:"foreignKey:UserID" json:"-"`
}

// AuthToken is the allow-list row behind each issued JWT. The token ID is
// carried as the jti claim; deleting rows revokes the tokens en masse.
type AuthToken struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    uint      `gorm:"index" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
