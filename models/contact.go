package models

import "time"

const (
	ContactStatusNew     = "new"
	ContactStatusRead    = "read"
	ContactStatusReplied = "replied"
)

func ValidContactStatus(status string) bool {
	return status == ContactStatusNew || status == ContactStatusRead || status == ContactStatusReplied
}

type Contact struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name" validate:"required,max=255"`
	Email     string    `json:"email" validate:"required,email"`
	Phone     string    `json:"phone"`
	Message   string    `gorm:"type:text" json:"message" validate:"required"`
	Status    string    `gorm:"default:new" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
