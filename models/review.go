package models

import "time"

type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"uniqueIndex:idx_reviews_user_product" json:"user_id"`
	ProductID uint      `gorm:"uniqueIndex:idx_reviews_user_product" json:"product_id"`
	Name      string    `json:"name" validate:"required,max=255"`
	Rating    int       `json:"rating" validate:"required,min=1,max=5"`
	Comment   string    `gorm:"type:text" json:"comment" validate:"required"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
