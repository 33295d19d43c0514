package models

import "time"

// Usuario de acesso ao sistema (operador ou admin)
type Usuario struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Nome      string    `gorm:"not null" json:"nome"`
	Email     string    `gorm:"unique;not null;index" json:"email"`
	SenhaHash string    `gorm:"not null" json:"-"` // bcrypt
	Role      string    `gorm:"not null;default:'operador'" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
