package models

import "time"

// Produto em estoque. Quantidade é decrementada pelo fluxo de venda com
// guarda de estoque; EstoqueMinimo serve apenas para os alertas do dashboard.
type Produto struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Nome          string    `gorm:"not null" json:"nome"`
	SKU           string    `gorm:"column:sku;unique;not null;index" json:"sku"`
	Preco         float64   `gorm:"not null" json:"preco"`
	Quantidade    int       `gorm:"not null" json:"quantidade"`
	EstoqueMinimo int       `gorm:"not null;default:10" json:"estoqueMinimo"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
