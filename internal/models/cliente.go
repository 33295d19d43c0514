package models

import "time"

// Status possíveis do cliente. O valor é derivado: a reconciliação marca
// Inativo enquanto existir pendência vencida em aberto.
const (
	ClienteAtivo   = "Ativo"
	ClienteInativo = "Inativo"
)

// Cliente cadastrado. CPF é armazenado criptografado (AES-256-CBC, hex);
// a descriptografia acontece na borda HTTP, nunca nas consultas.
type Cliente struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Nome           string    `gorm:"not null;index" json:"nome"`
	Email          string    `gorm:"unique;not null" json:"email"`
	Telefone       string    `json:"telefone"`
	CPF            string    `gorm:"column:cpf;unique;not null" json:"cpf"`
	Status         string    `gorm:"not null;default:'Ativo'" json:"status"`
	TotalCompras   float64   `gorm:"not null;default:0" json:"totalCompras"`
	EnderecoRua    string    `json:"enderecoRua"`
	EnderecoBairro string    `json:"enderecoBairro"`
	EnderecoCidade string    `json:"enderecoCidade"`
	EnderecoEstado string    `json:"enderecoEstado"`
	EnderecoRef    string    `json:"enderecoRef"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
