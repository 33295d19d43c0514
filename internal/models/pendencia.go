package models

import "time"

// Status da pendência. ABERTA → PAGA (pagamento), ABERTA → ATRASADA
// (reconciliação, vencimento no passado), ATRASADA → PAGA. PAGA é terminal.
const (
	PendenciaAberta   = "ABERTA"
	PendenciaPaga     = "PAGA"
	PendenciaAtrasada = "ATRASADA"
)

// Pendencia é uma obrigação de pagamento futuro vinculada a uma venda
// "A Prazo" e a um cliente.
type Pendencia struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	VendaID        uint       `gorm:"not null;index" json:"vendaId"`
	Venda          Venda      `gorm:"foreignKey:VendaID" json:"venda"`
	ClienteID      uint       `gorm:"not null;index" json:"clienteId"`
	Cliente        Cliente    `gorm:"foreignKey:ClienteID" json:"cliente"`
	Valor          float64    `gorm:"not null" json:"valor"`
	Descricao      string     `json:"descricao"`
	DataPendencia  time.Time  `gorm:"not null" json:"dataPendencia"`
	DataVencimento time.Time  `gorm:"not null" json:"dataVencimento"`
	DataPago       *time.Time `json:"dataPago"`
	Status         string     `gorm:"not null;default:'ABERTA'" json:"status"`
}

// VencidaEm é o predicado único de atraso usado em toda parte (filtros,
// reconciliação, exibição): pendência não paga com vencimento no passado.
func (p Pendencia) VencidaEm(agora time.Time) bool {
	return p.Status != PendenciaPaga && p.DataVencimento.Before(agora)
}
