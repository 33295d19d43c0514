package models

import "time"

// Tipos de movimentação de caixa.
const (
	CaixaEntrada = "ENTRADA"
	CaixaSaida   = "SAIDA"
)

// MovimentacaoCaixa é um lançamento imutável no livro-caixa. Criada por
// lançamento manual, por venda com pagamento imediato ou pelo recebimento
// de pendência; nunca atualizada ou removida pelo fluxo principal.
type MovimentacaoCaixa struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Tipo      string    `gorm:"not null" json:"tipo"`
	Valor     float64   `gorm:"not null" json:"valor"`
	Descricao string    `gorm:"not null" json:"descricao"`
	DataHora  time.Time `gorm:"not null;index" json:"dataHora"`
}
