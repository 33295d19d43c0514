package models

import "time"

// Formas de pagamento aceitas no PDV.
const (
	PagamentoDinheiro = "Dinheiro"
	PagamentoCredito  = "Cartão de Crédito"
	PagamentoDebito   = "Cartão de Débito"
	PagamentoPix      = "Pix"
	PagamentoAPrazo   = "A Prazo"
)

// PagamentoValido reporta se o método é um dos aceitos.
func PagamentoValido(p string) bool {
	switch p {
	case PagamentoDinheiro, PagamentoCredito, PagamentoDebito, PagamentoPix, PagamentoAPrazo:
		return true
	}
	return false
}

// Venda registrada. Imutável após criação: não existe rota de atualização.
type Venda struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	Total     float64     `gorm:"not null" json:"total"`
	Pagamento string      `gorm:"not null" json:"pagamento"`
	ClienteID *uint       `json:"clienteId"`
	Cliente   *Cliente    `gorm:"foreignKey:ClienteID" json:"cliente,omitempty"`
	Itens     []ItemVenda `gorm:"foreignKey:VendaID" json:"itens"`
	CreatedAt time.Time   `json:"createdAt"`
}

// ItemVenda guarda o preço praticado no momento da venda (snapshot),
// não uma referência ao preço atual do produto.
type ItemVenda struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	VendaID    uint    `gorm:"not null;index" json:"vendaId"`
	ProdutoID  uint    `gorm:"not null" json:"produtoId"`
	Quantidade int     `gorm:"not null" json:"quantidade"`
	Preco      float64 `gorm:"not null" json:"preco"`
	Produto    Produto `gorm:"foreignKey:ProdutoID" json:"produto"`
}
