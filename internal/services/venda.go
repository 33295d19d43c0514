package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/vcampos/pdv-loja/internal/models"
	"github.com/vcampos/pdv-loja/internal/validation"
)

// Prazo padrão de vencimento de uma pendência criada junto com a venda.
const prazoVencimentoDias = 30

type ItemVendaInput struct {
	ProdutoID  uint
	Quantidade int
	Preco      float64
}

type RegistrarVendaInput struct {
	Total     float64
	Pagamento string
	ClienteID *uint
	Itens     []ItemVendaInput
}

// VendaService coordena o registro de vendas. Todas as escritas de uma venda
// (venda, itens, baixa de estoque, total do cliente, caixa ou pendência)
// acontecem em uma única transação: ou tudo é aplicado, ou nada.
type VendaService struct {
	DB *gorm.DB
}

func NewVendaService(db *gorm.DB) *VendaService { return &VendaService{DB: db} }

func (s *VendaService) validar(in RegistrarVendaInput) *ValidationError {
	v := validation.Violations{}
	validation.PositiveFloat("total", in.Total, v)
	validation.Required("pagamento", in.Pagamento, v)
	if in.Pagamento != "" && !models.PagamentoValido(in.Pagamento) {
		v["pagamento"] = "metodo_desconhecido"
	}
	if len(in.Itens) == 0 {
		v["itens"] = "required"
	}
	for i, it := range in.Itens {
		campo := fmt.Sprintf("itens[%d]", i)
		if it.ProdutoID == 0 {
			v[campo+".produtoId"] = "required"
		}
		validation.PositiveInt(campo+".quantidade", it.Quantidade, v)
		validation.NonNegativeFloat(campo+".preco", it.Preco, v)
	}
	// Venda a prazo sem cliente não tem a quem cobrar.
	if in.Pagamento == models.PagamentoAPrazo && in.ClienteID == nil {
		v["clienteId"] = "required_for_a_prazo"
	}
	if v.Empty() {
		return nil
	}
	return &ValidationError{Violations: v}
}

// Registrar valida e grava a venda atomicamente. Venda com pagamento imediato
// gera uma entrada no caixa; venda "A Prazo" gera uma pendência ABERTA com
// vencimento em 30 dias — dentro da mesma transação.
func (s *VendaService) Registrar(in RegistrarVendaInput) (*models.Venda, error) {
	if ve := s.validar(in); ve != nil {
		return nil, ve
	}

	agora := time.Now()
	var venda models.Venda
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		venda = models.Venda{Total: in.Total, Pagamento: in.Pagamento, ClienteID: in.ClienteID}
		if err := tx.Create(&venda).Error; err != nil {
			return err
		}

		for _, it := range in.Itens {
			var produto models.Produto
			if err := tx.Select("id").First(&produto, it.ProdutoID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: produto %d", ErrNaoEncontrado, it.ProdutoID)
				}
				return err
			}
			item := models.ItemVenda{VendaID: venda.ID, ProdutoID: it.ProdutoID, Quantidade: it.Quantidade, Preco: it.Preco}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			// Decremento guardado: serializa vendas concorrentes do mesmo produto
			// e impede estoque negativo sem read-modify-write na aplicação.
			res := tx.Model(&models.Produto{}).
				Where("id = ? AND quantidade >= ?", it.ProdutoID, it.Quantidade).
				UpdateColumn("quantidade", gorm.Expr("quantidade - ?", it.Quantidade))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: produto %d", ErrEstoqueInsuficiente, it.ProdutoID)
			}
		}

		nomeCliente := "Cliente avulso"
		if in.ClienteID != nil {
			var cliente models.Cliente
			if err := tx.Select("id", "nome").First(&cliente, *in.ClienteID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: cliente %d", ErrNaoEncontrado, *in.ClienteID)
				}
				return err
			}
			nomeCliente = cliente.Nome
			res := tx.Model(&models.Cliente{}).Where("id = ?", cliente.ID).
				UpdateColumn("total_compras", gorm.Expr("total_compras + ?", in.Total))
			if res.Error != nil {
				return res.Error
			}
		}

		if in.Pagamento == models.PagamentoAPrazo {
			// A validação garante ClienteID != nil aqui.
			pendencia := models.Pendencia{
				VendaID:        venda.ID,
				ClienteID:      *in.ClienteID,
				Valor:          in.Total,
				Descricao:      fmt.Sprintf("Venda #%d", venda.ID),
				DataPendencia:  agora,
				DataVencimento: agora.AddDate(0, 0, prazoVencimentoDias),
				Status:         models.PendenciaAberta,
			}
			if err := tx.Create(&pendencia).Error; err != nil {
				return err
			}
		} else {
			mov := models.MovimentacaoCaixa{
				Tipo:      models.CaixaEntrada,
				Valor:     in.Total,
				Descricao: fmt.Sprintf("Venda #%d | Cliente: %s | %s", venda.ID, nomeCliente, in.Pagamento),
				DataHora:  agora,
			}
			if err := tx.Create(&mov).Error; err != nil {
				return err
			}
		}

		return tx.Preload("Itens.Produto").Preload("Cliente").First(&venda, venda.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &venda, nil
}

// ListarVendasInput controla paginação e busca do histórico.
type ListarVendasInput struct {
	Page   int
	Limit  int
	Search string
}

type ListaVendas struct {
	Vendas      []models.Venda
	TotalVendas int64
	CurrentPage int
	TotalPages  int
	Limit       int
}

// Listar devolve o histórico paginado, buscando por id da venda (termo
// numérico) ou por nome do cliente (termo textual, case-insensitive).
func (s *VendaService) Listar(in ListarVendasInput) (*ListaVendas, error) {
	if in.Page < 1 {
		in.Page = 1
	}
	if in.Limit < 1 || in.Limit > 100 {
		in.Limit = 10
	}
	dbq := s.DB.Model(&models.Venda{})
	if term := strings.TrimSpace(in.Search); term != "" {
		if id, err := strconv.ParseUint(term, 10, 64); err == nil {
			dbq = dbq.Where("vendas.id = ?", id)
		} else {
			dbq = dbq.Joins("JOIN clientes ON clientes.id = vendas.cliente_id").
				Where("lower(clientes.nome) LIKE ?", "%"+strings.ToLower(term)+"%")
		}
	}
	var total int64
	if err := dbq.Count(&total).Error; err != nil {
		return nil, err
	}
	var vendas []models.Venda
	if err := dbq.Preload("Itens.Produto").Preload("Cliente").
		Order("vendas.created_at desc").
		Limit(in.Limit).Offset((in.Page - 1) * in.Limit).
		Find(&vendas).Error; err != nil {
		return nil, err
	}
	totalPages := int((total + int64(in.Limit) - 1) / int64(in.Limit))
	return &ListaVendas{Vendas: vendas, TotalVendas: total, CurrentPage: in.Page, TotalPages: totalPages, Limit: in.Limit}, nil
}
