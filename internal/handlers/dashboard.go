package handlers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vcampos/pdv-loja/internal/httpx"
	"github.com/vcampos/pdv-loja/internal/models"
)

type DashboardHandler struct {
	DB *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler { return &DashboardHandler{DB: db} }

// Get: GET /dashboard — KPIs do dia, série semanal, formas de pagamento,
// produtos mais vendidos, top clientes e alertas de estoque.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	agora := time.Now()
	hoje := time.Date(agora.Year(), agora.Month(), agora.Day(), 0, 0, 0, 0, agora.Location())
	amanha := hoje.AddDate(0, 0, 1)

	var vendasHoje []models.Venda
	if err := h.DB.Where("created_at >= ? AND created_at < ?", hoje, amanha).Find(&vendasHoje).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "erro_ao_buscar_dashboard", nil)
		return
	}
	faturamento := decimal.Zero
	for _, v := range vendasHoje {
		faturamento = faturamento.Add(decimal.NewFromFloat(v.Total))
	}
	ticketMedio := decimal.Zero
	if len(vendasHoje) > 0 {
		ticketMedio = faturamento.Div(decimal.NewFromInt(int64(len(vendasHoje))))
	}

	// Alertas de estoque: esgotado (0) e abaixo do mínimo.
	var produtos []models.Produto
	if err := h.DB.Select("id", "nome", "sku", "quantidade", "estoque_minimo").Find(&produtos).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "erro_ao_buscar_dashboard", nil)
		return
	}
	lowStock := []models.Produto{}
	outOfStock := []models.Produto{}
	for _, p := range produtos {
		if p.Quantidade == 0 {
			outOfStock = append(outOfStock, p)
		} else if p.Quantidade <= p.EstoqueMinimo {
			lowStock = append(lowStock, p)
		}
	}

	// Vendas dos últimos 7 dias agrupadas por dia da semana.
	seteDias := agora.AddDate(0, 0, -7)
	var vendasSemana []models.Venda
	if err := h.DB.Where("created_at >= ?", seteDias).Order("created_at asc").Find(&vendasSemana).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "erro_ao_buscar_dashboard", nil)
		return
	}
	porDia := make([]decimal.Decimal, 7)
	for i := range porDia {
		porDia[i] = decimal.Zero
	}
	for _, v := range vendasSemana {
		dia := int(v.CreatedAt.Weekday())
		porDia[dia] = porDia[dia].Add(decimal.NewFromFloat(v.Total))
	}
	serieSemana := make([]float64, 7)
	for i, d := range porDia {
		serieSemana[i] = d.InexactFloat64()
	}

	// Distribuição de formas de pagamento.
	var pagamentos []struct {
		Pagamento string `json:"nome"`
		Count     int64  `json:"count"`
	}
	if err := h.DB.Model(&models.Venda{}).
		Select("pagamento, count(*) as count").
		Group("pagamento").Scan(&pagamentos).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "erro_ao_buscar_dashboard", nil)
		return
	}

	// Top 4 produtos por quantidade vendida.
	var topItens []struct {
		ProdutoID uint
		Vendidos  int64
	}
	if err := h.DB.Model(&models.ItemVenda{}).
		Select("produto_id, sum(quantidade) as vendidos").
		Group("produto_id").Order("vendidos desc").Limit(4).
		Scan(&topItens).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "erro_ao_buscar_dashboard", nil)
		return
	}
	maisVendidos := make([]map[string]any, 0, len(topItens))
	for _, ti := range topItens {
		var p models.Produto
		nome := "Produto Desconhecido"
		if err := h.DB.Select("nome").First(&p, ti.ProdutoID).Error; err == nil {
			nome = p.Nome
		}
		maisVendidos = append(maisVendidos, map[string]any{"nome": nome, "vendidos": ti.Vendidos})
	}

	// Top 4 clientes por faturamento acumulado.
	var topClientes []struct {
		Nome         string  `json:"nome"`
		TotalCompras float64 `json:"totalCompras"`
	}
	if err := h.DB.Model(&models.Cliente{}).
		Select("nome, total_compras").
		Order("total_compras desc").Limit(4).
		Scan(&topClientes).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "erro_ao_buscar_dashboard", nil)
		return
	}

	// Contas a receber: soma das pendências não pagas.
	var valoresAbertos []float64
	if err := h.DB.Model(&models.Pendencia{}).
		Where("status <> ?", models.PendenciaPaga).
		Pluck("valor", &valoresAbertos).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "erro_ao_buscar_dashboard", nil)
		return
	}
	contasAReceber := decimal.Zero
	for _, valor := range valoresAbertos {
		contasAReceber = contasAReceber.Add(decimal.NewFromFloat(valor))
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"kpis": map[string]any{
			"faturamentoHoje":  faturamento.InexactFloat64(),
			"vendasRealizadas": len(vendasHoje),
			"ticketMedio":      ticketMedio.InexactFloat64(),
			"contasAReceber":   contasAReceber.InexactFloat64(),
		},
		"vendasSemana": map[string]any{
			"labels": []string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb"},
			"data":   serieSemana,
		},
		"formasPagamento":      pagamentos,
		"produtosMaisVendidos": maisVendidos,
		"lowStockProducts":     lowStock,
		"outOfStockProducts":   outOfStock,
		"topClientes":          topClientes,
	})
}
