package handlers

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vcampos/pdv-loja/internal/httpx"
	"github.com/vcampos/pdv-loja/internal/models"
	"github.com/vcampos/pdv-loja/internal/validation"
)

type CaixaHandler struct {
	DB *gorm.DB
}

func NewCaixaHandler(db *gorm.DB) *CaixaHandler { return &CaixaHandler{DB: db} }

// Report: GET /caixa?startDate=&endDate= — movimentações do período, KPIs e
// série diária. Sem período, assume os últimos 7 dias. Somas de dinheiro
// passam por decimal para não acumular erro de float.
func (h *CaixaHandler) Report(w http.ResponseWriter, r *http.Request) {
	endDate := time.Now()
	if v := r.URL.Query().Get("endDate"); v != "" {
		if d, err := time.Parse("2006-01-02", v); err == nil {
			endDate = d
		}
	}
	startDate := endDate.AddDate(0, 0, -7)
	if v := r.URL.Query().Get("startDate"); v != "" {
		if d, err := time.Parse("2006-01-02", v); err == nil {
			startDate = d
		}
	}
	// Inclui o dia final inteiro.
	start := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, startDate.Location())
	end := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 23, 59, 59, 999999999, endDate.Location())

	var movimentos []models.MovimentacaoCaixa
	if err := h.DB.Where("data_hora >= ? AND data_hora <= ?", start, end).
		Order("data_hora desc").Find(&movimentos).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "erro_ao_buscar_caixa", nil)
		return
	}

	totalEntradas := decimal.Zero
	totalSaidas := decimal.Zero
	type diaFluxo struct {
		entradas decimal.Decimal
		saidas   decimal.Decimal
	}
	fluxoDiario := map[string]*diaFluxo{}
	for _, m := range movimentos {
		valor := decimal.NewFromFloat(m.Valor)
		dia := m.DataHora.Format("2006-01-02")
		f, ok := fluxoDiario[dia]
		if !ok {
			f = &diaFluxo{entradas: decimal.Zero, saidas: decimal.Zero}
			fluxoDiario[dia] = f
		}
		if m.Tipo == models.CaixaEntrada {
			totalEntradas = totalEntradas.Add(valor)
			f.entradas = f.entradas.Add(valor)
		} else {
			totalSaidas = totalSaidas.Add(valor)
			f.saidas = f.saidas.Add(valor)
		}
	}

	dias := make([]string, 0, len(fluxoDiario))
	for dia := range fluxoDiario {
		dias = append(dias, dia)
	}
	sort.Strings(dias)
	grafico := make([]map[string]any, 0, len(dias))
	for _, dia := range dias {
		f := fluxoDiario[dia]
		grafico = append(grafico, map[string]any{
			"data":     dia,
			"entradas": f.entradas.InexactFloat64(),
			"saidas":   f.saidas.InexactFloat64(),
		})
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"kpis": map[string]any{
			"totalEntradas": totalEntradas.InexactFloat64(),
			"totalSaidas":   totalSaidas.InexactFloat64(),
			"saldoFinal":    totalEntradas.Sub(totalSaidas).InexactFloat64(),
		},
		"grafico":       grafico,
		"movimentacoes": movimentos,
		"periodo": map[string]string{
			"startDate": start.Format("2006-01-02"),
			"endDate":   end.Format("2006-01-02"),
		},
	})
}

// Create: POST /caixa — lançamento manual de entrada ou saída.
func (h *CaixaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tipo      string  `json:"tipo"`
		Valor     float64 `json:"valor"`
		Descricao string  `json:"descricao"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("descricao", req.Descricao, v)
	validation.PositiveFloat("valor", req.Valor, v)
	if req.Tipo != models.CaixaEntrada && req.Tipo != models.CaixaSaida {
		v["tipo"] = "tipo_invalido"
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	mov := models.MovimentacaoCaixa{Tipo: req.Tipo, Valor: req.Valor, Descricao: req.Descricao, DataHora: time.Now()}
	if err := h.DB.Create(&mov).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "erro_ao_registrar_movimentacao", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, mov)
}
