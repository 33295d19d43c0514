package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/vcampos/pdv-loja/internal/httpx"
	"github.com/vcampos/pdv-loja/internal/models"
	"github.com/vcampos/pdv-loja/internal/validation"
)

type ProdutoHandler struct {
	DB *gorm.DB
}

func NewProdutoHandler(db *gorm.DB) *ProdutoHandler { return &ProdutoHandler{DB: db} }

// List: GET /produtos — ordenado por nome.
func (h *ProdutoHandler) List(w http.ResponseWriter, r *http.Request) {
	var produtos []models.Produto
	if err := h.DB.Order("nome asc").Find(&produtos).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "erro_ao_buscar_produtos", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, produtos)
}

// Get: GET /produtos/{id}
func (h *ProdutoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var p models.Produto
	if err := h.DB.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "nao_encontrado", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "erro_ao_buscar_produto", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// Create: POST /produtos
func (h *ProdutoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Nome          string  `json:"nome"`
		SKU           string  `json:"sku"`
		Preco         float64 `json:"preco"`
		Quantidade    int     `json:"quantidade"`
		EstoqueMinimo int     `json:"estoqueMinimo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("nome", req.Nome, v)
	validation.Required("sku", req.SKU, v)
	validation.NonNegativeFloat("preco", req.Preco, v)
	if req.Quantidade < 0 {
		v["quantidade"] = "must_not_be_negative"
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if req.EstoqueMinimo <= 0 {
		req.EstoqueMinimo = 10
	}
	p := models.Produto{
		Nome:          req.Nome,
		SKU:           strings.ToUpper(strings.TrimSpace(req.SKU)),
		Preco:         req.Preco,
		Quantidade:    req.Quantidade,
		EstoqueMinimo: req.EstoqueMinimo,
	}
	if err := h.DB.Create(&p).Error; err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique") {
			httpx.JSONError(w, http.StatusConflict, "sku_ja_cadastrado", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "erro_ao_criar_produto", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

// Update: PUT /produtos/{id} — SKU imutável.
func (h *ProdutoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var p models.Produto
	if err := h.DB.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "nao_encontrado", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "erro_ao_atualizar_produto", nil)
		return
	}
	var req struct {
		Nome          *string  `json:"nome"`
		Preco         *float64 `json:"preco"`
		Quantidade    *int     `json:"quantidade"`
		EstoqueMinimo *int     `json:"estoqueMinimo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.Nome != nil {
		p.Nome = *req.Nome
	}
	if req.Preco != nil && *req.Preco >= 0 {
		p.Preco = *req.Preco
	}
	if req.Quantidade != nil && *req.Quantidade >= 0 {
		p.Quantidade = *req.Quantidade
	}
	if req.EstoqueMinimo != nil && *req.EstoqueMinimo > 0 {
		p.EstoqueMinimo = *req.EstoqueMinimo
	}
	if err := h.DB.Save(&p).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "erro_ao_atualizar_produto", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// Delete: DELETE /produtos/{id}
func (h *ProdutoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	res := h.DB.Delete(&models.Produto{}, id)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "erro_ao_excluir_produto", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "nao_encontrado", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}
