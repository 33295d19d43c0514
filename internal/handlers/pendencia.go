package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vcampos/pdv-loja/internal/httpx"
	"github.com/vcampos/pdv-loja/internal/services"
)

type PendenciaHandler struct {
	Svc *services.PendenciaService
}

func NewPendenciaHandler(svc *services.PendenciaService) *PendenciaHandler {
	return &PendenciaHandler{Svc: svc}
}

// List: GET /pendencias?filter=TODAS|ABERTAS|PAGAS|ATRASADAS
func (h *PendenciaHandler) List(w http.ResponseWriter, r *http.Request) {
	filtro := r.URL.Query().Get("filter")
	if filtro == "" {
		filtro = services.FiltroTodas
	}
	pendencias, err := h.Svc.Listar(filtro)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "erro_ao_buscar_pendencias", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, pendencias)
}

// Create: POST /pendencias — criação manual de pendência avulsa.
func (h *PendenciaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VendaID        uint    `json:"vendaId"`
		ClienteID      uint    `json:"clienteId"`
		Valor          float64 `json:"valor"`
		Descricao      string  `json:"descricao"`
		DataVencimento string  `json:"dataVencimento"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	in := services.CriarPendenciaInput{
		VendaID:   req.VendaID,
		ClienteID: req.ClienteID,
		Valor:     req.Valor,
		Descricao: req.Descricao,
	}
	if req.DataVencimento != "" {
		venc, err := time.Parse("2006-01-02", req.DataVencimento)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"dataVencimento": "invalid_date"})
			return
		}
		in.DataVencimento = &venc
	}
	p, err := h.Svc.Criar(in)
	if err != nil {
		writeServiceError(w, err, "erro_ao_criar_pendencia")
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

// Pagar: PATCH /pendencias/{id}/pagar
func (h *PendenciaHandler) Pagar(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	p, err := h.Svc.Pagar(id)
	if err != nil {
		writeServiceError(w, err, "erro_ao_marcar_como_pago")
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// Cancelar: DELETE /pendencias/{id}
func (h *PendenciaHandler) Cancelar(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.Svc.Cancelar(id); err != nil {
		writeServiceError(w, err, "erro_ao_cancelar_pendencia")
		return
	}
	httpx.JSONMessage(w, http.StatusOK, "Pendência cancelada")
}
