package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/vcampos/pdv-loja/internal/crypto"
	"github.com/vcampos/pdv-loja/internal/httpx"
	"github.com/vcampos/pdv-loja/internal/services"
)

type VendaHandler struct {
	Svc    *services.VendaService
	Cipher *crypto.Cipher
}

func NewVendaHandler(svc *services.VendaService, cipher *crypto.Cipher) *VendaHandler {
	return &VendaHandler{Svc: svc, Cipher: cipher}
}

// Create: POST /vendas
func (h *VendaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Total     float64 `json:"total"`
		Pagamento string  `json:"pagamento"`
		ClienteID *uint   `json:"clienteId"`
		Itens     []struct {
			ProdutoID  uint    `json:"produtoId"`
			Quantidade int     `json:"quantidade"`
			Preco      float64 `json:"preco"`
		} `json:"itens"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	in := services.RegistrarVendaInput{Total: req.Total, Pagamento: req.Pagamento, ClienteID: req.ClienteID}
	for _, it := range req.Itens {
		in.Itens = append(in.Itens, services.ItemVendaInput{ProdutoID: it.ProdutoID, Quantidade: it.Quantidade, Preco: it.Preco})
	}
	venda, err := h.Svc.Registrar(in)
	if err != nil {
		writeServiceError(w, err, "erro_ao_registrar_venda")
		return
	}
	decifrarCliente(h.Cipher, venda.Cliente)
	httpx.JSON(w, http.StatusCreated, venda)
}

// List: GET /vendas?page=&limit=&search=
func (h *VendaHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	lista, err := h.Svc.Listar(services.ListarVendasInput{
		Page:   page,
		Limit:  limit,
		Search: r.URL.Query().Get("search"),
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "erro_ao_buscar_vendas", nil)
		return
	}
	for i := range lista.Vendas {
		decifrarCliente(h.Cipher, lista.Vendas[i].Cliente)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"data":        lista.Vendas,
		"currentPage": lista.CurrentPage,
		"totalPages":  lista.TotalPages,
		"totalVendas": lista.TotalVendas,
		"limit":       lista.Limit,
	})
}
