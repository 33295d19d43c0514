package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/vcampos/pdv-loja/internal/crypto"
	"github.com/vcampos/pdv-loja/internal/httpx"
	"github.com/vcampos/pdv-loja/internal/models"
	"github.com/vcampos/pdv-loja/internal/services"
	"github.com/vcampos/pdv-loja/internal/validation"
)

type ClienteHandler struct {
	DB     *gorm.DB
	Status *services.StatusService
	Cipher *crypto.Cipher
}

func NewClienteHandler(db *gorm.DB, status *services.StatusService, cipher *crypto.Cipher) *ClienteHandler {
	return &ClienteHandler{DB: db, Status: status, Cipher: cipher}
}

type clienteReq struct {
	Nome     string `json:"nome"`
	Email    string `json:"email"`
	Telefone string `json:"telefone"`
	CPF      string `json:"cpf"`
	Status   string `json:"status"`
	Endereco struct {
		Rua        string `json:"rua"`
		Bairro     string `json:"bairro"`
		Cidade     string `json:"cidade"`
		Estado     string `json:"estado"`
		Referencia string `json:"referencia"`
	} `json:"endereco"`
}

// List: GET /clientes — ordenado por nome. O CPF sai cifrado aqui; a
// decifragem acontece apenas nas rotas que precisam do valor original.
func (h *ClienteHandler) List(w http.ResponseWriter, r *http.Request) {
	var clientes []models.Cliente
	if err := h.DB.Order("nome asc").Find(&clientes).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "erro_ao_buscar_clientes", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, clientes)
}

// Get: GET /clientes/{id} — com CPF decifrado.
func (h *ClienteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var cliente models.Cliente
	if err := h.DB.First(&cliente, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "nao_encontrado", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "erro_ao_buscar_cliente", nil)
		return
	}
	decifrarCliente(h.Cipher, &cliente)
	httpx.JSON(w, http.StatusOK, cliente)
}

// Create: POST /clientes
func (h *ClienteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req clienteReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("nome", req.Nome, v)
	validation.Required("email", req.Email, v)
	validation.Required("cpf", req.CPF, v)
	validation.Required("endereco.rua", req.Endereco.Rua, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	cpfCifrado, err := h.Cipher.Encrypt(req.CPF)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "erro_ao_criar_cliente", nil)
		return
	}
	status := req.Status
	if status == "" {
		status = models.ClienteAtivo
	}
	cliente := models.Cliente{
		Nome:           req.Nome,
		Email:          req.Email,
		Telefone:       req.Telefone,
		CPF:            cpfCifrado,
		Status:         status,
		EnderecoRua:    req.Endereco.Rua,
		EnderecoBairro: req.Endereco.Bairro,
		EnderecoCidade: req.Endereco.Cidade,
		EnderecoEstado: req.Endereco.Estado,
		EnderecoRef:    req.Endereco.Referencia,
	}
	if err := h.DB.Create(&cliente).Error; err != nil {
		if code, ok := conflitoCliente(err); ok {
			httpx.JSONError(w, http.StatusConflict, code, nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "erro_ao_criar_cliente", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, cliente)
}

// Update: PUT /clientes/{id}
func (h *ClienteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var cliente models.Cliente
	if err := h.DB.First(&cliente, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "nao_encontrado", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "erro_ao_atualizar_cliente", nil)
		return
	}
	var req clienteReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.Nome != "" {
		cliente.Nome = req.Nome
	}
	if req.Email != "" {
		cliente.Email = req.Email
	}
	if req.Telefone != "" {
		cliente.Telefone = req.Telefone
	}
	if req.CPF != "" {
		cpfCifrado, err := h.Cipher.Encrypt(req.CPF)
		if err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "erro_ao_atualizar_cliente", nil)
			return
		}
		cliente.CPF = cpfCifrado
	}
	if req.Endereco.Rua != "" {
		cliente.EnderecoRua = req.Endereco.Rua
	}
	if req.Endereco.Bairro != "" {
		cliente.EnderecoBairro = req.Endereco.Bairro
	}
	if req.Endereco.Cidade != "" {
		cliente.EnderecoCidade = req.Endereco.Cidade
	}
	if req.Endereco.Estado != "" {
		cliente.EnderecoEstado = req.Endereco.Estado
	}
	if req.Endereco.Referencia != "" {
		cliente.EnderecoRef = req.Endereco.Referencia
	}
	if err := h.DB.Save(&cliente).Error; err != nil {
		if code, ok := conflitoCliente(err); ok {
			httpx.JSONError(w, http.StatusConflict, code, nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "erro_ao_atualizar_cliente", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, cliente)
}

// Delete: DELETE /clientes/{id}
func (h *ClienteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	res := h.DB.Delete(&models.Cliente{}, id)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "erro_ao_excluir_cliente", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "nao_encontrado", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// AtualizarStatus: PATCH /clientes/{id}/atualizar-status — reconciliação sob demanda.
func (h *ClienteHandler) AtualizarStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	cliente, err := h.Status.Reconciliar(id)
	if err != nil {
		writeServiceError(w, err, "erro_ao_atualizar_status")
		return
	}
	msg := "Cliente marcado como ativo"
	if cliente.Status == models.ClienteInativo {
		msg = "Cliente marcado como inativo por ter pendências em atraso"
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message": msg,
		"cliente": map[string]any{"id": cliente.ID, "nome": cliente.Nome, "status": cliente.Status},
	})
}

// conflitoCliente identifica violação de unicidade e aponta o campo.
func conflitoCliente(err error) (string, bool) {
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "duplicate") && !strings.Contains(msg, "unique") {
		return "", false
	}
	if strings.Contains(msg, "email") {
		return "email_ja_cadastrado", true
	}
	if strings.Contains(msg, "cpf") {
		return "cpf_ja_cadastrado", true
	}
	return "registro_duplicado", true
}
