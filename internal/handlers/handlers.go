package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/vcampos/pdv-loja/internal/crypto"
	"github.com/vcampos/pdv-loja/internal/httpx"
	"github.com/vcampos/pdv-loja/internal/models"
	"github.com/vcampos/pdv-loja/internal/services"
)

// idParam lê o path parameter {id} como uint. Zero ou não numérico é inválido.
func idParam(r *http.Request) (uint, bool) {
	id64, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id64 == 0 {
		return 0, false
	}
	return uint(id64), true
}

// decifrarCliente troca o CPF armazenado pelo valor em claro para resposta.
// Falha de decifragem mantém o valor cifrado (nunca derruba a resposta).
func decifrarCliente(ci *crypto.Cipher, c *models.Cliente) {
	if c == nil {
		return
	}
	if dec, err := ci.Decrypt(c.CPF); err == nil {
		c.CPF = dec
	}
}

// writeServiceError mapeia os tipos de erro do núcleo para HTTP.
func writeServiceError(w http.ResponseWriter, err error, generic string) {
	if ve, ok := services.AsValidation(err); ok {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", ve.Violations)
		return
	}
	switch {
	case errors.Is(err, services.ErrNaoEncontrado):
		httpx.JSONError(w, http.StatusNotFound, "nao_encontrado", nil)
	case errors.Is(err, services.ErrEstoqueInsuficiente):
		httpx.JSONError(w, http.StatusConflict, "estoque_insuficiente", err.Error())
	case errors.Is(err, services.ErrTransicaoInvalida):
		httpx.JSONError(w, http.StatusConflict, "transicao_invalida", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, generic, err.Error())
	}
}
