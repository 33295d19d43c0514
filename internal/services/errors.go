package services

import (
	"errors"

	"github.com/vcampos/pdv-loja/internal/validation"
)

var (
	// ErrNaoEncontrado: venda, produto, cliente ou pendência referenciada não existe.
	ErrNaoEncontrado = errors.New("nao_encontrado")
	// ErrEstoqueInsuficiente: decremento de estoque falharia em deixar a quantidade negativa.
	ErrEstoqueInsuficiente = errors.New("estoque_insuficiente")
	// ErrTransicaoInvalida: operação não permitida pelo estado atual (ex.: cancelar pendência PAGA).
	ErrTransicaoInvalida = errors.New("transicao_invalida")
)

// ValidationError rejeita a requisição antes de qualquer escrita no banco.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string { return "validation_failed" }

// AsValidation extracts a *ValidationError from err, if any.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
