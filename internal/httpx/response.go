// Package httpx concentra os helpers de resposta JSON da API.
package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse segue a convenção da API: "error" carrega um código estável
// em snake_case (ex.: "estoque_insuficiente", "email_ja_cadastrado") que o
// cliente pode traduzir; "details" carrega violações de validação por campo
// ou contexto adicional. Mensagens legíveis ficam a cargo do cliente.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			// best-effort error response; avoid writing partial JSON
			http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		// nothing we can do at this point
		_ = err
	}
}

func JSONError(w http.ResponseWriter, status int, code string, details any) {
	JSON(w, status, ErrorResponse{Error: code, Details: details})
}

// JSONMessage responde operações sem corpo próprio (logout, cancelamento)
// com {"message": ...}.
func JSONMessage(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"message": msg})
}
