package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vcampos/pdv-loja/internal/models"
)

func TestUsuarioCreateNaoExpoeSenha(t *testing.T) {
	db := setupHandlerTestDB(t)
	h := NewUsuarioHandler(db)

	body := `{"nome":"Novo Operador","email":"NOVO@Test","senha":"segredo1"}`
	w := httptest.NewRecorder()
	h.Create(w, httptest.NewRequest(http.MethodPost, "/usuarios", strings.NewReader(body)))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "senha") || strings.Contains(w.Body.String(), "segredo1") {
		t.Fatalf("resposta não pode expor hash ou senha: %s", w.Body.String())
	}
	var u models.Usuario
	if err := json.Unmarshal(w.Body.Bytes(), &u); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if u.Email != "novo@test" {
		t.Fatalf("email deveria ser normalizado, obtido %q", u.Email)
	}
	if u.Role != "operador" {
		t.Fatalf("role default esperada operador, obtida %q", u.Role)
	}
}

func TestUsuarioCreateEmailDuplicado(t *testing.T) {
	db := setupHandlerTestDB(t)
	seedUsuarioFixture(t, db, "op@test", "segredo1")
	h := NewUsuarioHandler(db)

	w := httptest.NewRecorder()
	h.Create(w, httptest.NewRequest(http.MethodPost, "/usuarios",
		strings.NewReader(`{"nome":"Outro","email":"op@test","senha":"segredo1"}`)))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "email_ja_cadastrado") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestUsuarioCreateSenhaCurta(t *testing.T) {
	db := setupHandlerTestDB(t)
	h := NewUsuarioHandler(db)

	w := httptest.NewRecorder()
	h.Create(w, httptest.NewRequest(http.MethodPost, "/usuarios",
		strings.NewReader(`{"nome":"Outro","email":"x@test","senha":"123"}`)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestUsuarioList(t *testing.T) {
	db := setupHandlerTestDB(t)
	seedUsuarioFixture(t, db, "op@test", "segredo1")
	h := NewUsuarioHandler(db)

	w := httptest.NewRecorder()
	h.List(w, httptest.NewRequest(http.MethodGet, "/usuarios", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var list []models.Usuario
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("esperado 1 usuário, obtidos %d", len(list))
	}
	if strings.Contains(w.Body.String(), "senhaHash") {
		t.Fatalf("lista não pode expor hash: %s", w.Body.String())
	}
}
