package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vcampos/pdv-loja/internal/auth"
	"github.com/vcampos/pdv-loja/internal/models"
)

func seedUsuarioFixture(t *testing.T, db *gorm.DB, email, senha string) models.Usuario {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := models.Usuario{Nome: "Operador", Email: email, SenhaHash: string(hash), Role: "operador"}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("usuário: %v", err)
	}
	return u
}

func TestLoginSucesso(t *testing.T) {
	db := setupHandlerTestDB(t)
	seedUsuarioFixture(t, db, "op@test", "segredo1")
	h := NewAuthHandler(db)

	w := httptest.NewRecorder()
	h.Login(w, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"op@test","senha":"segredo1"}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var token string
	for _, c := range w.Result().Cookies() {
		if c.Name == "token" && c.Value != "" {
			token = c.Value
		}
	}
	if token == "" {
		t.Fatalf("cookie de sessão não definido")
	}
	if strings.Contains(w.Body.String(), "senha") {
		t.Fatalf("resposta não pode expor dados de senha: %s", w.Body.String())
	}
}

func TestLoginCredenciaisInvalidas(t *testing.T) {
	db := setupHandlerTestDB(t)
	seedUsuarioFixture(t, db, "op@test", "segredo1")
	h := NewAuthHandler(db)

	// Senha errada e email inexistente devolvem o mesmo código.
	for _, body := range []string{
		`{"email":"op@test","senha":"errada"}`,
		`{"email":"ninguem@test","senha":"segredo1"}`,
	} {
		w := httptest.NewRecorder()
		h.Login(w, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body)))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 got %d body=%s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), "email_ou_senha_incorretos") {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	}
}

func TestChangePassword(t *testing.T) {
	db := setupHandlerTestDB(t)
	u := seedUsuarioFixture(t, db, "op@test", "segredo1")
	h := NewAuthHandler(db)

	req := httptest.NewRequest(http.MethodPost, "/change-password",
		strings.NewReader(`{"senhaAtual":"segredo1","novaSenha":"segredo2"}`))
	req = req.WithContext(auth.WithUserID(req.Context(), u.ID))
	w := httptest.NewRecorder()
	h.ChangePassword(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	var reloaded models.Usuario
	if err := db.First(&reloaded, u.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(reloaded.SenhaHash), []byte("segredo2")) != nil {
		t.Fatalf("nova senha não foi persistida")
	}

	// Senha atual errada é rejeitada.
	bad := httptest.NewRequest(http.MethodPost, "/change-password",
		strings.NewReader(`{"senhaAtual":"segredo1","novaSenha":"segredo3"}`))
	bad = bad.WithContext(auth.WithUserID(bad.Context(), u.ID))
	badW := httptest.NewRecorder()
	h.ChangePassword(badW, bad)
	if badW.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d body=%s", badW.Code, badW.Body.String())
	}
}

func TestLogoutLimpaCookie(t *testing.T) {
	db := setupHandlerTestDB(t)
	h := NewAuthHandler(db)

	w := httptest.NewRecorder()
	h.Logout(w, httptest.NewRequest(http.MethodPost, "/logout", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	found := false
	for _, c := range w.Result().Cookies() {
		if c.Name == "token" && c.Value == "" {
			found = true
		}
	}
	if !found {
		t.Fatalf("cookie de sessão deveria ter sido limpo")
	}
}
