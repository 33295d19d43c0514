package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vcampos/pdv-loja/internal/auth"
	"github.com/vcampos/pdv-loja/internal/httpx"
	"github.com/vcampos/pdv-loja/internal/models"
	"github.com/vcampos/pdv-loja/internal/validation"
)

type AuthHandler struct {
	DB *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler { return &AuthHandler{DB: db} }

// Login: POST /login — valida credenciais e abre sessão via cookie assinado.
// Credencial errada e email inexistente respondem o mesmo código.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Senha string `json:"senha"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("email", req.Email, v)
	validation.Required("senha", req.Senha, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	var u models.Usuario
	if err := h.DB.Where("email = ?", req.Email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusUnauthorized, "email_ou_senha_incorretos", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "erro_ao_autenticar", nil)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.SenhaHash), []byte(req.Senha)) != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "email_ou_senha_incorretos", nil)
		return
	}
	if err := auth.CreateSession(w, u.ID, u.Email, u.Role); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "erro_ao_autenticar", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message": "Login realizado",
		"usuario": map[string]any{"id": u.ID, "nome": u.Nome, "email": u.Email, "role": u.Role},
	})
}

// Logout: POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	httpx.JSONMessage(w, http.StatusOK, "Logout realizado")
}

// ChangePassword: POST /change-password — exige a senha atual do usuário logado.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req struct {
		SenhaAtual string `json:"senhaAtual"`
		NovaSenha  string `json:"novaSenha"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("senhaAtual", req.SenhaAtual, v)
	validation.Required("novaSenha", req.NovaSenha, v)
	if len(req.NovaSenha) > 0 && len(req.NovaSenha) < 6 {
		v["novaSenha"] = "minimo_6_caracteres"
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	var u models.Usuario
	if err := h.DB.First(&u, uid).Error; err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.SenhaHash), []byte(req.SenhaAtual)) != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "senha_atual_incorreta", nil)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NovaSenha), bcrypt.DefaultCost)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "erro_ao_alterar_senha", nil)
		return
	}
	if err := h.DB.Model(&u).Update("senha_hash", string(hash)).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "erro_ao_alterar_senha", nil)
		return
	}
	httpx.JSONMessage(w, http.StatusOK, "Senha alterada")
}
