package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vcampos/pdv-loja/internal/httpx"
	"github.com/vcampos/pdv-loja/internal/models"
	"github.com/vcampos/pdv-loja/internal/validation"
)

type UsuarioHandler struct {
	DB *gorm.DB
}

func NewUsuarioHandler(db *gorm.DB) *UsuarioHandler { return &UsuarioHandler{DB: db} }

// List: GET /usuarios — o hash de senha nunca sai no JSON (tag no modelo).
func (h *UsuarioHandler) List(w http.ResponseWriter, r *http.Request) {
	var usuarios []models.Usuario
	if err := h.DB.Order("nome asc").Find(&usuarios).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "erro_ao_buscar_usuarios", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, usuarios)
}

// Create: POST /usuarios
func (h *UsuarioHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Nome  string `json:"nome"`
		Email string `json:"email"`
		Senha string `json:"senha"`
		Role  string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("nome", req.Nome, v)
	validation.Required("email", req.Email, v)
	validation.Required("senha", req.Senha, v)
	if len(req.Senha) > 0 && len(req.Senha) < 6 {
		v["senha"] = "minimo_6_caracteres"
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Senha), bcrypt.DefaultCost)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "erro_ao_criar_usuario", nil)
		return
	}
	role := req.Role
	if role == "" {
		role = "operador"
	}
	u := models.Usuario{Nome: req.Nome, Email: strings.ToLower(strings.TrimSpace(req.Email)), SenhaHash: string(hash), Role: role}
	if err := h.DB.Create(&u).Error; err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique") {
			httpx.JSONError(w, http.StatusConflict, "email_ja_cadastrado", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "erro_ao_criar_usuario", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, u)
}
