package server

import (
	"context"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/vcampos/pdv-loja/internal/auth"
	"github.com/vcampos/pdv-loja/internal/crypto"
	"github.com/vcampos/pdv-loja/internal/handlers"
	"github.com/vcampos/pdv-loja/internal/httpx"
	"github.com/vcampos/pdv-loja/internal/models"
	"github.com/vcampos/pdv-loja/internal/services"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, cipher *crypto.Cipher) http.Handler {
	mux := http.NewServeMux()

	// Configure a user verifier so RequireAuth can ensure the user still exists.
	auth.SetUserVerifier(func(_ context.Context, uid uint) bool {
		var count int64
		if err := db.Model(&models.Usuario{}).Where("id = ?", uid).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	// --- Health endpoints ---
	//revive:disable:unused-parameter simple handlers intentionally ignore *http.Request
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			if _, werr := w.Write([]byte(`{"status":"degraded"}`)); werr != nil {
				_ = werr
			}
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	//revive:enable:unused-parameter

	protected := func(h http.HandlerFunc) http.Handler {
		return auth.Middleware(auth.RequireAuth(h))
	}

	// Auth endpoints
	ah := handlers.NewAuthHandler(db)
	mux.HandleFunc("POST /login", ah.Login)
	mux.HandleFunc("POST /logout", ah.Logout)
	mux.Handle("POST /change-password", protected(ah.ChangePassword))

	// Produtos
	ph := handlers.NewProdutoHandler(db)
	mux.Handle("GET /produtos", protected(ph.List))
	mux.Handle("POST /produtos", protected(ph.Create))
	mux.Handle("GET /produtos/{id}", protected(ph.Get))
	mux.Handle("PUT /produtos/{id}", protected(ph.Update))
	mux.Handle("DELETE /produtos/{id}", protected(ph.Delete))

	// Clientes
	statusSvc := services.NewStatusService(db)
	ch := handlers.NewClienteHandler(db, statusSvc, cipher)
	mux.Handle("GET /clientes", protected(ch.List))
	mux.Handle("POST /clientes", protected(ch.Create))
	mux.Handle("GET /clientes/{id}", protected(ch.Get))
	mux.Handle("PUT /clientes/{id}", protected(ch.Update))
	mux.Handle("DELETE /clientes/{id}", protected(ch.Delete))
	mux.Handle("PATCH /clientes/{id}/atualizar-status", protected(ch.AtualizarStatus))

	// Vendas
	vendaSvc := services.NewVendaService(db)
	vh := handlers.NewVendaHandler(vendaSvc, cipher)
	mux.Handle("GET /vendas", protected(vh.List))
	mux.Handle("POST /vendas", protected(vh.Create))

	// Pendências
	pendSvc := services.NewPendenciaService(db, statusSvc)
	pdh := handlers.NewPendenciaHandler(pendSvc)
	mux.Handle("GET /pendencias", protected(pdh.List))
	mux.Handle("POST /pendencias", protected(pdh.Create))
	mux.Handle("PATCH /pendencias/{id}/pagar", protected(pdh.Pagar))
	mux.Handle("DELETE /pendencias/{id}", protected(pdh.Cancelar))

	// Caixa
	cxh := handlers.NewCaixaHandler(db)
	mux.Handle("GET /caixa", protected(cxh.Report))
	mux.Handle("POST /caixa", protected(cxh.Create))

	// Dashboard
	dh := handlers.NewDashboardHandler(db)
	mux.Handle("GET /dashboard", protected(dh.Get))

	// Usuários
	uh := handlers.NewUsuarioHandler(db)
	mux.Handle("GET /usuarios", protected(uh.List))
	mux.Handle("POST /usuarios", protected(uh.Create))

	return withRecover(withLogging(mux))
}

// Simple middleware logging & recovery kept private to this package to avoid duplication.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		_ = start // placeholder if switched to structured logging later
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
