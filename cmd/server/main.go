package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/vcampos/pdv-loja/internal/config"
	"github.com/vcampos/pdv-loja/internal/crypto"
	"github.com/vcampos/pdv-loja/internal/db"
	"github.com/vcampos/pdv-loja/internal/server"
	"github.com/vcampos/pdv-loja/internal/services"
)

// simple middleware chain
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()
	if migrateOnlyFlag != nil && *migrateOnlyFlag {
		_ = godotenv.Load()
		if _, err := db.ConnectAndMigrate(); err != nil {
			log.Fatalf("migrate-only failed: %v", err)
		}
		log.Println("migrations completed; exiting as requested")
		return
	}
	_ = godotenv.Load()
	cfg := config.Load()
	dbConn, err := db.ConnectAndMigrate()
	if err != nil {
		log.Fatalf("Erro na conexão com o banco: %v", err)
	}
	cipher, err := crypto.FromEnv()
	if err != nil {
		log.Fatalf("Erro na configuração de criptografia: %v", err)
	}
	log.Printf("Starting server env=%s port=%s", cfg.Env, cfg.Port)

	handler := server.New(dbConn, cipher)
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: withLogging(handler)}

	// Varredura periódica: promove pendências vencidas e ajusta o status dos
	// clientes mesmo sem tráfego nas rotas de pagamento.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go runStatusSweep(sweepCtx, services.NewStatusService(dbConn))

	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received")
	stopSweep()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

func runStatusSweep(ctx context.Context, status *services.StatusService) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		n, err := status.ReconciliarTodos()
		if err != nil {
			log.Printf("varredura de status falhou: %v", err)
		} else if n > 0 {
			log.Printf("varredura de status: %d cliente(s) reconciliado(s)", n)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
