package services

import (
	"errors"
	"testing"
	"time"

	"github.com/vcampos/pdv-loja/internal/models"
)

func TestReconciliarMarcaInativoEPromoveAtrasadas(t *testing.T) {
	db := setupServiceTestDB(t)
	cliente := seedCliente(t, db, "Carlos Lima", "carlos@test")
	vencida := seedVendaAPrazo(t, db, cliente, 30.00, time.Now().AddDate(0, 0, -2))
	futura := seedVendaAPrazo(t, db, cliente, 30.00, time.Now().AddDate(0, 0, 20))
	svc := NewStatusService(db)

	c, err := svc.Reconciliar(cliente.ID)
	if err != nil {
		t.Fatalf("reconciliar: %v", err)
	}
	if c.Status != models.ClienteInativo {
		t.Fatalf("cliente com pendência vencida deveria ficar Inativo, obtido %s", c.Status)
	}

	var p models.Pendencia
	if err := db.First(&p, vencida.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if p.Status != models.PendenciaAtrasada {
		t.Fatalf("pendência vencida deveria virar ATRASADA, obtido %s", p.Status)
	}
	var p2 models.Pendencia
	if err := db.First(&p2, futura.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if p2.Status != models.PendenciaAberta {
		t.Fatalf("pendência futura deve permanecer ABERTA, obtido %s", p2.Status)
	}
}

func TestReconciliarIdempotente(t *testing.T) {
	db := setupServiceTestDB(t)
	cliente := seedCliente(t, db, "Carlos Lima", "carlos@test")
	seedVendaAPrazo(t, db, cliente, 30.00, time.Now().AddDate(0, 0, -2))
	svc := NewStatusService(db)

	// A segunda passada encontra a pendência já ATRASADA e não pode
	// reativar o cliente por isso.
	for i := 0; i < 2; i++ {
		c, err := svc.Reconciliar(cliente.ID)
		if err != nil {
			t.Fatalf("reconciliar #%d: %v", i+1, err)
		}
		if c.Status != models.ClienteInativo {
			t.Fatalf("passada %d: esperado Inativo, obtido %s", i+1, c.Status)
		}
	}
}

func TestReconciliarReativaSemVencidas(t *testing.T) {
	db := setupServiceTestDB(t)
	cliente := seedCliente(t, db, "Carlos Lima", "carlos@test")
	db.Model(&models.Cliente{}).Where("id = ?", cliente.ID).Update("status", models.ClienteInativo)
	seedVendaAPrazo(t, db, cliente, 30.00, time.Now().AddDate(0, 0, 15))
	svc := NewStatusService(db)

	c, err := svc.Reconciliar(cliente.ID)
	if err != nil {
		t.Fatalf("reconciliar: %v", err)
	}
	if c.Status != models.ClienteAtivo {
		t.Fatalf("sem pendência vencida o cliente deveria voltar a Ativo, obtido %s", c.Status)
	}
}

func TestReconciliarClienteInexistente(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewStatusService(db)
	if _, err := svc.Reconciliar(999); !errors.Is(err, ErrNaoEncontrado) {
		t.Fatalf("esperado ErrNaoEncontrado, obtido %v", err)
	}
}

func TestReconciliarTodos(t *testing.T) {
	db := setupServiceTestDB(t)
	devedor := seedCliente(t, db, "Devedor", "devedor@test")
	seedVendaAPrazo(t, db, devedor, 30.00, time.Now().AddDate(0, 0, -2))
	quitado := seedCliente(t, db, "Quitado", "quitado@test")
	db.Model(&models.Cliente{}).Where("id = ?", quitado.ID).Update("status", models.ClienteInativo)
	emDia := seedCliente(t, db, "Em Dia", "emdia@test")
	svc := NewStatusService(db)

	n, err := svc.ReconciliarTodos()
	if err != nil {
		t.Fatalf("reconciliar todos: %v", err)
	}
	// Devedor e Quitado entram na varredura; Em Dia não precisa.
	if n != 2 {
		t.Fatalf("esperados 2 clientes reconciliados, obtidos %d", n)
	}

	var cDevedor models.Cliente
	db.First(&cDevedor, devedor.ID)
	if cDevedor.Status != models.ClienteInativo {
		t.Fatalf("devedor deveria estar Inativo, obtido %s", cDevedor.Status)
	}
	var cQuitado models.Cliente
	db.First(&cQuitado, quitado.ID)
	if cQuitado.Status != models.ClienteAtivo {
		t.Fatalf("quitado deveria voltar a Ativo, obtido %s", cQuitado.Status)
	}
	var cEmDia models.Cliente
	db.First(&cEmDia, emDia.ID)
	if cEmDia.Status != models.ClienteAtivo {
		t.Fatalf("cliente em dia deve permanecer Ativo, obtido %s", cEmDia.Status)
	}
}
