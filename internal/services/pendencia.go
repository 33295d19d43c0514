package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/vcampos/pdv-loja/internal/models"
	"github.com/vcampos/pdv-loja/internal/validation"
)

// PendenciaService cuida do ciclo de vida das pendências: criação manual,
// recebimento e cancelamento. Recebimento e cancelamento disparam a
// reconciliação de status do cliente em seguida.
type PendenciaService struct {
	DB     *gorm.DB
	Status *StatusService
}

func NewPendenciaService(db *gorm.DB, status *StatusService) *PendenciaService {
	return &PendenciaService{DB: db, Status: status}
}

type CriarPendenciaInput struct {
	VendaID        uint
	ClienteID      uint
	Valor          float64
	Descricao      string
	DataVencimento *time.Time
}

// Criar registra uma pendência avulsa. Sem vencimento informado, assume 30 dias.
func (s *PendenciaService) Criar(in CriarPendenciaInput) (*models.Pendencia, error) {
	v := validation.Violations{}
	if in.VendaID == 0 {
		v["vendaId"] = "required"
	}
	if in.ClienteID == 0 {
		v["clienteId"] = "required"
	}
	validation.PositiveFloat("valor", in.Valor, v)
	if !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}

	agora := time.Now()
	vencimento := agora.AddDate(0, 0, prazoVencimentoDias)
	if in.DataVencimento != nil {
		vencimento = *in.DataVencimento
	}
	descricao := in.Descricao
	if descricao == "" {
		descricao = fmt.Sprintf("Venda #%d", in.VendaID)
	}
	p := models.Pendencia{
		VendaID:        in.VendaID,
		ClienteID:      in.ClienteID,
		Valor:          in.Valor,
		Descricao:      descricao,
		DataPendencia:  agora,
		DataVencimento: vencimento,
		Status:         models.PendenciaAberta,
	}
	if err := s.DB.Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Pagar marca a pendência como PAGA e, se a venda de origem foi "A Prazo",
// lança a entrada correspondente no caixa — na mesma transação. A quitação é
// um UPDATE condicional no status: dois recebimentos concorrentes da mesma
// pendência disputam a linha e só o primeiro lança caixa; o segundo recebe
// ErrTransicaoInvalida. A guarda do método de pagamento evita entrada
// duplicada caso uma pendência tenha sido criada para uma venda de pagamento
// imediato (que já lançou caixa na venda).
func (s *PendenciaService) Pagar(id uint) (*models.Pendencia, error) {
	var p models.Pendencia
	if err := s.DB.Preload("Cliente").Preload("Venda").First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNaoEncontrado
		}
		return nil, err
	}

	agora := time.Now()
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Pendencia{}).
			Where("id = ? AND status <> ?", p.ID, models.PendenciaPaga).
			Updates(map[string]any{"status": models.PendenciaPaga, "data_pago": agora})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTransicaoInvalida
		}
		if p.Venda.Pagamento == models.PagamentoAPrazo {
			mov := models.MovimentacaoCaixa{
				Tipo:      models.CaixaEntrada,
				Valor:     p.Valor,
				Descricao: fmt.Sprintf("Recebimento da Venda #%d | Cliente: %s | A Prazo", p.VendaID, p.Cliente.Nome),
				DataHora:  agora,
			}
			if err := tx.Create(&mov).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	p.Status = models.PendenciaPaga
	p.DataPago = &agora

	// Quitar a última pendência vencida reativa o cliente.
	if _, rerr := s.Status.Reconciliar(p.ClienteID); rerr != nil {
		log.Printf("reconciliação pós-pagamento falhou cliente=%d: %v", p.ClienteID, rerr)
	}
	return &p, nil
}

// Cancelar remove a pendência. Pendência PAGA não pode ser cancelada:
// o recebimento já foi lançado no caixa e o caixa é imutável. O DELETE é
// condicional no status pelo mesmo motivo do UPDATE em Pagar: um recebimento
// concorrente pode quitar a pendência entre a leitura e a remoção.
func (s *PendenciaService) Cancelar(id uint) error {
	var p models.Pendencia
	if err := s.DB.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNaoEncontrado
		}
		return err
	}
	res := s.DB.Where("status <> ?", models.PendenciaPaga).Delete(&models.Pendencia{}, p.ID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTransicaoInvalida
	}
	if _, rerr := s.Status.Reconciliar(p.ClienteID); rerr != nil {
		log.Printf("reconciliação pós-cancelamento falhou cliente=%d: %v", p.ClienteID, rerr)
	}
	return nil
}

// Filtros aceitos por Listar.
const (
	FiltroTodas     = "TODAS"
	FiltroAbertas   = "ABERTAS"
	FiltroPagas     = "PAGAS"
	FiltroAtrasadas = "ATRASADAS"
)

// Listar devolve pendências com cliente e venda carregados, mais recentes primeiro.
func (s *PendenciaService) Listar(filtro string) ([]models.Pendencia, error) {
	dbq := s.DB.Model(&models.Pendencia{})
	switch filtro {
	case FiltroAbertas:
		dbq = dbq.Where("status = ?", models.PendenciaAberta)
	case FiltroPagas:
		dbq = dbq.Where("status = ?", models.PendenciaPaga)
	case FiltroAtrasadas:
		dbq = dbq.Where("status = ?", models.PendenciaAtrasada)
	}
	var pendencias []models.Pendencia
	if err := dbq.Preload("Cliente").Preload("Venda").
		Order("data_pendencia desc").Find(&pendencias).Error; err != nil {
		return nil, err
	}
	return pendencias, nil
}
