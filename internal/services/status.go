package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/vcampos/pdv-loja/internal/models"
)

// StatusService deriva o status Ativo/Inativo do cliente a partir das
// pendências vencidas em aberto. A transição é disparada por nível, não por
// evento: reconciliar sem mudança de estado é um no-op.
type StatusService struct {
	DB *gorm.DB
}

func NewStatusService(db *gorm.DB) *StatusService { return &StatusService{DB: db} }

// Reconciliar recalcula o status do cliente: Inativo se e somente se existir
// pendência não paga com vencimento no passado; caso contrário Ativo.
// Pendências ABERTA vencidas são promovidas a ATRASADA na mesma transação.
// Idempotente: chamadas repetidas sem mudança de estado produzem o mesmo
// resultado.
func (s *StatusService) Reconciliar(clienteID uint) (*models.Cliente, error) {
	var cliente models.Cliente
	if err := s.DB.First(&cliente, clienteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNaoEncontrado
		}
		return nil, err
	}

	var pendencias []models.Pendencia
	if err := s.DB.Where("cliente_id = ? AND status <> ?", clienteID, models.PendenciaPaga).
		Find(&pendencias).Error; err != nil {
		return nil, err
	}
	agora := time.Now()
	vencidas := 0
	var promover []uint
	for _, p := range pendencias {
		if !p.VencidaEm(agora) {
			continue
		}
		vencidas++
		if p.Status == models.PendenciaAberta {
			promover = append(promover, p.ID)
		}
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		status := models.ClienteAtivo
		if vencidas > 0 {
			status = models.ClienteInativo
		}
		if len(promover) > 0 {
			if err := tx.Model(&models.Pendencia{}).Where("id IN ?", promover).
				Update("status", models.PendenciaAtrasada).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Cliente{}).Where("id = ?", clienteID).
			Update("status", status).Error
	})
	if err != nil {
		return nil, err
	}
	if err := s.DB.First(&cliente, clienteID).Error; err != nil {
		return nil, err
	}
	return &cliente, nil
}

// ReconciliarTodos varre clientes com pendência vencida em aberto e também os
// já marcados Inativo (para reativar quem quitou tudo). Usado pela varredura
// periódica do servidor.
func (s *StatusService) ReconciliarTodos() (int, error) {
	agora := time.Now()
	var ids []uint
	if err := s.DB.Model(&models.Pendencia{}).Distinct("cliente_id").
		Where("status IN ? AND data_vencimento < ?",
			[]string{models.PendenciaAberta, models.PendenciaAtrasada}, agora).
		Pluck("cliente_id", &ids).Error; err != nil {
		return 0, err
	}
	var inativos []uint
	if err := s.DB.Model(&models.Cliente{}).
		Where("status = ?", models.ClienteInativo).
		Pluck("id", &inativos).Error; err != nil {
		return 0, err
	}
	seen := make(map[uint]bool, len(ids)+len(inativos))
	for _, id := range ids {
		seen[id] = true
	}
	for _, id := range inativos {
		if !seen[id] {
			ids = append(ids, id)
			seen[id] = true
		}
	}
	count := 0
	for _, id := range ids {
		if _, err := s.Reconciliar(id); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
