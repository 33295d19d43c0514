package models

import (
	"testing"
	"time"
)

func TestVencidaEm(t *testing.T) {
	agora := time.Now()
	cases := []struct {
		nome string
		p    Pendencia
		quer bool
	}{
		{"aberta vencida", Pendencia{Status: PendenciaAberta, DataVencimento: agora.AddDate(0, 0, -1)}, true},
		{"atrasada vencida", Pendencia{Status: PendenciaAtrasada, DataVencimento: agora.AddDate(0, 0, -1)}, true},
		{"aberta no prazo", Pendencia{Status: PendenciaAberta, DataVencimento: agora.AddDate(0, 0, 1)}, false},
		{"paga vencida", Pendencia{Status: PendenciaPaga, DataVencimento: agora.AddDate(0, 0, -1)}, false},
	}
	for _, c := range cases {
		if got := c.p.VencidaEm(agora); got != c.quer {
			t.Errorf("%s: VencidaEm = %v, quer %v", c.nome, got, c.quer)
		}
	}
}
