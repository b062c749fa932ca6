package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gestao-vendas/models"
)

func TestCalcularVencimentos(t *testing.T) {
	cases := []struct {
		name  string
		agora time.Time
		n     int
		dia   int
		want  []string
	}{
		{
			name:  "due day still ahead",
			agora: time.Date(2025, 5, 5, 9, 0, 0, 0, brt),
			n:     3, dia: 10,
			want: []string{"2025-05-10", "2025-06-10", "2025-07-10"},
		},
		{
			name:  "due day already passed",
			agora: time.Date(2025, 5, 15, 9, 0, 0, 0, brt),
			n:     2, dia: 10,
			want: []string{"2025-06-10", "2025-07-10"},
		},
		{
			name:  "crosses the year",
			agora: time.Date(2025, 11, 20, 9, 0, 0, 0, brt),
			n:     3, dia: 5,
			want: []string{"2025-12-05", "2026-01-05", "2026-02-05"},
		},
		{
			name:  "midnight of the due day counts as passed",
			agora: time.Date(2025, 5, 10, 0, 0, 1, 0, brt),
			n:     1, dia: 10,
			want: []string{"2025-06-10"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CalcularVencimentos(tc.agora, tc.n, tc.dia)
			require.Len(t, got, len(tc.want))
			for i, d := range got {
				assert.Equal(t, tc.want[i], d.Format("2006-01-02"))
				assert.Equal(t, brt, d.Location())
			}
		})
	}
}

func vendaParcelada(t *testing.T, a *ambiente, n int) models.Venda {
	t.Helper()
	p := a.produto(t, "Notebook", 5)
	venda, err := a.svc.Vendas.Criar(context.Background(), models.VendaInput{
		DataVenda:    "2025-05-15",
		Itens:        []models.ItemVenda{item(p.ID, 1, float64(n)*100)},
		Status:       models.StatusParcelado,
		Parcelamento: &models.Parcelamento{NumeroParcelas: n, DiaVencimento: 25, ValorParcela: 100},
	})
	require.NoError(t, err)
	return venda
}

func TestAlternarPagamentoConcluiVenda(t *testing.T) {
	a := novoAmbiente(t)
	ctx := context.Background()
	venda := vendaParcelada(t, a, 3)

	parcelas, err := a.svc.Financeiro.Listar(ctx, FiltroParcelas{VendaID: venda.ID})
	require.NoError(t, err)
	require.Len(t, parcelas, 3)

	a.relogio.Avancar(24 * time.Hour)
	paga, err := a.svc.Financeiro.AlternarPagamento(ctx, parcelas[1].ID)
	require.NoError(t, err)
	assert.Equal(t, models.ParcelaPaga, paga.Status)
	require.NotNil(t, paga.DataPagamento)
	assert.True(t, paga.DataPagamento.Equal(a.relogio.Now()))

	v, err := a.svc.Vendas.Buscar(ctx, venda.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusParcelado, v.Status)

	_, err = a.svc.Financeiro.AlternarPagamento(ctx, parcelas[2].ID)
	require.NoError(t, err)
	v, err = a.svc.Vendas.Buscar(ctx, venda.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConcluida, v.Status)
	assert.Equal(t, int64(2), v.Versao)

	// reopening one puts the sale back to parcelado
	reaberta, err := a.svc.Financeiro.AlternarPagamento(ctx, parcelas[2].ID)
	require.NoError(t, err)
	assert.Equal(t, models.ParcelaPendente, reaberta.Status)
	assert.Nil(t, reaberta.DataPagamento)

	v, err = a.svc.Vendas.Buscar(ctx, venda.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusParcelado, v.Status)
}

func TestAlternarPagamentoInexistente(t *testing.T) {
	a := novoAmbiente(t)
	_, err := a.svc.Financeiro.AlternarPagamento(context.Background(), "nada")
	assert.ErrorIs(t, err, ErrParcelaNaoEncontrada)
}

func TestListarParcelasPorStatus(t *testing.T) {
	a := novoAmbiente(t)
	ctx := context.Background()
	vendaParcelada(t, a, 2)
	vendaParcelada(t, a, 4)

	todas, err := a.svc.Financeiro.Listar(ctx, FiltroParcelas{})
	require.NoError(t, err)
	assert.Len(t, todas, 6)

	pendentes, err := a.svc.Financeiro.Listar(ctx, FiltroParcelas{Status: models.ParcelaPendente})
	require.NoError(t, err)
	assert.Len(t, pendentes, 4)
	for i := 1; i < len(pendentes); i++ {
		assert.False(t, pendentes[i].DataVencimento.Before(pendentes[i-1].DataVencimento), "ordered by due date")
	}
}
