package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gestao-vendas/models"
	"gestao-vendas/store"
)

var brt = time.FixedZone("BRT", -3*60*60)

type relogio struct {
	t time.Time
}

func (r *relogio) Now() time.Time { return r.t }

func (r *relogio) Avancar(d time.Duration) { r.t = r.t.Add(d) }

type ambiente struct {
	svc     *Services
	store   *store.MemoryStore
	relogio *relogio
}

func novoAmbiente(t *testing.T) *ambiente {
	t.Helper()
	st := store.NewMemoryStore()
	r := &relogio{t: time.Date(2025, 5, 15, 12, 0, 0, 0, brt)}
	n := 0
	svc := New(st, Config{
		Location: brt,
		CacheTTL: time.Minute,
		Now:      r.Now,
		Codigo: func() string {
			n++
			return fmt.Sprintf("%05d", 10000+n)
		},
	})
	return &ambiente{svc: svc, store: st, relogio: r}
}

func (a *ambiente) produto(t *testing.T, nome string, qtd float64) models.Produto {
	t.Helper()
	p, err := a.svc.Estoque.Criar(context.Background(), models.Produto{Nome: nome, Quantidade: qtd, PrecoVenda: 10})
	require.NoError(t, err)
	return p
}

func (a *ambiente) estoque(t *testing.T, id string) float64 {
	t.Helper()
	p, err := a.svc.Estoque.Buscar(context.Background(), id)
	require.NoError(t, err)
	return p.Quantidade
}

func item(produto string, qtd, preco float64) models.ItemVenda {
	return models.ItemVenda{Produto: produto, Quantidade: qtd, ValorUnitario: preco}
}

func texto(s string) *string { return &s }
