package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"gestao-vendas/database"
	"gestao-vendas/models"
	"gestao-vendas/store"
)

// VendaService applies a sale together with its stock and receivable side
// effects. Each operation commits one batch, so either every write lands or
// none does.
type VendaService struct {
	store      store.Store
	estoque    *EstoqueService
	financeiro *FinanceiroService
	clientes   *ClienteService
	cache      *VendasCache
	log        *zap.Logger
	now        func() time.Time
	loc        *time.Location
	codigo     CodigoGenerator
}

// Criar records a new sale. Stock is decremented with store-side increments
// and no prior read: availability is checked by the caller against a
// possibly stale snapshot.
func (s *VendaService) Criar(ctx context.Context, in models.VendaInput) (models.Venda, error) {
	extra := map[string]string{}
	if strings.TrimSpace(in.DataVenda) == "" {
		extra["dataVenda"] = "required"
	}
	if len(in.Itens) == 0 {
		extra["itens"] = "min"
	}
	if err := validar(in, extra); err != nil {
		return models.Venda{}, err
	}

	dataVenda, err := ParseDataLocal(in.DataVenda, s.loc)
	if err != nil {
		return models.Venda{}, &ValidationError{Campos: map[string]string{"dataVenda": "datetime"}}
	}

	clienteNome := strings.TrimSpace(in.ClienteNome)
	if clienteNome == "" && in.ClienteID != "" {
		if clienteNome, err = s.clientes.nome(ctx, in.ClienteID); err != nil {
			return models.Venda{}, err
		}
	}

	status := in.Status
	if status == "" {
		status = models.StatusEmAndamento
	}

	agora := s.now()
	venda := models.Venda{
		ID:             s.store.NewID(),
		CodigoVenda:    s.codigo(),
		ClienteID:      in.ClienteID,
		ClienteNome:    clienteNome,
		DataVenda:      dataVenda,
		Itens:          in.Itens,
		Status:         status,
		FormaPagamento: in.FormaPagamento,
		Desconto:       Round2(in.Desconto),
		ValorTotal:     CalcularTotal(in.Itens, in.Desconto),
		Parcelamento:   in.Parcelamento,
		Versao:         1,
		CriadoEm:       agora,
		AtualizadoEm:   agora,
	}
	if in.Observacoes != nil {
		venda.Observacoes = strings.TrimSpace(*in.Observacoes)
	}

	// 1. Gravar a venda
	b := s.store.NewBatch()
	b.Set(database.VendasCollection, venda.ID, venda)

	// 2. Baixar o estoque de cada linha, uma movimentação por linha
	motivo := "Venda #" + venda.CodigoVenda
	for _, item := range venda.Itens {
		if item.Produto == "" {
			continue
		}
		s.estoque.movimentar(b, item.Produto, -item.Quantidade, motivo, venda.ID, agora)
	}

	// 3. Gerar parcelas se o plano estiver completo
	if venda.Status == models.StatusParcelado && venda.Parcelamento.Completo() {
		s.financeiro.gerarParcelas(b, venda, agora)
	}

	// 4. Tudo ou nada
	if err := b.Commit(ctx); err != nil {
		return models.Venda{}, fmt.Errorf("registrar venda: %w", err)
	}
	s.cache.Invalidate()

	s.log.Info("venda registrada",
		zap.String("vendaId", venda.ID),
		zap.String("codigo", venda.CodigoVenda),
		zap.Float64("valorTotal", venda.ValorTotal),
		zap.Int("escritas", b.Len()))
	return venda, nil
}

// quantidades sums line quantities per product, keeping first-seen order.
type quantidades struct {
	ordem []string
	qtd   map[string]float64
}

func somarPorProduto(itens []models.ItemVenda) quantidades {
	q := quantidades{qtd: make(map[string]float64)}
	for _, item := range itens {
		if item.Produto == "" {
			continue
		}
		if _, ok := q.qtd[item.Produto]; !ok {
			q.ordem = append(q.ordem, item.Produto)
		}
		q.qtd[item.Produto] += item.Quantidade
	}
	return q
}

// Atualizar replaces the sale's mutable fields and moves stock by the
// difference between the stored and the new lines, per product. Products
// that no longer exist are skipped. When in.Versao is set the write only
// applies if the stored version still matches; otherwise last writer wins.
func (s *VendaService) Atualizar(ctx context.Context, id string, in models.VendaInput) (models.Venda, error) {
	if err := validar(in, nil); err != nil {
		return models.Venda{}, err
	}

	// 1. Buscar venda existente
	venda, err := store.GetAs[models.Venda](ctx, s.store, database.VendasCollection, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Venda{}, ErrVendaNaoEncontrada
	}
	if err != nil {
		return models.Venda{}, err
	}

	agora := s.now()
	codigo := venda.CodigoVenda
	if codigo == "" {
		codigo = id
	}

	b := s.store.NewBatch()

	// 2. Reconciliar estoque pela diferença por produto
	// nil items means the client did not send them: lines and stock stay
	if in.Itens != nil {
		antigos := somarPorProduto(venda.Itens)
		novos := somarPorProduto(in.Itens)

		for _, produto := range novos.ordem {
			// positive: stock comes back, negative: more goes out
			delta := antigos.qtd[produto] - novos.qtd[produto]
			if delta != 0 {
				if err := s.estoque.devolverOuIgnorar(ctx, b, produto, delta, "Edição de Venda #"+codigo, id, agora); err != nil {
					return models.Venda{}, err
				}
			}
			delete(antigos.qtd, produto)
		}

		for _, produto := range antigos.ordem {
			qtd, restante := antigos.qtd[produto]
			if !restante || qtd == 0 {
				continue
			}
			if err := s.estoque.devolverOuIgnorar(ctx, b, produto, qtd, "Item removido da Venda #"+codigo, id, agora); err != nil {
				return models.Venda{}, err
			}
		}

		venda.Itens = in.Itens
	}

	// 3. Aplicar os campos enviados
	if in.Status != "" {
		venda.Status = in.Status
	}
	if in.ClienteID != "" && in.ClienteID != venda.ClienteID {
		venda.ClienteID = in.ClienteID
		if in.ClienteNome == "" {
			if venda.ClienteNome, err = s.clientes.nome(ctx, in.ClienteID); err != nil {
				return models.Venda{}, err
			}
		}
	}
	if nome := strings.TrimSpace(in.ClienteNome); nome != "" {
		venda.ClienteNome = nome
	}
	if in.Observacoes != nil {
		venda.Observacoes = strings.TrimSpace(*in.Observacoes)
	}
	if in.FormaPagamento != "" {
		venda.FormaPagamento = in.FormaPagamento
	}
	if in.Parcelamento != nil {
		venda.Parcelamento = in.Parcelamento
	}
	if in.DataVenda != "" {
		if venda.DataVenda, err = ParseDataLocal(in.DataVenda, s.loc); err != nil {
			return models.Venda{}, &ValidationError{Campos: map[string]string{"dataVenda": "datetime"}}
		}
	}
	venda.Desconto = Round2(in.Desconto)
	venda.ValorTotal = CalcularTotal(venda.Itens, in.Desconto)
	venda.AtualizadoEm = agora

	// 4. Salvar com versão incrementada
	upd := store.Update{
		Set: bson.M{
			"itens":          venda.Itens,
			"status":         venda.Status,
			"clienteId":      venda.ClienteID,
			"clienteNome":    venda.ClienteNome,
			"observacoes":    venda.Observacoes,
			"formaPagamento": venda.FormaPagamento,
			"parcelamento":   venda.Parcelamento,
			"dataVenda":      venda.DataVenda,
			"desconto":       venda.Desconto,
			"valorTotal":     venda.ValorTotal,
			"atualizadoEm":   agora,
		},
		Inc: bson.M{"versao": int64(1)},
	}
	if in.Versao != nil {
		upd.Expect = bson.M{"versao": *in.Versao}
	}
	b.Update(database.VendasCollection, id, upd)

	if err := b.Commit(ctx); err != nil {
		return models.Venda{}, fmt.Errorf("atualizar venda %s: %w", id, err)
	}
	s.cache.Invalidate()

	venda.Versao++
	return venda, nil
}

// Deletar puts every line back into stock, drops all installments of the
// sale whatever their status and removes the sale. A missing sale counts as
// already deleted.
func (s *VendaService) Deletar(ctx context.Context, id string) error {
	venda, err := store.GetAs[models.Venda](ctx, s.store, database.VendasCollection, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	codigo := venda.CodigoVenda
	if codigo == "" {
		codigo = id
	}
	agora := s.now()
	b := s.store.NewBatch()

	// 1. Devolver cada linha ao estoque
	for _, item := range venda.Itens {
		if item.Produto == "" {
			continue
		}
		if err := s.estoque.devolverOuIgnorar(ctx, b, item.Produto, item.Quantidade, "Cancelamento de Venda #"+codigo, id, agora); err != nil {
			return err
		}
	}

	// 2. Remover parcelas e a venda
	n, err := s.financeiro.removerParcelas(ctx, b, id)
	if err != nil {
		return err
	}

	b.Delete(database.VendasCollection, id)

	if err := b.Commit(ctx); err != nil {
		return fmt.Errorf("excluir venda %s: %w", id, err)
	}
	s.cache.Invalidate()

	s.log.Info("venda excluída",
		zap.String("vendaId", id),
		zap.String("codigo", codigo),
		zap.Int("parcelasRemovidas", n))
	return nil
}

func (s *VendaService) Buscar(ctx context.Context, id string) (models.Venda, error) {
	v, err := store.GetAs[models.Venda](ctx, s.store, database.VendasCollection, id)
	if errors.Is(err, store.ErrNotFound) {
		return v, ErrVendaNaoEncontrada
	}
	return v, err
}

// Listar returns sales newest first, filtered by a case-insensitive term
// (code, customer name or any line's product) and by status.
func (s *VendaService) Listar(ctx context.Context, busca string, status models.StatusVenda) ([]models.Venda, error) {
	keep := filtroVendas(busca, status)
	if vendas, ok := s.cache.Get(keep); ok {
		return vendas, nil
	}

	// 1. Guardar a geração antes de ler: uma escrita no meio descarta esta leitura
	geracao := s.cache.Generation()
	todas, err := store.FindAs[models.Venda](ctx, s.store, database.VendasCollection, store.Query{
		SortBy: "dataVenda",
		Desc:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("listar vendas: %w", err)
	}

	// 2. Só entra no cache se nenhuma venda mudou desde a geração lida
	s.cache.Put(todas, geracao)
	return filtrar(todas, keep), nil
}

func filtroVendas(busca string, status models.StatusVenda) func(models.Venda) bool {
	termo := strings.ToLower(strings.TrimSpace(busca))
	return func(v models.Venda) bool {
		if status != "" && v.Status != status {
			return false
		}
		if termo == "" {
			return true
		}
		if strings.Contains(strings.ToLower(v.CodigoVenda), termo) ||
			strings.Contains(strings.ToLower(v.ClienteNome), termo) {
			return true
		}
		for _, item := range v.Itens {
			if strings.Contains(strings.ToLower(item.ProdutoNome), termo) ||
				strings.Contains(strings.ToLower(item.Produto), termo) {
				return true
			}
		}
		return false
	}
}
