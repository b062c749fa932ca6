package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"gestao-vendas/database"
	"gestao-vendas/models"
	"gestao-vendas/store"
)

// EstoqueService owns product stock counters and the movement log.
type EstoqueService struct {
	store store.Store
	log   *zap.Logger
	now   func() time.Time
}

// ProdutoInput is a partial product update; nil fields are left untouched.
// Quantidade only changes through movements.
type ProdutoInput struct {
	Nome       *string         `json:"nome" validate:"omitempty,min=1"`
	Categoria  *string         `json:"categoria"`
	Unidade    *models.Unidade `json:"unidade" validate:"omitempty,oneof=un kg g l ml m m2 m3 cx pct sc milh"`
	PrecoCusto *float64        `json:"precoCusto" validate:"omitempty,gte=0"`
	PrecoVenda *float64        `json:"precoVenda" validate:"omitempty,gte=0"`
}

// movimentar queues a signed increment of delta on the product counter and
// the movement that documents it. Positive delta puts stock back. Every
// call writes a movement, zero deltas included.
func (s *EstoqueService) movimentar(b store.Batch, produtoID string, delta float64, motivo, vendaID string, agora time.Time) {
	b.Update(database.ProdutosCollection, produtoID, store.Update{
		Inc: bson.M{"quantidade": delta},
		Set: bson.M{"updatedAt": agora},
	})

	// the sign decides, so a zero line of a sale (-0) still reads as saída
	tipo := models.MovimentacaoEntrada
	if math.Signbit(delta) {
		tipo = models.MovimentacaoSaida
	}
	mov := models.MovimentacaoEstoque{
		ID:         s.store.NewID(),
		ProdutoID:  produtoID,
		Tipo:       tipo,
		Quantidade: math.Abs(delta),
		Motivo:     motivo,
		VendaID:    vendaID,
		Data:       agora,
		CreatedAt:  agora,
	}
	b.Set(database.MovimentacoesCollection, mov.ID, mov)
}

// devolverOuIgnorar queues the movement only if the product still exists.
// A deleted product is logged and skipped.
func (s *EstoqueService) devolverOuIgnorar(ctx context.Context, b store.Batch, produtoID string, delta float64, motivo, vendaID string, agora time.Time) error {
	ok, err := store.Exists(ctx, s.store, database.ProdutosCollection, produtoID)
	if err != nil {
		return fmt.Errorf("verificar produto %s: %w", produtoID, err)
	}
	if !ok {
		s.log.Warn("produto não existe mais, ignorando ajuste de estoque",
			zap.String("produtoId", produtoID),
			zap.String("vendaId", vendaID),
			zap.Float64("quantidade", delta))
		return nil
	}
	s.movimentar(b, produtoID, delta, motivo, vendaID, agora)
	return nil
}

func (s *EstoqueService) Listar(ctx context.Context) ([]models.Produto, error) {
	return store.FindAs[models.Produto](ctx, s.store, database.ProdutosCollection, store.Query{SortBy: "nome"})
}

func (s *EstoqueService) Buscar(ctx context.Context, id string) (models.Produto, error) {
	p, err := store.GetAs[models.Produto](ctx, s.store, database.ProdutosCollection, id)
	if errors.Is(err, store.ErrNotFound) {
		return p, ErrProdutoNaoEncontrado
	}
	return p, err
}

// Criar inserts a product. Its initial quantity, if any, is recorded as an
// inbound movement so the log always explains the counter.
func (s *EstoqueService) Criar(ctx context.Context, p models.Produto) (models.Produto, error) {
	p.Nome = strings.TrimSpace(p.Nome)
	if p.Unidade == "" {
		p.Unidade = models.UnidadeUnidade
	}
	if err := validar(p, nil); err != nil {
		return p, err
	}

	agora := s.now()
	inicial := p.Quantidade
	p.ID = s.store.NewID()
	p.Quantidade = 0
	p.PrecoCusto = Round2(p.PrecoCusto)
	p.PrecoVenda = Round2(p.PrecoVenda)
	p.CriadoEm = agora
	p.UpdatedAt = agora

	b := s.store.NewBatch()
	b.Set(database.ProdutosCollection, p.ID, p)
	if inicial != 0 {
		s.movimentar(b, p.ID, inicial, "Estoque inicial", "", agora)
	}
	if err := b.Commit(ctx); err != nil {
		return p, fmt.Errorf("criar produto: %w", err)
	}
	p.Quantidade = inicial
	return p, nil
}

func (s *EstoqueService) Atualizar(ctx context.Context, id string, in ProdutoInput) (models.Produto, error) {
	if err := validar(in, nil); err != nil {
		return models.Produto{}, err
	}

	set := bson.M{}
	if in.Nome != nil {
		set["nome"] = strings.TrimSpace(*in.Nome)
	}
	if in.Categoria != nil {
		set["categoria"] = strings.TrimSpace(*in.Categoria)
	}
	if in.Unidade != nil {
		set["unidade"] = *in.Unidade
	}
	if in.PrecoCusto != nil {
		set["precoCusto"] = Round2(*in.PrecoCusto)
	}
	if in.PrecoVenda != nil {
		set["precoVenda"] = Round2(*in.PrecoVenda)
	}
	if len(set) == 0 {
		return models.Produto{}, &ValidationError{Campos: map[string]string{"produto": "vazio"}}
	}
	set["updatedAt"] = s.now()

	b := s.store.NewBatch()
	b.Update(database.ProdutosCollection, id, store.Update{Set: set})
	if err := b.Commit(ctx); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Produto{}, ErrProdutoNaoEncontrado
		}
		return models.Produto{}, fmt.Errorf("atualizar produto: %w", err)
	}
	return s.Buscar(ctx, id)
}

// Remover deletes the product. Its movements stay: the log is append-only.
func (s *EstoqueService) Remover(ctx context.Context, id string) error {
	if _, err := s.Buscar(ctx, id); err != nil {
		return err
	}
	b := s.store.NewBatch()
	b.Delete(database.ProdutosCollection, id)
	if err := b.Commit(ctx); err != nil {
		return fmt.Errorf("remover produto: %w", err)
	}
	return nil
}

// Ajustar applies a manual signed correction with its movement.
func (s *EstoqueService) Ajustar(ctx context.Context, id string, delta float64, motivo string) (models.Produto, error) {
	motivo = strings.TrimSpace(motivo)
	extra := map[string]string{}
	if delta == 0 {
		extra["quantidade"] = "ne=0"
	}
	if motivo == "" {
		extra["motivo"] = "required"
	}
	if len(extra) > 0 {
		return models.Produto{}, &ValidationError{Campos: extra}
	}

	if _, err := s.Buscar(ctx, id); err != nil {
		return models.Produto{}, err
	}

	b := s.store.NewBatch()
	s.movimentar(b, id, delta, motivo, "", s.now())
	if err := b.Commit(ctx); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Produto{}, ErrProdutoNaoEncontrado
		}
		return models.Produto{}, fmt.Errorf("ajustar estoque: %w", err)
	}
	return s.Buscar(ctx, id)
}

// Movimentacoes lists the product's movements, newest first.
func (s *EstoqueService) Movimentacoes(ctx context.Context, produtoID string) ([]models.MovimentacaoEstoque, error) {
	return store.FindAs[models.MovimentacaoEstoque](ctx, s.store, database.MovimentacoesCollection, store.Query{
		Filter: bson.M{"produtoId": produtoID},
		SortBy: "data",
		Desc:   true,
	})
}
