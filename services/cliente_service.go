package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gestao-vendas/database"
	"gestao-vendas/models"
	"gestao-vendas/store"
)

type ClienteService struct {
	store store.Store
	now   func() time.Time
}

func (s *ClienteService) Listar(ctx context.Context) ([]models.Cliente, error) {
	return store.FindAs[models.Cliente](ctx, s.store, database.ClientesCollection, store.Query{SortBy: "nome"})
}

func (s *ClienteService) Buscar(ctx context.Context, id string) (models.Cliente, error) {
	c, err := store.GetAs[models.Cliente](ctx, s.store, database.ClientesCollection, id)
	if errors.Is(err, store.ErrNotFound) {
		return c, ErrClienteNaoEncontrado
	}
	return c, err
}

func (s *ClienteService) Criar(ctx context.Context, c models.Cliente) (models.Cliente, error) {
	c.Nome = strings.TrimSpace(c.Nome)
	c.Email = strings.TrimSpace(c.Email)
	if err := validar(c, nil); err != nil {
		return c, err
	}

	c.ID = s.store.NewID()
	c.CriadoEm = s.now()

	b := s.store.NewBatch()
	b.Set(database.ClientesCollection, c.ID, c)
	if err := b.Commit(ctx); err != nil {
		return c, fmt.Errorf("criar cliente: %w", err)
	}
	return c, nil
}

// nome resolves the display name snapshot stored on sales. An unknown
// customer yields an empty name, not an error.
func (s *ClienteService) nome(ctx context.Context, id string) (string, error) {
	c, err := s.Buscar(ctx, id)
	if errors.Is(err, ErrClienteNaoEncontrado) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return c.Nome, nil
}
