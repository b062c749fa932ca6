package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"gestao-vendas/database"
	"gestao-vendas/models"
	"gestao-vendas/store"
)

// FinanceiroService owns the receivable installments (contasReceber).
type FinanceiroService struct {
	store store.Store
	cache *VendasCache
	log   *zap.Logger
	now   func() time.Time
	loc   *time.Location
}

type FiltroParcelas struct {
	VendaID string
	Status  models.StatusParcela
}

// CalcularVencimentos returns n due dates on day dia of consecutive months,
// starting in agora's month. If that first date is already behind agora the
// whole schedule starts one month later; later dates are not checked
// individually.
func CalcularVencimentos(agora time.Time, n, dia int) []time.Time {
	loc := agora.Location()
	inicio := 0
	if time.Date(agora.Year(), agora.Month(), dia, 0, 0, 0, 0, loc).Before(agora) {
		inicio = 1
	}

	datas := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		datas = append(datas, time.Date(agora.Year(), agora.Month()+time.Month(inicio+i), dia, 0, 0, 0, 0, loc))
	}
	return datas
}

// gerarParcelas queues one receivable per installment of venda. The first
// installment is collected on the spot and is stored as paid at agora.
func (s *FinanceiroService) gerarParcelas(b store.Batch, venda models.Venda, agora time.Time) []models.ContaReceber {
	plano := venda.Parcelamento
	vencimentos := CalcularVencimentos(agora.In(s.loc), plano.NumeroParcelas, plano.DiaVencimento)

	parcelas := make([]models.ContaReceber, 0, len(vencimentos))
	for i, venc := range vencimentos {
		p := models.ContaReceber{
			ID:             s.store.NewID(),
			VendaID:        venda.ID,
			ClienteID:      venda.ClienteID,
			ClienteNome:    venda.ClienteNome,
			CodigoVenda:    venda.CodigoVenda,
			Descricao:      fmt.Sprintf("Parcela %d/%d - Venda #%s", i+1, plano.NumeroParcelas, venda.CodigoVenda),
			Valor:          Round2(plano.ValorParcela),
			DataVencimento: venc,
			Status:         models.ParcelaPendente,
			NumeroParcela:  i + 1,
			TotalParcelas:  plano.NumeroParcelas,
			CriadoEm:       agora,
			AtualizadoEm:   agora,
		}
		if i == 0 {
			pago := agora
			p.DataPagamento = &pago
			p.Status = models.ParcelaPaga
		}
		b.Set(database.ContasReceberCollection, p.ID, p)
		parcelas = append(parcelas, p)
	}
	return parcelas
}

// removerParcelas queues the deletion of every installment of the sale,
// paid or not.
func (s *FinanceiroService) removerParcelas(ctx context.Context, b store.Batch, vendaID string) (int, error) {
	parcelas, err := s.Listar(ctx, FiltroParcelas{VendaID: vendaID})
	if err != nil {
		return 0, fmt.Errorf("buscar parcelas da venda %s: %w", vendaID, err)
	}
	for _, p := range parcelas {
		b.Delete(database.ContasReceberCollection, p.ID)
	}
	return len(parcelas), nil
}

// Listar returns installments ordered by due date.
func (s *FinanceiroService) Listar(ctx context.Context, f FiltroParcelas) ([]models.ContaReceber, error) {
	filter := bson.M{}
	if f.VendaID != "" {
		filter["vendaId"] = f.VendaID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return store.FindAs[models.ContaReceber](ctx, s.store, database.ContasReceberCollection, store.Query{
		Filter: filter,
		SortBy: "dataVencimento",
	})
}

// AlternarPagamento flips an installment between pago and pendente. When
// every installment of the sale ends up paid the sale is concluded; reopening
// one installment of a concluded sale puts it back to parcelado.
func (s *FinanceiroService) AlternarPagamento(ctx context.Context, id string) (models.ContaReceber, error) {
	parcela, err := store.GetAs[models.ContaReceber](ctx, s.store, database.ContasReceberCollection, id)
	if errors.Is(err, store.ErrNotFound) {
		return parcela, ErrParcelaNaoEncontrada
	}
	if err != nil {
		return parcela, err
	}

	// 1. Inverter o status da parcela
	agora := s.now()
	if parcela.Status == models.ParcelaPaga {
		parcela.Status = models.ParcelaPendente
		parcela.DataPagamento = nil
	} else {
		pago := agora
		parcela.Status = models.ParcelaPaga
		parcela.DataPagamento = &pago
	}
	parcela.AtualizadoEm = agora

	b := s.store.NewBatch()
	b.Update(database.ContasReceberCollection, id, store.Update{Set: bson.M{
		"status":        parcela.Status,
		"dataPagamento": parcela.DataPagamento,
		"atualizadoEm":  agora,
	}})

	// 2. Acompanhar o status da venda
	if err := s.sincronizarStatusVenda(ctx, b, parcela, agora); err != nil {
		return parcela, err
	}

	if err := b.Commit(ctx); err != nil {
		return parcela, fmt.Errorf("registrar pagamento: %w", err)
	}
	s.cache.Invalidate()
	return parcela, nil
}

func (s *FinanceiroService) sincronizarStatusVenda(ctx context.Context, b store.Batch, alterada models.ContaReceber, agora time.Time) error {
	venda, err := store.GetAs[models.Venda](ctx, s.store, database.VendasCollection, alterada.VendaID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	parcelas, err := s.Listar(ctx, FiltroParcelas{VendaID: venda.ID})
	if err != nil {
		return err
	}
	todasPagas := true
	for _, p := range parcelas {
		status := p.Status
		if p.ID == alterada.ID {
			status = alterada.Status
		}
		if status != models.ParcelaPaga {
			todasPagas = false
			break
		}
	}

	novo := venda.Status
	switch {
	case todasPagas && venda.Status == models.StatusParcelado:
		novo = models.StatusConcluida
	case !todasPagas && venda.Status == models.StatusConcluida:
		novo = models.StatusParcelado
	}
	if novo == venda.Status {
		return nil
	}

	s.log.Info("status da venda acompanhou as parcelas",
		zap.String("vendaId", venda.ID),
		zap.String("de", string(venda.Status)),
		zap.String("para", string(novo)))
	b.Update(database.VendasCollection, venda.ID, store.Update{
		Set: bson.M{"status": novo, "atualizadoEm": agora},
		Inc: bson.M{"versao": int64(1)},
	})
	return nil
}
