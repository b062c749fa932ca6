package services

import (
	"time"

	"go.uber.org/zap"

	"gestao-vendas/store"
)

type Config struct {
	Location *time.Location
	CacheTTL time.Duration
	Logger   *zap.Logger
	// Now and Codigo default to time.Now and GerarCodigoVenda.
	Now    func() time.Time
	Codigo CodigoGenerator
}

// Services wires the ledgers and the sale manager over one store.
type Services struct {
	Vendas     *VendaService
	Estoque    *EstoqueService
	Financeiro *FinanceiroService
	Clientes   *ClienteService
}

func New(st store.Store, cfg Config) *Services {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 2 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Codigo == nil {
		cfg.Codigo = GerarCodigoVenda
	}

	cache := NewVendasCache(cfg.CacheTTL, cfg.Now)
	estoque := &EstoqueService{store: st, log: cfg.Logger.Named("estoque"), now: cfg.Now}
	financeiro := &FinanceiroService{store: st, cache: cache, log: cfg.Logger.Named("financeiro"), now: cfg.Now, loc: cfg.Location}
	clientes := &ClienteService{store: st, now: cfg.Now}

	return &Services{
		Estoque:    estoque,
		Financeiro: financeiro,
		Clientes:   clientes,
		Vendas: &VendaService{
			store:      st,
			estoque:    estoque,
			financeiro: financeiro,
			clientes:   clientes,
			cache:      cache,
			log:        cfg.Logger.Named("vendas"),
			now:        cfg.Now,
			loc:        cfg.Location,
			codigo:     cfg.Codigo,
		},
	}
}
