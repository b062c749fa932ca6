package models

import "time"

type Unidade string

const (
	UnidadeUnidade  Unidade = "un"
	UnidadeKg       Unidade = "kg"
	UnidadeGrama    Unidade = "g"
	UnidadeLitro    Unidade = "l"
	UnidadeMl       Unidade = "ml"
	UnidadeMetro    Unidade = "m"
	UnidadeM2       Unidade = "m2"
	UnidadeM3       Unidade = "m3"
	UnidadeCaixa    Unidade = "cx"
	UnidadePacote   Unidade = "pct"
	UnidadeSaco     Unidade = "sc"
	UnidadeMilheiro Unidade = "milh"
)

// Produto is owned by the inventory screens; sales only touch quantidade
// (through signed increments) and updatedAt.
type Produto struct {
	ID         string    `bson:"_id" json:"id"`
	Nome       string    `bson:"nome" json:"nome" validate:"required"`
	Categoria  string    `bson:"categoria,omitempty" json:"categoria,omitempty"`
	Unidade    Unidade   `bson:"unidade" json:"unidade" validate:"omitempty,oneof=un kg g l ml m m2 m3 cx pct sc milh"`
	Quantidade float64   `bson:"quantidade" json:"quantidade"`
	PrecoCusto float64   `bson:"precoCusto" json:"precoCusto" validate:"gte=0"`
	PrecoVenda float64   `bson:"precoVenda" json:"precoVenda" validate:"gte=0"`
	CriadoEm   time.Time `bson:"criadoEm" json:"criadoEm"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

type TipoMovimentacao string

const (
	MovimentacaoEntrada TipoMovimentacao = "entrada"
	MovimentacaoSaida   TipoMovimentacao = "saida"
)

// MovimentacaoEstoque is append-only. Quantidade is always positive, Tipo
// carries the direction.
type MovimentacaoEstoque struct {
	ID         string           `bson:"_id" json:"id"`
	ProdutoID  string           `bson:"produtoId" json:"produtoId"`
	Tipo       TipoMovimentacao `bson:"tipo" json:"tipo"`
	Quantidade float64          `bson:"quantidade" json:"quantidade"`
	Motivo     string           `bson:"motivo" json:"motivo"`
	VendaID    string           `bson:"vendaId,omitempty" json:"vendaId,omitempty"`
	Data       time.Time        `bson:"data" json:"data"`
	CreatedAt  time.Time        `bson:"createdAt" json:"createdAt"`
}
