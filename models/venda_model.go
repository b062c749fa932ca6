package models

import (
	"time"
)

type StatusVenda string

const (
	StatusEmAndamento StatusVenda = "em_andamento" // fiado
	StatusConcluida   StatusVenda = "concluida"
	StatusParcelado   StatusVenda = "parcelado"
	StatusCancelada   StatusVenda = "cancelada"
)

type FormaPagamento string

const (
	PagamentoDinheiro      FormaPagamento = "dinheiro"
	PagamentoPix           FormaPagamento = "pix"
	PagamentoCartaoDebito  FormaPagamento = "cartao_debito"
	PagamentoCartaoCredito FormaPagamento = "cartao_credito"
	PagamentoTransferencia FormaPagamento = "transferencia"
	PagamentoBoleto        FormaPagamento = "boleto"
	PagamentoFiado         FormaPagamento = "fiado"
)

// Parcelamento is the installment plan of a "parcelado" sale.
type Parcelamento struct {
	NumeroParcelas int     `bson:"numeroParcelas" json:"numeroParcelas" validate:"gte=0,lte=360"`
	DiaVencimento  int     `bson:"diaVencimento" json:"diaVencimento" validate:"gte=0,lte=31"`
	ValorParcela   float64 `bson:"valorParcela" json:"valorParcela" validate:"gte=0"`
}

// Completo reports whether every field of the plan is set.
func (p *Parcelamento) Completo() bool {
	return p != nil && p.NumeroParcelas > 0 && p.DiaVencimento > 0 && p.ValorParcela > 0
}

type Venda struct {
	ID             string         `bson:"_id" json:"id"`
	CodigoVenda    string         `bson:"codigoVenda" json:"codigoVenda"`
	ClienteID      string         `bson:"clienteId,omitempty" json:"clienteId,omitempty"`
	ClienteNome    string         `bson:"clienteNome" json:"clienteNome"`
	DataVenda      time.Time      `bson:"dataVenda" json:"dataVenda"`
	Itens          []ItemVenda    `bson:"itens" json:"itens"`
	Status         StatusVenda    `bson:"status" json:"status"`
	FormaPagamento FormaPagamento `bson:"formaPagamento,omitempty" json:"formaPagamento,omitempty"`
	Desconto       float64        `bson:"desconto" json:"desconto"`
	ValorTotal     float64        `bson:"valorTotal" json:"valorTotal"`
	Observacoes    string         `bson:"observacoes,omitempty" json:"observacoes,omitempty"`
	Parcelamento   *Parcelamento  `bson:"parcelamento,omitempty" json:"parcelamento,omitempty"`
	Versao         int64          `bson:"versao" json:"versao"`
	CriadoEm       time.Time      `bson:"criadoEm" json:"criadoEm"`
	AtualizadoEm   time.Time      `bson:"atualizadoEm" json:"atualizadoEm"`
}

// VendaInput is the create/update payload. DataVenda is a calendar date
// (YYYY-MM-DD) interpreted in the configured location.
type VendaInput struct {
	ClienteID      string         `json:"clienteId"`
	ClienteNome    string         `json:"clienteNome"`
	DataVenda      string         `json:"dataVenda" validate:"omitempty,datetime=2006-01-02"`
	Itens          []ItemVenda    `json:"itens" validate:"dive"`
	Status         StatusVenda    `json:"status" validate:"omitempty,oneof=em_andamento concluida parcelado cancelada"`
	FormaPagamento FormaPagamento `json:"formaPagamento" validate:"omitempty,oneof=dinheiro pix cartao_debito cartao_credito transferencia boleto fiado"`
	Desconto       float64        `json:"desconto" validate:"gte=0"`
	Observacoes    *string        `json:"observacoes"`
	Parcelamento   *Parcelamento  `json:"parcelamento"`
	Versao         *int64         `json:"versao"`
}
