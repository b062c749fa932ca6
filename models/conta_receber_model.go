package models

import "time"

type StatusParcela string

const (
	ParcelaPendente StatusParcela = "pendente"
	ParcelaPaga     StatusParcela = "pago"
)

type ContaReceber struct {
	ID             string        `bson:"_id" json:"id"`
	VendaID        string        `bson:"vendaId" json:"vendaId"`
	ClienteID      string        `bson:"clienteId,omitempty" json:"clienteId,omitempty"`
	ClienteNome    string        `bson:"clienteNome" json:"clienteNome"`
	CodigoVenda    string        `bson:"codigoVenda" json:"codigoVenda"`
	Descricao      string        `bson:"descricao" json:"descricao"`
	Valor          float64       `bson:"valor" json:"valor"`
	DataVencimento time.Time     `bson:"dataVencimento" json:"dataVencimento"`
	DataPagamento  *time.Time    `bson:"dataPagamento" json:"dataPagamento"`
	Status         StatusParcela `bson:"status" json:"status"`
	NumeroParcela  int           `bson:"numeroParcela" json:"numeroParcela"`
	TotalParcelas  int           `bson:"totalParcelas" json:"totalParcelas"`
	CriadoEm       time.Time     `bson:"criadoEm" json:"criadoEm"`
	AtualizadoEm   time.Time     `bson:"atualizadoEm" json:"atualizadoEm"`
}
