package models

import (
	"encoding/json"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// ItemVenda is one line of a sale. ValorUnitario is the price at the time
// of the sale and does not follow later product price changes.
type ItemVenda struct {
	Produto       string  `bson:"produto" json:"produto" validate:"required"`
	ProdutoNome   string  `bson:"produtoNome,omitempty" json:"produtoNome,omitempty"`
	Quantidade    float64 `bson:"quantidade" json:"quantidade" validate:"gte=0"`
	ValorUnitario float64 `bson:"valorUnitario" json:"valorUnitario" validate:"gte=0"`
}

// Older documents and clients name the product reference produtoId or id
// and sometimes send numbers as strings. Both decoders fold those variants
// into the canonical shape so nothing past this point sees them.

func (i *ItemVenda) UnmarshalJSON(data []byte) error {
	var raw struct {
		Produto       string          `json:"produto"`
		ProdutoID     string          `json:"produtoId"`
		ID            string          `json:"id"`
		ProdutoNome   string          `json:"produtoNome"`
		Quantidade    json.RawMessage `json:"quantidade"`
		ValorUnitario json.RawMessage `json:"valorUnitario"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*i = ItemVenda{
		Produto:       referenciaProduto(raw.Produto, raw.ProdutoID, raw.ID),
		ProdutoNome:   strings.TrimSpace(raw.ProdutoNome),
		Quantidade:    numeroJSON(raw.Quantidade),
		ValorUnitario: numeroJSON(raw.ValorUnitario),
	}
	return nil
}

func (i *ItemVenda) UnmarshalBSON(data []byte) error {
	var raw struct {
		Produto       string        `bson:"produto"`
		ProdutoID     string        `bson:"produtoId"`
		ID            string        `bson:"id"`
		ProdutoNome   string        `bson:"produtoNome"`
		Quantidade    bson.RawValue `bson:"quantidade"`
		ValorUnitario bson.RawValue `bson:"valorUnitario"`
	}
	if err := bson.Unmarshal(data, &raw); err != nil {
		return err
	}
	*i = ItemVenda{
		Produto:       referenciaProduto(raw.Produto, raw.ProdutoID, raw.ID),
		ProdutoNome:   raw.ProdutoNome,
		Quantidade:    numeroBSON(raw.Quantidade),
		ValorUnitario: numeroBSON(raw.ValorUnitario),
	}
	return nil
}

func referenciaProduto(candidatos ...string) string {
	for _, c := range candidatos {
		if c = strings.TrimSpace(c); c != "" {
			return c
		}
	}
	return ""
}

// numeroJSON accepts 3, 3.5, "3" and "3,5"; anything else is zero.
func numeroJSON(data json.RawMessage) float64 {
	if len(data) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return numeroTexto(s)
	}
	return 0
}

func numeroBSON(v bson.RawValue) float64 {
	if f, ok := v.DoubleOK(); ok {
		return f
	}
	if n, ok := v.Int32OK(); ok {
		return float64(n)
	}
	if n, ok := v.Int64OK(); ok {
		return float64(n)
	}
	if s, ok := v.StringValueOK(); ok {
		return numeroTexto(s)
	}
	return 0
}

func numeroTexto(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
