package services

import (
	"github.com/shopspring/decimal"

	"gestao-vendas/models"
)

// Round2 rounds x to 2 decimal places.
func Round2(x float64) float64 {
	return decimal.NewFromFloat(x).Round(2).InexactFloat64()
}

// CalcularTotal returns round(round(sum(qty*price), 2) - desconto, 2).
// A discount larger than the subtotal is not clamped.
func CalcularTotal(itens []models.ItemVenda, desconto float64) float64 {
	subtotal := decimal.Zero
	for _, item := range itens {
		subtotal = subtotal.Add(decimal.NewFromFloat(item.Quantidade).Mul(decimal.NewFromFloat(item.ValorUnitario)))
	}
	return subtotal.Round(2).Sub(decimal.NewFromFloat(desconto)).Round(2).InexactFloat64()
}
