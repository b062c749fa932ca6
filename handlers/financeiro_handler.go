package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gestao-vendas/models"
	"gestao-vendas/services"
)

// GetParcelasHandler lists receivables ordered by due date, optionally
// narrowed by ?vendaId= and ?status=.
func (h *Handler) GetParcelasHandler(c *gin.Context) {
	ctx, cancel := h.contexto(c)
	defer cancel()

	parcelas, err := h.svc.Financeiro.Listar(ctx, services.FiltroParcelas{
		VendaID: c.Query("vendaId"),
		Status:  models.StatusParcela(c.Query("status")),
	})
	if err != nil {
		h.responderErro(c, err, "Erro ao obter parcelas")
		return
	}

	c.JSON(http.StatusOK, parcelas)
}

// PagamentoParcelaHandler toggles an installment between pago and pendente.
func (h *Handler) PagamentoParcelaHandler(c *gin.Context) {
	ctx, cancel := h.contexto(c)
	defer cancel()

	parcela, err := h.svc.Financeiro.AlternarPagamento(ctx, c.Param("id"))
	if err != nil {
		h.responderErro(c, err, "Erro ao registrar pagamento")
		return
	}

	c.JSON(http.StatusOK, parcela)
}
