package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gestao-vendas/models"
)

// CreateVendaHandler records a sale with its stock and installment effects.
func (h *Handler) CreateVendaHandler(c *gin.Context) {
	// 1. Ler o corpo
	var input models.VendaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos"})
		return
	}

	ctx, cancel := h.contexto(c)
	defer cancel()

	// 2. Registrar venda, estoque e parcelas de uma vez
	venda, err := h.svc.Vendas.Criar(ctx, input)
	if err != nil {
		h.responderErro(c, err, "Erro ao registrar venda")
		return
	}

	c.JSON(http.StatusCreated, venda)
}

// GetVendasHandler lists sales; ?busca= matches code, customer or product and
// ?status= filters by status.
func (h *Handler) GetVendasHandler(c *gin.Context) {
	ctx, cancel := h.contexto(c)
	defer cancel()

	vendas, err := h.svc.Vendas.Listar(ctx, c.Query("busca"), models.StatusVenda(c.Query("status")))
	if err != nil {
		h.responderErro(c, err, "Erro ao obter vendas")
		return
	}

	c.JSON(http.StatusOK, vendas)
}

func (h *Handler) GetVendaHandler(c *gin.Context) {
	ctx, cancel := h.contexto(c)
	defer cancel()

	venda, err := h.svc.Vendas.Buscar(ctx, c.Param("id"))
	if err != nil {
		h.responderErro(c, err, "Erro ao obter venda")
		return
	}

	c.JSON(http.StatusOK, venda)
}

// UpdateVendaHandler edits a sale and reconciles stock by difference.
func (h *Handler) UpdateVendaHandler(c *gin.Context) {
	// 1. Ler o corpo
	var input models.VendaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos"})
		return
	}

	ctx, cancel := h.contexto(c)
	defer cancel()

	// 2. Atualizar e reconciliar o estoque
	venda, err := h.svc.Vendas.Atualizar(ctx, c.Param("id"), input)
	if err != nil {
		h.responderErro(c, err, "Erro ao atualizar venda")
		return
	}

	c.JSON(http.StatusOK, venda)
}

// DeleteVendaHandler removes a sale, returns its stock and drops its
// installments. Deleting an unknown sale succeeds.
func (h *Handler) DeleteVendaHandler(c *gin.Context) {
	ctx, cancel := h.contexto(c)
	defer cancel()

	if err := h.svc.Vendas.Deletar(ctx, c.Param("id")); err != nil {
		h.responderErro(c, err, "Erro ao excluir venda")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Venda excluída"})
}
