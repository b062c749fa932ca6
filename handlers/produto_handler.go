package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gestao-vendas/models"
	"gestao-vendas/services"
)

func (h *Handler) GetProdutosHandler(c *gin.Context) {
	ctx, cancel := h.contexto(c)
	defer cancel()

	produtos, err := h.svc.Estoque.Listar(ctx)
	if err != nil {
		h.responderErro(c, err, "Erro ao obter produtos")
		return
	}

	c.JSON(http.StatusOK, produtos)
}

func (h *Handler) GetProdutoHandler(c *gin.Context) {
	ctx, cancel := h.contexto(c)
	defer cancel()

	produto, err := h.svc.Estoque.Buscar(ctx, c.Param("id"))
	if err != nil {
		h.responderErro(c, err, "Erro ao obter produto")
		return
	}

	c.JSON(http.StatusOK, produto)
}

// CreateProdutoHandler inserts a product; a starting quantity is logged as
// an inbound movement.
func (h *Handler) CreateProdutoHandler(c *gin.Context) {
	var input models.Produto
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos"})
		return
	}

	ctx, cancel := h.contexto(c)
	defer cancel()

	produto, err := h.svc.Estoque.Criar(ctx, input)
	if err != nil {
		h.responderErro(c, err, "Erro ao criar produto")
		return
	}

	c.JSON(http.StatusCreated, produto)
}

func (h *Handler) UpdateProdutoHandler(c *gin.Context) {
	var input services.ProdutoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos"})
		return
	}

	ctx, cancel := h.contexto(c)
	defer cancel()

	produto, err := h.svc.Estoque.Atualizar(ctx, c.Param("id"), input)
	if err != nil {
		h.responderErro(c, err, "Erro ao atualizar produto")
		return
	}

	c.JSON(http.StatusOK, produto)
}

func (h *Handler) DeleteProdutoHandler(c *gin.Context) {
	ctx, cancel := h.contexto(c)
	defer cancel()

	if err := h.svc.Estoque.Remover(ctx, c.Param("id")); err != nil {
		h.responderErro(c, err, "Erro ao remover produto")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Produto removido"})
}

// AjusteEstoqueHandler applies a manual signed correction, e.g. loss or
// inventory count.
func (h *Handler) AjusteEstoqueHandler(c *gin.Context) {
	var input struct {
		Quantidade float64 `json:"quantidade"`
		Motivo     string  `json:"motivo"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos"})
		return
	}

	ctx, cancel := h.contexto(c)
	defer cancel()

	produto, err := h.svc.Estoque.Ajustar(ctx, c.Param("id"), input.Quantidade, input.Motivo)
	if err != nil {
		h.responderErro(c, err, "Erro ao ajustar estoque")
		return
	}

	c.JSON(http.StatusOK, produto)
}

func (h *Handler) GetMovimentacoesHandler(c *gin.Context) {
	ctx, cancel := h.contexto(c)
	defer cancel()

	movs, err := h.svc.Estoque.Movimentacoes(ctx, c.Param("id"))
	if err != nil {
		h.responderErro(c, err, "Erro ao obter movimentações")
		return
	}

	c.JSON(http.StatusOK, movs)
}
