package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gestao-vendas/models"
)

func (h *Handler) GetClientesHandler(c *gin.Context) {
	ctx, cancel := h.contexto(c)
	defer cancel()

	clientes, err := h.svc.Clientes.Listar(ctx)
	if err != nil {
		h.responderErro(c, err, "Erro ao obter clientes")
		return
	}

	c.JSON(http.StatusOK, clientes)
}

func (h *Handler) GetClienteHandler(c *gin.Context) {
	ctx, cancel := h.contexto(c)
	defer cancel()

	cliente, err := h.svc.Clientes.Buscar(ctx, c.Param("id"))
	if err != nil {
		h.responderErro(c, err, "Erro ao obter cliente")
		return
	}

	c.JSON(http.StatusOK, cliente)
}

func (h *Handler) CreateClienteHandler(c *gin.Context) {
	var input models.Cliente
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos"})
		return
	}

	ctx, cancel := h.contexto(c)
	defer cancel()

	cliente, err := h.svc.Clientes.Criar(ctx, input)
	if err != nil {
		h.responderErro(c, err, "Erro ao cadastrar cliente")
		return
	}

	c.JSON(http.StatusCreated, cliente)
}
