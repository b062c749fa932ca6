package handlers

import (
	"github.com/gin-gonic/gin"

	"gestao-vendas/middleware"
)

// Register mounts every route on r. Business routes require a session.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/health", h.Health)

	r.POST("/login", h.LoginHandler)
	r.POST("/logout", h.LogoutHandler)
	r.GET("/auth/me", h.AuthMeHandler)
	r.POST("/admin/create-user", h.AdminCreateUserHandler)

	vendasGroup := r.Group("/vendas")
	vendasGroup.Use(middleware.AuthMiddleware())
	{
		vendasGroup.GET("", h.GetVendasHandler)
		vendasGroup.POST("", h.CreateVendaHandler)
		vendasGroup.GET("/:id", h.GetVendaHandler)
		vendasGroup.PUT("/:id", h.UpdateVendaHandler)
		vendasGroup.DELETE("/:id", h.DeleteVendaHandler)
	}

	produtosGroup := r.Group("/produtos")
	produtosGroup.Use(middleware.AuthMiddleware())
	{
		produtosGroup.GET("", h.GetProdutosHandler)
		produtosGroup.POST("", h.CreateProdutoHandler)
		produtosGroup.GET("/:id", h.GetProdutoHandler)
		produtosGroup.PUT("/:id", h.UpdateProdutoHandler)
		produtosGroup.DELETE("/:id", h.DeleteProdutoHandler)
		produtosGroup.POST("/:id/ajuste", h.AjusteEstoqueHandler)
		produtosGroup.GET("/:id/movimentacoes", h.GetMovimentacoesHandler)
	}

	financeiroGroup := r.Group("/financeiro")
	financeiroGroup.Use(middleware.AuthMiddleware())
	{
		financeiroGroup.GET("/parcelas", h.GetParcelasHandler)
		financeiroGroup.PATCH("/parcelas/:id/pagamento", h.PagamentoParcelaHandler)
	}

	clientesGroup := r.Group("/clientes")
	clientesGroup.Use(middleware.AuthMiddleware())
	{
		clientesGroup.GET("", h.GetClientesHandler)
		clientesGroup.POST("", h.CreateClienteHandler)
		clientesGroup.GET("/:id", h.GetClienteHandler)
	}
}
