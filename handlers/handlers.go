package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gestao-vendas/services"
	"gestao-vendas/store"
)

// Handler serves the HTTP API on top of the services.
type Handler struct {
	svc         *services.Services
	store       store.Store
	log         *zap.Logger
	timeout     time.Duration
	adminSecret string
}

func New(svc *services.Services, st store.Store, log *zap.Logger, timeout time.Duration, adminSecret string) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Handler{svc: svc, store: st, log: log, timeout: timeout, adminSecret: adminSecret}
}

func (h *Handler) contexto(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

// responderErro maps service errors to status codes. mensagem is what the
// client sees for unexpected failures; the cause only goes to the log.
func (h *Handler) responderErro(c *gin.Context, err error, mensagem string) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Dados inválidos", "campos": ve.Campos})

	case errors.Is(err, services.ErrVendaNaoEncontrada),
		errors.Is(err, services.ErrProdutoNaoEncontrado),
		errors.Is(err, services.ErrParcelaNaoEncontrada),
		errors.Is(err, services.ErrClienteNaoEncontrado):
		c.JSON(http.StatusNotFound, gin.H{"error": capitalizar(err.Error())})

	case errors.Is(err, store.ErrNotFound):
		// an update touched a document that is gone, usually a deleted product
		c.JSON(http.StatusNotFound, gin.H{"error": "Registro referenciado não encontrado"})

	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Registro alterado por outra operação, recarregue e tente novamente"})

	case errors.Is(err, context.DeadlineExceeded):
		h.log.Warn(mensagem, zap.Error(err), zap.String("requestId", c.GetString("requestId")))
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Tempo de resposta esgotado"})

	default:
		h.log.Error(mensagem, zap.Error(err), zap.String("requestId", c.GetString("requestId")))
		c.JSON(http.StatusInternalServerError, gin.H{"error": mensagem})
	}
}

func capitalizar(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
