package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"gestao-vendas/database"
	"gestao-vendas/middleware"
	"gestao-vendas/models"
	"gestao-vendas/store"
)

func (h *Handler) LoginHandler(c *gin.Context) {
	// 1. Ler credenciais
	var creds struct {
		Email      string `json:"email"`
		Password   string `json:"password"`
		RememberMe bool   `json:"rememberMe"`
	}
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos"})
		return
	}

	ctx, cancel := h.contexto(c)
	defer cancel()

	expiration := 24 * time.Hour
	if creds.RememberMe {
		expiration = 30 * 24 * time.Hour
	}

	// 2. Buscar usuário e conferir a senha
	user, err := h.usuarioPorEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Credenciais inválidas"})
			return
		}
		h.responderErro(c, err, "Erro ao autenticar")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Credenciais inválidas"})
		return
	}

	// 3. Emitir token e cookie
	tokenString, err := middleware.NewToken(user.ID, expiration)
	if err != nil {
		h.responderErro(c, err, "Erro ao gerar sessão")
		return
	}

	middleware.SetAuthCookie(c, tokenString, expiration)
	c.JSON(http.StatusOK, gin.H{"message": "Login realizado", "token": tokenString})
}

func (h *Handler) LogoutHandler(c *gin.Context) {
	middleware.ClearAuthCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Sessão encerrada"})
}

func (h *Handler) AuthMeHandler(c *gin.Context) {
	tokenString := middleware.TokenFromRequest(c)
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Usuário não autenticado"})
		return
	}

	userID, err := middleware.ParseToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token inválido ou expirado"})
		return
	}

	ctx, cancel := h.contexto(c)
	defer cancel()

	user, err := store.GetAs[models.User](ctx, h.store, database.UsersCollection, userID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Usuário não encontrado"})
		return
	}
	if err != nil {
		h.responderErro(c, err, "Erro ao obter usuário")
		return
	}

	user.Password = ""
	c.JSON(http.StatusOK, gin.H{"status": "ok", "user": user})
}

// AdminCreateUserHandler registers a user. It is guarded by the
// X-Admin-Secret header instead of a session.
func (h *Handler) AdminCreateUserHandler(c *gin.Context) {
	if h.adminSecret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Servidor sem ADMIN_SECRET_KEY configurada"})
		return
	}
	if c.GetHeader("X-Admin-Secret") != h.adminSecret {
		c.JSON(http.StatusForbidden, gin.H{"error": "Acesso negado"})
		return
	}

	// 1. Validar dados
	var user models.User
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos"})
		return
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Email == "" || user.Password == "" || user.Username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email, usuário e senha são obrigatórios"})
		return
	}

	ctx, cancel := h.contexto(c)
	defer cancel()

	// 2. Email único
	if _, err := h.usuarioPorEmail(ctx, user.Email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email já cadastrado"})
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		h.responderErro(c, err, "Erro ao registrar usuário")
		return
	}

	// 3. Salvar com senha criptografada
	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		h.responderErro(c, err, "Erro ao processar senha")
		return
	}
	user.ID = h.store.NewID()
	user.Password = string(hash)
	if user.Theme == "" {
		user.Theme = "light"
	}
	if user.Language == "" {
		user.Language = "pt"
	}

	b := h.store.NewBatch()
	b.Set(database.UsersCollection, user.ID, user)
	if err := b.Commit(ctx); err != nil {
		h.responderErro(c, err, "Erro ao registrar usuário")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Usuário criado", "userId": user.ID})
}

func (h *Handler) usuarioPorEmail(ctx context.Context, email string) (models.User, error) {
	users, err := store.FindAs[models.User](ctx, h.store, database.UsersCollection, store.Query{
		Filter: bson.M{"email": strings.ToLower(strings.TrimSpace(email))},
	})
	if err != nil {
		return models.User{}, err
	}
	if len(users) == 0 {
		return models.User{}, store.ErrNotFound
	}
	return users[0], nil
}
