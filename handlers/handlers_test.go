package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gestao-vendas/database"
	"gestao-vendas/middleware"
	"gestao-vendas/models"
	"gestao-vendas/services"
	"gestao-vendas/store"
)

type api struct {
	router *gin.Engine
	store  *store.MemoryStore
	token  string
}

func novaAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.LoadSecret("segredo-de-teste", false)

	st := store.NewMemoryStore()
	agora := time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC)
	svc := services.New(st, services.Config{
		Location: time.UTC,
		Now:      func() time.Time { return agora },
		Codigo:   func() string { return "12345" },
	})

	router := gin.New()
	router.Use(middleware.RequestID())
	New(svc, st, nil, time.Second, "admin-secret").Register(router)

	token, err := middleware.NewToken(primitive.NewObjectID().Hex(), time.Hour)
	require.NoError(t, err)
	return &api{router: router, store: st, token: token}
}

func (a *api) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.token)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (a *api) criarProduto(t *testing.T, nome string, qtd float64) models.Produto {
	t.Helper()
	w := a.do(t, http.MethodPost, "/produtos", gin.H{"nome": nome, "quantidade": qtd, "precoVenda": 10})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Produto](t, w)
}

func (a *api) quantidade(t *testing.T, id string) float64 {
	t.Helper()
	w := a.do(t, http.MethodGet, "/produtos/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	return decode[models.Produto](t, w).Quantidade
}

func TestHealth(t *testing.T) {
	a := novaAPI(t)
	w := a.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestRotasExigemToken(t *testing.T) {
	a := novaAPI(t)
	a.token = ""
	for _, path := range []string{"/vendas", "/produtos", "/financeiro/parcelas", "/clientes"} {
		w := a.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	a.token = "lixo"
	w := a.do(t, http.MethodGet, "/vendas", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCicloDeVidaDaVenda(t *testing.T) {
	a := novaAPI(t)
	p := a.criarProduto(t, "Arroz", 10)

	// legacy clients send produtoId and numbers as strings
	body := `{"clienteNome":"Maria","dataVenda":"2025-05-14","formaPagamento":"dinheiro","desconto":1,
		"itens":[{"produtoId":"` + p.ID + `","produtoNome":"Arroz","quantidade":"3","valorUnitario":"2,50"}]}`
	w := a.do(t, http.MethodPost, "/vendas", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	venda := decode[models.Venda](t, w)
	assert.Equal(t, "12345", venda.CodigoVenda)
	assert.Equal(t, 6.5, venda.ValorTotal)
	require.Len(t, venda.Itens, 1)
	assert.Equal(t, p.ID, venda.Itens[0].Produto)
	assert.Equal(t, 7.0, a.quantidade(t, p.ID))

	w = a.do(t, http.MethodGet, "/vendas/"+venda.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Maria", decode[models.Venda](t, w).ClienteNome)

	w = a.do(t, http.MethodGet, "/vendas?busca=mar", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Venda](t, w), 1)

	w = a.do(t, http.MethodGet, "/vendas?status=cancelada", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]models.Venda](t, w))

	w = a.do(t, http.MethodPut, "/vendas/"+venda.ID, gin.H{
		"itens":  []gin.H{{"produto": p.ID, "quantidade": 1, "valorUnitario": 2.5}},
		"versao": 1,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, int64(2), decode[models.Venda](t, w).Versao)
	assert.Equal(t, 9.0, a.quantidade(t, p.ID))

	// stale version
	w = a.do(t, http.MethodPut, "/vendas/"+venda.ID, gin.H{"status": "concluida", "versao": 1})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(t, http.MethodDelete, "/vendas/"+venda.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10.0, a.quantidade(t, p.ID))

	w = a.do(t, http.MethodGet, "/vendas/"+venda.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Venda não encontrada", decode[map[string]any](t, w)["error"])

	w = a.do(t, http.MethodDelete, "/vendas/"+venda.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code, "deleting twice is fine")
}

func TestCriarVendaInvalida(t *testing.T) {
	a := novaAPI(t)

	w := a.do(t, http.MethodPost, "/vendas", `{"itens":[{"produto":"x","quantidade":-1}],"status":"sumiu"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Campos map[string]string `json:"campos"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "required", resp.Campos["dataVenda"])
	assert.Equal(t, "oneof", resp.Campos["status"])
	assert.Equal(t, "gte", resp.Campos["itens[0].quantidade"])

	w = a.do(t, http.MethodPost, "/vendas", `{"itens":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, 0, a.store.Count(database.VendasCollection))
}

func TestAtualizarVendaInexistente(t *testing.T) {
	a := novaAPI(t)
	w := a.do(t, http.MethodPut, "/vendas/nada", gin.H{"status": "concluida"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestParcelasDaVenda(t *testing.T) {
	a := novaAPI(t)
	p := a.criarProduto(t, "Sofá", 2)

	w := a.do(t, http.MethodPost, "/vendas", gin.H{
		"dataVenda":    "2025-05-15",
		"status":       "parcelado",
		"itens":        []gin.H{{"produto": p.ID, "quantidade": 1, "valorUnitario": 900}},
		"parcelamento": gin.H{"numeroParcelas": 3, "diaVencimento": 20, "valorParcela": 300},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	venda := decode[models.Venda](t, w)

	w = a.do(t, http.MethodGet, "/financeiro/parcelas?vendaId="+venda.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	parcelas := decode[[]models.ContaReceber](t, w)
	require.Len(t, parcelas, 3)
	assert.Equal(t, models.ParcelaPaga, parcelas[0].Status)

	w = a.do(t, http.MethodGet, "/financeiro/parcelas?status=pendente", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.ContaReceber](t, w), 2)

	w = a.do(t, http.MethodPatch, "/financeiro/parcelas/"+parcelas[1].ID+"/pagamento", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ParcelaPaga, decode[models.ContaReceber](t, w).Status)

	w = a.do(t, http.MethodPatch, "/financeiro/parcelas/nada/pagamento", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(t, http.MethodDelete, "/vendas/"+venda.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, a.store.Count(database.ContasReceberCollection))
}

func TestProdutos(t *testing.T) {
	a := novaAPI(t)
	p := a.criarProduto(t, "Milho", 5)

	w := a.do(t, http.MethodPost, "/produtos/"+p.ID+"/ajuste", gin.H{"quantidade": -2, "motivo": "quebra"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 3.0, decode[models.Produto](t, w).Quantidade)

	w = a.do(t, http.MethodPost, "/produtos/"+p.ID+"/ajuste", gin.H{"quantidade": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = a.do(t, http.MethodGet, "/produtos/"+p.ID+"/movimentacoes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.MovimentacaoEstoque](t, w), 2)

	w = a.do(t, http.MethodPut, "/produtos/"+p.ID, gin.H{"precoVenda": 12.5})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 12.5, decode[models.Produto](t, w).PrecoVenda)

	w = a.do(t, http.MethodGet, "/produtos", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Produto](t, w), 1)

	w = a.do(t, http.MethodDelete, "/produtos/"+p.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = a.do(t, http.MethodGet, "/produtos/"+p.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// a sale on a product that no longer exists is rejected as a whole
	w = a.do(t, http.MethodPost, "/vendas", gin.H{
		"dataVenda": "2025-05-15",
		"itens":     []gin.H{{"produto": p.ID, "quantidade": 1, "valorUnitario": 1}},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 0, a.store.Count(database.VendasCollection))
}

func TestClientes(t *testing.T) {
	a := novaAPI(t)

	w := a.do(t, http.MethodPost, "/clientes", gin.H{"nome": "Paula", "email": "não-é-email"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = a.do(t, http.MethodPost, "/clientes", gin.H{"nome": "Paula", "telefone": "11 99999-0000"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	cliente := decode[models.Cliente](t, w)

	w = a.do(t, http.MethodGet, "/clientes/"+cliente.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Paula", decode[models.Cliente](t, w).Nome)

	w = a.do(t, http.MethodGet, "/clientes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Cliente](t, w), 1)

	w = a.do(t, http.MethodGet, "/clientes/nada", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAutenticacao(t *testing.T) {
	a := novaAPI(t)
	novo := gin.H{"email": "Dona@Loja.com", "password": "s3nha", "username": "dona"}

	w := a.do(t, http.MethodPost, "/admin/create-user", novo, "X-Admin-Secret", "errado")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(t, http.MethodPost, "/admin/create-user", novo, "X-Admin-Secret", "admin-secret")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(t, http.MethodPost, "/admin/create-user", novo, "X-Admin-Secret", "admin-secret")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(t, http.MethodPost, "/login", gin.H{"email": "dona@loja.com", "password": "errada"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(t, http.MethodPost, "/login", gin.H{"email": "dona@loja.com", "password": "s3nha"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, strings.HasPrefix(w.Header().Get("Set-Cookie"), "token="))
	login := decode[map[string]string](t, w)
	require.NotEmpty(t, login["token"])

	a.token = login["token"]
	w = a.do(t, http.MethodGet, "/auth/me", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var me struct {
		User models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "dona@loja.com", me.User.Email)
	assert.Empty(t, me.User.Password)
	assert.Equal(t, "pt", me.User.Language)

	w = a.do(t, http.MethodPost, "/logout", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
