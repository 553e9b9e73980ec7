package apitest

import (
	"cmp"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/lojacontrol/internal/api"
	"github.com/nao1215/lojacontrol/internal/money"
	"github.com/nao1215/lojacontrol/internal/session"
	"github.com/nao1215/lojacontrol/pkg/middleware"
)

// orderTimeLayout は注文日時の形式。
const orderTimeLayout = "2006-01-02 15:04:05"

type registerRequest struct {
	Nome         string  `json:"nome" binding:"required,min=2,max=80"`
	Email        string  `json:"email" binding:"required,min=5,max=120"`
	Password     string  `json:"password" binding:"required,min=6,max=100"`
	SaldoInicial float64 `json:"saldo_inicial" binding:"gte=0"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,min=5,max=120"`
	Password string `json:"password" binding:"required,min=6,max=100"`
}

type productCreateRequest struct {
	Nome      string  `json:"nome" binding:"required,min=2,max=120"`
	Descricao string  `json:"descricao" binding:"max=300"`
	Preco     float64 `json:"preco" binding:"gt=0"`
}

type productUpdateRequest struct {
	Nome      *string  `json:"nome" binding:"omitempty,min=2,max=120"`
	Descricao *string  `json:"descricao" binding:"omitempty,max=300"`
	Preco     *float64 `json:"preco" binding:"omitempty,gt=0"`
}

type checkoutRequest struct {
	ProdutosIDs []int64 `json:"produtos_ids" binding:"required,min=1"`
}

type rechargeRequest struct {
	Valor float64 `json:"valor" binding:"gt=0"`
}

type siteConfigRequest struct {
	SiteName       string `json:"site_name" binding:"required,min=2,max=60"`
	Tagline        string `json:"tagline" binding:"required,min=2,max=120"`
	HeroTitle      string `json:"hero_title" binding:"required,min=2,max=80"`
	HeroSubtitle   string `json:"hero_subtitle" binding:"required,min=2,max=180"`
	AccentColor    string `json:"accent_color" binding:"required,hexcolor,len=7"`
	HighlightColor string `json:"highlight_color" binding:"required,hexcolor,len=7"`
}

// abortDetail は {"detail": "..."} 形式のエラーを返す。
func abortDetail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

// abortValidation は入力検証エラーを返す。detailは文字列ではなく配列になる。
func abortValidation(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
		"detail": []gin.H{{"loc": []string{"body"}, "msg": err.Error(), "type": "value_error"}},
	})
}

func (s *Server) getSiteConfig(c *gin.Context) {
	s.mu.Lock()
	cfg := s.site
	s.mu.Unlock()
	c.JSON(http.StatusOK, cfg)
}

func (s *Server) registerUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortValidation(c, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.findAccountLocked(req.Email); ok {
		abortDetail(c, http.StatusConflict, "Ja existe uma conta com este e-mail.")
		return
	}
	a := s.addUserLocked(strings.TrimSpace(req.Nome), req.Email, req.Password, req.SaldoInicial)
	c.JSON(http.StatusOK, gin.H{"message": "Conta criada com sucesso.", "account": s.publicAccountLocked(a)})
}

func (s *Server) login(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortValidation(c, err)
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		a, ok := s.findAccountLocked(req.Email)
		if !ok || a.Role != role || a.Password != req.Password {
			abortDetail(c, http.StatusUnauthorized, "Credenciais invalidas.")
			return
		}
		token, err := s.issueLocked(a)
		if err != nil {
			abortDetail(c, http.StatusInternalServerError, "Falha ao criar sessao.")
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "account": s.publicAccountLocked(a)})
	}
}

func (s *Server) me(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accountByIDLocked(middleware.GetAccountID(c))
	if !ok {
		abortDetail(c, http.StatusUnauthorized, "Conta nao encontrada.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": s.publicAccountLocked(a)})
}

func (s *Server) logout(c *gin.Context) {
	s.mu.Lock()
	s.revoked[middleware.GetTokenID(c)] = struct{}{}
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) shopMe(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	customer, ok := s.customerForLocked(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, api.Profile{ID: customer.ID, Nome: customer.Nome, Email: customer.Email, Saldo: customer.Saldo})
}

func (s *Server) recharge(c *gin.Context) {
	var req rechargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortValidation(c, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	customer, ok := s.customerForLocked(c)
	if !ok {
		return
	}
	customer.Saldo = money.Round(customer.Saldo + req.Valor)
	c.JSON(http.StatusOK, gin.H{"saldo": customer.Saldo})
}

func (s *Server) checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortValidation(c, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	customer, ok := s.customerForLocked(c)
	if !ok {
		return
	}

	var (
		total   float64
		invalid []string
	)
	for _, id := range req.ProdutosIDs {
		p, found := s.productLocked(id)
		if !found {
			invalid = append(invalid, strconv.FormatInt(id, 10))
			continue
		}
		total += p.Preco
	}
	if len(invalid) > 0 {
		abortDetail(c, http.StatusNotFound, fmt.Sprintf("Produto(s) invalido(s): %s.", strings.Join(invalid, ", ")))
		return
	}
	total = money.Round(total)
	if customer.Saldo < total {
		abortDetail(c, http.StatusBadRequest, fmt.Sprintf("Saldo insuficiente. Faltam R$ %.2f.", money.Round(total-customer.Saldo)))
		return
	}

	customer.Saldo = money.Round(customer.Saldo - total)
	o := order{
		ID:          int64(len(s.orders)) + 1,
		UsuarioID:   customer.ID,
		ProdutosIDs: slices.Clone(req.ProdutosIDs),
		Total:       total,
		CreatedAt:   time.Now().Format(orderTimeLayout),
	}
	s.orders = append(s.orders, o)
	c.JSON(http.StatusOK, s.orderDetailsLocked(o))
}

func (s *Server) listOwnOrders(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	customer, ok := s.customerForLocked(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.ordersLocked(func(o order) bool { return o.UsuarioID == customer.ID }))
}

func (s *Server) listAllOrders(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.ordersLocked(func(order) bool { return true }))
}

func (s *Server) summary(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := api.Summary{
		Usuarios: int64(len(s.customers)),
		Produtos: int64(len(s.products)),
		Pedidos:  int64(len(s.orders)),
	}
	for _, o := range s.orders {
		out.Faturamento += o.Total
	}
	for _, cu := range s.customers {
		out.SaldoTotal += cu.Saldo
	}
	out.Faturamento = money.Round(out.Faturamento)
	out.SaldoTotal = money.Round(out.SaldoTotal)
	c.JSON(http.StatusOK, out)
}

func (s *Server) listCustomers(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, append([]api.Customer{}, s.customers...))
}

func (s *Server) listProducts(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, append([]api.Product{}, s.products...))
}

func (s *Server) createProduct(c *gin.Context) {
	var req productCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortValidation(c, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.addProductLocked(strings.TrimSpace(req.Nome), strings.TrimSpace(req.Descricao), req.Preco))
}

func (s *Server) updateProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		abortValidation(c, err)
		return
	}
	var req productUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortValidation(c, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.products, func(p api.Product) bool { return p.ID == id })
	if i < 0 {
		abortDetail(c, http.StatusNotFound, "Produto nao encontrado.")
		return
	}
	p := &s.products[i]
	if req.Nome != nil {
		p.Nome = strings.TrimSpace(*req.Nome)
	}
	if req.Descricao != nil {
		p.Descricao = strings.TrimSpace(*req.Descricao)
	}
	if req.Preco != nil {
		p.Preco = money.Round(*req.Preco)
	}
	c.JSON(http.StatusOK, *p)
}

func (s *Server) deleteProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		abortValidation(c, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if slices.Contains(o.ProdutosIDs, id) {
			abortDetail(c, http.StatusConflict, "Nao e possivel remover produto ja vendido.")
			return
		}
	}
	i := slices.IndexFunc(s.products, func(p api.Product) bool { return p.ID == id })
	if i < 0 {
		abortDetail(c, http.StatusNotFound, "Produto nao encontrado.")
		return
	}
	removed := s.products[i]
	s.products = slices.Delete(s.products, i, i+1)
	c.JSON(http.StatusOK, removed)
}

func (s *Server) updateSiteConfig(c *gin.Context) {
	var req siteConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortValidation(c, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.site = api.SiteConfig{
		SiteName:       req.SiteName,
		Tagline:        req.Tagline,
		HeroTitle:      req.HeroTitle,
		HeroSubtitle:   req.HeroSubtitle,
		AccentColor:    req.AccentColor,
		HighlightColor: req.HighlightColor,
	}
	c.JSON(http.StatusOK, s.site)
}

// normalizeEmail は比較用にメールアドレスを正規化する。
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Server) findAccountLocked(email string) (account, bool) {
	email = normalizeEmail(email)
	for _, a := range s.accounts {
		if a.Email == email {
			return a, true
		}
	}
	return account{}, false
}

func (s *Server) accountByIDLocked(id int64) (account, bool) {
	for _, a := range s.accounts {
		if a.ID == id {
			return a, true
		}
	}
	return account{}, false
}

func (s *Server) productLocked(id int64) (api.Product, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return api.Product{}, false
}

func (s *Server) addUserLocked(nome, email, password string, saldo float64) account {
	customer := api.Customer{
		ID:    int64(len(s.customers)) + 1,
		Nome:  nome,
		Email: normalizeEmail(email),
		Saldo: money.Round(saldo),
	}
	s.customers = append(s.customers, customer)

	usuarioID := customer.ID
	a := account{
		ID:        int64(len(s.accounts)) + 1,
		Nome:      nome,
		Email:     customer.Email,
		Role:      "user",
		UsuarioID: &usuarioID,
		Password:  password,
	}
	s.accounts = append(s.accounts, a)
	return a
}

func (s *Server) addProductLocked(nome, descricao string, preco float64) api.Product {
	var next int64 = 1
	if len(s.products) > 0 {
		next = slices.MaxFunc(s.products, func(a, b api.Product) int { return cmp.Compare(a.ID, b.ID) }).ID + 1
	}
	p := api.Product{ID: next, Nome: nome, Descricao: descricao, Preco: money.Round(preco)}
	s.products = append(s.products, p)
	return p
}

// customerForLocked はログイン中の購入者のプロフィールを返す。
// 見つからない場合はエラー応答を書き込んでfalseを返す。
func (s *Server) customerForLocked(c *gin.Context) (*api.Customer, bool) {
	a, ok := s.accountByIDLocked(middleware.GetAccountID(c))
	if !ok {
		abortDetail(c, http.StatusUnauthorized, "Conta nao encontrada.")
		return nil, false
	}
	if a.UsuarioID == nil {
		abortDetail(c, http.StatusBadRequest, "Conta sem perfil vinculado.")
		return nil, false
	}
	for i := range s.customers {
		if s.customers[i].ID == *a.UsuarioID {
			return &s.customers[i], true
		}
	}
	abortDetail(c, http.StatusNotFound, "Perfil de usuario nao encontrado.")
	return nil, false
}

func (s *Server) publicAccountLocked(a account) session.Account {
	out := session.Account{ID: a.ID, Nome: a.Nome, Email: a.Email, Role: session.Role(a.Role)}
	if a.Role == "user" && a.UsuarioID != nil {
		for _, cu := range s.customers {
			if cu.ID == *a.UsuarioID {
				id := cu.ID
				out.UsuarioID = &id
				out.Saldo = cu.Saldo
				break
			}
		}
	}
	return out
}

func (s *Server) orderDetailsLocked(o order) api.Order {
	out := api.Order{
		ID:          o.ID,
		UsuarioID:   o.UsuarioID,
		UsuarioNome: "Desconhecido",
		ProdutosIDs: slices.Clone(o.ProdutosIDs),
		Produtos:    []api.OrderProduct{},
		Total:       o.Total,
		CreatedAt:   o.CreatedAt,
	}
	for _, id := range o.ProdutosIDs {
		if p, ok := s.productLocked(id); ok {
			out.Produtos = append(out.Produtos, api.OrderProduct{ID: p.ID, Nome: p.Nome, Preco: p.Preco})
		}
	}
	for _, cu := range s.customers {
		if cu.ID == o.UsuarioID {
			out.UsuarioNome = cu.Nome
			break
		}
	}
	return out
}

// ordersLocked は条件に合う注文を新しい順に返す。
func (s *Server) ordersLocked(keep func(order) bool) []api.Order {
	out := []api.Order{}
	for _, o := range s.orders {
		if keep(o) {
			out = append(out, s.orderDetailsLocked(o))
		}
	}
	slices.SortFunc(out, func(a, b api.Order) int { return cmp.Compare(b.ID, a.ID) })
	return out
}
