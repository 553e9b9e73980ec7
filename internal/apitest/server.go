// Package apitest はストアAPIの契約を満たすインメモリのスタブサーバーを提供する。
//
// コンソールのテストと `lojacontrol stub` コマンドで使う。
// 受け取ったリクエストを記録し、特定のエンドポイントに任意の応答を返させることができる。
package apitest

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/nao1215/lojacontrol/internal/api"
	"github.com/nao1215/lojacontrol/pkg/middleware"
)

// 初期状態で登録されている管理者アカウント。
const (
	AdminEmail    = "admin@lojacontrol.local"
	AdminPassword = "admin123"
	AdminName     = "Administrador"
)

// defaultSecret はトークン署名に使うシークレットの既定値。
const defaultSecret = "lojacontrol-stub-secret"

// defaultTokenTTL はトークンの有効期間の既定値。
const defaultTokenTTL = 8 * time.Hour

// Call はスタブが受け取った1件のリクエスト。
type Call struct {
	// Method はHTTPメソッド。
	Method string
	// Path はリクエストパス。
	Path string
	// Authorization はAuthorizationヘッダーの値。
	Authorization string
	// ContentType はContent-Typeヘッダーの値。
	ContentType string
	// RequestID はX-Request-IDヘッダーの値。
	RequestID string
	// Body はリクエストボディ。
	Body string
}

// Fault はエンドポイントに返させる固定の応答。
type Fault struct {
	// Status はHTTPステータスコード。
	Status int
	// Body はそのまま返すボディ。空でもJSONでなくてもよい。
	Body string
}

// account はログインできるアカウント。
type account struct {
	ID        int64
	Nome      string
	Email     string
	Role      string
	UsuarioID *int64
	Password  string
}

// order は保存されている注文。
type order struct {
	ID          int64
	UsuarioID   int64
	ProdutosIDs []int64
	Total       float64
	CreatedAt   string
}

// Server はストアAPIのスタブ。
type Server struct {
	engine *gin.Engine
	logger *zap.Logger
	secret string
	ttl    time.Duration

	mu        sync.Mutex
	accounts  []account
	customers []api.Customer
	products  []api.Product
	orders    []order
	site      api.SiteConfig
	revoked   map[string]struct{}
	issued    []string
	calls     []Call
	faults    map[string]Fault
}

// Option はServerの生成時設定を変更する関数。
type Option func(*Server)

// WithLogger はパニック時などのログ出力先を設定する。
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTokenTTL は発行するトークンの有効期間を設定する。
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Server) {
		s.ttl = ttl
	}
}

// WithSecret はトークン署名のシークレットを設定する。
func WithSecret(secret string) Option {
	return func(s *Server) {
		if secret != "" {
			s.secret = secret
		}
	}
}

// New は管理者アカウントだけが登録されたスタブを生成する。
func New(opts ...Option) *Server {
	s := &Server{
		logger:  zap.NewNop(),
		secret:  defaultSecret,
		ttl:     defaultTokenTTL,
		revoked: make(map[string]struct{}),
		faults:  make(map[string]Fault),
		site:    api.SiteConfig{}.WithDefaults(),
		accounts: []account{
			{ID: 1, Nome: AdminName, Email: AdminEmail, Role: "admin", Password: AdminPassword},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = s.routes()
	return s
}

// Handler はスタブのHTTPハンドラを返す。
func (s *Server) Handler() http.Handler {
	return s.engine
}

// AddProduct は商品を登録する。
func (s *Server) AddProduct(nome, descricao string, preco float64) api.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addProductLocked(nome, descricao, preco)
}

// AddUser は購入者アカウントを登録し、アカウントIDを返す。
func (s *Server) AddUser(nome, email, password string, saldo float64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(nome, email, password, saldo).ID
}

// TokenFor はメールアドレスのアカウントのトークンを発行する。
func (s *Server) TokenFor(email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.findAccountLocked(email)
	if !ok {
		return "", fmt.Errorf("アカウントが存在しない: %s", email)
	}
	return s.issueLocked(a)
}

// issueLocked はアカウントのトークンを発行し、トークンIDを記録する。
func (s *Server) issueLocked(a account) (string, error) {
	token, err := middleware.IssueToken(s.secret, a.ID, a.Role, s.ttl)
	if err != nil {
		return "", err
	}
	claims := &middleware.Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("発行したトークンの読み取りに失敗: %w", err)
	}
	s.issued = append(s.issued, claims.ID)
	return token, nil
}

// RevokeAll は発行済みのトークンをすべて無効にする。
func (s *Server) RevokeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.issued {
		s.revoked[id] = struct{}{}
	}
}

// Fail はmethodとpathへのリクエストにfaultを返させる。
func (s *Server) Fail(method, path string, fault Fault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[method+" "+path] = fault
}

// ClearFaults はFailで設定した応答をすべて消す。
func (s *Server) ClearFaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.faults)
}

// Calls は受け取ったリクエストを順に返す。
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallsTo はmethodとpathへのリクエスト数を返す。
func (s *Server) CallsTo(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

// ResetCalls は記録したリクエストを消す。
func (s *Server) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

// routes はエンドポイントを登録したGinエンジンを生成する。
func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Recovery(s.logger), middleware.CORS([]string{"*"}), s.record, s.inject)

	authed := middleware.JWTAuth(s.secret, s.isRevoked)

	r.GET("/site-config", s.getSiteConfig)

	auth := r.Group("/auth")
	auth.POST("/register-user", s.registerUser)
	auth.POST("/login-user", s.login("user"))
	auth.POST("/login-admin", s.login("admin"))
	auth.GET("/me", authed, s.me)
	auth.POST("/logout", authed, s.logout)

	r.GET("/shop/produtos", s.listProducts)
	shop := r.Group("/shop", authed, middleware.RequireRole("user", "Acesso restrito a usuarios."))
	shop.GET("/me", s.shopMe)
	shop.POST("/recarga", s.recharge)
	shop.GET("/pedidos", s.listOwnOrders)
	shop.POST("/pedidos", s.checkout)

	admin := r.Group("/admin", authed, middleware.RequireRole("admin", "Acesso restrito a administradores."))
	admin.GET("/resumo", s.summary)
	admin.GET("/usuarios", s.listCustomers)
	admin.GET("/produtos", s.listProducts)
	admin.POST("/produtos", s.createProduct)
	admin.PATCH("/produtos/:id", s.updateProduct)
	admin.DELETE("/produtos/:id", s.deleteProduct)
	admin.GET("/pedidos", s.listAllOrders)
	admin.GET("/site-config", s.getSiteConfig)
	admin.PATCH("/site-config", s.updateSiteConfig)

	return r
}

// record はリクエストを記録するミドルウェア。
func (s *Server) record(c *gin.Context) {
	var body []byte
	if c.Request.Body != nil {
		body, _ = io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
	}
	call := Call{
		Method:        c.Request.Method,
		Path:          c.Request.URL.Path,
		Authorization: c.GetHeader("Authorization"),
		ContentType:   c.GetHeader("Content-Type"),
		RequestID:     c.GetHeader("X-Request-ID"),
		Body:          string(body),
	}
	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()
	c.Next()
}

// inject はFailで設定した応答を返すミドルウェア。
func (s *Server) inject(c *gin.Context) {
	s.mu.Lock()
	fault, ok := s.faults[c.Request.Method+" "+c.Request.URL.Path]
	s.mu.Unlock()
	if !ok {
		c.Next()
		return
	}
	c.Data(fault.Status, "application/json", []byte(fault.Body))
	c.Abort()
}

// isRevoked はトークンIDが無効化されているかを返す。
func (s *Server) isRevoked(tokenID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[tokenID]
	return ok
}
