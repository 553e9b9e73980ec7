package api

import "github.com/nao1215/lojacontrol/internal/session"

// Credentials はログインAPIのリクエストボディ。
type Credentials struct {
	// Email はメールアドレス。
	Email string `json:"email"`
	// Password はパスワード。
	Password string `json:"password"`
}

// Registration は購入者登録APIのリクエストボディ。
type Registration struct {
	// Nome は表示名。
	Nome string `json:"nome"`
	// Email はメールアドレス。
	Email string `json:"email"`
	// Password はパスワード。
	Password string `json:"password"`
	// SaldoInicial は初期残高。
	SaldoInicial float64 `json:"saldo_inicial"`
}

// LoginResult はログインAPIのレスポンス。
type LoginResult struct {
	// Token はセッショントークン。
	Token string `json:"token"`
	// Account はログインしたアカウント。
	Account session.Account `json:"account"`
}

// meResponse は /auth/me のレスポンス。
type meResponse struct {
	Account *session.Account `json:"account"`
}

// Product は商品。
type Product struct {
	// ID は商品ID。
	ID int64 `json:"id"`
	// Nome は商品名。
	Nome string `json:"nome"`
	// Descricao は説明。
	Descricao string `json:"descricao"`
	// Preco は価格。
	Preco float64 `json:"preco"`
}

// ProductInput は商品作成・更新APIのリクエストボディ。
type ProductInput struct {
	// Nome は商品名。
	Nome string `json:"nome"`
	// Descricao は説明。
	Descricao string `json:"descricao"`
	// Preco は価格。
	Preco float64 `json:"preco"`
}

// OrderProduct は注文に含まれる商品。
type OrderProduct struct {
	// ID は商品ID。
	ID int64 `json:"id"`
	// Nome は商品名。
	Nome string `json:"nome"`
	// Preco は価格。
	Preco float64 `json:"preco"`
}

// Order は注文。
type Order struct {
	// ID は注文ID。
	ID int64 `json:"id"`
	// UsuarioID は購入者のID。
	UsuarioID int64 `json:"usuario_id"`
	// UsuarioNome は購入者の名前。
	UsuarioNome string `json:"usuario_nome"`
	// ProdutosIDs は購入した商品IDの列。
	ProdutosIDs []int64 `json:"produtos_ids"`
	// Produtos は購入した商品。
	Produtos []OrderProduct `json:"produtos"`
	// Total は合計金額。
	Total float64 `json:"total"`
	// CreatedAt は注文日時（"2006-01-02 15:04:05"）。
	CreatedAt string `json:"created_at"`
}

// ItemNames は商品名をカンマ区切りで返す。商品がない場合は "Sem itens"。
func (o Order) ItemNames() string {
	if len(o.Produtos) == 0 {
		return "Sem itens"
	}
	names := ""
	for i, p := range o.Produtos {
		if i > 0 {
			names += ", "
		}
		names += p.Nome
	}
	return names
}

// Customer は管理画面に表示する購入者。
type Customer struct {
	// ID は購入者ID。
	ID int64 `json:"id"`
	// Nome は表示名。
	Nome string `json:"nome"`
	// Email はメールアドレス。
	Email string `json:"email"`
	// Saldo は残高。
	Saldo float64 `json:"saldo"`
}

// Summary は管理ダッシュボードの集計値。
type Summary struct {
	// Usuarios は購入者数。
	Usuarios int64 `json:"usuarios"`
	// Produtos は商品数。
	Produtos int64 `json:"produtos"`
	// Pedidos は注文数。
	Pedidos int64 `json:"pedidos"`
	// Faturamento は売上合計。
	Faturamento float64 `json:"faturamento"`
	// SaldoTotal は購入者の残高合計。
	SaldoTotal float64 `json:"saldo_total"`
}

// Profile は購入者自身のプロフィール。
type Profile struct {
	// ID は購入者ID。
	ID int64 `json:"id"`
	// Nome は表示名。
	Nome string `json:"nome"`
	// Email はメールアドレス。
	Email string `json:"email"`
	// Saldo は残高。
	Saldo float64 `json:"saldo"`
}

// SiteConfig はストアの見た目の設定。
type SiteConfig struct {
	// SiteName はサイト名。
	SiteName string `json:"site_name"`
	// Tagline はキャッチコピー。
	Tagline string `json:"tagline"`
	// HeroTitle はカタログの見出し。
	HeroTitle string `json:"hero_title"`
	// HeroSubtitle はカタログの副見出し。
	HeroSubtitle string `json:"hero_subtitle"`
	// AccentColor はアクセント色（#RRGGBB）。
	AccentColor string `json:"accent_color"`
	// HighlightColor は強調色（#RRGGBB）。
	HighlightColor string `json:"highlight_color"`
}

// 設定が空の項目に使う既定値。
const (
	DefaultSiteName       = "LojaControl"
	DefaultTagline        = "Painel comercial e compras online"
	DefaultHeroTitle      = "Loja online"
	DefaultHeroSubtitle   = "Navegue pelos produtos e finalize sua compra."
	DefaultAccentColor    = "#1ec8a5"
	DefaultHighlightColor = "#1ea4d8"
)

// WithDefaults は空の項目を既定値で埋めた設定を返す。
func (c SiteConfig) WithDefaults() SiteConfig {
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&c.SiteName, DefaultSiteName)
	fill(&c.Tagline, DefaultTagline)
	fill(&c.HeroTitle, DefaultHeroTitle)
	fill(&c.HeroSubtitle, DefaultHeroSubtitle)
	fill(&c.AccentColor, DefaultAccentColor)
	fill(&c.HighlightColor, DefaultHighlightColor)
	return c
}

// checkoutRequest は購入APIのリクエストボディ。
type checkoutRequest struct {
	ProdutosIDs []int64 `json:"produtos_ids"`
}

// rechargeRequest はチャージAPIのリクエストボディ。
type rechargeRequest struct {
	Valor float64 `json:"valor"`
}
