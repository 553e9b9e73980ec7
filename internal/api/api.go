// Package api はストアAPIのエンドポイントを型付きのメソッドとして提供する。
// 通信はpkg/httpclientのゲートウェイに委ね、ここではパスと型の対応だけを持つ。
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nao1215/lojacontrol/internal/session"
	"github.com/nao1215/lojacontrol/pkg/httpclient"
)

// Gateway はAPIリクエストを送信するゲートウェイ。*httpclient.Clientが満たす。
type Gateway interface {
	Do(ctx context.Context, r httpclient.Request) (httpclient.Payload, error)
}

// Client はストアAPIの型付きクライアント。
type Client struct {
	gw Gateway
}

// New はゲートウェイを使う型付きクライアントを生成する。
func New(gw Gateway) *Client {
	return &Client{gw: gw}
}

// call はリクエストを送り、resultがnilでなければペイロードを展開する。
func (c *Client) call(ctx context.Context, r httpclient.Request, result any) error {
	payload, err := c.gw.Do(ctx, r)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	return payload.Decode(result)
}

// list はリストを返すエンドポイントを呼び出す。配列でないペイロードは空リストになる。
func list[T any](ctx context.Context, c *Client, r httpclient.Request) ([]T, error) {
	payload, err := c.gw.Do(ctx, r)
	if err != nil {
		return nil, err
	}
	return httpclient.DecodeList[T](payload)
}

// LoginUser は購入者としてログインする。
func (c *Client) LoginUser(ctx context.Context, cred Credentials) (*LoginResult, error) {
	return c.login(ctx, "/auth/login-user", cred)
}

// LoginAdmin は管理者としてログインする。
func (c *Client) LoginAdmin(ctx context.Context, cred Credentials) (*LoginResult, error) {
	return c.login(ctx, "/auth/login-admin", cred)
}

func (c *Client) login(ctx context.Context, endpoint string, cred Credentials) (*LoginResult, error) {
	var result LoginResult
	if err := c.call(ctx, httpclient.Request{Endpoint: endpoint, Method: http.MethodPost, Body: cred}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RegisterUser は購入者を登録する。
func (c *Client) RegisterUser(ctx context.Context, reg Registration) error {
	return c.call(ctx, httpclient.Request{Endpoint: "/auth/register-user", Method: http.MethodPost, Body: reg}, nil)
}

// Logout はサーバー側のセッションを終了する。
func (c *Client) Logout(ctx context.Context) error {
	return c.call(ctx, httpclient.Request{Endpoint: "/auth/logout", Method: http.MethodPost, Auth: true}, nil)
}

// Me は現在のトークンに対応するアカウントを返す。
func (c *Client) Me(ctx context.Context) (*session.Account, error) {
	var resp meResponse
	if err := c.call(ctx, httpclient.Request{Endpoint: "/auth/me", Auth: true}, &resp); err != nil {
		return nil, err
	}
	if resp.Account == nil {
		return nil, fmt.Errorf("アカウント情報がレスポンスに含まれていない")
	}
	return resp.Account, nil
}

// Summary は管理ダッシュボードの集計値を返す。
func (c *Client) Summary(ctx context.Context) (*Summary, error) {
	var s Summary
	if err := c.call(ctx, httpclient.Request{Endpoint: "/admin/resumo", Auth: true}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// AdminProducts は管理用の商品一覧を返す。
func (c *Client) AdminProducts(ctx context.Context) ([]Product, error) {
	return list[Product](ctx, c, httpclient.Request{Endpoint: "/admin/produtos", Auth: true})
}

// CreateProduct は商品を作成する。
func (c *Client) CreateProduct(ctx context.Context, in ProductInput) error {
	return c.call(ctx, httpclient.Request{Endpoint: "/admin/produtos", Method: http.MethodPost, Body: in, Auth: true}, nil)
}

// UpdateProduct は商品を更新する。
func (c *Client) UpdateProduct(ctx context.Context, id int64, in ProductInput) error {
	return c.call(ctx, httpclient.Request{Endpoint: fmt.Sprintf("/admin/produtos/%d", id), Method: http.MethodPatch, Body: in, Auth: true}, nil)
}

// DeleteProduct は商品を削除する。
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.call(ctx, httpclient.Request{Endpoint: fmt.Sprintf("/admin/produtos/%d", id), Method: http.MethodDelete, Auth: true}, nil)
}

// AdminOrders はストア全体の注文一覧を返す。
func (c *Client) AdminOrders(ctx context.Context) ([]Order, error) {
	return list[Order](ctx, c, httpclient.Request{Endpoint: "/admin/pedidos", Auth: true})
}

// AdminUsers は購入者一覧を返す。
func (c *Client) AdminUsers(ctx context.Context) ([]Customer, error) {
	return list[Customer](ctx, c, httpclient.Request{Endpoint: "/admin/usuarios", Auth: true})
}

// AdminSiteConfig は編集用のサイト設定を返す。
func (c *Client) AdminSiteConfig(ctx context.Context) (*SiteConfig, error) {
	var cfg SiteConfig
	if err := c.call(ctx, httpclient.Request{Endpoint: "/admin/site-config", Auth: true}, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// UpdateSiteConfig はサイト設定を保存し、保存後の設定を返す。
func (c *Client) UpdateSiteConfig(ctx context.Context, in SiteConfig) (*SiteConfig, error) {
	var cfg SiteConfig
	if err := c.call(ctx, httpclient.Request{Endpoint: "/admin/site-config", Method: http.MethodPatch, Body: in, Auth: true}, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ShopProducts は公開カタログを返す。認証は不要。
func (c *Client) ShopProducts(ctx context.Context) ([]Product, error) {
	return list[Product](ctx, c, httpclient.Request{Endpoint: "/shop/produtos"})
}

// ShopOrders は購入者自身の注文履歴を返す。
func (c *Client) ShopOrders(ctx context.Context) ([]Order, error) {
	return list[Order](ctx, c, httpclient.Request{Endpoint: "/shop/pedidos", Auth: true})
}

// Checkout は商品IDの列で注文を確定する。
func (c *Client) Checkout(ctx context.Context, productIDs []int64) error {
	return c.call(ctx, httpclient.Request{Endpoint: "/shop/pedidos", Method: http.MethodPost, Body: checkoutRequest{ProdutosIDs: productIDs}, Auth: true}, nil)
}

// ShopProfile は購入者自身のプロフィールを返す。
func (c *Client) ShopProfile(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := c.call(ctx, httpclient.Request{Endpoint: "/shop/me", Auth: true}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Recharge は残高をチャージする。
func (c *Client) Recharge(ctx context.Context, valor float64) error {
	return c.call(ctx, httpclient.Request{Endpoint: "/shop/recarga", Method: http.MethodPost, Body: rechargeRequest{Valor: valor}, Auth: true}, nil)
}

// PublicSiteConfig は公開のサイト設定を返す。認証は不要。
func (c *Client) PublicSiteConfig(ctx context.Context) (*SiteConfig, error) {
	var cfg SiteConfig
	if err := c.call(ctx, httpclient.Request{Endpoint: "/site-config"}, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
