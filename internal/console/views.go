package console

import (
	"context"

	"github.com/nao1215/lojacontrol/internal/session"
)

// ViewID は画面（ビュー）の識別子。
type ViewID string

const (
	// ViewAdminDashboard は管理ダッシュボード。
	ViewAdminDashboard ViewID = "admin-dashboard"
	// ViewAdminProducts は商品管理。
	ViewAdminProducts ViewID = "admin-products"
	// ViewAdminOrders はストアの注文一覧。
	ViewAdminOrders ViewID = "admin-orders"
	// ViewAdminUsers は購入者一覧。
	ViewAdminUsers ViewID = "admin-users"
	// ViewAdminSite はサイト設定の編集。
	ViewAdminSite ViewID = "admin-site"
	// ViewUserShop はカタログとカート。
	ViewUserShop ViewID = "user-shop"
	// ViewUserOrders は購入履歴。
	ViewUserOrders ViewID = "user-orders"
	// ViewUserProfile はプロフィールとチャージ。
	ViewUserProfile ViewID = "user-profile"
)

// ViewDescriptor はビューの表示情報とデータローダー。
type ViewDescriptor struct {
	// ID はビューID。
	ID ViewID
	// Label はナビゲーションの表示名。
	Label string
	// Title はヘッダーの見出し。
	Title string
	// Eyebrow はヘッダーの小見出し。
	Eyebrow string
	// Loader はビューのデータを取得して描画する。失敗は自身で通知に変換する。
	Loader func(ctx context.Context)
}

// viewCatalog はローダーを除いたビューの静的な一覧。
var viewCatalog = []ViewDescriptor{
	{ID: ViewAdminDashboard, Label: "Dashboard", Title: "Painel administrativo", Eyebrow: "Admin"},
	{ID: ViewAdminProducts, Label: "Produtos", Title: "Gerenciar produtos", Eyebrow: "Admin"},
	{ID: ViewAdminOrders, Label: "Pedidos", Title: "Pedidos da loja", Eyebrow: "Admin"},
	{ID: ViewAdminUsers, Label: "Usuarios", Title: "Clientes cadastrados", Eyebrow: "Admin"},
	{ID: ViewAdminSite, Label: "Editar site", Title: "Personalizacao visual", Eyebrow: "Admin"},
	{ID: ViewUserShop, Label: "Loja", Title: "Catalogo de produtos", Eyebrow: "Usuario"},
	{ID: ViewUserOrders, Label: "Compras", Title: "Historico de compras", Eyebrow: "Usuario"},
	{ID: ViewUserProfile, Label: "Perfil", Title: "Minha conta", Eyebrow: "Usuario"},
}

// navigationTable はロールごとに遷移できるビューを表示順に並べたもの。
var navigationTable = map[session.Role][]ViewID{
	session.RoleAdmin: {ViewAdminDashboard, ViewAdminProducts, ViewAdminOrders, ViewAdminUsers, ViewAdminSite},
	session.RoleUser:  {ViewUserShop, ViewUserOrders, ViewUserProfile},
}

// NavigationFor はロールで遷移できるビューIDを表示順に返す。
func NavigationFor(role session.Role) []ViewID {
	ids := navigationTable[role]
	out := make([]ViewID, len(ids))
	copy(out, ids)
	return out
}

// buildViews はビューの一覧にローダーを割り当てた表を作る。
func buildViews(loaders map[ViewID]func(ctx context.Context)) map[ViewID]ViewDescriptor {
	views := make(map[ViewID]ViewDescriptor, len(viewCatalog))
	for _, v := range viewCatalog {
		v.Loader = loaders[v.ID]
		views[v.ID] = v
	}
	return views
}
