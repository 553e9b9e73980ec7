package console

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/nao1215/lojacontrol/internal/api"
	"github.com/nao1215/lojacontrol/internal/apitest"
	"github.com/nao1215/lojacontrol/internal/money"
	"github.com/nao1215/lojacontrol/internal/session"
	"github.com/nao1215/lojacontrol/internal/storage"
	"github.com/nao1215/lojacontrol/pkg/event"
	"github.com/nao1215/lojacontrol/pkg/httpclient"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

// fixedNow はテストで使う固定の時刻。
var fixedNow = time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)

// Ana はテスト用の購入者。
const (
	anaEmail    = "ana@loja.com"
	anaPassword = "segredo1"
)

// fixture はスタブAPIに接続したControllerと観測用の部品をまとめたもの。
type fixture struct {
	stub   *apitest.Server
	store  *storage.Memory
	tokens *session.TokenStore
	events *event.Recorder
	ctrl   *Controller
}

// newFixture はスタブAPIを起動し、接続したControllerを生成する。
// スタブには残高30.00の購入者Anaが登録されている。
func newFixture(t *testing.T) *fixture {
	t.Helper()

	stub := apitest.New()
	stub.AddUser("Ana", anaEmail, anaPassword, 30)
	ts := httptest.NewServer(stub.Handler())
	t.Cleanup(ts.Close)

	store := storage.NewMemory()
	events := &event.Recorder{}
	ctrl := New(Options{
		BaseURL:    ts.URL,
		Storage:    store,
		Sink:       events,
		HTTPClient: ts.Client(),
		Now:        func() time.Time { return fixedNow },
	})
	return &fixture{
		stub:   stub,
		store:  store,
		tokens: session.NewTokenStore(store),
		events: events,
		ctrl:   ctrl,
	}
}

// loginAna は購入者Anaでログインする。
func (f *fixture) loginAna(t *testing.T) {
	t.Helper()
	if err := f.ctrl.LoginUser(context.Background(), api.Credentials{Email: anaEmail, Password: anaPassword}); err != nil {
		t.Fatalf("LoginUser()でエラーが発生: %v", err)
	}
}

// loginAdmin は管理者でログインする。
func (f *fixture) loginAdmin(t *testing.T) {
	t.Helper()
	if err := f.ctrl.LoginAdmin(context.Background(), api.Credentials{Email: apitest.AdminEmail, Password: apitest.AdminPassword}); err != nil {
		t.Fatalf("LoginAdmin()でエラーが発生: %v", err)
	}
}

// notice は現在表示中の通知を返す。
func (f *fixture) notice(t *testing.T) Notice {
	t.Helper()
	n, ok := f.ctrl.Screen().Snapshot().ActiveNotice(fixedNow)
	if !ok {
		t.Fatal("通知が表示されていない")
	}
	return n
}

// assertNotice は表示中の通知の文言と種類を検証する。
func (f *fixture) assertNotice(t *testing.T, message string, kind NoticeKind) {
	t.Helper()
	n := f.notice(t)
	if n.Message != message || n.Kind != kind {
		t.Errorf("通知 = %q (%s), want %q (%s)", n.Message, n.Kind, message, kind)
	}
}

// TestLogin はログインの流れを検証する。
func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("購入者でログインするとトークンを保存しショップを開くこと", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.loginAna(t)

		token := f.ctrl.Token()
		if token == "" {
			t.Fatal("トークンが設定されていない")
		}
		if got := f.tokens.Load(context.Background()); got != token {
			t.Errorf("保存済みトークン = %q, want %q", got, token)
		}
		if got := f.ctrl.CurrentView(); got != ViewUserShop {
			t.Errorf("CurrentView() = %q, want %q", got, ViewUserShop)
		}
		if got := f.stub.CallsTo(http.MethodGet, "/shop/produtos"); got != 1 {
			t.Errorf("/shop/produtos の呼び出し回数 = %d, want 1", got)
		}
		f.assertNotice(t, MsgLoginUser, NoticeSuccess)

		st := f.ctrl.Screen().Snapshot()
		if st.AuthVisible {
			t.Error("ログイン画面が表示されたまま")
		}
		if st.SessionChip != "Ana (Usuario)" {
			t.Errorf("SessionChip = %q", st.SessionChip)
		}
		if st.HeaderTitle != "Catalogo de produtos" || st.HeaderEyebrow != "Usuario" {
			t.Errorf("ヘッダー = %q / %q", st.HeaderTitle, st.HeaderEyebrow)
		}
		if st.SessionExpiresAt.IsZero() {
			t.Error("トークンの有効期限が読み取れていない")
		}
		wantNav := []NavItem{
			{ID: ViewUserShop, Label: "Loja", Active: true},
			{ID: ViewUserOrders, Label: "Compras"},
			{ID: ViewUserProfile, Label: "Perfil"},
		}
		if diff := cmp.Diff(wantNav, st.Nav); diff != "" {
			t.Errorf("Nav mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]event.Type{event.TypeSessionOpened, event.TypeViewActivated}, f.events.Types()); diff != "" {
			t.Errorf("イベント mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("管理者でログインするとダッシュボードを開くこと", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.loginAdmin(t)

		if got := f.ctrl.CurrentView(); got != ViewAdminDashboard {
			t.Errorf("CurrentView() = %q, want %q", got, ViewAdminDashboard)
		}
		f.assertNotice(t, MsgLoginAdmin, NoticeSuccess)

		st := f.ctrl.Screen().Snapshot()
		if st.SessionChip != apitest.AdminName+" (Admin)" {
			t.Errorf("SessionChip = %q", st.SessionChip)
		}
		if st.Summary == nil || st.Summary.Usuarios != 1 {
			t.Errorf("Summary = %+v", st.Summary)
		}
	})

	t.Run("認証に失敗した場合はAPIのメッセージを通知すること", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		err := f.ctrl.LoginUser(context.Background(), api.Credentials{Email: anaEmail, Password: "errada123"})
		if err == nil {
			t.Fatal("LoginUser()がエラーを返すべきだが、nilが返った")
		}
		f.assertNotice(t, "Credenciais invalidas.", NoticeError)
		if f.ctrl.Token() != "" {
			t.Error("失敗したのにトークンが設定された")
		}
		if !f.ctrl.Screen().Snapshot().AuthVisible {
			t.Error("ログイン画面が表示されていない")
		}
	})
}

// TestForcedLogout は401による強制ログアウトを検証する。
func TestForcedLogout(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	f.loginAdmin(t)
	f.ctrl.SwitchAuthView(AuthAdminLogin)
	f.stub.RevokeAll()

	if !f.ctrl.Navigate(ctx, ViewAdminProducts) {
		t.Fatal("Navigate()がfalseを返した")
	}

	if f.ctrl.Token() != "" {
		t.Error("トークンが消えていない")
	}
	if f.ctrl.Account() != nil {
		t.Error("アカウントが消えていない")
	}
	if got := f.tokens.Load(ctx); got != "" {
		t.Errorf("保存済みトークン = %q, want empty", got)
	}
	if got := f.ctrl.CurrentView(); got != "" {
		t.Errorf("CurrentView() = %q, want empty", got)
	}
	st := f.ctrl.Screen().Snapshot()
	if !st.AuthVisible || st.AuthView != AuthUserLogin {
		t.Errorf("AuthVisible = %v, AuthView = %q", st.AuthVisible, st.AuthView)
	}
	if st.Summary != nil || st.Nav != nil || st.SessionChip != "" {
		t.Error("画面のセッション情報が消えていない")
	}
	f.assertNotice(t, MsgSessionExpired, NoticeError)
	if !slices.Contains(f.events.Types(), event.TypeSessionExpired) {
		t.Errorf("イベント = %v, SessionExpiredを含むべき", f.events.Types())
	}

	// ログアウト後は管理画面に遷移できない
	f.stub.ResetCalls()
	if f.ctrl.Navigate(ctx, ViewAdminOrders) {
		t.Error("ログアウト後にNavigate()がtrueを返した")
	}
	if got := len(f.stub.Calls()); got != 0 {
		t.Errorf("リクエスト数 = %d, want 0", got)
	}
}

// TestNavigate はController経由の画面遷移を検証する。
func TestNavigate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("表示中のビューへの遷移はリクエストを送らないこと", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.loginAna(t)
		f.stub.ResetCalls()

		if f.ctrl.Navigate(ctx, ViewUserShop) {
			t.Error("Navigate()がtrueを返した")
		}
		if got := len(f.stub.Calls()); got != 0 {
			t.Errorf("リクエスト数 = %d, want 0", got)
		}
	})

	t.Run("許可されていないビューには遷移しないこと", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.loginAna(t)
		f.stub.ResetCalls()

		if f.ctrl.Navigate(ctx, ViewAdminDashboard) {
			t.Error("Navigate()がtrueを返した")
		}
		if got := f.ctrl.CurrentView(); got != ViewUserShop {
			t.Errorf("CurrentView() = %q, want %q", got, ViewUserShop)
		}
		if got := len(f.stub.Calls()); got != 0 {
			t.Errorf("リクエスト数 = %d, want 0", got)
		}
	})

	t.Run("ビューを開くとデータを読み込みヘッダーを更新すること", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.loginAna(t)

		if !f.ctrl.Navigate(ctx, ViewUserProfile) {
			t.Fatal("Navigate()がfalseを返した")
		}
		st := f.ctrl.Screen().Snapshot()
		if st.Profile == nil || st.Profile.Nome != "Ana" || st.Profile.Saldo != 30 {
			t.Errorf("Profile = %+v", st.Profile)
		}
		if st.HeaderTitle != "Minha conta" {
			t.Errorf("HeaderTitle = %q", st.HeaderTitle)
		}
	})

	t.Run("ローダーの失敗はAPIのメッセージで通知すること", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.loginAdmin(t)
		f.stub.Fail(http.MethodGet, "/admin/produtos", apitest.Fault{Status: http.StatusInternalServerError, Body: `{"detail":"Banco indisponivel."}`})

		f.ctrl.Navigate(ctx, ViewAdminProducts)
		f.assertNotice(t, "Banco indisponivel.", NoticeError)
		if got := f.ctrl.CurrentView(); got != ViewAdminProducts {
			t.Errorf("CurrentView() = %q, want %q", got, ViewAdminProducts)
		}
	})

	t.Run("detailがない失敗はステータスで通知すること", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.loginAdmin(t)
		f.stub.Fail(http.MethodGet, "/admin/usuarios", apitest.Fault{Status: http.StatusBadGateway})

		f.ctrl.Navigate(ctx, ViewAdminUsers)
		f.assertNotice(t, "Erro 502.", NoticeError)
	})
}

// TestCart はカート操作を検証する。
func TestCart(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("同じ商品を2回追加すると数量2になること", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		p := f.stub.AddProduct("Caneca", "Ceramica", 10.5)
		f.loginAna(t)

		for range 2 {
			if err := f.ctrl.AddToCart(p.ID); err != nil {
				t.Fatalf("AddToCart()でエラーが発生: %v", err)
			}
		}
		st := f.ctrl.Screen().Snapshot()
		if len(st.Cart) != 1 || st.Cart[0].Quantity != 2 {
			t.Fatalf("Cart = %+v", st.Cart)
		}
		if got := money.Format(st.CartTotal); got != "R$ 21,00" {
			t.Errorf("合計 = %q, want %q", got, "R$ 21,00")
		}
		f.assertNotice(t, MsgAddedToCart, NoticeSuccess)

		f.ctrl.RemoveFromCart(p.ID)
		if got := len(f.ctrl.Screen().Snapshot().Cart); got != 0 {
			t.Errorf("削除後の行数 = %d, want 0", got)
		}
	})

	t.Run("カタログにない商品は追加できないこと", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.loginAna(t)

		err := f.ctrl.AddToCart(99)
		if !errors.Is(err, ErrProductNotFound) {
			t.Errorf("err = %v, want ErrProductNotFound", err)
		}
		f.assertNotice(t, MsgProductNotFound, NoticeError)
	})

	t.Run("空のカートではリクエストを送らないこと", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.loginAna(t)

		if err := f.ctrl.Checkout(ctx); !errors.Is(err, ErrEmptyCart) {
			t.Errorf("err = %v, want ErrEmptyCart", err)
		}
		if got := f.stub.CallsTo(http.MethodPost, "/shop/pedidos"); got != 0 {
			t.Errorf("POST /shop/pedidos の呼び出し回数 = %d, want 0", got)
		}
		f.assertNotice(t, MsgEmptyCart, NoticeError)
	})

	t.Run("購入するとカートを空にしプロフィールと履歴を更新すること", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		caneca := f.stub.AddProduct("Caneca", "Ceramica", 10.5)
		camiseta := f.stub.AddProduct("Camiseta", "Algodao", 5)
		f.loginAna(t)
		for _, id := range []int64{caneca.ID, caneca.ID, camiseta.ID} {
			if err := f.ctrl.AddToCart(id); err != nil {
				t.Fatalf("AddToCart()でエラーが発生: %v", err)
			}
		}

		if err := f.ctrl.Checkout(ctx); err != nil {
			t.Fatalf("Checkout()でエラーが発生: %v", err)
		}

		var body string
		for _, c := range f.stub.Calls() {
			if c.Method == http.MethodPost && c.Path == "/shop/pedidos" {
				body = c.Body
			}
		}
		if body != `{"produtos_ids":[1,1,2]}` {
			t.Errorf("ボディ = %s", body)
		}

		st := f.ctrl.Screen().Snapshot()
		if len(st.Cart) != 0 || st.CartTotal != 0 {
			t.Errorf("カートが空になっていない: %+v", st.Cart)
		}
		if st.Profile == nil || st.Profile.Saldo != 4 {
			t.Errorf("Profile = %+v", st.Profile)
		}
		if len(st.UserOrders) != 1 {
			t.Errorf("UserOrders = %+v", st.UserOrders)
		}
		f.assertNotice(t, MsgCheckoutCompleted, NoticeSuccess)

		var completed *event.CheckoutCompletedData
		for _, e := range f.events.Events() {
			if e.EventType == event.TypeCheckoutCompleted {
				data, err := event.DecodeData[event.CheckoutCompletedData](&e)
				if err != nil {
					t.Fatalf("DecodeData()でエラーが発生: %v", err)
				}
				completed = data
			}
		}
		if completed == nil || completed.Total != 26 {
			t.Errorf("CheckoutCompleted = %+v", completed)
		}
	})

	t.Run("残高不足の場合はカートを残してメッセージを通知すること", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		p := f.stub.AddProduct("Notebook", "Usado", 100)
		f.loginAna(t)
		if err := f.ctrl.AddToCart(p.ID); err != nil {
			t.Fatalf("AddToCart()でエラーが発生: %v", err)
		}

		if err := f.ctrl.Checkout(ctx); err == nil {
			t.Fatal("Checkout()がエラーを返すべきだが、nilが返った")
		}
		f.assertNotice(t, "Saldo insuficiente. Faltam R$ 70.00.", NoticeError)
		if got := len(f.ctrl.Screen().Snapshot().Cart); got != 1 {
			t.Errorf("カートの行数 = %d, want 1", got)
		}
	})
}

// TestStart は起動時のセッション復元を検証する。
func TestStart(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("トークンがなければログイン画面を表示すること", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.ctrl.Start(ctx)

		if got := f.stub.CallsTo(http.MethodGet, "/auth/me"); got != 0 {
			t.Errorf("/auth/me の呼び出し回数 = %d, want 0", got)
		}
		if got := f.stub.CallsTo(http.MethodGet, "/site-config"); got != 1 {
			t.Errorf("/site-config の呼び出し回数 = %d, want 1", got)
		}
		st := f.ctrl.Screen().Snapshot()
		if !st.AuthVisible || st.AuthView != AuthUserLogin {
			t.Errorf("AuthVisible = %v, AuthView = %q", st.AuthVisible, st.AuthView)
		}
		if st.Site.SiteName != api.DefaultSiteName {
			t.Errorf("Site = %+v", st.Site)
		}
	})

	t.Run("保存済みトークンでセッションを復元すること", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		token, err := f.stub.TokenFor(apitest.AdminEmail)
		if err != nil {
			t.Fatalf("TokenFor()でエラーが発生: %v", err)
		}
		if err := f.tokens.Save(ctx, token); err != nil {
			t.Fatalf("Save()でエラーが発生: %v", err)
		}

		f.ctrl.Start(ctx)

		if got := f.ctrl.Token(); got != token {
			t.Errorf("Token() = %q, want %q", got, token)
		}
		if got := f.ctrl.CurrentView(); got != ViewAdminDashboard {
			t.Errorf("CurrentView() = %q, want %q", got, ViewAdminDashboard)
		}
		calls := f.stub.Calls()
		if len(calls) < 2 || calls[1].Path != "/auth/me" || calls[1].Authorization != "Bearer "+token {
			t.Errorf("calls = %+v", calls)
		}
		if diff := cmp.Diff([]event.Type{event.TypeSessionRestored, event.TypeViewActivated}, f.events.Types()); diff != "" {
			t.Errorf("イベント mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("無効なトークンは消してログイン画面を表示すること", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		if err := f.tokens.Save(ctx, "token-antigo"); err != nil {
			t.Fatalf("Save()でエラーが発生: %v", err)
		}

		f.ctrl.Start(ctx)

		if got := f.tokens.Load(ctx); got != "" {
			t.Errorf("保存済みトークン = %q, want empty", got)
		}
		if f.ctrl.Token() != "" {
			t.Error("トークンが残っている")
		}
		if !f.ctrl.Screen().Snapshot().AuthVisible {
			t.Error("ログイン画面が表示されていない")
		}
		f.assertNotice(t, MsgSessionExpired, NoticeError)
	})

	t.Run("サイト設定を読み込めない場合は固定の文言で通知すること", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.stub.Fail(http.MethodGet, "/site-config", apitest.Fault{Status: http.StatusInternalServerError, Body: `{"detail":"x"}`})

		f.ctrl.Start(ctx)
		f.assertNotice(t, MsgSiteConfigFailed, NoticeError)
		if got := f.ctrl.Screen().Snapshot().Site.SiteName; got != api.DefaultSiteName {
			t.Errorf("SiteName = %q, want %q", got, api.DefaultSiteName)
		}
	})
}

// TestLogout はログアウトを検証する。
func TestLogout(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("APIに通知してセッションとカートを消すこと", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		p := f.stub.AddProduct("Caneca", "Ceramica", 10.5)
		f.loginAna(t)
		token := f.ctrl.Token()
		if err := f.ctrl.AddToCart(p.ID); err != nil {
			t.Fatalf("AddToCart()でエラーが発生: %v", err)
		}

		f.ctrl.Logout(ctx)

		var logout *apitest.Call
		for _, c := range f.stub.Calls() {
			if c.Path == "/auth/logout" {
				logout = &c
			}
		}
		if logout == nil || logout.Authorization != "Bearer "+token {
			t.Errorf("ログアウトのリクエスト = %+v", logout)
		}
		if f.ctrl.Token() != "" || f.tokens.Load(ctx) != "" {
			t.Error("トークンが消えていない")
		}
		st := f.ctrl.Screen().Snapshot()
		if len(st.Cart) != 0 || !st.AuthVisible || st.ActiveView != "" {
			t.Errorf("画面 = %+v", st)
		}
		f.assertNotice(t, MsgLoggedOut, NoticeSuccess)

		// カタログも消えているため、以前の商品は追加できない
		if err := f.ctrl.AddToCart(p.ID); !errors.Is(err, ErrProductNotFound) {
			t.Errorf("err = %v, want ErrProductNotFound", err)
		}
	})

	t.Run("未ログインならAPIに通知しないこと", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.ctrl.Logout(ctx)

		if got := f.stub.CallsTo(http.MethodPost, "/auth/logout"); got != 0 {
			t.Errorf("/auth/logout の呼び出し回数 = %d, want 0", got)
		}
		f.assertNotice(t, MsgLoggedOut, NoticeSuccess)
	})

	t.Run("APIへの通知が失敗してもログアウトすること", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.loginAna(t)
		f.stub.Fail(http.MethodPost, "/auth/logout", apitest.Fault{Status: http.StatusInternalServerError})

		f.ctrl.Logout(ctx)
		if f.ctrl.Token() != "" {
			t.Error("トークンが消えていない")
		}
		f.assertNotice(t, MsgLoggedOut, NoticeSuccess)
	})
}

// TestRegisterUser は購入者登録を検証する。
func TestRegisterUser(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.ctrl.SwitchAuthView(AuthRegister)

	err := f.ctrl.RegisterUser(context.Background(), api.Registration{Nome: "Bruno", Email: "bruno@loja.com", Password: "segredo2", SaldoInicial: 12})
	if err != nil {
		t.Fatalf("RegisterUser()でエラーが発生: %v", err)
	}
	st := f.ctrl.Screen().Snapshot()
	if st.AuthView != AuthUserLogin || st.LoginEmail != "bruno@loja.com" {
		t.Errorf("AuthView = %q, LoginEmail = %q", st.AuthView, st.LoginEmail)
	}
	f.assertNotice(t, MsgRegistered, NoticeSuccess)

	err = f.ctrl.RegisterUser(context.Background(), api.Registration{Nome: "Bruno", Email: "bruno@loja.com", Password: "segredo2"})
	if err == nil {
		t.Fatal("重複登録でエラーが返らなかった")
	}
	f.assertNotice(t, "Ja existe uma conta com este e-mail.", NoticeError)
}

// TestAdminCommands は管理者の操作を検証する。
func TestAdminCommands(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("商品を作成すると一覧とダッシュボードを更新すること", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.loginAdmin(t)
		f.ctrl.Navigate(ctx, ViewAdminProducts)

		if err := f.ctrl.CreateProduct(ctx, api.ProductInput{Nome: "Caneca", Descricao: "Ceramica", Preco: 10.5}); err != nil {
			t.Fatalf("CreateProduct()でエラーが発生: %v", err)
		}
		st := f.ctrl.Screen().Snapshot()
		if len(st.AdminProducts) != 1 || st.AdminProducts[0].Nome != "Caneca" {
			t.Errorf("AdminProducts = %+v", st.AdminProducts)
		}
		if st.Summary == nil || st.Summary.Produtos != 1 {
			t.Errorf("Summary = %+v", st.Summary)
		}
		f.assertNotice(t, MsgProductCreated, NoticeSuccess)
	})

	t.Run("商品を更新・削除できること", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		p := f.stub.AddProduct("Caneca", "Ceramica", 10.5)
		f.loginAdmin(t)

		if err := f.ctrl.UpdateProduct(ctx, p.ID, api.ProductInput{Nome: "Caneca grande", Descricao: "Ceramica", Preco: 12}); err != nil {
			t.Fatalf("UpdateProduct()でエラーが発生: %v", err)
		}
		f.assertNotice(t, MsgProductUpdated, NoticeSuccess)
		if got := f.ctrl.Screen().Snapshot().AdminProducts; len(got) != 1 || got[0].Preco != 12 {
			t.Errorf("AdminProducts = %+v", got)
		}

		if err := f.ctrl.DeleteProduct(ctx, p.ID); err != nil {
			t.Fatalf("DeleteProduct()でエラーが発生: %v", err)
		}
		f.assertNotice(t, MsgProductDeleted, NoticeSuccess)
		if got := f.ctrl.Screen().Snapshot().AdminProducts; len(got) != 0 {
			t.Errorf("AdminProducts = %+v", got)
		}
	})

	t.Run("サイト設定を保存すると画面に反映すること", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.loginAdmin(t)
		f.ctrl.Navigate(ctx, ViewAdminSite)

		in := api.SiteConfig{
			SiteName:       "  Loja Azul ",
			Tagline:        "Tudo azul",
			HeroTitle:      "Ofertas",
			HeroSubtitle:   "So hoje",
			AccentColor:    "#112233",
			HighlightColor: "#445566",
		}
		if err := f.ctrl.SaveSiteConfig(ctx, in); err != nil {
			t.Fatalf("SaveSiteConfig()でエラーが発生: %v", err)
		}
		st := f.ctrl.Screen().Snapshot()
		if st.Site.SiteName != "Loja Azul" || st.Site.AccentColor != "#112233" {
			t.Errorf("Site = %+v", st.Site)
		}
		f.assertNotice(t, MsgSiteConfigSaved, NoticeSuccess)
	})

	t.Run("ダッシュボードの更新を通知すること", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.loginAdmin(t)
		f.stub.ResetCalls()

		f.ctrl.RefreshDashboard(ctx)
		if got := f.stub.CallsTo(http.MethodGet, "/admin/resumo"); got != 1 {
			t.Errorf("/admin/resumo の呼び出し回数 = %d, want 1", got)
		}
		f.assertNotice(t, MsgDashboardUpdated, NoticeSuccess)
	})
}

// TestRecharge はチャージを検証する。
func TestRecharge(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	f.loginAna(t)
	f.ctrl.Navigate(ctx, ViewUserProfile)

	if err := f.ctrl.Recharge(ctx, 20); err != nil {
		t.Fatalf("Recharge()でエラーが発生: %v", err)
	}
	if p := f.ctrl.Screen().Snapshot().Profile; p == nil || p.Saldo != 50 {
		t.Errorf("Profile = %+v", p)
	}
	f.assertNotice(t, MsgRecharged, NoticeSuccess)

	if err := f.ctrl.Recharge(ctx, 0); err == nil {
		t.Error("0のチャージでエラーが返らなかった")
	}
	f.assertNotice(t, "Erro 422.", NoticeError)
}

// TestConnectivity は接続できない場合の扱いを検証する。
func TestConnectivity(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	events := &event.Recorder{}
	ctrl := New(Options{BaseURL: url, Sink: events, Now: func() time.Time { return fixedNow }})

	err := ctrl.LoginUser(context.Background(), api.Credentials{Email: anaEmail, Password: anaPassword})
	if !errors.Is(err, httpclient.ErrConnectivity) {
		t.Fatalf("err = %v, want ErrConnectivity", err)
	}
	st := ctrl.Screen().Snapshot()
	if st.APIOnline {
		t.Error("APIOnlineがtrueのまま")
	}
	n, ok := st.ActiveNotice(fixedNow)
	if !ok || n.Message != httpclient.ConnectivityMessage {
		t.Errorf("通知 = %+v", n)
	}
	if diff := cmp.Diff([]event.Type{event.TypeConnectivityChanged}, events.Types()); diff != "" {
		t.Errorf("イベント mismatch (-want +got):\n%s", diff)
	}
}

// TestNoticeExpiry は通知の表示期限を検証する。
func TestNoticeExpiry(t *testing.T) {
	t.Parallel()

	s := newScreen(func() time.Time { return fixedNow })
	s.notify("", NoticeSuccess)
	if _, ok := s.Snapshot().ActiveNotice(fixedNow); ok {
		t.Error("空のメッセージが通知された")
	}

	s.notify("Ola", NoticeSuccess)
	st := s.Snapshot()
	if _, ok := st.ActiveNotice(fixedNow.Add(3 * time.Second)); !ok {
		t.Error("3秒後に通知が消えている")
	}
	if _, ok := st.ActiveNotice(fixedNow.Add(NoticeDuration)); ok {
		t.Error("3.2秒後も通知が表示されている")
	}
}
