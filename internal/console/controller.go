package console

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/lojacontrol/internal/api"
	"github.com/nao1215/lojacontrol/internal/cart"
	"github.com/nao1215/lojacontrol/internal/session"
	"github.com/nao1215/lojacontrol/internal/storage"
	"github.com/nao1215/lojacontrol/pkg/event"
	"github.com/nao1215/lojacontrol/pkg/httpclient"
)

// 利用者に表示する通知の文言。
const (
	MsgLoginUser         = "Login realizado com sucesso."
	MsgLoginAdmin        = "Login admin realizado."
	MsgRegistered        = "Cadastro concluido. Agora faca login como usuario."
	MsgLoggedOut         = "Sessao encerrada."
	MsgSessionExpired    = "Sessao expirada. Faca login novamente."
	MsgSiteConfigFailed  = "Nao foi possivel carregar configuracao do site."
	MsgDashboardUpdated  = "Resumo atualizado."
	MsgProductCreated    = "Produto criado com sucesso."
	MsgProductUpdated    = "Produto atualizado."
	MsgProductDeleted    = "Produto removido."
	MsgSiteConfigSaved   = "Visual atualizado com sucesso."
	MsgAddedToCart       = "Produto adicionado ao carrinho."
	MsgProductNotFound   = "Produto nao encontrado."
	MsgEmptyCart         = "Adicione produtos ao carrinho antes de finalizar."
	MsgCheckoutCompleted = "Compra finalizada com sucesso."
	MsgRecharged         = "Saldo adicionado com sucesso."
)

// 失敗時にエラーから文言を取り出せない場合に使う既定の文言。
const (
	fallbackLoginUser     = "Falha no login do usuario."
	fallbackLoginAdmin    = "Falha no login do admin."
	fallbackRegister      = "Falha ao cadastrar usuario."
	fallbackDashboard     = "Falha ao carregar resumo."
	fallbackAdminProducts = "Falha ao carregar produtos."
	fallbackAdminOrders   = "Falha ao carregar pedidos."
	fallbackAdminUsers    = "Falha ao carregar usuarios."
	fallbackAdminSite     = "Falha ao carregar configuracao."
	fallbackCatalog       = "Falha ao carregar catalogo."
	fallbackUserOrders    = "Falha ao carregar suas compras."
	fallbackProfile       = "Falha ao carregar perfil."
	fallbackCreateProduct = "Falha ao criar produto."
	fallbackUpdateProduct = "Falha ao atualizar produto."
	fallbackDeleteProduct = "Falha ao excluir produto."
	fallbackSaveSite      = "Falha ao salvar configuracao."
	fallbackCheckout      = "Nao foi possivel finalizar a compra."
	fallbackRecharge      = "Falha ao adicionar saldo."
)

var (
	// ErrEmptyCart は空のカートで購入しようとした場合のエラー。
	ErrEmptyCart = errors.New("カートが空")
	// ErrProductNotFound はカタログにない商品をカートに追加しようとした場合のエラー。
	ErrProductNotFound = errors.New("商品がカタログに存在しない")
)

// Options はControllerの生成時設定。
type Options struct {
	// BaseURL は接続先APIのベースURL。
	BaseURL string
	// Storage はセッショントークンの保存先。nilの場合はメモリに保存する。
	Storage storage.Storage
	// Logger はログの出力先。nilの場合は出力しない。
	Logger *zap.Logger
	// Sink はコンソールイベントの送信先。nilの場合はLoggerに出力する。
	Sink event.Sink
	// HTTPClient はAPI通信に使うHTTPクライアント。
	HTTPClient *http.Client
	// Now は通知の期限計算に使う時計。
	Now func() time.Time
}

// Controller はセッションと画面遷移を管理し、UIからの操作をAPI呼び出しに変換する。
//
// 公開メソッドは1つずつ順番に実行される。各操作は失敗を通知に変換するため、
// 戻り値のエラーは呼び出し元での分岐にだけ使えばよい。
type Controller struct {
	// mu は操作を直列化する。
	mu sync.Mutex

	api     *api.Client
	gateway *httpclient.Client
	tokens  *session.TokenStore
	screen  *Screen
	router  *Router
	events  event.Sink
	logger  *zap.Logger
	now     func() time.Time

	// stateMu は以下のクライアント状態を保護する。並行ローダーや401コールバックからも触れる。
	stateMu sync.RWMutex
	session session.Session
	cart    cart.Cart
	catalog []api.Product
	online  bool
	// epoch はクライアント状態をリセットするたびに進む。古いセッションの応答を描画しないために使う。
	epoch uint64
}

// New はControllerを生成する。ネットワークには接続しない。
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	store := opts.Storage
	if store == nil {
		store = storage.NewMemory()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	sink := opts.Sink
	if sink == nil {
		sink = event.NewLogSink(logger)
	}

	c := &Controller{
		tokens: session.NewTokenStore(store),
		screen: newScreen(now),
		now:    now,
		events: sink,
		logger: logger,
		online: true,
	}
	c.gateway = httpclient.New(opts.BaseURL,
		httpclient.WithTokenSource(c.Token),
		httpclient.WithUnauthorizedHandler(c.handleUnauthorized),
		httpclient.WithStatusHandler(c.setAPIStatus),
		httpclient.WithLogger(logger),
		httpclient.WithHTTPClient(opts.HTTPClient),
	)
	c.api = api.New(c.gateway)
	c.router = NewRouter(buildViews(map[ViewID]func(ctx context.Context){
		ViewAdminDashboard: func(ctx context.Context) { c.loadDashboard(ctx, false) },
		ViewAdminProducts:  c.loadAdminProducts,
		ViewAdminOrders:    c.loadAdminOrders,
		ViewAdminUsers:     c.loadAdminUsers,
		ViewAdminSite:      c.loadAdminSiteConfig,
		ViewUserShop:       c.loadShopProducts,
		ViewUserOrders:     c.loadUserOrders,
		ViewUserProfile:    c.loadUserProfile,
	}), navigationTable, c.activateView)
	return c
}

// Screen は描画用の状態を返す。
func (c *Controller) Screen() *Screen {
	return c.screen
}

// BaseURL は接続先APIのベースURLを返す。
func (c *Controller) BaseURL() string {
	return c.gateway.BaseURL()
}

// Token は現在のセッショントークンを返す。未ログインの場合は空。
func (c *Controller) Token() string {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.session.Token
}

// Account はログイン中のアカウントのコピーを返す。未ログインの場合はnil。
func (c *Controller) Account() *session.Account {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	if c.session.Account == nil {
		return nil
	}
	a := *c.session.Account
	return &a
}

// CurrentView は表示中のビューIDを返す。
func (c *Controller) CurrentView() ViewID {
	return c.router.Current()
}

// Start は公開のサイト設定を読み込み、保存済みのセッションを復元する。
// 復元できなかった場合はログイン画面を表示する。
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setAPIStatus(true)
	c.renderCart()
	c.loadPublicSiteConfig(ctx)
	if !c.restoreSession(ctx) {
		c.showAuthScreen()
	}
}

// Restore は保存済みのトークンでセッションを復元する。復元できた場合にtrueを返す。
func (c *Controller) Restore(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.restoreSession(ctx)
}

// SwitchAuthView はログイン画面のタブを切り替える。
func (c *Controller) SwitchAuthView(v AuthView) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.screen.update(func(st *State) {
		st.AuthView = v
	})
}

// LoginUser は購入者としてログインする。
func (c *Controller) LoginUser(ctx context.Context, cred api.Credentials) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.login(ctx, cred, false)
}

// LoginAdmin は管理者としてログインする。
func (c *Controller) LoginAdmin(ctx context.Context, cred api.Credentials) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.login(ctx, cred, true)
}

// RegisterUser は購入者を登録し、ログインタブにメールアドレスを入れて切り替える。
func (c *Controller) RegisterUser(ctx context.Context, reg api.Registration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.api.RegisterUser(ctx, reg); err != nil {
		c.fail(err, fallbackRegister)
		return err
	}
	c.screen.notify(MsgRegistered, NoticeSuccess)
	c.screen.update(func(st *State) {
		st.AuthView = AuthUserLogin
		st.LoginEmail = reg.Email
	})
	return nil
}

// Logout はセッションを終了する。APIへのログアウト通知の失敗は無視する。
func (c *Controller) Logout(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	account := c.Account()
	if c.Token() != "" {
		if err := c.api.Logout(ctx); err != nil {
			c.logger.Debug("APIへのログアウト通知に失敗", zap.Error(err))
		}
	}
	c.resetClientState()
	c.clearPersistedToken(ctx)
	c.showAuthScreen()
	c.screen.notify(MsgLoggedOut, NoticeSuccess)
	if account != nil {
		c.publish(accountAggregateID(account), event.AggregateTypeSession, event.TypeSessionClosed,
			event.SessionData{Email: account.Email, Role: string(account.Role)})
	}
}

// Navigate は現在のロールで許可されたビューを開く。切り替えた場合にtrueを返す。
func (c *Controller) Navigate(ctx context.Context, id ViewID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.router.Navigate(ctx, id, false)
}

// RefreshDashboard はダッシュボードの集計値を再取得し、結果を通知する。
func (c *Controller) RefreshDashboard(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.router.Current() != ViewAdminDashboard {
		return
	}
	c.loadDashboard(ctx, true)
}

// RefreshCurrent は表示中のビューのデータを再取得する。
func (c *Controller) RefreshCurrent(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.router.Current()
	if current == ViewAdminDashboard {
		c.loadDashboard(ctx, true)
		return
	}
	if view, ok := c.router.View(current); ok && view.Loader != nil {
		view.Loader(ctx)
	}
}

// CreateProduct は商品を作成し、商品一覧とダッシュボードを並行して再取得する。
func (c *Controller) CreateProduct(ctx context.Context, in api.ProductInput) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.api.CreateProduct(ctx, in); err != nil {
		c.fail(err, fallbackCreateProduct)
		return err
	}
	c.screen.notify(MsgProductCreated, NoticeSuccess)
	c.parallel(ctx, c.loadAdminProducts, func(ctx context.Context) { c.loadDashboard(ctx, false) })
	return nil
}

// UpdateProduct は商品を更新し、商品一覧を再取得する。
func (c *Controller) UpdateProduct(ctx context.Context, id int64, in api.ProductInput) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.api.UpdateProduct(ctx, id, in); err != nil {
		c.fail(err, fallbackUpdateProduct)
		return err
	}
	c.screen.notify(MsgProductUpdated, NoticeSuccess)
	c.loadAdminProducts(ctx)
	return nil
}

// DeleteProduct は商品を削除し、商品一覧とダッシュボードを並行して再取得する。
// 削除の確認はUI側で行う。
func (c *Controller) DeleteProduct(ctx context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.api.DeleteProduct(ctx, id); err != nil {
		c.fail(err, fallbackDeleteProduct)
		return err
	}
	c.screen.notify(MsgProductDeleted, NoticeSuccess)
	c.parallel(ctx, c.loadAdminProducts, func(ctx context.Context) { c.loadDashboard(ctx, false) })
	return nil
}

// SaveSiteConfig はサイト設定を保存し、保存後の設定を画面に反映する。
func (c *Controller) SaveSiteConfig(ctx context.Context, in api.SiteConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	in.SiteName = strings.TrimSpace(in.SiteName)
	in.Tagline = strings.TrimSpace(in.Tagline)
	in.HeroTitle = strings.TrimSpace(in.HeroTitle)
	in.HeroSubtitle = strings.TrimSpace(in.HeroSubtitle)

	saved, err := c.api.UpdateSiteConfig(ctx, in)
	if err != nil {
		c.fail(err, fallbackSaveSite)
		return err
	}
	c.render(c.currentEpoch(), func(st *State) {
		st.Site = saved.WithDefaults()
		form := siteForm(*saved)
		st.SiteForm = &form
	})
	c.screen.notify(MsgSiteConfigSaved, NoticeSuccess)
	return nil
}

// AddToCart はカタログにある商品をカートに1つ追加する。
func (c *Controller) AddToCart(productID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stateMu.Lock()
	var found *api.Product
	for i := range c.catalog {
		if c.catalog[i].ID == productID {
			found = &c.catalog[i]
			break
		}
	}
	if found != nil {
		c.cart.Add(found.ID, found.Nome, found.Preco)
	}
	c.stateMu.Unlock()

	if found == nil {
		c.screen.notify(MsgProductNotFound, NoticeError)
		return fmt.Errorf("商品ID %d: %w", productID, ErrProductNotFound)
	}
	c.renderCart()
	c.screen.notify(MsgAddedToCart, NoticeSuccess)
	return nil
}

// RemoveFromCart は商品の行をカートから取り除く。
func (c *Controller) RemoveFromCart(productID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stateMu.Lock()
	c.cart.Remove(productID)
	c.stateMu.Unlock()
	c.renderCart()
}

// Checkout はカートの商品を購入する。成功するとカートを空にし、
// プロフィールと購入履歴を並行して再取得する。
func (c *Controller) Checkout(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stateMu.RLock()
	ids := c.cart.ProductIDs()
	total := c.cart.Total()
	c.stateMu.RUnlock()

	if len(ids) == 0 {
		c.screen.notify(MsgEmptyCart, NoticeError)
		return ErrEmptyCart
	}
	if err := c.api.Checkout(ctx, ids); err != nil {
		c.fail(err, fallbackCheckout)
		return err
	}

	c.stateMu.Lock()
	c.cart.Clear()
	c.stateMu.Unlock()
	c.renderCart()
	c.screen.notify(MsgCheckoutCompleted, NoticeSuccess)
	if account := c.Account(); account != nil {
		c.publish(accountAggregateID(account), event.AggregateTypeCart, event.TypeCheckoutCompleted,
			event.CheckoutCompletedData{ProductIDs: ids, Total: total})
	}
	c.parallel(ctx, c.loadUserProfile, c.loadUserOrders)
	return nil
}

// Recharge は残高をチャージし、プロフィールを再取得する。
func (c *Controller) Recharge(ctx context.Context, valor float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.api.Recharge(ctx, valor); err != nil {
		c.fail(err, fallbackRecharge)
		return err
	}
	c.screen.notify(MsgRecharged, NoticeSuccess)
	c.loadUserProfile(ctx)
	return nil
}

// login はログインAPIを呼び、トークンを保存して認証済み状態に入る。
func (c *Controller) login(ctx context.Context, cred api.Credentials, admin bool) error {
	var (
		result *api.LoginResult
		err    error
	)
	if admin {
		result, err = c.api.LoginAdmin(ctx, cred)
	} else {
		result, err = c.api.LoginUser(ctx, cred)
	}
	if err != nil {
		fallback := fallbackLoginUser
		if admin {
			fallback = fallbackLoginAdmin
		}
		c.fail(err, fallback)
		return err
	}

	c.setToken(result.Token)
	if err := c.tokens.Save(ctx, result.Token); err != nil {
		c.logger.Warn("セッショントークンの保存に失敗", zap.Error(err))
	}
	if admin {
		c.screen.notify(MsgLoginAdmin, NoticeSuccess)
	} else {
		c.screen.notify(MsgLoginUser, NoticeSuccess)
	}
	c.publish(accountAggregateID(&result.Account), event.AggregateTypeSession, event.TypeSessionOpened,
		event.SessionData{Email: result.Account.Email, Role: string(result.Account.Role)})
	c.enterAuthenticated(ctx, &result.Account)
	return nil
}

// restoreSession は保存済みのトークンを現在のトークンにして/auth/meを呼ぶ。
// 失敗した場合はクライアント状態と保存済みトークンを消す。
func (c *Controller) restoreSession(ctx context.Context) bool {
	token := c.tokens.Load(ctx)
	if token == "" {
		return false
	}
	c.setToken(token)

	account, err := c.api.Me(ctx)
	if err != nil {
		c.logger.Info("セッションの復元に失敗", zap.Error(err))
		c.resetClientState()
		c.clearPersistedToken(ctx)
		return false
	}
	c.publish(accountAggregateID(account), event.AggregateTypeSession, event.TypeSessionRestored,
		event.SessionData{Email: account.Email, Role: string(account.Role)})
	c.enterAuthenticated(ctx, account)
	return true
}

// enterAuthenticated はアカウントを保持し、ロールの先頭ビューを開く。
func (c *Controller) enterAuthenticated(ctx context.Context, account *session.Account) {
	acc := *account
	c.stateMu.Lock()
	c.session.Account = &acc
	token := c.session.Token
	c.stateMu.Unlock()

	var expiresAt time.Time
	if info, ok := session.Peek(token); ok {
		expiresAt = info.ExpiresAt
	}
	c.screen.update(func(st *State) {
		st.SessionChip = fmt.Sprintf("%s (%s)", acc.Nome, acc.Role.Label())
		st.SessionExpiresAt = expiresAt
		st.AuthVisible = false
		st.Nav = navItems(acc.Role, "")
	})
	c.router.Enter(ctx, acc.Role)
}

// handleUnauthorized は認証付きリクエストが401を受け取った時にゲートウェイから呼ばれる。
// 操作の実行中に呼ばれるため、muは取得しない。
func (c *Controller) handleUnauthorized(err error) {
	c.logger.Info("セッションが無効になった", zap.Error(err))

	account := c.Account()
	c.resetClientState()
	c.clearPersistedToken(context.Background())
	c.showAuthScreen()
	c.screen.notify(MsgSessionExpired, NoticeError)

	aggregateID := "anonymous"
	data := event.SessionData{}
	if account != nil {
		aggregateID = accountAggregateID(account)
		data = event.SessionData{Email: account.Email, Role: string(account.Role)}
	}
	c.publish(aggregateID, event.AggregateTypeSession, event.TypeSessionExpired, data)
}

// setAPIStatus はAPIへの到達可否を画面に反映する。
func (c *Controller) setAPIStatus(online bool) {
	c.stateMu.Lock()
	changed := c.online != online
	c.online = online
	c.stateMu.Unlock()

	c.screen.update(func(st *State) {
		st.APIOnline = online
	})
	if changed {
		c.publish(c.gateway.BaseURL(), event.AggregateTypeConnection, event.TypeConnectivityChanged,
			event.ConnectivityChangedData{Online: online})
	}
}

// activateView はビューの切り替えを画面に反映する。
func (c *Controller) activateView(view ViewDescriptor, role session.Role, forced bool) {
	c.screen.update(func(st *State) {
		st.ActiveView = view.ID
		st.HeaderTitle = view.Title
		st.HeaderEyebrow = view.Eyebrow
		st.Nav = navItems(role, view.ID)
	})
	c.publish(string(view.ID), event.AggregateTypeView, event.TypeViewActivated,
		event.ViewActivatedData{Role: string(role), Forced: forced})
}

// setToken は現在のセッショントークンを設定する。
func (c *Controller) setToken(token string) {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	c.session.Token = token
}

// resetClientState はセッション、カート、カタログと画面上のデータを消す。
func (c *Controller) resetClientState() {
	c.stateMu.Lock()
	c.session = session.Session{}
	c.cart.Clear()
	c.catalog = nil
	c.epoch++
	c.stateMu.Unlock()

	c.router.Reset()
	c.screen.update(func(st *State) {
		st.SessionChip = ""
		st.SessionExpiresAt = time.Time{}
		st.Nav = nil
		st.ActiveView = ""
		st.HeaderTitle = ""
		st.HeaderEyebrow = ""
		st.Summary = nil
		st.AdminProducts = nil
		st.AdminOrders = nil
		st.AdminUsers = nil
		st.SiteForm = nil
		st.Catalog = nil
		st.Cart = nil
		st.CartTotal = 0
		st.UserOrders = nil
		st.Profile = nil
	})
}

// clearPersistedToken は保存済みのトークンを消す。失敗はログに残すだけ。
func (c *Controller) clearPersistedToken(ctx context.Context) {
	if err := c.tokens.Clear(ctx); err != nil {
		c.logger.Warn("保存済みセッショントークンの削除に失敗", zap.Error(err))
	}
}

// showAuthScreen はログイン画面を購入者ログインのタブで表示する。
func (c *Controller) showAuthScreen() {
	c.screen.update(func(st *State) {
		st.AuthVisible = true
		st.AuthView = AuthUserLogin
	})
}

// renderCart はカートの内容を画面に反映する。
func (c *Controller) renderCart() {
	c.stateMu.RLock()
	items := c.cart.Items()
	total := c.cart.Total()
	c.stateMu.RUnlock()

	c.screen.update(func(st *State) {
		st.Cart = items
		st.CartTotal = total
	})
}

// currentEpoch はクライアント状態の世代を返す。
func (c *Controller) currentEpoch() uint64 {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.epoch
}

// render はepochの世代が続いている場合に限り画面を更新する。
// ログアウト後に届いた応答で画面を書き換えないために使う。
func (c *Controller) render(epoch uint64, fn func(st *State)) bool {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	if c.epoch != epoch {
		return false
	}
	c.screen.update(fn)
	return true
}

// parallel はローダーを並行して実行し、すべての完了を待つ。
func (c *Controller) parallel(ctx context.Context, loaders ...func(ctx context.Context)) {
	g, gctx := errgroup.WithContext(ctx)
	for _, load := range loaders {
		g.Go(func() error {
			load(gctx)
			return nil
		})
	}
	_ = g.Wait()
}

// fail は操作の失敗を通知に変換する。
// 401による強制ログアウトは既に通知済みのため何もしない。
func (c *Controller) fail(err error, fallback string) {
	if errors.Is(err, httpclient.ErrAuthExpired) {
		return
	}
	c.logger.Warn("操作に失敗", zap.String("fallback", fallback), zap.Error(err))
	c.screen.notify(userMessage(err, fallback), NoticeError)
}

// publish はコンソールイベントを送信する。
func (c *Controller) publish(aggregateID string, aggregateType event.AggregateType, eventType event.Type, data any) {
	e, err := event.New(c.now(), aggregateID, aggregateType, eventType, data)
	if err != nil {
		c.logger.Warn("イベントの生成に失敗", zap.String("event_type", string(eventType)), zap.Error(err))
		return
	}
	c.events.Publish(e)
}

// userMessage はエラーから利用者向けの文言を取り出す。
// APIのエラーと接続エラー以外はfallbackを返す。
func userMessage(err error, fallback string) string {
	var httpErr *httpclient.HTTPError
	if errors.As(err, &httpErr) && httpErr.Message != "" {
		return httpErr.Message
	}
	if errors.Is(err, httpclient.ErrConnectivity) {
		return httpclient.ConnectivityMessage
	}
	return fallback
}

// accountAggregateID はイベントの対象IDをアカウントから作る。
func accountAggregateID(a *session.Account) string {
	return string(a.Role) + "-" + strconv.FormatInt(a.ID, 10)
}

// navItems はロールのナビゲーション項目を作る。
func navItems(role session.Role, active ViewID) []NavItem {
	ids := navigationTable[role]
	if len(ids) == 0 {
		return nil
	}
	items := make([]NavItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, NavItem{ID: id, Label: viewLabel(id), Active: id == active})
	}
	return items
}

// viewLabel はビューのナビゲーション表示名を返す。
func viewLabel(id ViewID) string {
	for _, v := range viewCatalog {
		if v.ID == id {
			return v.Label
		}
	}
	return string(id)
}

// siteForm は編集フォームに入れる設定を作る。色だけ既定値で補う。
func siteForm(cfg api.SiteConfig) api.SiteConfig {
	if cfg.AccentColor == "" {
		cfg.AccentColor = api.DefaultAccentColor
	}
	if cfg.HighlightColor == "" {
		cfg.HighlightColor = api.DefaultHighlightColor
	}
	return cfg
}
