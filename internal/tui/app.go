// Package tui はコンソールの画面状態をbubbleteaで描画し、キー操作をコントローラーの操作に変換する。
package tui

import (
	"context"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nao1215/lojacontrol/internal/api"
	"github.com/nao1215/lojacontrol/internal/console"
)

// commandDoneMsg はコントローラーの操作が終わったことを知らせる。
type commandDoneMsg struct {
	err error
	// closeForm がtrueの場合、操作が成功したら入力フォームを閉じる。
	closeForm bool
}

// noticeExpiredMsg は通知の表示期限が来たことを知らせる。
type noticeExpiredMsg struct{}

// App はbubbleteaのモデル。画面の内容はコントローラーのスナップショットから描く。
type App struct {
	ctrl   *console.Controller
	ctx    context.Context
	now    func() time.Time
	logger *zap.Logger

	// state は最後に取得したスナップショット。
	state  console.State
	width  int
	height int

	// authForm はログイン画面のフォーム。authFormViewのタブに対応する。
	authForm     *form
	authFormView console.AuthView
	// form はアプリ画面で開いている入力フォーム。
	form *form
	// selection は一覧で選択中の行。
	selection int
	// view はselectionが対応するビュー。
	view console.ViewID
	// pendingDelete は削除の確認待ちの商品。
	pendingDelete *api.Product
}

// AppOption はAppの生成時設定を変更する関数。
type AppOption func(*App)

// WithContext はコントローラーの操作に渡すコンテキストを設定する。
func WithContext(ctx context.Context) AppOption {
	return func(a *App) {
		if ctx != nil {
			a.ctx = ctx
		}
	}
}

// WithClock は通知の期限判定に使う時計を設定する。
func WithClock(now func() time.Time) AppOption {
	return func(a *App) {
		if now != nil {
			a.now = now
		}
	}
}

// WithLogger はログの出力先を設定する。
func WithLogger(logger *zap.Logger) AppOption {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewApp はコントローラーを操作するAppを生成する。
func NewApp(ctrl *console.Controller, opts ...AppOption) *App {
	a := &App{
		ctrl:   ctrl,
		ctx:    context.Background(),
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.refresh()
	return a
}

// Init はサイト設定の読み込みとセッションの復元を始める。
func (a *App) Init() tea.Cmd {
	return a.do(a.ctrl.Start)
}

// Update はメッセージを受け取って状態を更新する。
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case commandDoneMsg:
		if msg.err != nil {
			a.logger.Debug("操作に失敗", zap.Error(msg.err))
		} else if msg.closeForm {
			a.form = nil
		}
		a.refresh()
		return a, a.scheduleNoticeExpiry()

	case noticeExpiredMsg:
		a.refresh()
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.state.AuthVisible {
			return a, a.updateAuth(msg)
		}
		return a, a.updateApp(msg)
	}
	return a, nil
}

// refresh はスナップショットを取り直し、フォームと選択行を画面に合わせる。
func (a *App) refresh() {
	a.state = a.ctrl.Screen().Snapshot()

	if !a.state.AuthVisible {
		a.authForm = nil
	} else if a.authForm == nil || a.authFormView != a.state.AuthView {
		a.authForm = a.newAuthForm(a.state.AuthView, a.state.LoginEmail)
		a.authFormView = a.state.AuthView
	}

	if a.state.AuthVisible || a.view != a.state.ActiveView {
		a.selection = 0
		a.form = nil
		a.pendingDelete = nil
		a.view = a.state.ActiveView
	}
	if n := a.listLen(); a.selection >= n {
		a.selection = max(0, n-1)
	}
}

// scheduleNoticeExpiry は表示中の通知が消える時刻に再描画する。
func (a *App) scheduleNoticeExpiry() tea.Cmd {
	n, ok := a.state.ActiveNotice(a.now())
	if !ok {
		return nil
	}
	return tea.Tick(n.ExpiresAt.Sub(a.now()), func(time.Time) tea.Msg {
		return noticeExpiredMsg{}
	})
}

// run はエラーを返す操作をバックグラウンドで実行するコマンドを返す。
func (a *App) run(fn func(ctx context.Context) error, closeForm bool) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		return commandDoneMsg{err: fn(ctx), closeForm: closeForm}
	}
}

// do は戻り値のない操作をバックグラウンドで実行するコマンドを返す。
func (a *App) do(fn func(ctx context.Context)) tea.Cmd {
	return a.run(func(ctx context.Context) error {
		fn(ctx)
		return nil
	}, false)
}

// updateAuth はログイン画面のキー操作を処理する。
func (a *App) updateAuth(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "f1":
		return a.switchAuthView(console.AuthUserLogin)
	case "f2":
		return a.switchAuthView(console.AuthAdminLogin)
	case "f3":
		return a.switchAuthView(console.AuthRegister)
	}
	if a.authForm == nil {
		return nil
	}
	return a.authForm.handleKey(msg)
}

func (a *App) switchAuthView(v console.AuthView) tea.Cmd {
	return a.do(func(context.Context) {
		a.ctrl.SwitchAuthView(v)
	})
}

// newAuthForm はログイン画面のタブに対応するフォームを生成する。
func (a *App) newAuthForm(view console.AuthView, email string) *form {
	switch view {
	case console.AuthAdminLogin:
		return newForm("Entrar como admin", a.submitLogin(true),
			formField{label: "Email"},
			formField{label: "Senha", secret: true},
		)
	case console.AuthRegister:
		return newForm("Criar conta de usuario", a.submitRegister,
			formField{label: "Nome"},
			formField{label: "Email"},
			formField{label: "Senha", secret: true},
			formField{label: "Saldo inicial", value: "0"},
		)
	default:
		return newForm("Entrar como usuario", a.submitLogin(false),
			formField{label: "Email", value: email},
			formField{label: "Senha", secret: true},
		)
	}
}

func (a *App) submitLogin(admin bool) func(f *form) (tea.Cmd, error) {
	return func(f *form) (tea.Cmd, error) {
		cred := api.Credentials{Email: f.value(0), Password: f.rawValue(1)}
		if admin {
			return a.run(func(ctx context.Context) error {
				return a.ctrl.LoginAdmin(ctx, cred)
			}, false), nil
		}
		return a.run(func(ctx context.Context) error {
			return a.ctrl.LoginUser(ctx, cred)
		}, false), nil
	}
}

func (a *App) submitRegister(f *form) (tea.Cmd, error) {
	saldo := 0.0
	if f.value(3) != "" {
		v, err := f.amount(3)
		if err != nil {
			return nil, err
		}
		saldo = v
	}
	reg := api.Registration{
		Nome:         f.value(0),
		Email:        f.value(1),
		Password:     f.rawValue(2),
		SaldoInicial: saldo,
	}
	return a.run(func(ctx context.Context) error {
		return a.ctrl.RegisterUser(ctx, reg)
	}, false), nil
}

// updateApp はログイン後の画面のキー操作を処理する。
func (a *App) updateApp(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	if a.pendingDelete != nil {
		product := *a.pendingDelete
		a.pendingDelete = nil
		if key == "s" || key == "y" || key == "enter" {
			return a.run(func(ctx context.Context) error {
				return a.ctrl.DeleteProduct(ctx, product.ID)
			}, false)
		}
		return nil
	}

	if a.form != nil {
		if key == "esc" {
			a.form = nil
			return nil
		}
		return a.form.handleKey(msg)
	}

	switch key {
	case "q":
		return tea.Quit
	case "L":
		return a.do(a.ctrl.Logout)
	case "tab", "right", "l":
		return a.navigateBy(1)
	case "shift+tab", "left", "h":
		return a.navigateBy(-1)
	case "up", "k":
		if a.selection > 0 {
			a.selection--
		}
		return nil
	case "down", "j":
		if a.selection < a.listLen()-1 {
			a.selection++
		}
		return nil
	case "r":
		return a.do(a.ctrl.RefreshCurrent)
	}

	if i, err := strconv.Atoi(key); err == nil && i >= 1 && i <= len(a.state.Nav) {
		return a.navigate(a.state.Nav[i-1].ID)
	}

	switch a.state.ActiveView {
	case console.ViewAdminProducts:
		return a.updateAdminProducts(key)
	case console.ViewAdminSite:
		if key == "e" {
			a.form = a.newSiteForm()
		}
	case console.ViewUserShop:
		return a.updateShop(key)
	case console.ViewUserProfile:
		if key == "g" {
			a.form = newForm("Adicionar saldo", a.submitRecharge, formField{label: "Valor"})
		}
	}
	return nil
}

func (a *App) navigate(id console.ViewID) tea.Cmd {
	return a.do(func(ctx context.Context) {
		a.ctrl.Navigate(ctx, id)
	})
}

// navigateBy はナビゲーションの前後のビューに移動する。
func (a *App) navigateBy(delta int) tea.Cmd {
	n := len(a.state.Nav)
	if n == 0 {
		return nil
	}
	current := 0
	for i, item := range a.state.Nav {
		if item.Active {
			current = i
			break
		}
	}
	return a.navigate(a.state.Nav[(current+delta+n)%n].ID)
}

func (a *App) updateAdminProducts(key string) tea.Cmd {
	switch key {
	case "n":
		a.form = a.newProductForm(nil)
	case "e":
		if p, ok := a.selectedProduct(a.state.AdminProducts); ok {
			a.form = a.newProductForm(&p)
		}
	case "d":
		if p, ok := a.selectedProduct(a.state.AdminProducts); ok {
			a.pendingDelete = &p
		}
	}
	return nil
}

// newProductForm は商品の作成フォーム、productがあれば編集フォームを生成する。
func (a *App) newProductForm(product *api.Product) *form {
	title := "Novo produto"
	fields := []formField{{label: "Nome"}, {label: "Descricao"}, {label: "Preco"}}
	if product != nil {
		title = "Editar produto #" + strconv.FormatInt(product.ID, 10)
		fields[0].value = product.Nome
		fields[1].value = product.Descricao
		fields[2].value = strconv.FormatFloat(product.Preco, 'f', 2, 64)
	}
	return newForm(title, func(f *form) (tea.Cmd, error) {
		preco, err := f.amount(2)
		if err != nil {
			return nil, err
		}
		in := api.ProductInput{Nome: f.value(0), Descricao: f.value(1), Preco: preco}
		if product == nil {
			return a.run(func(ctx context.Context) error {
				return a.ctrl.CreateProduct(ctx, in)
			}, true), nil
		}
		id := product.ID
		return a.run(func(ctx context.Context) error {
			return a.ctrl.UpdateProduct(ctx, id, in)
		}, true), nil
	}, fields...)
}

// newSiteForm は編集中のサイト設定を入れたフォームを生成する。
func (a *App) newSiteForm() *form {
	cfg := a.state.Site
	if a.state.SiteForm != nil {
		cfg = *a.state.SiteForm
	}
	return newForm("Visual da loja", func(f *form) (tea.Cmd, error) {
		in := api.SiteConfig{
			SiteName:       f.value(0),
			Tagline:        f.value(1),
			HeroTitle:      f.value(2),
			HeroSubtitle:   f.value(3),
			AccentColor:    f.value(4),
			HighlightColor: f.value(5),
		}
		return a.run(func(ctx context.Context) error {
			return a.ctrl.SaveSiteConfig(ctx, in)
		}, true), nil
	},
		formField{label: "Nome da loja", value: cfg.SiteName},
		formField{label: "Slogan", value: cfg.Tagline},
		formField{label: "Titulo principal", value: cfg.HeroTitle},
		formField{label: "Subtitulo", value: cfg.HeroSubtitle},
		formField{label: "Cor de destaque", value: cfg.AccentColor},
		formField{label: "Cor secundaria", value: cfg.HighlightColor},
	)
}

func (a *App) submitRecharge(f *form) (tea.Cmd, error) {
	valor, err := f.amount(0)
	if err != nil {
		return nil, err
	}
	return a.run(func(ctx context.Context) error {
		return a.ctrl.Recharge(ctx, valor)
	}, true), nil
}

func (a *App) updateShop(key string) tea.Cmd {
	switch key {
	case "a", "enter":
		if p, ok := a.selectedProduct(a.state.Catalog); ok {
			return a.run(func(context.Context) error {
				return a.ctrl.AddToCart(p.ID)
			}, false)
		}
	case "x":
		if p, ok := a.selectedProduct(a.state.Catalog); ok {
			return a.do(func(context.Context) {
				a.ctrl.RemoveFromCart(p.ID)
			})
		}
	case "c":
		return a.run(a.ctrl.Checkout, false)
	}
	return nil
}

func (a *App) selectedProduct(products []api.Product) (api.Product, bool) {
	if a.selection < 0 || a.selection >= len(products) {
		return api.Product{}, false
	}
	return products[a.selection], true
}

// listLen は表示中のビューで選択できる行の数を返す。
func (a *App) listLen() int {
	switch a.state.ActiveView {
	case console.ViewAdminProducts:
		return len(a.state.AdminProducts)
	case console.ViewAdminOrders:
		return len(a.state.AdminOrders)
	case console.ViewAdminUsers:
		return len(a.state.AdminUsers)
	case console.ViewUserShop:
		return len(a.state.Catalog)
	case console.ViewUserOrders:
		return len(a.state.UserOrders)
	}
	return 0
}
