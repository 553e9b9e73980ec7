package console

import (
	"sync"
	"time"

	"github.com/nao1215/lojacontrol/internal/api"
	"github.com/nao1215/lojacontrol/internal/cart"
)

// NoticeDuration は通知を表示し続ける時間。
const NoticeDuration = 3200 * time.Millisecond

// NoticeKind は通知の種類。
type NoticeKind string

const (
	// NoticeSuccess は成功の通知。
	NoticeSuccess NoticeKind = "success"
	// NoticeError は失敗の通知。
	NoticeError NoticeKind = "error"
)

// Notice は一定時間だけ表示する通知。
type Notice struct {
	// Message は表示する文言。
	Message string
	// Kind は通知の種類。
	Kind NoticeKind
	// ExpiresAt はこの時刻を過ぎたら表示しない。
	ExpiresAt time.Time
}

// AuthView はログイン画面のタブ。
type AuthView string

const (
	// AuthUserLogin は購入者ログインのタブ。
	AuthUserLogin AuthView = "user-login"
	// AuthAdminLogin は管理者ログインのタブ。
	AuthAdminLogin AuthView = "admin-login"
	// AuthRegister は購入者登録のタブ。
	AuthRegister AuthView = "user-register"
)

// NavItem はナビゲーションの1項目。
type NavItem struct {
	// ID は遷移先のビューID。
	ID ViewID
	// Label は表示名。
	Label string
	// Active は表示中のビューであればtrue。
	Active bool
}

// State は画面に描画する内容のスナップショット。
// スライスは常に丸ごと差し替えるため、スナップショット間で要素を共有しても安全。
type State struct {
	// APIOnline は直近のリクエストでAPIに到達できたかどうか。
	APIOnline bool
	// Notice は最後に出した通知。期限切れの判定はActiveNoticeで行う。
	Notice *Notice

	// AuthVisible はログイン画面を表示中かどうか。
	AuthVisible bool
	// AuthView はログイン画面で選択中のタブ。
	AuthView AuthView
	// LoginEmail は登録直後にログインフォームへ入れておくメールアドレス。
	LoginEmail string

	// SessionChip は "<名前> (Admin|Usuario)" 形式のログイン中表示。
	SessionChip string
	// SessionExpiresAt はトークンがJWTの場合の有効期限。
	SessionExpiresAt time.Time
	// Nav は現在のロールで遷移できるビュー。
	Nav []NavItem
	// ActiveView は表示中のビュー。
	ActiveView ViewID
	// HeaderTitle はヘッダーの見出し。
	HeaderTitle string
	// HeaderEyebrow はヘッダーの小見出し。
	HeaderEyebrow string

	// Site は公開のサイト設定（既定値で補完済み）。
	Site api.SiteConfig

	// Summary は管理ダッシュボードの集計値。
	Summary *api.Summary
	// AdminProducts は管理用の商品一覧。
	AdminProducts []api.Product
	// AdminOrders はストア全体の注文一覧。
	AdminOrders []api.Order
	// AdminUsers は購入者一覧。
	AdminUsers []api.Customer
	// SiteForm は編集中のサイト設定。
	SiteForm *api.SiteConfig

	// Catalog は公開カタログ。
	Catalog []api.Product
	// Cart はカートの行。
	Cart []cart.Item
	// CartTotal はカートの合計金額。
	CartTotal float64
	// UserOrders は購入者自身の注文履歴。
	UserOrders []api.Order
	// Profile は購入者自身のプロフィール。
	Profile *api.Profile
}

// ActiveNotice はnowの時点で表示すべき通知を返す。
func (s State) ActiveNotice(now time.Time) (Notice, bool) {
	if s.Notice == nil || !now.Before(s.Notice.ExpiresAt) {
		return Notice{}, false
	}
	return *s.Notice, true
}

// Screen は画面の状態を保持する。
// ビューのローダーは並行して互いに重ならない領域を書き換え、UIはいつでもスナップショットを取れる。
type Screen struct {
	mu  sync.RWMutex
	st  State
	now func() time.Time
}

// newScreen はログイン画面を表示した初期状態のScreenを生成する。
func newScreen(now func() time.Time) *Screen {
	return &Screen{
		st: State{
			APIOnline:   true,
			AuthVisible: true,
			AuthView:    AuthUserLogin,
			Site:        api.SiteConfig{}.WithDefaults(),
		},
		now: now,
	}
}

// Snapshot は現在の状態のコピーを返す。
func (s *Screen) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.st
	if st.Notice != nil {
		n := *st.Notice
		st.Notice = &n
	}
	return st
}

// update は状態をロックした上でfnを適用する。
func (s *Screen) update(fn func(st *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.st)
}

// notify は通知を出す。空のメッセージは無視する。
func (s *Screen) notify(message string, kind NoticeKind) {
	if message == "" {
		return
	}
	expires := s.now().Add(NoticeDuration)
	s.update(func(st *State) {
		st.Notice = &Notice{Message: message, Kind: kind, ExpiresAt: expires}
	})
}
