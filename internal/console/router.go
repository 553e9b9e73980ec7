package console

import (
	"context"
	"slices"
	"sync"

	"github.com/nao1215/lojacontrol/internal/session"
)

// Router はロールごとのナビゲーション表に従ってビューを切り替える。
// 表示中のビューは常に現在のロールの表に含まれるか、空である。
type Router struct {
	views map[ViewID]ViewDescriptor
	nav   map[session.Role][]ViewID
	// onActivate はビューが切り替わった直後、ローダーの前に呼ばれる。
	onActivate func(view ViewDescriptor, role session.Role, forced bool)

	mu      sync.Mutex
	role    session.Role
	current ViewID
}

// NewRouter はビューの表とナビゲーション表からRouterを生成する。
func NewRouter(views map[ViewID]ViewDescriptor, nav map[session.Role][]ViewID, onActivate func(ViewDescriptor, session.Role, bool)) *Router {
	if onActivate == nil {
		onActivate = func(ViewDescriptor, session.Role, bool) {}
	}
	return &Router{views: views, nav: nav, onActivate: onActivate}
}

// Enter はロールのナビゲーション表を選び、先頭のビューを強制的に開く。
func (r *Router) Enter(ctx context.Context, role session.Role) {
	r.mu.Lock()
	r.role = role
	r.current = ""
	allowed := r.nav[role]
	r.mu.Unlock()

	if len(allowed) > 0 {
		r.Navigate(ctx, allowed[0], true)
	}
}

// Reset はロールと表示中のビューを消す。
func (r *Router) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.role = ""
	r.current = ""
}

// Navigate はビューを開き、ローダーを1回だけ呼んで完了を待つ。
//
// forceがfalseで既に表示中のビュー、または現在のロールの表にないビューは何もしない。
// 切り替えを行った場合にtrueを返す。ローダーの失敗はローダー自身が処理するため、
// Navigateが失敗することはない。
func (r *Router) Navigate(ctx context.Context, id ViewID, force bool) bool {
	r.mu.Lock()
	if !force && r.current == id {
		r.mu.Unlock()
		return false
	}
	if !slices.Contains(r.nav[r.role], id) {
		r.mu.Unlock()
		return false
	}
	view, ok := r.views[id]
	if !ok {
		r.mu.Unlock()
		return false
	}
	r.current = id
	role := r.role
	r.mu.Unlock()

	r.onActivate(view, role, force)
	if view.Loader != nil {
		view.Loader(ctx)
	}
	return true
}

// Current は表示中のビューIDを返す。
func (r *Router) Current() ViewID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Role は現在のロールを返す。未ログインの場合は空。
func (r *Router) Role() session.Role {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.role
}

// Allowed は現在のロールで遷移できるビューIDを返す。
func (r *Router) Allowed() []ViewID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.nav[r.role])
}

// View はビューIDに対応する表示情報を返す。
func (r *Router) View(id ViewID) (ViewDescriptor, bool) {
	v, ok := r.views[id]
	return v, ok
}
