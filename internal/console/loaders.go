package console

import (
	"context"

	"go.uber.org/zap"

	"github.com/nao1215/lojacontrol/internal/api"
)

// loadPublicSiteConfig は公開のサイト設定を読み込んで画面に反映する。
func (c *Controller) loadPublicSiteConfig(ctx context.Context) {
	cfg, err := c.api.PublicSiteConfig(ctx)
	if err != nil {
		c.logger.Warn("サイト設定の読み込みに失敗", zap.Error(err))
		c.screen.notify(MsgSiteConfigFailed, NoticeError)
		return
	}
	c.screen.update(func(st *State) {
		st.Site = cfg.WithDefaults()
	})
}

// loadDashboard はダッシュボードの集計値を読み込む。feedbackがtrueなら成功も通知する。
func (c *Controller) loadDashboard(ctx context.Context, feedback bool) {
	epoch := c.currentEpoch()
	summary, err := c.api.Summary(ctx)
	if err != nil {
		c.fail(err, fallbackDashboard)
		return
	}
	rendered := c.render(epoch, func(st *State) {
		st.Summary = summary
	})
	if rendered && feedback {
		c.screen.notify(MsgDashboardUpdated, NoticeSuccess)
	}
}

// loadAdminProducts は管理用の商品一覧を読み込む。
func (c *Controller) loadAdminProducts(ctx context.Context) {
	epoch := c.currentEpoch()
	products, err := c.api.AdminProducts(ctx)
	if err != nil {
		c.fail(err, fallbackAdminProducts)
		return
	}
	c.render(epoch, func(st *State) {
		st.AdminProducts = products
	})
}

// loadAdminOrders はストア全体の注文一覧を読み込む。
func (c *Controller) loadAdminOrders(ctx context.Context) {
	epoch := c.currentEpoch()
	orders, err := c.api.AdminOrders(ctx)
	if err != nil {
		c.fail(err, fallbackAdminOrders)
		return
	}
	c.render(epoch, func(st *State) {
		st.AdminOrders = orders
	})
}

// loadAdminUsers は購入者一覧を読み込む。
func (c *Controller) loadAdminUsers(ctx context.Context) {
	epoch := c.currentEpoch()
	users, err := c.api.AdminUsers(ctx)
	if err != nil {
		c.fail(err, fallbackAdminUsers)
		return
	}
	c.render(epoch, func(st *State) {
		st.AdminUsers = users
	})
}

// loadAdminSiteConfig は編集フォームにサイト設定を読み込む。
func (c *Controller) loadAdminSiteConfig(ctx context.Context) {
	epoch := c.currentEpoch()
	cfg, err := c.api.AdminSiteConfig(ctx)
	if err != nil {
		c.fail(err, fallbackAdminSite)
		return
	}
	form := siteForm(*cfg)
	c.render(epoch, func(st *State) {
		st.SiteForm = &form
	})
}

// loadShopProducts は公開カタログを読み込み、カート追加用に保持する。
func (c *Controller) loadShopProducts(ctx context.Context) {
	epoch := c.currentEpoch()
	products, err := c.api.ShopProducts(ctx)
	if err != nil {
		c.fail(err, fallbackCatalog)
		return
	}

	c.stateMu.Lock()
	if c.epoch == epoch {
		c.catalog = append([]api.Product(nil), products...)
	}
	c.stateMu.Unlock()

	c.render(epoch, func(st *State) {
		st.Catalog = products
	})
}

// loadUserOrders は購入者自身の注文履歴を読み込む。
func (c *Controller) loadUserOrders(ctx context.Context) {
	epoch := c.currentEpoch()
	orders, err := c.api.ShopOrders(ctx)
	if err != nil {
		c.fail(err, fallbackUserOrders)
		return
	}
	c.render(epoch, func(st *State) {
		st.UserOrders = orders
	})
}

// loadUserProfile は購入者自身のプロフィールを読み込む。
func (c *Controller) loadUserProfile(ctx context.Context) {
	epoch := c.currentEpoch()
	profile, err := c.api.ShopProfile(ctx)
	if err != nil {
		c.fail(err, fallbackProfile)
		return
	}
	c.render(epoch, func(st *State) {
		st.Profile = profile
	})
}
