package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nao1215/lojacontrol/internal/api"
	"github.com/nao1215/lojacontrol/internal/console"
	"github.com/nao1215/lojacontrol/internal/money"
)

// authTabs はログイン画面のタブと切り替えキー。
var authTabs = []struct {
	view  console.AuthView
	key   string
	label string
}{
	{view: console.AuthUserLogin, key: "F1", label: "Login usuario"},
	{view: console.AuthAdminLogin, key: "F2", label: "Login admin"},
	{view: console.AuthRegister, key: "F3", label: "Cadastro"},
}

// View は現在の状態を文字列に描画する。
func (a *App) View() string {
	var body string
	if a.state.AuthVisible {
		body = a.viewAuth()
	} else {
		body = a.viewApp()
	}
	if a.width > 0 {
		return lipgloss.NewStyle().MaxWidth(a.width).Render(body)
	}
	return body
}

func (a *App) viewAuth() string {
	site := a.state.Site
	header := lipgloss.JoinVertical(lipgloss.Left,
		accentStyle(site.AccentColor).Render(site.SiteName),
		eyebrowStyle.Render(site.Tagline),
	)

	tabs := make([]string, 0, len(authTabs))
	for _, tab := range authTabs {
		label := tab.key + " " + tab.label
		if tab.view == a.state.AuthView {
			tabs = append(tabs, navActiveStyle.Render(label))
		} else {
			tabs = append(tabs, navStyle.Render(label))
		}
	}

	formView := ""
	if a.authForm != nil {
		formView = a.authForm.view()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, header, "  ", a.viewAPIChip()),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		panelStyle.Render(formView),
		a.viewNotice(),
		mutedStyle.Render("F1/F2/F3 trocar aba • ctrl+c sair"),
	)
}

func (a *App) viewApp() string {
	st := a.state
	top := lipgloss.JoinHorizontal(lipgloss.Top,
		accentStyle(st.Site.AccentColor).Render(st.Site.SiteName),
		"  ",
		a.viewSessionChip(),
		"  ",
		a.viewAPIChip(),
	)

	nav := make([]string, 0, len(st.Nav))
	for i, item := range st.Nav {
		label := fmt.Sprintf("%d %s", i+1, item.Label)
		if item.Active {
			nav = append(nav, navActiveStyle.Render(label))
		} else {
			nav = append(nav, navStyle.Render(label))
		}
	}

	header := lipgloss.JoinVertical(lipgloss.Left,
		eyebrowStyle.Render(st.HeaderEyebrow),
		titleStyle.Render(st.HeaderTitle),
	)

	content := a.viewBody()
	if a.form != nil {
		content = a.form.view()
	}
	body := panelStyle.Render(content)
	if st.ActiveView == console.ViewUserShop && a.form == nil {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", panelStyle.Render(a.viewCart()))
	}

	rows := []string{top, "", lipgloss.JoinHorizontal(lipgloss.Top, nav...), "", header, body}
	if a.pendingDelete != nil {
		rows = append(rows, errorStyle.Render(fmt.Sprintf("Excluir %q? (s/n)", a.pendingDelete.Nome)))
	}
	rows = append(rows, a.viewNotice(), mutedStyle.Render(a.helpText()))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (a *App) viewSessionChip() string {
	chip := a.state.SessionChip
	if !a.state.SessionExpiresAt.IsZero() {
		chip += " · expira " + a.state.SessionExpiresAt.Local().Format("02/01 15:04")
	}
	return mutedStyle.Render(chip)
}

func (a *App) viewAPIChip() string {
	if a.state.APIOnline {
		return chipOnlineStyle.Render("API online")
	}
	return chipOfflineStyle.Render("API offline")
}

func (a *App) viewNotice() string {
	n, ok := a.state.ActiveNotice(a.now())
	if !ok {
		return ""
	}
	if n.Kind == console.NoticeError {
		return errorStyle.Render(n.Message)
	}
	return successStyle.Render(n.Message)
}

func (a *App) helpText() string {
	common := "tab/1-8 navegar • r atualizar • L sair da conta • q fechar"
	if a.form != nil {
		return "esc cancelar"
	}
	switch a.state.ActiveView {
	case console.ViewAdminProducts:
		return "n novo • e editar • d excluir • " + common
	case console.ViewAdminSite:
		return "e editar visual • " + common
	case console.ViewUserShop:
		return "a adicionar • x remover • c finalizar compra • " + common
	case console.ViewUserProfile:
		return "g adicionar saldo • " + common
	}
	return common
}

// viewBody は表示中のビューの本文を描画する。
func (a *App) viewBody() string {
	st := a.state
	switch st.ActiveView {
	case console.ViewAdminDashboard:
		return viewSummary(st.Summary)
	case console.ViewAdminProducts:
		return a.viewList(len(st.AdminProducts), "Nenhum produto cadastrado.", func(i int) string {
			p := st.AdminProducts[i]
			return fmt.Sprintf("#%d %s · %s\n   %s", p.ID, p.Nome, money.Format(p.Preco), mutedStyle.Render(p.Descricao))
		})
	case console.ViewAdminOrders:
		return a.viewList(len(st.AdminOrders), "Nenhum pedido encontrado.", func(i int) string {
			o := st.AdminOrders[i]
			return fmt.Sprintf("#%d %s · %s · %s\n   %s", o.ID, o.UsuarioNome, money.Format(o.Total), o.CreatedAt, mutedStyle.Render(o.ItemNames()))
		})
	case console.ViewAdminUsers:
		return a.viewList(len(st.AdminUsers), "Nenhum usuario cadastrado.", func(i int) string {
			u := st.AdminUsers[i]
			return fmt.Sprintf("%s <%s> · saldo %s", u.Nome, u.Email, money.Format(u.Saldo))
		})
	case console.ViewAdminSite:
		return viewSiteConfig(st.SiteForm)
	case console.ViewUserShop:
		hero := lipgloss.JoinVertical(lipgloss.Left,
			accentStyle(st.Site.HighlightColor).Render(st.Site.HeroTitle),
			mutedStyle.Render(st.Site.HeroSubtitle),
			"",
		)
		return hero + a.viewList(len(st.Catalog), "Nenhum produto disponivel.", func(i int) string {
			p := st.Catalog[i]
			return fmt.Sprintf("%s · %s\n   %s", p.Nome, money.Format(p.Preco), mutedStyle.Render(p.Descricao))
		})
	case console.ViewUserOrders:
		return a.viewList(len(st.UserOrders), "Voce ainda nao fez compras.", func(i int) string {
			o := st.UserOrders[i]
			return fmt.Sprintf("Pedido #%d · %s · %s\n   %s", o.ID, money.Format(o.Total), o.CreatedAt, mutedStyle.Render(o.ItemNames()))
		})
	case console.ViewUserProfile:
		return viewProfile(st.Profile)
	}
	return ""
}

// viewList は選択中の行に印を付けた一覧を描画する。
func (a *App) viewList(n int, empty string, row func(i int) string) string {
	if n == 0 {
		return mutedStyle.Render(empty)
	}
	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if i == a.selection {
			lines = append(lines, selectedStyle.Render("▸ ")+row(i))
		} else {
			lines = append(lines, "  "+row(i))
		}
	}
	return strings.Join(lines, "\n")
}

func (a *App) viewCart() string {
	st := a.state
	rows := []string{titleStyle.Render("Carrinho")}
	if len(st.Cart) == 0 {
		rows = append(rows, mutedStyle.Render("Carrinho vazio."))
	}
	for _, item := range st.Cart {
		rows = append(rows, fmt.Sprintf("%dx %s · %s", item.Quantity, item.Nome, money.Format(item.Subtotal())))
	}
	rows = append(rows, "", "Total: "+money.Format(st.CartTotal))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func viewSummary(s *api.Summary) string {
	if s == nil {
		return mutedStyle.Render("Carregando resumo...")
	}
	return strings.Join([]string{
		fmt.Sprintf("Usuarios:          %d", s.Usuarios),
		fmt.Sprintf("Produtos:          %d", s.Produtos),
		fmt.Sprintf("Pedidos:           %d", s.Pedidos),
		fmt.Sprintf("Faturamento:       %s", money.Format(s.Faturamento)),
		fmt.Sprintf("Saldo em carteira: %s", money.Format(s.SaldoTotal)),
	}, "\n")
}

func viewSiteConfig(cfg *api.SiteConfig) string {
	if cfg == nil {
		return mutedStyle.Render("Carregando configuracao...")
	}
	return strings.Join([]string{
		"Nome da loja:     " + cfg.SiteName,
		"Slogan:           " + cfg.Tagline,
		"Titulo principal: " + cfg.HeroTitle,
		"Subtitulo:        " + cfg.HeroSubtitle,
		"Cor de destaque:  " + accentStyle(cfg.AccentColor).Render(cfg.AccentColor),
		"Cor secundaria:   " + accentStyle(cfg.HighlightColor).Render(cfg.HighlightColor),
	}, "\n")
}

func viewProfile(p *api.Profile) string {
	if p == nil {
		return mutedStyle.Render("Carregando perfil...")
	}
	return strings.Join([]string{
		"Nome:  " + p.Nome,
		"Email: " + p.Email,
		"Saldo: " + money.Format(p.Saldo),
	}, "\n")
}
