package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/lojacontrol/internal/api"
	"github.com/nao1215/lojacontrol/internal/apitest"
	"github.com/nao1215/lojacontrol/internal/money"
	"github.com/nao1215/lojacontrol/internal/session"
	"github.com/nao1215/lojacontrol/pkg/httpclient"
)

// errNoSession は保存済みのセッションがないか、復元できなかった場合のエラー。
var errNoSession = errors.New("有効なセッションがない")

// shutdownTimeout はスタブAPIの停止を待つ時間。
const shutdownTimeout = 5 * time.Second

func newWhoamiCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Mostra a conta da sessao salva",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctrl := e.newController()
			if !ctrl.Restore(cmd.Context()) {
				return errNoSession
			}
			account := ctrl.Account()
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> (%s)\n", account.Nome, account.Email, account.Role.Label())
			if account.Role != session.RoleAdmin {
				fmt.Fprintf(cmd.OutOrStdout(), "Saldo: %s\n", money.Format(account.Saldo))
			}
			return nil
		},
	}
}

func newLogoutCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Encerra a sessao salva",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctrl := e.newController()
			// 復元に失敗した場合でも保存済みトークンは消える
			ctrl.Restore(cmd.Context())
			ctrl.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Sessao encerrada.")
			return nil
		},
	}
}

func newCatalogCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Lista os produtos publicos da loja",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := api.New(httpclient.New(e.cfg.BaseURL(), httpclient.WithLogger(e.logger)))
			products, err := client.ShopProducts(cmd.Context())
			if err != nil {
				return fmt.Errorf("カタログの取得に失敗: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(products) == 0 {
				fmt.Fprintln(out, "Nenhum produto disponivel.")
				return nil
			}
			for _, p := range products {
				fmt.Fprintf(out, "%4d  %-30s %12s\n", p.ID, p.Nome, money.Format(p.Preco))
			}
			return nil
		},
	}
}

func newConfigCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Mostra a configuracao em uso",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := e.cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func newStubCmd(e *env) *cobra.Command {
	var demo bool
	cmd := &cobra.Command{
		Use:   "stub",
		Short: "Inicia uma API local em memoria para testes manuais",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gin.SetMode(gin.ReleaseMode)
			stub := apitest.New(
				apitest.WithLogger(e.logger),
				apitest.WithSecret(e.cfg.Stub.Secret),
				apitest.WithTokenTTL(e.cfg.Stub.TokenTTL),
			)
			if demo {
				seedDemo(stub)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API stub em http://%s (admin: %s / %s)\n",
				e.cfg.Stub.Addr, apitest.AdminEmail, apitest.AdminPassword)
			return serve(cmd.Context(), e.logger, &http.Server{
				Addr:              e.cfg.Stub.Addr,
				Handler:           stub.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			})
		},
	}
	cmd.Flags().BoolVar(&demo, "demo", false, "cadastrar produtos e um cliente de exemplo")
	return cmd
}

// seedDemo は手動確認用の商品と購入者を登録する。
func seedDemo(stub *apitest.Server) {
	stub.AddProduct("Caneca LojaControl", "Caneca de ceramica 300ml", 39.9)
	stub.AddProduct("Camiseta", "Algodao, tamanho unico", 79.9)
	stub.AddProduct("Adesivo", "Adesivo vinilico", 5)
	stub.AddUser("Cliente Demo", "cliente@lojacontrol.local", "cliente123", 200)
}

// serve はctxがキャンセルされるまでサーバーを動かし、その後停止を待つ。
func serve(ctx context.Context, logger *zap.Logger, srv *http.Server) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.Info("スタブAPIを起動", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("スタブAPIの起動に失敗: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("スタブAPIを停止")
		return srv.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}
