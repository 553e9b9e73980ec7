// lojacontrolのエントリポイント。
// ストアAPIに接続する端末用のコンソール（管理画面とショップ）を起動する。
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nao1215/lojacontrol/internal/config"
	"github.com/nao1215/lojacontrol/internal/console"
	"github.com/nao1215/lojacontrol/internal/logging"
	"github.com/nao1215/lojacontrol/internal/storage"
	"github.com/nao1215/lojacontrol/internal/tui"
)

// flags はルートコマンドの永続フラグの値。
type flags struct {
	configPath string
	apiURL     string
	dataDir    string
	ephemeral  bool
	verbose    bool
}

// env はサブコマンドが共有する実行環境。PersistentPreRunEで構築する。
type env struct {
	cfg    config.Config
	logger *zap.Logger
	store  storage.Storage
	// closers は実行後に逆順に閉じる。
	closers []func() error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run はargsでコマンドを実行し、終了後に開いた資源を閉じる。
func run(ctx context.Context, out io.Writer, args []string) (err error) {
	root, e := newRootCmd(out)
	root.SetArgs(args)
	defer func() {
		if cerr := e.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return root.ExecuteContext(ctx)
}

// newRootCmd はルートコマンドとサブコマンドを組み立てる。
func newRootCmd(out io.Writer) (*cobra.Command, *env) {
	f := &flags{}
	e := &env{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "lojacontrol",
		Short:         "Console da LojaControl para administradores e clientes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.setup(cmd, f)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), e)
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "arquivo de configuracao YAML")
	pf.StringVar(&f.apiURL, "api-url", "", "origem da API (ex.: http://127.0.0.1:8000)")
	pf.StringVar(&f.dataDir, "data-dir", "", "diretorio para sessao e logs")
	pf.BoolVar(&f.ephemeral, "ephemeral", false, "nao salvar a sessao em disco")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "registrar logs de depuracao")

	root.AddCommand(
		newWhoamiCmd(e),
		newLogoutCmd(e),
		newCatalogCmd(e),
		newConfigCmd(e),
		newStubCmd(e),
	)
	return root, e
}

// setup は設定を読み込み、フラグで上書きしてからロガーと保存先を用意する。
func (e *env) setup(cmd *cobra.Command, f *flags) error {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	if f.apiURL != "" {
		cfg.APIURL = f.apiURL
	}
	if f.dataDir != "" {
		cfg.DataDir = f.dataDir
	}
	if cmd.Flags().Changed("ephemeral") {
		cfg.Ephemeral = f.ephemeral
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = f.verbose
	}
	e.cfg = cfg

	if cfg.Ephemeral {
		e.store = storage.NewMemory()
		return nil
	}

	if err := cfg.EnsureDataDir(); err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogPath(), cfg.Verbose)
	if err != nil {
		return err
	}
	e.logger = logger
	e.closers = append(e.closers, func() error {
		// ファイル出力のSyncエラーは終了処理を妨げない
		_ = logger.Sync()
		return nil
	})

	db, err := storage.OpenSQLite(cmd.Context(), cfg.DBPath(), logger)
	if err != nil {
		return err
	}
	e.store = db
	e.closers = append(e.closers, db.Close)

	logger.Debug("コマンドを開始",
		zap.String("command", cmd.Name()),
		zap.String("api_url", cfg.BaseURL()),
		zap.String("data_dir", cfg.DataDir))
	return nil
}

// close は開いた資源を逆順に閉じる。
func (e *env) close() error {
	var first error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	e.closers = nil
	return first
}

// newController は設定に従ってコントローラーを生成する。
func (e *env) newController() *console.Controller {
	return console.New(console.Options{
		BaseURL: e.cfg.BaseURL(),
		Storage: e.store,
		Logger:  e.logger,
	})
}

// runTUI は端末UIを起動し、終了するまで待つ。
func runTUI(ctx context.Context, e *env) error {
	app := tui.NewApp(e.newController(), tui.WithContext(ctx), tui.WithLogger(e.logger))
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("端末UIの実行に失敗: %w", err)
	}
	return nil
}
