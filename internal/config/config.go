// Package config はlojacontrolの設定を読み込む。
//
// 設定は既定値、YAMLファイル、環境変数の順に上書きされる。
// カレントディレクトリに.envがあれば、その値は未設定の環境変数の代わりに使う。
// コマンドラインフラグによる上書きはcmd側で行う。
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/nao1215/lojacontrol/pkg/httpclient"
)

// 環境変数名。
const (
	EnvAPIURL  = "LOJACONTROL_API_URL"
	EnvDataDir = "LOJACONTROL_DATA_DIR"
)

const (
	// appDirName はデータディレクトリの名前。
	appDirName = "lojacontrol"
	// FileName はデータディレクトリ内の設定ファイル名。
	FileName = "config.yaml"
	// dbFileName はセッションを保存するSQLiteファイル名。
	dbFileName = "lojacontrol.db"
	// logFileName はログファイル名。
	logFileName = "lojacontrol.log"
)

// StubConfig は `lojacontrol stub` で起動するスタブAPIの設定。
type StubConfig struct {
	// Addr は待ち受けアドレス。
	Addr string `yaml:"addr"`
	// Secret はトークン署名のシークレット。
	Secret string `yaml:"secret,omitempty"`
	// TokenTTL は発行するトークンの有効期間。
	TokenTTL time.Duration `yaml:"token_ttl"`
}

// Config はlojacontrolの実行時設定。
type Config struct {
	// APIURL は接続先APIのオリジン。
	APIURL string `yaml:"api_url"`
	// DataDir はセッションとログを保存するディレクトリ。
	DataDir string `yaml:"data_dir"`
	// Ephemeral がtrueの場合、セッションをディスクに保存しない。
	Ephemeral bool `yaml:"ephemeral"`
	// Verbose がtrueの場合、デバッグログを出力する。
	Verbose bool `yaml:"verbose"`
	// Stub はスタブAPIの設定。
	Stub StubConfig `yaml:"stub"`
}

// Default は既定値の設定を返す。
func Default() Config {
	return Config{
		APIURL:  httpclient.DefaultBaseURL,
		DataDir: defaultDataDir(),
		Stub: StubConfig{
			Addr:     "127.0.0.1:8000",
			TokenTTL: 8 * time.Hour,
		},
	}
}

// defaultDataDir はOSのユーザー設定ディレクトリ配下のデータディレクトリを返す。
func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "." + appDirName
	}
	return filepath.Join(dir, appDirName)
}

// DotEnvFile は環境変数を補う.envファイルの名前。
const DotEnvFile = ".env"

// Load はpathのYAMLファイルと環境変数から設定を読み込む。
// pathが空の場合は既定のデータディレクトリのconfig.yamlを探し、なければ既定値を使う。
func Load(path string) (Config, error) {
	getenv, err := EnvWithDotEnv(DotEnvFile, os.Getenv)
	if err != nil {
		return Config{}, err
	}
	return LoadWith(path, getenv)
}

// EnvWithDotEnv はgetenvで値が空のキーをdotenvPathのファイルから引く関数を返す。
// ファイルがない場合はgetenvをそのまま返す。
func EnvWithDotEnv(dotenvPath string, getenv func(string) string) (func(string) string, error) {
	values, err := godotenv.Read(dotenvPath)
	if errors.Is(err, fs.ErrNotExist) {
		return getenv, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s の読み込みに失敗: %w", dotenvPath, err)
	}
	return func(key string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return values[key]
	}, nil
}

// LoadWith は環境変数の取得元を指定してLoadを行う。
func LoadWith(path string, getenv func(string) string) (Config, error) {
	cfg := Default()
	if dir := getenv(EnvDataDir); dir != "" {
		cfg.DataDir = dir
	}

	explicit := path != ""
	if !explicit {
		path = filepath.Join(cfg.DataDir, FileName)
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("設定ファイル %s の読み込みに失敗: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("設定ファイル %s を開けない: %w", path, err)
	}

	if v := getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	}
	if v := getenv(EnvDataDir); v != "" {
		cfg.DataDir = v
	}
	return cfg, nil
}

// decode は未知のキーを拒否してYAMLを読み込む。
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// BaseURL は接続先APIのベースURLを返す。APIURLが不正な場合は既定のURL。
func (c Config) BaseURL() string {
	return httpclient.ResolveBaseURL(c.APIURL)
}

// DBPath はセッションを保存するSQLiteファイルのパスを返す。
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, dbFileName)
}

// LogPath はログファイルのパスを返す。
func (c Config) LogPath() string {
	return filepath.Join(c.DataDir, logFileName)
}

// EnsureDataDir はデータディレクトリを作成する。
func (c Config) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return fmt.Errorf("データディレクトリ %s の作成に失敗: %w", c.DataDir, err)
	}
	return nil
}

// YAML は設定をYAMLとして出力する。
func (c Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("設定のシリアライズに失敗: %w", err)
	}
	return out, nil
}
