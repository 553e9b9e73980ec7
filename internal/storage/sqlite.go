package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/nao1215/lojacontrol/pkg/migration"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLite はSQLiteファイルに値を保存するStorage。
type SQLite struct {
	// db はSQLiteデータベース接続。
	db *sql.DB
}

// OpenSQLite はSQLiteデータベースを開き、スキーマを適用する。
// pathに ":memory:" を指定するとインメモリデータベースになる。
func OpenSQLite(ctx context.Context, path string, logger *zap.Logger) (*SQLite, error) {
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}
	// コンソールは1プロセス1接続で十分であり、インメモリDBの共有にも必要
	db.SetMaxOpenConns(1)

	if _, err := migration.Run(ctx, db, migrationsFS, "migrations", logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close はデータベース接続を閉じる。
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Get はキーに対応する値を返す。
func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("値の取得に失敗: key=%s: %w", key, err)
	}
	return value, true, nil
}

// Set はキーに値を保存する。
func (s *SQLite) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("値の保存に失敗: key=%s: %w", key, err)
	}
	return nil
}

// Delete はキーを削除する。
func (s *SQLite) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("値の削除に失敗: key=%s: %w", key, err)
	}
	return nil
}
