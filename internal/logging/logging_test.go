package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestNew はNew関数を検証する。
func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("ファイルにJSON形式で書き込むこと", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "logs", "lojacontrol.log")
		logger, err := New(path, false)
		if err != nil {
			t.Fatalf("New()でエラーが発生: %v", err)
		}
		logger.Info("起動")
		logger.Debug("出力されない")
		_ = logger.Sync()

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ログファイルの読み込みに失敗: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 1 {
			t.Fatalf("行数 = %d, want 1: %s", len(lines), data)
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
			t.Fatalf("ログ行のパースに失敗: %v", err)
		}
		if entry["msg"] != "起動" || entry["level"] != "info" {
			t.Errorf("entry = %v", entry)
		}
		if _, ok := entry["time"]; !ok {
			t.Error("timeキーがない")
		}
	})

	t.Run("verboseの場合はデバッグログも出力すること", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "lojacontrol.log")
		logger, err := New(path, true)
		if err != nil {
			t.Fatalf("New()でエラーが発生: %v", err)
		}
		logger.Debug("detalhe")
		_ = logger.Sync()

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ログファイルの読み込みに失敗: %v", err)
		}
		if !strings.Contains(string(data), "detalhe") {
			t.Errorf("デバッグログがない: %s", data)
		}
	})
}
