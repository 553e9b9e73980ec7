// Package storage はクライアント側の永続ストレージ（キー/値）を提供する。
// ブラウザのlocalStorageに相当し、SQLite実装とメモリ実装を持つ。
package storage

import (
	"context"
	"sync"
)

// Storage はクライアント側のキー/値ストレージ。
type Storage interface {
	// Get はキーに対応する値を返す。存在しない場合はokがfalse。
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set はキーに値を保存する。既存の値は上書きする。
	Set(ctx context.Context, key, value string) error
	// Delete はキーを削除する。存在しない場合も成功とする。
	Delete(ctx context.Context, key string) error
}

// Memory はプロセス内でのみ値を保持するStorage。
// テストと --ephemeral 実行で使用する。
type Memory struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemory は空のメモリストレージを生成する。
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get はキーに対応する値を返す。
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set はキーに値を保存する。
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Delete はキーを削除する。
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
