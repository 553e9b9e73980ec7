// Package session はログイン中のアカウントとセッショントークンの保存を扱う。
//
// 永続化するのはトークンだけであり、アカウント情報は起動のたびに
// /auth/me から取り直す。
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nao1215/lojacontrol/internal/storage"
)

// StorageKey はトークンを保存するストレージのキー。
const StorageKey = "lojacontrol_session_v2"

// Role はアカウントのロール。
type Role string

const (
	// RoleAdmin はストア管理者。
	RoleAdmin Role = "admin"
	// RoleUser は購入者。
	RoleUser Role = "user"
)

// Label は画面表示用のロール名を返す。
func (r Role) Label() string {
	if r == RoleAdmin {
		return "Admin"
	}
	return "Usuario"
}

// Account は認証済みのアカウント。
type Account struct {
	// ID はアカウントID。
	ID int64 `json:"id"`
	// Nome は表示名。
	Nome string `json:"nome"`
	// Email はメールアドレス。
	Email string `json:"email"`
	// Role はロール。
	Role Role `json:"role"`
	// UsuarioID は購入者プロフィールのID。管理者の場合はnil。
	UsuarioID *int64 `json:"usuario_id,omitempty"`
	// Saldo は購入者の残高。管理者の場合は0。
	Saldo float64 `json:"saldo"`
}

// Session はログイン中のトークンとアカウントの組。
type Session struct {
	// Token はAPIが発行したセッショントークン。
	Token string
	// Account はトークンに対応するアカウント。
	Account *Account
}

// persisted はストレージに保存する値の形式。
type persisted struct {
	Token string `json:"token"`
}

// TokenStore はセッショントークンを1つだけ永続化する。
type TokenStore struct {
	storage storage.Storage
}

// NewTokenStore はストレージ上のトークン保存先を生成する。
func NewTokenStore(s storage.Storage) *TokenStore {
	return &TokenStore{storage: s}
}

// Load は保存済みのトークンを返す。
// 値がない、JSONとして読めない、トークンが空の場合は "" を返す。
func (s *TokenStore) Load(ctx context.Context) string {
	raw, ok, err := s.storage.Get(ctx, StorageKey)
	if err != nil || !ok || raw == "" {
		return ""
	}
	var p persisted
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return ""
	}
	return p.Token
}

// Save はトークンを保存する。
func (s *TokenStore) Save(ctx context.Context, token string) error {
	raw, err := json.Marshal(persisted{Token: token})
	if err != nil {
		return fmt.Errorf("トークンのシリアライズに失敗: %w", err)
	}
	if err := s.storage.Set(ctx, StorageKey, string(raw)); err != nil {
		return fmt.Errorf("トークンの保存に失敗: %w", err)
	}
	return nil
}

// Clear は保存済みのトークンを削除する。
func (s *TokenStore) Clear(ctx context.Context) error {
	if err := s.storage.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("トークンの削除に失敗: %w", err)
	}
	return nil
}
