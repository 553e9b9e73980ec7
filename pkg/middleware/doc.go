// Package middleware はストアAPIのGinサーバーで使用する共通ミドルウェアを提供する。
//
// セッショントークンの発行と検証、ロールによるアクセス制御、リクエストID、
// パニックリカバリ、CORS設定を含む。エラーはすべて {"detail": "..."} 形式で返す。
package middleware
