// Package httpclient はストアAPIへのリクエストゲートウェイを提供する。
//
// JSONボディのシリアライズ、Bearerトークンの付与、レスポンスの正規化
// （空ボディや不正なJSONは空オブジェクトとして扱う）、2xx以外のステータスの
// エラー変換、接続状態の通知を一箇所にまとめる。
// 401を受け取った認証付きリクエストは、エラーを返す前にセッション無効化
// コールバックを呼び出す。リトライとタイムアウトは行わない。
package httpclient
