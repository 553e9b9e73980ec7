package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ConnectivityMessage はサーバーに到達できなかった時に利用者へ表示する固定メッセージ。
const ConnectivityMessage = "Falha de conexao com o servidor."

var (
	// ErrConnectivity はリクエストがサーバーに到達しなかったことを表す。
	ErrConnectivity = errors.New("サーバーとの接続に失敗")
	// ErrAuthExpired は認証付きリクエストが401を受け取ったことを表す。
	ErrAuthExpired = errors.New("セッションの有効期限切れ")
)

// ConnectivityError はDNS解決や接続の失敗などでレスポンスが得られなかったエラー。
type ConnectivityError struct {
	// Err は下位のトランスポートエラー。
	Err error
}

// Error は利用者向けの固定メッセージを返す。
func (e *ConnectivityError) Error() string {
	return ConnectivityMessage
}

// Unwrap はErrConnectivityと下位エラーの両方を返す。
func (e *ConnectivityError) Unwrap() []error {
	return []error{ErrConnectivity, e.Err}
}

// ErrorBody はAPIのエラーレスポンスの形式。
// detailは省略されることがあり、文字列以外（バリデーションエラーの配列など）の場合もある。
type ErrorBody struct {
	// Detail はサーバーが返したエラーの詳細。
	Detail json.RawMessage `json:"detail,omitempty"`
}

// DetailText はdetailが空でない文字列の場合にその値を返す。
func (b ErrorBody) DetailText() (string, bool) {
	if len(b.Detail) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(b.Detail, &s); err != nil || s == "" {
		return "", false
	}
	return s, true
}

// HTTPError は2xx以外のステータスコードを受け取ったことを表す。
type HTTPError struct {
	// Status はHTTPステータスコード。
	Status int
	// Message はdetailフィールドの値、なければ "Erro <status>."。
	Message string
	// Payload は正規化済みのレスポンスボディ。
	Payload Payload
	// authExpired は認証付きリクエストで401を受け取った場合にtrue。
	authExpired bool
}

// newHTTPError はステータスコードとペイロードからHTTPErrorを生成する。
func newHTTPError(status int, payload Payload) *HTTPError {
	message := fmt.Sprintf("Erro %d.", status)
	var body ErrorBody
	if err := json.Unmarshal(payload.Raw(), &body); err == nil {
		if detail, ok := body.DetailText(); ok {
			message = detail
		}
	}
	return &HTTPError{
		Status:  status,
		Message: message,
		Payload: payload,
	}
}

// Error はサーバーから受け取ったメッセージを返す。
func (e *HTTPError) Error() string {
	return e.Message
}

// Is は認証切れの401の場合にErrAuthExpiredと一致する。
func (e *HTTPError) Is(target error) bool {
	return target == ErrAuthExpired && e.authExpired
}

// StatusCode はerrがHTTPErrorであればそのステータスコードを返す。
func StatusCode(err error) (int, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status, true
	}
	return 0, false
}
