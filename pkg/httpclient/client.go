package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// headerKeyRequestID はリクエストを追跡するためのHTTPヘッダーキー。
const headerKeyRequestID = "X-Request-ID"

// Client はストアAPIと通信するHTTPクライアント。
// 認証トークンの付与、レスポンスの正規化、接続状態の通知を担当する。
type Client struct {
	// httpClient は内部で使用するHTTPクライアント。
	httpClient *http.Client
	// baseURL は接続先APIのベースURL。
	baseURL string
	// tokenSource は現在のセッショントークンを返す関数。
	tokenSource func() string
	// onUnauthorized は認証付きリクエストが401を受け取った時に呼ばれる。
	onUnauthorized func(error)
	// onStatusChange はAPIへの到達可否が判明した時に呼ばれる。
	onStatusChange func(online bool)
	// logger はリクエストのデバッグログ出力先。
	logger *zap.Logger
}

// Option はClientの生成時設定を変更する関数。
type Option func(*Client)

// WithTokenSource はセッショントークンの取得元を設定する。
func WithTokenSource(fn func() string) Option {
	return func(c *Client) {
		c.tokenSource = fn
	}
}

// WithUnauthorizedHandler は401受信時のセッション無効化コールバックを設定する。
func WithUnauthorizedHandler(fn func(error)) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

// WithStatusHandler は接続状態の変化を受け取るコールバックを設定する。
func WithStatusHandler(fn func(online bool)) Option {
	return func(c *Client) {
		c.onStatusChange = fn
	}
}

// WithLogger はリクエストログの出力先を設定する。
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient は内部で使用するHTTPクライアントを差し替える。
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New は新しいAPIクライアントを生成する。
// baseURLには接続先APIのベースURL（例: "http://127.0.0.1:8000"）を指定する。
// リクエストは1回だけ試行し、リトライやタイムアウトは設定しない。
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient:     &http.Client{},
		baseURL:        baseURL,
		tokenSource:    func() string { return "" },
		onUnauthorized: func(error) {},
		onStatusChange: func(bool) {},
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL は接続先APIのベースURLを返す。
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request は1回のAPI呼び出しの内容を表す。
type Request struct {
	// Endpoint はベースURLからの相対パス（例: "/auth/me"）。
	Endpoint string
	// Method はHTTPメソッド。空の場合はGET。
	Method string
	// Body はJSONとして送信するボディ。nilの場合はボディを送らない。
	Body any
	// Auth がtrueの場合、トークンがあればAuthorizationヘッダーを付与する。
	Auth bool
}

// Do はAPIリクエストを送信し、正規化されたペイロードを返す。
//
// 接続に失敗した場合は*ConnectivityErrorを返し、2xx以外の場合は*HTTPErrorを返す。
// 認証付きリクエストが401を受け取った場合は、エラーを返す前に
// セッション無効化コールバックを1回だけ呼び出す。
func (c *Client) Do(ctx context.Context, r Request) (Payload, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	var bodyReader io.Reader
	if r.Body != nil {
		jsonBody, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("リクエストボディのシリアライズに失敗: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+r.Endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストの作成に失敗: %w", err)
	}
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set(headerKeyRequestID, requestID)

	if r.Auth {
		if token := c.tokenSource(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("APIへの接続に失敗",
			zap.String("request_id", requestID),
			zap.String("method", method),
			zap.String("endpoint", r.Endpoint),
			zap.Error(err))
		c.onStatusChange(false)
		return nil, &ConnectivityError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		// 読み取りに失敗したボディは空として扱う
		raw = nil
	}
	payload := parsePayload(raw)
	if malformed(raw) {
		c.logger.Debug("JSONでないレスポンスボディを空のペイロードとして扱う",
			zap.String("request_id", requestID),
			zap.String("endpoint", r.Endpoint),
			zap.Int("bytes", len(raw)))
	}

	c.logger.Debug("APIレスポンスを受信",
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("endpoint", r.Endpoint),
		zap.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		httpErr := newHTTPError(resp.StatusCode, payload)
		if resp.StatusCode == http.StatusUnauthorized && r.Auth {
			httpErr.authExpired = true
			c.onUnauthorized(httpErr)
		}
		return nil, httpErr
	}

	c.onStatusChange(true)
	return payload, nil
}

// GetJSON は指定パスにGETリクエストを送信し、レスポンスをresultにデシリアライズする。
func (c *Client) GetJSON(ctx context.Context, path string, auth bool, result any) error {
	return c.doJSON(ctx, Request{Endpoint: path, Method: http.MethodGet, Auth: auth}, result)
}

// PostJSON は指定パスにJSONボディでPOSTリクエストを送信する。
// resultがnilでなければレスポンスをデシリアライズする。
func (c *Client) PostJSON(ctx context.Context, path string, body any, auth bool, result any) error {
	return c.doJSON(ctx, Request{Endpoint: path, Method: http.MethodPost, Body: body, Auth: auth}, result)
}

// PatchJSON は指定パスにJSONボディでPATCHリクエストを送信する。
func (c *Client) PatchJSON(ctx context.Context, path string, body any, auth bool, result any) error {
	return c.doJSON(ctx, Request{Endpoint: path, Method: http.MethodPatch, Body: body, Auth: auth}, result)
}

// DeleteJSON は指定パスにDELETEリクエストを送信する。
func (c *Client) DeleteJSON(ctx context.Context, path string, auth bool, result any) error {
	return c.doJSON(ctx, Request{Endpoint: path, Method: http.MethodDelete, Auth: auth}, result)
}

// doJSON はDoを実行してペイロードをresultに展開する共通処理。
func (c *Client) doJSON(ctx context.Context, r Request, result any) error {
	payload, err := c.Do(ctx, r)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	return payload.Decode(result)
}
