package event

import (
	"encoding/json"
	"time"
)

// AggregateType はイベントの対象となるコンソール上の要素を表す。
type AggregateType string

const (
	// AggregateTypeSession はログインセッションを表す。
	AggregateTypeSession AggregateType = "Session"
	// AggregateTypeView は画面（ビュー）を表す。
	AggregateTypeView AggregateType = "View"
	// AggregateTypeCart はカートを表す。
	AggregateTypeCart AggregateType = "Cart"
	// AggregateTypeConnection はAPIとの接続を表す。
	AggregateTypeConnection AggregateType = "Connection"
)

// Type はイベントの種類を表す。
type Type string

const (
	// TypeSessionOpened はログインによりセッションが開始されたことを表す。
	TypeSessionOpened Type = "SessionOpened"
	// TypeSessionRestored は保存済みトークンからセッションが復元されたことを表す。
	TypeSessionRestored Type = "SessionRestored"
	// TypeSessionClosed は利用者のログアウトでセッションが終了したことを表す。
	TypeSessionClosed Type = "SessionClosed"
	// TypeSessionExpired は401によりセッションが強制終了されたことを表す。
	TypeSessionExpired Type = "SessionExpired"

	// TypeViewActivated は画面が切り替わったことを表す。
	TypeViewActivated Type = "ViewActivated"

	// TypeCheckoutCompleted はカートの購入が完了したことを表す。
	TypeCheckoutCompleted Type = "CheckoutCompleted"

	// TypeConnectivityChanged はAPIへの到達可否が変化したことを表す。
	TypeConnectivityChanged Type = "ConnectivityChanged"
)

// Event はコンソールで発生した出来事の不変レコードを表す。
type Event struct {
	// ID はイベントの一意識別子（UUID）。
	ID string `json:"id"`
	// AggregateID は対象要素の識別子（アカウントID、ビューIDなど）。
	AggregateID string `json:"aggregate_id"`
	// AggregateType は対象要素の種類。
	AggregateType AggregateType `json:"aggregate_type"`
	// EventType はイベントの種類。
	EventType Type `json:"event_type"`
	// Data はイベント固有のデータ（JSON形式）。
	Data json.RawMessage `json:"data"`
	// OccurredAt はコンソールでイベントが起きた時刻（UTC）。
	OccurredAt time.Time `json:"occurred_at"`
}

// SessionData はセッション系イベントのデータ。
type SessionData struct {
	// Email はアカウントのメールアドレス。
	Email string `json:"email,omitempty"`
	// Role はアカウントのロール（admin / user）。
	Role string `json:"role,omitempty"`
}

// ViewActivatedData はViewActivatedイベントのデータ。
type ViewActivatedData struct {
	// Role は画面を開いたアカウントのロール。
	Role string `json:"role"`
	// Forced は「表示中なら何もしない」判定を飛ばしたかどうか。
	Forced bool `json:"forced"`
}

// CheckoutCompletedData はCheckoutCompletedイベントのデータ。
type CheckoutCompletedData struct {
	// ProductIDs は購入した商品ID（数量分だけ繰り返す）。
	ProductIDs []int64 `json:"produtos_ids"`
	// Total はカートの合計金額。
	Total float64 `json:"total"`
}

// ConnectivityChangedData はConnectivityChangedイベントのデータ。
type ConnectivityChangedData struct {
	// Online はAPIに到達できるかどうか。
	Online bool `json:"online"`
}
