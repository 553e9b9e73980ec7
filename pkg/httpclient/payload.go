package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// emptyObject は空ボディや不正なJSONを受け取った時に使う正規化後のペイロード。
var emptyObject = []byte("{}")

// Payload はAPIレスポンスのJSONボディ。
// 空ボディや不正なJSONは空オブジェクト "{}" に正規化される。
type Payload json.RawMessage

// parsePayload はレスポンスボディをPayloadに正規化する。
func parsePayload(raw []byte) Payload {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || malformed(trimmed) {
		return Payload(emptyObject)
	}
	return Payload(trimmed)
}

// malformed はボディが空ではないがJSONとして読めない場合にtrueを返す。
func malformed(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !json.Valid(trimmed)
}

// Raw はペイロードをjson.RawMessageとして返す。
func (p Payload) Raw() json.RawMessage {
	if len(p) == 0 {
		return json.RawMessage(emptyObject)
	}
	return json.RawMessage(p)
}

// IsArray はペイロードがJSON配列であるかを返す。
func (p Payload) IsArray() bool {
	return len(p) > 0 && p[0] == '['
}

// IsEmpty はペイロードが空オブジェクトであるかを返す。
func (p Payload) IsEmpty() bool {
	return len(p) == 0 || bytes.Equal(p, emptyObject)
}

// Decode はペイロードをvにデシリアライズする。
func (p Payload) Decode(v any) error {
	if err := json.Unmarshal(p.Raw(), v); err != nil {
		return fmt.Errorf("レスポンスボディのデシリアライズに失敗: %w", err)
	}
	return nil
}

// DecodeList はペイロードを要素型Tのスライスにデシリアライズする。
// ペイロードが配列でない場合は空のスライスを返す。
func DecodeList[T any](p Payload) ([]T, error) {
	if !p.IsArray() {
		return []T{}, nil
	}
	var items []T
	if err := p.Decode(&items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
