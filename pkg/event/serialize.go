package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// New はatに発生したイベントを生成する。dataはJSONにして保持する。
func New(at time.Time, aggregateID string, aggregateType AggregateType, eventType Type, data any) (*Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("%sイベントのデータをJSONにできない: %w", eventType, err)
	}
	return &Event{
		ID:            uuid.NewString(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Data:          raw,
		OccurredAt:    at.UTC(),
	}, nil
}

// DecodeData はDataをTとして読み出す。
func DecodeData[T any](e *Event) (*T, error) {
	out := new(T)
	if err := json.Unmarshal(e.Data, out); err != nil {
		return nil, fmt.Errorf("%sイベントのデータを読めない: %w", e.EventType, err)
	}
	return out, nil
}
