package event

import (
	"sync"

	"go.uber.org/zap"
)

// Sink はイベントの送り先。
type Sink interface {
	// Publish はイベントを1件受け取る。
	Publish(e *Event)
}

// LogSink はイベントを構造化ログとして出力するSink。
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink はzapロガーに出力するSinkを生成する。
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Publish はイベントをinfoレベルで出力する。
func (s *LogSink) Publish(e *Event) {
	s.logger.Info("コンソールイベント",
		zap.String("event_id", e.ID),
		zap.String("event_type", string(e.EventType)),
		zap.String("aggregate_type", string(e.AggregateType)),
		zap.String("aggregate_id", e.AggregateID),
		zap.ByteString("data", e.Data))
}

// Recorder は受け取ったイベントをメモリに保持するSink。
// 複数のgoroutineから同時に呼ばれても安全。
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Publish はイベントを記録する。
func (r *Recorder) Publish(e *Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *e)
}

// Events は記録済みイベントのコピーを返す。
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Types は記録済みイベントの種類を記録順に返す。
func (r *Recorder) Types() []Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Type, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.EventType)
	}
	return out
}

// Multi は複数のSinkにイベントを配るSinkを返す。
func Multi(sinks ...Sink) Sink {
	return multiSink(sinks)
}

type multiSink []Sink

func (m multiSink) Publish(e *Event) {
	for _, s := range m {
		if s != nil {
			s.Publish(e)
		}
	}
}
