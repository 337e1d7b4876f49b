package events

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	contractmq "meetnotes/contracts/mq"
	"meetnotes/pkg/circuitbreaker"
	"meetnotes/pkg/logger"
	"meetnotes/pkg/metrics"
)

const publishTimeout = 2 * time.Second

// Publisher 由 pkg/mq.Publisher 实现
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// Deduper 由 pkg/util.Deduper 实现
type Deduper interface {
	AcquireOnce(ctx context.Context, scope, key string) bool
}

// Emitter 发布领域事件。发布失败只记日志，从不让请求失败；nil Emitter 什么都不做
type Emitter struct {
	pub    Publisher
	cb     *circuitbreaker.CircuitBreaker
	dedup  Deduper
	logger *zap.Logger
}

// NewEmitter dedup 可以为 nil
func NewEmitter(pub Publisher, dedup Deduper, log *zap.Logger) *Emitter {
	cfg := circuitbreaker.DefaultConfig()
	cfg.OnStateChange = func(from, to circuitbreaker.State) {
		log.Warn("Event publisher circuit state changed",
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	}
	return &Emitter{
		pub:    pub,
		cb:     circuitbreaker.NewCircuitBreaker(cfg),
		dedup:  dedup,
		logger: log,
	}
}

// NotesGenerated 相同输入在去重窗口内只发布一次
func (e *Emitter) NotesGenerated(ctx context.Context, p contractmq.NotesGeneratedPayload) {
	if e == nil {
		return
	}
	if e.dedup != nil && !e.dedup.AcquireOnce(ctx, contractmq.RoutingNotesGenerated, p.SessionID+":"+p.Digest) {
		metrics.IncrementEventPublish(contractmq.RoutingNotesGenerated, "skipped")
		return
	}
	e.emit(ctx, contractmq.RoutingNotesGenerated, p)
}

func (e *Emitter) EmailDrafted(ctx context.Context, p contractmq.EmailDraftedPayload) {
	if e == nil {
		return
	}
	e.emit(ctx, contractmq.RoutingEmailDrafted, p)
}

func (e *Emitter) MeetingCompleted(ctx context.Context, p contractmq.MeetingCompletedPayload) {
	if e == nil {
		return
	}
	e.emit(ctx, contractmq.RoutingMeetingCompleted, p)
}

func (e *Emitter) emit(ctx context.Context, routingKey string, payload any) {
	log := logger.WithTrace(ctx, e.logger)

	// 请求取消不应影响事件发布
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err := e.cb.Execute(func() error {
		return e.pub.Publish(pubCtx, routingKey, payload)
	})
	switch {
	case err == nil:
		metrics.IncrementEventPublish(routingKey, "success")
		log.Debug("Event published", zap.String("routing_key", routingKey))
	case errors.Is(err, circuitbreaker.ErrCircuitBreakerOpen):
		metrics.IncrementEventPublish(routingKey, "skipped")
		log.Warn("Event dropped, circuit open", zap.String("routing_key", routingKey))
	default:
		metrics.IncrementEventPublish(routingKey, "failed")
		log.Error("Failed to publish event", zap.String("routing_key", routingKey), zap.Error(err))
	}
}
