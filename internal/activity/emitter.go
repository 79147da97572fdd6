// Package activity publishes storefront activity events. Publishing never
// blocks or fails the caller; an unavailable sink just loses events.
package activity

import (
	"context"
	"encoding/json"
	"io"
	"time"

	kafkax "github.com/ariefcatur/storefront-client/internal/kafka"
	"github.com/ariefcatur/storefront-client/internal/shop"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// Sink accepts an encoded event; *kafka.Producer is the real one.
type Sink interface {
	Publish(key, value []byte, headers ...kafka.Header) bool
}

type Emitter struct {
	sink    Sink
	service string
	log     logrus.FieldLogger
}

func NewEmitter(sink Sink, service string, log logrus.FieldLogger) *Emitter {
	return &Emitter{sink: sink, service: service, log: log}
}

// Discard returns an emitter that drops every event.
func Discard() *Emitter {
	log := logrus.New()
	log.Out = io.Discard
	return &Emitter{sink: discardSink{}, log: log}
}

type discardSink struct{}

func (discardSink) Publish([]byte, []byte, ...kafka.Header) bool { return true }

type ctxKeyCorrelation struct{}

// WithCorrelation tags events emitted under ctx with id, usually the
// request id.
func WithCorrelation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyCorrelation{}, id)
}

func correlation(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyCorrelation{}).(string)
	return id
}

// Emit wraps payload in an envelope keyed by userID and hands it to the sink.
func (e *Emitter) Emit(ctx context.Context, eventType string, userID int64, payload any) {
	if e == nil {
		return
	}
	env, err := NewEnvelope(eventType, e.service, correlation(ctx), payload)
	if err != nil {
		e.log.WithError(err).WithField("event", eventType).Warn("encode activity")
		return
	}
	b, err := json.Marshal(env)
	if err != nil {
		e.log.WithError(err).WithField("event", eventType).Warn("encode activity")
		return
	}
	if !e.sink.Publish(shop.PartitionKey(userID), b, kafkax.EnvelopeHeaders(env)...) {
		e.log.WithField("event", eventType).Debug("activity not published")
	}
}

func NewEnvelope(eventType, producer, correlationID string, payload any) (shop.Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return shop.Envelope{}, err
	}
	return shop.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		TraceID:       uuid.NewString(),
		CorrelationID: correlationID,
		Payload:       raw,
	}, nil
}
