package activity

import (
	"context"
	"errors"
	"fmt"

	kafkax "github.com/ariefcatur/storefront-client/internal/kafka"
	"github.com/ariefcatur/storefront-client/internal/shop"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// Deduper drops redelivered events. *redisx.Dedup is the real one.
type Deduper interface {
	First(ctx context.Context, id string) (bool, error)
	Forget(ctx context.Context, id string) error
}

// EventStore keeps recorded events. *postgres.ActivityLog is the real one.
type EventStore interface {
	Append(ctx context.Context, env shop.Envelope) error
}

var errNoEventID = errors.New("envelope without event_id")

// Journal is the consumer side of the activity topic: each event is logged
// and, when Store is set, recorded once. Seen and Store are optional.
type Journal struct {
	Seen   Deduper
	Store  EventStore
	Logger logrus.FieldLogger
}

// Handle is a kafka.Handler. Malformed messages are skipped so they do not
// block the partition; anything else that fails is retried.
func (j *Journal) Handle(ctx context.Context, m kafka.Message) error {
	env, err := kafkax.DecodeEnvelope(m)
	if err == nil && env.EventID == "" {
		err = errNoEventID
	}
	if err != nil {
		j.Logger.WithError(err).WithFields(logrus.Fields{
			"partition": m.Partition,
			"offset":    m.Offset,
		}).Warn("skipping malformed activity message")
		return nil
	}

	entry := j.Logger.WithFields(logrus.Fields{
		"event_id":       env.EventID,
		"event_type":     env.EventType,
		"producer":       env.Producer,
		"correlation_id": env.CorrelationID,
	})
	if j.Seen != nil {
		first, err := j.Seen.First(ctx, env.EventID)
		if err != nil {
			return fmt.Errorf("dedup %s: %w", env.EventID, err)
		}
		if !first {
			entry.Debug("duplicate activity event")
			return nil
		}
	}
	if j.Store != nil {
		if err := j.Store.Append(ctx, env); err != nil {
			if j.Seen != nil {
				if ferr := j.Seen.Forget(ctx, env.EventID); ferr != nil {
					entry.WithError(ferr).Warn("could not release dedup mark")
				}
			}
			return fmt.Errorf("record %s: %w", env.EventID, err)
		}
	}
	entry.WithFields(summarize(env)).Info(env.EventType)
	return nil
}

// summarize picks the fields worth a log line; unknown types log none.
func summarize(env shop.Envelope) logrus.Fields {
	switch env.EventType {
	case shop.EventSessionStarted, shop.EventSessionEnded:
		if p, err := kafkax.UnwrapPayload[shop.SessionPayload](env.Payload); err == nil {
			return logrus.Fields{"user_id": p.UserID, "via": p.Via}
		}
	case shop.EventCartUpdated:
		if p, err := kafkax.UnwrapPayload[shop.CartUpdatedPayload](env.Payload); err == nil {
			return logrus.Fields{"action": p.Action, "item_count": p.ItemCount, "total": p.Total.StringFixed(2)}
		}
	case shop.EventCheckoutSubmitted:
		if p, err := kafkax.UnwrapPayload[shop.CheckoutSubmittedPayload](env.Payload); err == nil {
			return logrus.Fields{"user_id": p.UserID, "order_id": p.OrderID, "lines": len(p.Items), "total": p.Total.StringFixed(2)}
		}
	case shop.EventCheckoutFailed:
		if p, err := kafkax.UnwrapPayload[shop.CheckoutFailedPayload](env.Payload); err == nil {
			return logrus.Fields{"user_id": p.UserID, "lines": len(p.Items), "reason": p.Reason}
		}
	}
	return logrus.Fields{}
}
