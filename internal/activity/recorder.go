package activity

import (
	"encoding/json"
	"sync"

	kafkax "github.com/ariefcatur/storefront-client/internal/kafka"
	"github.com/ariefcatur/storefront-client/internal/shop"
	"github.com/segmentio/kafka-go"
)

// Recorder is an in-memory Sink that keeps every message, for tests and for
// running without a broker in development.
type Recorder struct {
	mu   sync.Mutex
	msgs []kafka.Message
}

func (r *Recorder) Publish(key, value []byte, headers ...kafka.Header) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, kafka.Message{Key: key, Value: value, Headers: headers})
	return true
}

func (r *Recorder) Messages() []kafka.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]kafka.Message, len(r.msgs))
	copy(out, r.msgs)
	return out
}

// Types lists the recorded event types in order.
func (r *Recorder) Types() []string {
	var out []string
	for _, m := range r.Messages() {
		out = append(out, kafkax.Header(m, kafkax.HeaderEventType))
	}
	return out
}

// Last decodes the newest envelope of eventType.
func (r *Recorder) Last(eventType string) (shop.Envelope, bool) {
	msgs := r.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if kafkax.Header(msgs[i], kafkax.HeaderEventType) != eventType {
			continue
		}
		var env shop.Envelope
		if json.Unmarshal(msgs[i].Value, &env) == nil {
			return env, true
		}
	}
	return shop.Envelope{}, false
}
