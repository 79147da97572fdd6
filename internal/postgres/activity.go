package postgres

import (
	"context"

	"github.com/ariefcatur/storefront-client/internal/shop"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ActivityLog records activity envelopes, once per event id.
type ActivityLog struct{ DB *pgxpool.Pool }

func (l *ActivityLog) Append(ctx context.Context, env shop.Envelope) error {
	_, err := l.DB.Exec(ctx, `
		INSERT INTO storefront_activity(event_id, event_type, event_version, occurred_at, producer, correlation_id, payload)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (event_id) DO NOTHING`,
		env.EventID, env.EventType, env.EventVersion, env.OccurredAt, env.Producer, env.CorrelationID, string(env.Payload),
	)
	return err
}

// Recent returns the newest n recorded events, newest first.
func (l *ActivityLog) Recent(ctx context.Context, n int) ([]shop.Envelope, error) {
	rows, err := l.DB.Query(ctx, `
		SELECT event_id, event_type, event_version, occurred_at, producer, correlation_id, payload::text
		FROM storefront_activity ORDER BY occurred_at DESC, recorded_at DESC LIMIT $1`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []shop.Envelope
	for rows.Next() {
		var (
			env     shop.Envelope
			payload string
		)
		if err := rows.Scan(&env.EventID, &env.EventType, &env.EventVersion, &env.OccurredAt, &env.Producer, &env.CorrelationID, &payload); err != nil {
			return nil, err
		}
		env.Payload = []byte(payload)
		out = append(out, env)
	}
	return out, rows.Err()
}
