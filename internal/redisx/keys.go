package redisx

import "time"

const (
	// Local state record: storefront:{namespace}:{record} -> serialized record
	KeyState = "storefront:%s:%s"

	// Dedup consumer: storefront:{group}:seen:{event_id} -> "1"
	KeyDedup = "storefront:%s:seen:%s"
)

const TTLDedup = 24 * time.Hour
