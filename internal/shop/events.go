package shop

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventSessionStarted    = "SessionStarted"
	EventSessionEnded      = "SessionEnded"
	EventCartUpdated       = "CartUpdated"
	EventCheckoutSubmitted = "CheckoutSubmitted"
	EventCheckoutFailed    = "CheckoutFailed"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// ---- payloads ----

type SessionPayload struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Via    string `json:"via"` // login | register | logout
}

type CartUpdatedPayload struct {
	Action    string          `json:"action"` // add | update | remove | clear
	ProductID int64           `json:"product_id,omitempty"`
	Quantity  int             `json:"quantity,omitempty"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
}

type CheckoutSubmittedPayload struct {
	UserID  int64           `json:"user_id"`
	OrderID int64           `json:"order_id,omitempty"`
	Items   []ItemQty       `json:"items"`
	Total   decimal.Decimal `json:"total"`
}

type CheckoutFailedPayload struct {
	UserID int64     `json:"user_id"`
	Items  []ItemQty `json:"items"`
	Reason string    `json:"reason"`
}
