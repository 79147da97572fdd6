package shop

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Statuses in workflow order.
var Statuses = []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

// validNext only decides which admin actions are offered; the remote API has
// the final word on every status change.
var validNext = map[Status]map[Status]bool{
	StatusPending:    {StatusProcessing: true, StatusShipped: true, StatusDelivered: true, StatusCancelled: true},
	StatusProcessing: {StatusShipped: true, StatusDelivered: true, StatusCancelled: true},
	StatusShipped:    {StatusDelivered: true, StatusCancelled: true},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

func (s Status) Valid() bool {
	_, ok := validNext[s]
	return ok
}

func (s Status) Terminal() bool {
	next, ok := validNext[s]
	return ok && len(next) == 0
}

// NextStatus is the next step of the happy path, "" when there is none.
func NextStatus(s Status) Status {
	switch s {
	case StatusPending:
		return StatusProcessing
	case StatusProcessing:
		return StatusShipped
	case StatusShipped:
		return StatusDelivered
	default:
		return ""
	}
}

func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusProcessing:
		return "Processing"
	case StatusShipped:
		return "Shipped"
	case StatusDelivered:
		return "Delivered"
	case StatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// NextActionLabel is the caption of the "advance" button for an order in s.
func NextActionLabel(s Status) string {
	switch s {
	case StatusPending:
		return "Process Order"
	case StatusProcessing:
		return "Mark as Shipped"
	case StatusShipped:
		return "Mark as Delivered"
	default:
		return "Update Status"
	}
}
