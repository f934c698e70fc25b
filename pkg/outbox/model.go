package outbox

import "time"

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusSent       Status = "sent"
	StatusFailed     Status = "failed"
)

// Event is a row in the transactional outbox. Order lifecycle transitions
// append one inside the same transaction that persists the aggregate.
type Event struct {
	ID            int64
	AggregateType string
	AggregateID   string
	Type          string
	Payload       []byte
	Traceparent   string
	CreatedAt     time.Time
	Status        Status
	RelayID       string
	RetryCount    int
	LastError     *string
}
