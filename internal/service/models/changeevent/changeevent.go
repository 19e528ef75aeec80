package changeevent

import "time"

// Collection names a document collection that emits change events.
type Collection string

const (
	CollectionProducts Collection = "products"
)

// Event tells subscribers that a collection changed. Subscribers reload the
// whole collection, so the event carries no document body.
type Event struct {
	ID         string     `json:"id"`
	Collection Collection `json:"collection"`
	DocumentID string     `json:"document_id"`
	OccurredAt time.Time  `json:"occurred_at"`
}
