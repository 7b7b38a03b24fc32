// Package queue defines message payloads exchanged over the message broker
// and the background consumer that turns them into the audit log.
package queue

// CatalogChangedEvent is published whenever an admin creates, updates or
// deletes a category or product. It carries enough for downstream consumers
// to audit or trigger analytics without querying the primary database.
type CatalogChangedEvent struct {
	Entity     string `json:"entity"` // "category" | "product"
	Action     string `json:"action"` // "created" | "updated" | "deleted"
	EntityID   uint64 `json:"entity_id"`
	EntityName string `json:"entity_name"`
	ActorID    uint64 `json:"actor_id"`
	ActorEmail string `json:"actor_email"`
	OccurredAt string `json:"occurred_at"`
}

// Event actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Event entities.
const (
	EntityCategory = "category"
	EntityProduct  = "product"
)
