// Package events publishes ledger mutation events to a message broker.
package events

import (
	"encoding/json"
	"strings"
	"time"
)

// Event describes a completed mutation of a ledger entity.
type Event struct {
	UserID       string         `json:"userId"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resourceType"`
	ResourceID   string         `json:"resourceId,omitempty"`
	Changes      map[string]any `json:"changes,omitempty"`
	OccurredAt   time.Time      `json:"occurredAt"`
}

// RoutingKey returns the topic routing key, e.g. "ledger.transaction.bulk_delete".
func (e Event) RoutingKey() string {
	return strings.ToLower("ledger." + e.ResourceType + "." + e.Action)
}

// ToJSON serializes the event body.
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EventFromJSON parses an event body.
func EventFromJSON(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
