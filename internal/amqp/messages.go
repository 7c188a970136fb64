package amqp

import (
	"encoding/json"
	"time"
)

const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// ChangeMessage announces that a collection changed. It carries only the
// collection key, the operation and the entity id; consumers re-read the
// collection from the store rather than trusting a payload snapshot.
type ChangeMessage struct {
	Key       string    `json:"key"`
	Op        string    `json:"op"`
	EntityID  string    `json:"entityId"`
	Timestamp time.Time `json:"timestamp"`
}

// NewChangeMessage creates a change message stamped with the current time.
func NewChangeMessage(key, op, entityID string) *ChangeMessage {
	return &ChangeMessage{
		Key:       key,
		Op:        op,
		EntityID:  entityID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON creates a message from JSON bytes.
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
