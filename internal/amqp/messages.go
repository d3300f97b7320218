package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Action is the kind of change applied to an employee record.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// EmployeeChangedMessage announces a successful mutation made from the dashboard.
// It carries only identifiers; consumers fetch current data from the API.
type EmployeeChangedMessage struct {
	Action     Action    `json:"action"`
	EmployeeID int64     `json:"employee_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewEmployeeChangedMessage creates a message stamped with the current time.
func NewEmployeeChangedMessage(action Action, employeeID int64) *EmployeeChangedMessage {
	return &EmployeeChangedMessage{
		Action:     action,
		EmployeeID: employeeID,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *EmployeeChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EmployeeChangedMessageFromJSON creates a message from JSON bytes
func EmployeeChangedMessageFromJSON(data []byte) (*EmployeeChangedMessage, error) {
	var msg EmployeeChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	switch msg.Action {
	case ActionCreated, ActionUpdated, ActionDeleted:
	default:
		return nil, fmt.Errorf("unknown action %q", msg.Action)
	}
	return &msg, nil
}
