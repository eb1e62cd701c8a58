package session

import "time"

type EventType string

const (
	EventLogin   EventType = "login"
	EventRefresh EventType = "refresh"
)

type Event struct {
	Type        EventType `json:"type"`
	SubjectID   uint32    `json:"subject_id"`
	SubjectName string    `json:"subject_name"`
	RequestID   string    `json:"request_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
