package amqp

import (
	"encoding/json"
	"time"

	"cra/internal/core"
)

// ReportSavedMessage announces that a period's timetable was persisted.
// It carries only the period; the worker re-reads the full record from
// storage, so a burst of edits collapses into idempotent exports.
type ReportSavedMessage struct {
	Key       string    `json:"key"`
	Month     int       `json:"month"`
	Year      int       `json:"year"`
	Timestamp time.Time `json:"timestamp"`
}

// NewReportSavedMessage builds the message for a period.
func NewReportSavedMessage(p core.Period) *ReportSavedMessage {
	return &ReportSavedMessage{
		Key:       p.Key(),
		Month:     p.Month,
		Year:      p.Year,
		Timestamp: time.Now(),
	}
}

// Period returns the period the message refers to.
func (m *ReportSavedMessage) Period() core.Period {
	return core.Period{Month: m.Month, Year: m.Year}
}

// ToJSON converts the message to JSON bytes.
func (m *ReportSavedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportSavedMessageFromJSON creates a message from JSON bytes.
func ReportSavedMessageFromJSON(data []byte) (*ReportSavedMessage, error) {
	var msg ReportSavedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
