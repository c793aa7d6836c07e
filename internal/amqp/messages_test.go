package amqp

import (
	"testing"
	"time"

	"cra/internal/core"
)

func TestReportSavedMessageRoundTrip(t *testing.T) {
	p := core.Period{Month: 2, Year: 2024}
	msg := NewReportSavedMessage(p)
	if msg.Key != "tt-2-2024" {
		t.Fatalf("key = %q", msg.Key)
	}
	if msg.Timestamp.IsZero() || time.Since(msg.Timestamp) > time.Minute {
		t.Fatalf("timestamp not set: %v", msg.Timestamp)
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := ReportSavedMessageFromJSON(body)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Period() != p {
		t.Fatalf("period round trip: %+v", decoded.Period())
	}
}

func TestReportSavedMessageFromJSONInvalid(t *testing.T) {
	if _, err := ReportSavedMessageFromJSON([]byte("{nope")); err == nil {
		t.Fatal("expected decode error")
	}
}
