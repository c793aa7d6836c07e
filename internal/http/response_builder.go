// Package http provides the HTTP server and handler implementations.
//
// This file implements a small builder for HTMX responses: HX-Trigger
// headers plus consistent notification fragments.

package http

import (
	"encoding/json"
	"html/template"
	"net/http"
)

// HTMXResponseBuilder provides a fluent API for building HTMX responses.
type HTMXResponseBuilder struct {
	triggers   map[string]interface{}
	statusCode int
	body       []byte
}

// NewHTMXResponse creates a new response builder with default 200 status.
func NewHTMXResponse() *HTMXResponseBuilder {
	return &HTMXResponseBuilder{
		triggers:   make(map[string]interface{}),
		statusCode: http.StatusOK,
	}
}

// Status sets the HTTP status code for the response.
func (b *HTMXResponseBuilder) Status(code int) *HTMXResponseBuilder {
	b.statusCode = code
	return b
}

// Trigger adds a named trigger with optional data to the HX-Trigger header.
func (b *HTMXResponseBuilder) Trigger(name string, data interface{}) *HTMXResponseBuilder {
	b.triggers[name] = data
	return b
}

// TriggerTimetableSaved signals that a period's timetable changed.
func (b *HTMXResponseBuilder) TriggerTimetableSaved(month, year int) *HTMXResponseBuilder {
	return b.Trigger("timetable:saved", map[string]int{"month": month, "year": year})
}

// TriggerContactSaved signals that the contact record changed.
func (b *HTMXResponseBuilder) TriggerContactSaved() *HTMXResponseBuilder {
	return b.Trigger("contact:saved", struct{}{})
}

// Success sets a success notification fragment as the body.
func (b *HTMXResponseBuilder) Success(message string) *HTMXResponseBuilder {
	b.body = []byte(`<div class="success">` + template.HTMLEscapeString(message) + `</div>`)
	return b
}

// Error sets an error notification fragment as the body.
func (b *HTMXResponseBuilder) Error(message string) *HTMXResponseBuilder {
	b.body = []byte(`<div class="error">` + template.HTMLEscapeString(message) + `</div>`)
	return b
}

// Body sets a raw pre-rendered body.
func (b *HTMXResponseBuilder) Body(body []byte) *HTMXResponseBuilder {
	b.body = body
	return b
}

// Write emits headers, triggers, status, and body to the response writer.
func (b *HTMXResponseBuilder) Write(w http.ResponseWriter) {
	if len(b.triggers) > 0 {
		if payload, err := json.Marshal(b.triggers); err == nil {
			w.Header().Set("HX-Trigger", string(payload))
		}
	}
	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}
