package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTMXResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		Status(http.StatusCreated).
		BodyHTML("<p>ok</p>").
		Header("X-Test", "1").
		Write(w)

	if w.Code != http.StatusCreated {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusCreated)
	}
	if w.Body.String() != "<p>ok</p>" {
		t.Errorf("Body = %q", w.Body.String())
	}
	if w.Header().Get("Content-Type") != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", w.Header().Get("Content-Type"))
	}
	if w.Header().Get("X-Test") != "1" {
		t.Error("custom header missing")
	}
	if w.Header().Get("HX-Trigger") != "" {
		t.Error("HX-Trigger set without triggers")
	}
}

func TestHTMXResponseBuilder_Triggers(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		TriggerSuccessNotification("Employee added successfully!").
		TriggerModalClose().
		TriggerEmployeesChanged().
		Write(w)

	var triggers map[string]json.RawMessage
	if err := json.Unmarshal([]byte(w.Header().Get("HX-Trigger")), &triggers); err != nil {
		t.Fatalf("HX-Trigger is not JSON: %v", err)
	}
	for _, name := range []string{EventNotification, EventModalClose, EventEmployeesChanged} {
		if _, ok := triggers[name]; !ok {
			t.Errorf("trigger %q missing", name)
		}
	}

	var note struct {
		Type     string `json:"type"`
		Message  string `json:"message"`
		Duration int    `json:"duration"`
	}
	if err := json.Unmarshal(triggers[EventNotification], &note); err != nil {
		t.Fatal(err)
	}
	if note.Type != "success" || note.Message != "Employee added successfully!" || note.Duration != AlertDuration {
		t.Errorf("unexpected notification %+v", note)
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name    string
		builder *HTMXResponseBuilder
		status  int
	}{
		{"bad request", BadRequestError("bad <input>"), http.StatusBadRequest},
		{"unprocessable", UnprocessableEntityError("bad <input>"), http.StatusUnprocessableEntity},
		{"bad gateway", BadGatewayError("bad <input>"), http.StatusBadGateway},
		{"not found", NotFoundError("bad <input>"), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.builder.Write(w)

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			if !strings.Contains(w.Body.String(), "bad &lt;input&gt;") {
				t.Errorf("message not escaped: %q", w.Body.String())
			}
			trigger := w.Header().Get("HX-Trigger")
			if !strings.Contains(trigger, `"type":"error"`) || !strings.Contains(trigger, `"duration":5000`) {
				t.Errorf("error alert missing: %q", trigger)
			}
		})
	}
}
