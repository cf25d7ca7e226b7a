package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestAnalysisResultJSON(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 6_000_000, time.UTC)
	data, err := json.Marshal(NewAnalysisResult("Apple, 95 kcal", "apple.jpg", at))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"estimatedCalories":"Apple, 95 kcal","filename":"apple.jpg","timestamp":1767323045006}`
	if string(data) != want {
		t.Fatalf("unexpected json\nwant %s\ngot  %s", want, data)
	}
}

func TestErrorResponseOmitsEmptyMessage(t *testing.T) {
	data, err := json.Marshal(ErrorResponse{Error: "File too large"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"error":"File too large"}` {
		t.Fatalf("unexpected json %s", data)
	}
}

func TestHealthStatusUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	status := NewHealthStatus(time.Date(2026, 5, 1, 10, 0, 0, 0, loc))
	if status.Status != "healthy" {
		t.Fatalf("unexpected status %s", status.Status)
	}
	if status.Timestamp != "2026-05-01T08:00:00.000Z" {
		t.Fatalf("unexpected timestamp %s", status.Timestamp)
	}
}
