package models

import "time"

// AnalysisResult is the body returned for a successful upload.
// EstimatedCalories is the model's reply, unparsed.
type AnalysisResult struct {
	EstimatedCalories string `json:"estimatedCalories"`
	Filename          string `json:"filename"`
	Timestamp         int64  `json:"timestamp"`
}

// NewAnalysisResult stamps the result with the completion time in unix milliseconds.
func NewAnalysisResult(text, filename string, completedAt time.Time) *AnalysisResult {
	return &AnalysisResult{
		EstimatedCalories: text,
		Filename:          filename,
		Timestamp:         completedAt.UnixMilli(),
	}
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// ISOTimestamp is RFC 3339 with millisecond precision; used with UTC times.
const ISOTimestamp = "2006-01-02T15:04:05.000Z07:00"

// NewHealthStatus reports healthy at now, rendered in UTC.
func NewHealthStatus(now time.Time) HealthStatus {
	return HealthStatus{Status: "healthy", Timestamp: now.UTC().Format(ISOTimestamp)}
}
