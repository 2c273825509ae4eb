package logsearch

import (
	"time"

	json "github.com/goccy/go-json"
)

// Outcome classifies a finished request.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeNoMatch Outcome = "no_match"
	OutcomeError   Outcome = "error"
)

// Report summarises one request for the presentation layer.
type Report struct {
	RequestID string        `json:"request_id"`
	Date      string        `json:"date"`
	Source    string        `json:"source"`
	Output    string        `json:"output,omitempty"` // empty unless records were written
	Strategy  string        `json:"strategy,omitempty"`
	Outcome   Outcome       `json:"outcome"`
	Bytes     int64         `json:"bytes"`
	Records   int64         `json:"records"`
	Digest    string        `json:"digest,omitempty"`
	Elapsed   time.Duration `json:"-"`
	Err       string        `json:"error,omitempty"`
}

// MarshalJSON renders Elapsed as a duration string.
func (r *Report) MarshalJSON() ([]byte, error) {
	type report Report
	return json.Marshal(struct {
		*report
		Elapsed string `json:"elapsed"`
	}{(*report)(r), r.Elapsed.String()})
}
