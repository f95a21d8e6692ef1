package testcalls

import "time"

// Config holds configuration for the call test
type Config struct {
	BaseURL    string        // Base URL of the service
	NumCalls   int           // Number of calls to generate
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Output file for submitted calls
	LogFile    string        // Log file for test output
	Verbose    bool          // Enable verbose logging
}

// Call represents one synthetic call submission
type Call struct {
	Scenario string `json:"scenario"`
	Phrase   string `json:"phrase"`
	Audio    []byte `json:"-"`
}

// Event mirrors the service response for a processed call
type Event struct {
	ID         string    `json:"id"`
	Transcript string    `json:"transcript"`
	Category   string    `json:"category"`
	Severity   int       `json:"severity"`
	ReplyText  string    `json:"reply_text"`
	CreatedAt  time.Time `json:"created_at"`
}

// EventsResponse mirrors GET /v1/events
type EventsResponse struct {
	Events []Event `json:"events"`
	Count  int     `json:"count"`
}

// Stats holds test statistics
type Stats struct {
	CallsGenerated  int
	CallsSubmitted  int
	CallsSuccessful int
	CallsFailed     int
	EventsStored    int
	EventsObserved  int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
