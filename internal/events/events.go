package events

import "time"

// DetailProgressEvent is sent before the details of one event are fetched.
type DetailProgressEvent struct {
	Index int    // 1-based position of the event in the run
	Total int    // Number of events discovered by the harvester
	Name  string // Event name as shown on the calendar
}

// RunCompleteEvent is sent when a run finishes, successfully or not.
type RunCompleteEvent struct {
	RunID      string        // Run identifier attached to log lines
	EventCount int           // Number of enriched events returned
	LoggedIn   bool          // False if the run aborted at login
	Duration   time.Duration // Wall time of the run
}
