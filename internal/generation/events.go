package generation

// EventKind discriminates the progress stream payloads.
type EventKind string

const (
	EventProgress EventKind = "progress"
	EventComplete EventKind = "complete"
	EventError    EventKind = "error"
)

// Event is one element of the single-pass progress stream. A run emits
// zero or more progress events followed by exactly one terminal event
// (complete or error); nothing follows the terminal event.
type Event struct {
	Kind     EventKind
	Progress *Progress
	Result   *Result
	Message  string
}

// Progress reports enrichment advancement: Found counts candidates
// matched so far that would survive the active rating filter, capped at
// Needed; Needed is the originally requested count.
type Progress struct {
	Found  int `json:"found"`
	Needed int `json:"needed"`
}

func progressEvent(found, needed int) Event {
	return Event{Kind: EventProgress, Progress: &Progress{Found: found, Needed: needed}}
}

func completeEvent(result Result) Event {
	return Event{Kind: EventComplete, Result: &result}
}

func errorEvent(message string) Event {
	return Event{Kind: EventError, Message: message}
}
