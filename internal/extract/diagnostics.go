package extract

import "log/slog"

// EventKind identifies why an extractor passed over a piece of input.
type EventKind string

const (
	// EventNoiseSkipped marks a line dropped by a noise keyword.
	EventNoiseSkipped EventKind = "noise_skipped"
	// EventLineUnmatched marks a line that fit no transaction grammar.
	EventLineUnmatched EventKind = "line_unmatched"
	// EventBadNumber marks a matched line with an unparseable amount or date.
	EventBadNumber EventKind = "bad_number"
	// EventRowSkipped marks a structured row dropped for a per-row reason.
	EventRowSkipped EventKind = "row_skipped"
	// EventDirectionDefaulted marks the first balance-diff line, whose
	// direction is assumed to be a credit for lack of a previous balance.
	EventDirectionDefaulted EventKind = "first_line_direction_defaulted"
)

// Event is a single recoverable extraction observation.
type Event struct {
	Kind   EventKind
	Line   string
	Detail string
}

// Sink receives extraction diagnostics.
type Sink interface {
	Emit(e Event)
}

// logSink is the default sink; events land in the debug log.
type logSink struct{}

func (logSink) Emit(e Event) {
	slog.Debug("extraction diagnostic",
		"kind", string(e.Kind),
		"line", e.Line,
		"detail", e.Detail,
	)
}

// Recorder collects events for inspection. Not safe for concurrent use;
// attach one recorder per document.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Emit(e Event) {
	r.Events = append(r.Events, e)
}

// Count reports how many recorded events have the given kind.
func (r *Recorder) Count(kind EventKind) int {
	n := 0
	for _, e := range r.Events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
