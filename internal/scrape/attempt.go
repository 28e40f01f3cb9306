package scrape

import "context"

// Status is the outcome of a single resolver strategy.
type Status string

const (
	// StatusFound means the strategy produced a usable result.
	StatusFound Status = "found"
	// StatusNotFound is a soft failure: the source answered but had no match.
	StatusNotFound Status = "not_found"
	// StatusUnavailable is a hard failure: the source could not be queried at all.
	StatusUnavailable Status = "unavailable"
)

// Attempt records one strategy run against one source.
type Attempt struct {
	Source   string `json:"source"`
	Strategy string `json:"strategy"`
	URL      string `json:"url,omitempty"`
	Status   Status `json:"status"`
	Reason   string `json:"reason,omitempty"`
}

// Classify maps a fetch error onto an attempt status. Missing pages are soft failures,
// everything else means the source is unavailable.
func Classify(err error) Status {
	switch {
	case err == nil:
		return StatusFound
	case IsNotFound(err):
		return StatusNotFound
	default:
		return StatusUnavailable
	}
}

// AllUnavailable reports whether attempts is non-empty and every attempt hit a hard
// failure.
func AllUnavailable(attempts []Attempt) bool {
	if len(attempts) == 0 {
		return false
	}
	for _, a := range attempts {
		if a.Status != StatusUnavailable {
			return false
		}
	}
	return true
}

// Canceled reports whether the caller gave up, in which case a chain must stop instead of
// falling through to the next strategy.
func Canceled(ctx context.Context) bool {
	return ctx.Err() != nil
}
